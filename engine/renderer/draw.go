package renderer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

type DrawKind uint8

const (
	DrawMesh DrawKind = iota
	DrawSprite
	DrawCircle
	DrawText
	DrawParticle
	DrawUI
	DrawSkybox
	/** @brief Only the border of Bounds is written. */
	DrawOutline
	/** @brief Fills the whole bound target. */
	DrawFullscreen
)

/**
 * @brief A single queued draw. Bounds is the screen space footprint the
 * backend rasterises; Model and ViewProj are carried for backends that
 * shade real geometry.
 */
type DrawCommand struct {
	Kind     DrawKind
	EntityID int32
	Model    mgl32.Mat4
	ViewProj mgl32.Mat4
	Bounds   image.Rectangle
	Colour   mgl32.Vec4
	Additive bool
	Material string
	Text     string
}
