package scene

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

/**
 * @brief Represents the transform of an entity in the world.
 */
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform(position mgl32.Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translation.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

// MaxScale is the largest axis of the scale, used to size screen footprints.
func (t Transform) MaxScale() float32 {
	return max(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
}

type MeshRenderer struct {
	Mesh        string
	Material    string
	Colour      mgl32.Vec4
	Extent      float32
	CastShadows bool
}

type LightKind uint8

const (
	LightKindDirectional LightKind = iota
	LightKindPoint
	LightKindSpot
)

type Light struct {
	Kind        LightKind
	Colour      mgl32.Vec3
	Intensity   float32
	Direction   mgl32.Vec3
	CastShadows bool
}

type SpriteRenderer struct {
	Colour mgl32.Vec4
	Size   mgl32.Vec2
}

type CircleRenderer struct {
	Colour    mgl32.Vec4
	Radius    float32
	Thickness float32
	Fade      float32
}

type Text struct {
	Value  string
	Font   string
	Colour mgl32.Vec4
	Size   float32
}

// UISpace selects which UI pass composites an element.
type UISpace uint8

const (
	UISpaceScreen UISpace = iota
	UISpaceWorld
	UISpaceEditor
)

type UIElement struct {
	Space UISpace
	// Rect is in pixels for screen and editor elements; world elements are
	// centred on the entity transform and Rect only provides the size.
	Rect   image.Rectangle
	Colour mgl32.Vec4
	Layer  int
}

// Particle positions are produced by the external simulation before the frame.
type Particle struct {
	Position mgl32.Vec3
	Size     float32
	Colour   mgl32.Vec4
}

type ParticleEmitter struct {
	Particles []Particle
	Additive  bool
}

type Highlighted struct {
	Colour mgl32.Vec4
}

type Camera struct {
	FOV     float32
	Near    float32
	Far     float32
	Primary bool
}

// Projection returns the perspective projection for the given aspect ratio.
func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
}

type Skybox struct {
	Cubemap string
	Tint    mgl32.Vec4
}
