package math

import (
	"image"
	mt "math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// ScreenBounds projects the axis aligned cube of half size `extent` around
// `center` with `viewProj` and returns its pixel footprint inside a
// width x height viewport (origin top-left). Corners behind the camera are
// ignored; an empty rectangle means nothing is visible.
func ScreenBounds(viewProj mgl32.Mat4, center mgl32.Vec3, extent float32, width, height int) image.Rectangle {
	minX, minY := float32(mt.MaxFloat32), float32(mt.MaxFloat32)
	maxX, maxY := float32(-mt.MaxFloat32), float32(-mt.MaxFloat32)
	visible := false

	for i := 0; i < 8; i++ {
		corner := center
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				corner[axis] += extent
			} else {
				corner[axis] -= extent
			}
		}
		clip := viewProj.Mul4x1(corner.Vec4(1))
		if clip.W() <= 0 {
			continue
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		x := (ndc.X() + 1) * 0.5 * float32(width)
		y := (1 - ndc.Y()) * 0.5 * float32(height)
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
		visible = true
	}
	if !visible {
		return image.Rectangle{}
	}

	r := image.Rect(
		int(mt.Floor(float64(minX))),
		int(mt.Floor(float64(minY))),
		int(mt.Ceil(float64(maxX))),
		int(mt.Ceil(float64(maxY))),
	)
	return r.Intersect(image.Rect(0, 0, width, height))
}

// ProjectPoint maps a world position to pixel coordinates in a width x height
// viewport. It reports false for points behind the camera.
func ProjectPoint(viewProj mgl32.Mat4, p mgl32.Vec3, width, height int) (image.Point, bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return image.Point{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x := (ndc.X() + 1) * 0.5 * float32(width)
	y := (1 - ndc.Y()) * 0.5 * float32(height)
	return image.Pt(int(mt.Floor(float64(x))), int(mt.Floor(float64(y)))), true
}
