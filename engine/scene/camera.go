package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

/**
 * @brief A free look camera owned by the editor viewport rather than the
 * scene. Position and target are set directly; the view matrix is rebuilt
 * lazily when either changes.
 */
type EditorCamera struct {
	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3
	isDirty  bool
	view     mgl32.Mat4

	FOV            float32
	NearClip       float32
	FarClip        float32
	ViewportWidth  uint32
	ViewportHeight uint32
}

func NewEditorCamera(width, height uint32) *EditorCamera {
	c := &EditorCamera{
		ViewportWidth:  width,
		ViewportHeight: height,
	}
	c.Reset()
	return c
}

func (c *EditorCamera) Reset() {
	c.position = mgl32.Vec3{0, 0, 10}
	c.target = mgl32.Vec3{}
	c.up = mgl32.Vec3{0, 1, 0}
	c.FOV = mgl32.DegToRad(45.0)
	c.NearClip = 0.1
	c.FarClip = 1000.0
	c.isDirty = true
}

func (c *EditorCamera) Position() mgl32.Vec3 {
	return c.position
}

func (c *EditorCamera) SetPosition(position mgl32.Vec3) {
	c.position = position
	c.isDirty = true
}

func (c *EditorCamera) Target() mgl32.Vec3 {
	return c.target
}

func (c *EditorCamera) SetTarget(target mgl32.Vec3) {
	c.target = target
	c.isDirty = true
}

func (c *EditorCamera) SetViewport(width, height uint32) {
	c.ViewportWidth = width
	c.ViewportHeight = height
}

func (c *EditorCamera) AspectRatio() float32 {
	if c.ViewportHeight == 0 {
		return 1
	}
	return float32(c.ViewportWidth) / float32(c.ViewportHeight)
}

func (c *EditorCamera) View() mgl32.Mat4 {
	if c.isDirty {
		c.view = mgl32.LookAtV(c.position, c.target, c.up)
		c.isDirty = false
	}
	return c.view
}

func (c *EditorCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, c.AspectRatio(), c.NearClip, c.FarClip)
}

func (c *EditorCamera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// PrimaryCamera returns the first scene camera flagged primary, or the first
// camera at all when none is.
func PrimaryCamera(r *Registry) (Entity, *Camera, *Transform, bool) {
	var (
		found     Entity
		camera    *Camera
		transform *Transform
	)
	Each2(r, func(e Entity, c *Camera, t *Transform) {
		if camera == nil || (c.Primary && !camera.Primary) {
			found, camera, transform = e, c, t
		}
	})
	return found, camera, transform, camera != nil
}
