package rendergraph

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

type ResourceKind uint8

const (
	ResourceBool ResourceKind = iota
	ResourceInt
	ResourceVec2Int
	ResourceIntList
	ResourceRenderTarget
	ResourceGBuffer
	ResourcePixelBuffer
	ResourceTexture
	ResourceUniformBuffer
	ResourceCamera
)

var resourceKindNames = [...]string{
	ResourceBool:          "bool",
	ResourceInt:           "int",
	ResourceVec2Int:       "vec2int",
	ResourceIntList:       "int_list",
	ResourceRenderTarget:  "render_target",
	ResourceGBuffer:       "gbuffer",
	ResourcePixelBuffer:   "pixel_buffer",
	ResourceTexture:       "texture",
	ResourceUniformBuffer: "uniform_buffer",
	ResourceCamera:        "camera",
}

func (k ResourceKind) String() string {
	if int(k) < len(resourceKindNames) {
		return resourceKindNames[k]
	}
	return fmt.Sprintf("resource(%d)", k)
}

// Resource is a named handle sinks resolve to. The set of implementations is
// closed: every kind lives in this file.
type Resource interface {
	ID() uuid.UUID
	Name() string
	Kind() ResourceKind
	// Bind and Unbind are no-ops when the resource already is in that state.
	Bind(ctx *Context) error
	Unbind(ctx *Context) error
	IsBound() bool

	resource()
}

type source struct {
	id    uuid.UUID
	name  string
	bound bool
}

func newSource(name string) source {
	return source{id: uuid.New(), name: name}
}

func (s *source) ID() uuid.UUID { return s.id }
func (s *source) Name() string  { return s.name }
func (s *source) IsBound() bool { return s.bound }
func (s *source) resource()     {}

// markBound only flips the state, for kinds with nothing to acquire.
func (s *source) markBound(bound bool) {
	s.bound = bound
}

// BoolResource reads and writes through to a flag owned by someone else.
type BoolResource struct {
	source
	ref *bool
}

func NewBoolResource(name string, ref *bool) *BoolResource {
	if ref == nil {
		ref = new(bool)
	}
	return &BoolResource{source: newSource(name), ref: ref}
}

func (r *BoolResource) Kind() ResourceKind        { return ResourceBool }
func (r *BoolResource) Value() bool               { return *r.ref }
func (r *BoolResource) Set(v bool)                { *r.ref = v }
func (r *BoolResource) Bind(ctx *Context) error   { r.markBound(true); return nil }
func (r *BoolResource) Unbind(ctx *Context) error { r.markBound(false); return nil }

// IntResource is a reference: passes writing to it (object picking) update
// the owner's variable.
type IntResource struct {
	source
	ref *int
}

func NewIntResource(name string, ref *int) *IntResource {
	if ref == nil {
		ref = new(int)
	}
	return &IntResource{source: newSource(name), ref: ref}
}

func (r *IntResource) Kind() ResourceKind        { return ResourceInt }
func (r *IntResource) Value() int                { return *r.ref }
func (r *IntResource) Set(v int)                 { *r.ref = v }
func (r *IntResource) Bind(ctx *Context) error   { r.markBound(true); return nil }
func (r *IntResource) Unbind(ctx *Context) error { r.markBound(false); return nil }

type Vec2IntResource struct {
	source
	ref *image.Point
}

func NewVec2IntResource(name string, ref *image.Point) *Vec2IntResource {
	if ref == nil {
		ref = new(image.Point)
	}
	return &Vec2IntResource{source: newSource(name), ref: ref}
}

func (r *Vec2IntResource) Kind() ResourceKind        { return ResourceVec2Int }
func (r *Vec2IntResource) Value() image.Point        { return *r.ref }
func (r *Vec2IntResource) Set(v image.Point)         { *r.ref = v }
func (r *Vec2IntResource) Bind(ctx *Context) error   { r.markBound(true); return nil }
func (r *Vec2IntResource) Unbind(ctx *Context) error { r.markBound(false); return nil }

type IntListResource struct {
	source
	ref *[]int
}

func NewIntListResource(name string, ref *[]int) *IntListResource {
	if ref == nil {
		ref = new([]int)
	}
	return &IntListResource{source: newSource(name), ref: ref}
}

func (r *IntListResource) Kind() ResourceKind        { return ResourceIntList }
func (r *IntListResource) Value() []int              { return *r.ref }
func (r *IntListResource) Set(v []int)               { *r.ref = v }
func (r *IntListResource) Bind(ctx *Context) error   { r.markBound(true); return nil }
func (r *IntListResource) Unbind(ctx *Context) error { r.markBound(false); return nil }

// targetSource is shared by the render target and geometry buffer kinds.
type targetSource struct {
	source
	Target *renderer.RenderTarget
}

func (r *targetSource) Width() uint32  { return r.Target.Width }
func (r *targetSource) Height() uint32 { return r.Target.Height }

func (r *targetSource) Bind(ctx *Context) error {
	if r.bound {
		return nil
	}
	if ctx == nil || ctx.Backend == nil {
		return ErrNoBackend
	}
	if err := ctx.Backend.RenderTargetBind(r.Target); err != nil {
		return fmt.Errorf("failed to bind %s: %w", r.name, err)
	}
	r.bound = true
	return nil
}

func (r *targetSource) Unbind(ctx *Context) error {
	if !r.bound {
		return nil
	}
	if ctx == nil || ctx.Backend == nil {
		return ErrNoBackend
	}
	r.bound = false
	return ctx.Backend.RenderTargetUnbind(r.Target)
}

type RenderTargetResource struct {
	targetSource
}

func NewRenderTargetResource(name string, target *renderer.RenderTarget) *RenderTargetResource {
	return &RenderTargetResource{targetSource{source: newSource(name), Target: target}}
}

func (r *RenderTargetResource) Kind() ResourceKind { return ResourceRenderTarget }

// GBufferResource is a render target laid out with renderer.GBufferAttachments.
type GBufferResource struct {
	targetSource
}

func NewGBufferResource(name string, target *renderer.RenderTarget) *GBufferResource {
	return &GBufferResource{targetSource{source: newSource(name), Target: target}}
}

func (r *GBufferResource) Kind() ResourceKind { return ResourceGBuffer }

type PixelBufferResource struct {
	source
	Buffer *renderer.PixelBuffer
}

func NewPixelBufferResource(name string, buffer *renderer.PixelBuffer) *PixelBufferResource {
	return &PixelBufferResource{source: newSource(name), Buffer: buffer}
}

func (r *PixelBufferResource) Kind() ResourceKind        { return ResourcePixelBuffer }
func (r *PixelBufferResource) Width() uint32             { return r.Buffer.Width }
func (r *PixelBufferResource) Height() uint32            { return r.Buffer.Height }
func (r *PixelBufferResource) Bind(ctx *Context) error   { r.markBound(true); return nil }
func (r *PixelBufferResource) Unbind(ctx *Context) error { r.markBound(false); return nil }

type TextureResource struct {
	source
	Texture *renderer.Texture
	Slot    uint32
}

func NewTextureResource(name string, texture *renderer.Texture, slot uint32) *TextureResource {
	return &TextureResource{source: newSource(name), Texture: texture, Slot: slot}
}

func (r *TextureResource) Kind() ResourceKind { return ResourceTexture }

func (r *TextureResource) Bind(ctx *Context) error {
	if r.bound {
		return nil
	}
	if ctx == nil || ctx.Backend == nil {
		return ErrNoBackend
	}
	if err := ctx.Backend.TextureBind(r.Texture, r.Slot); err != nil {
		return fmt.Errorf("failed to bind %s: %w", r.name, err)
	}
	r.bound = true
	return nil
}

func (r *TextureResource) Unbind(ctx *Context) error {
	if !r.bound {
		return nil
	}
	if ctx == nil || ctx.Backend == nil {
		return ErrNoBackend
	}
	ctx.Backend.TextureUnbind(r.Texture)
	r.bound = false
	return nil
}

type UniformBufferResource struct {
	source
	Buffer *renderer.UniformBuffer
}

func NewUniformBufferResource(name string, buffer *renderer.UniformBuffer) *UniformBufferResource {
	return &UniformBufferResource{source: newSource(name), Buffer: buffer}
}

func (r *UniformBufferResource) Kind() ResourceKind { return ResourceUniformBuffer }

func (r *UniformBufferResource) Bind(ctx *Context) error {
	if r.bound {
		return nil
	}
	if ctx == nil || ctx.Backend == nil {
		return ErrNoBackend
	}
	if err := ctx.Backend.UniformBufferBind(r.Buffer); err != nil {
		return fmt.Errorf("failed to bind %s: %w", r.name, err)
	}
	r.bound = true
	return nil
}

func (r *UniformBufferResource) Unbind(ctx *Context) error {
	if !r.bound {
		return nil
	}
	if ctx == nil || ctx.Backend == nil {
		return ErrNoBackend
	}
	ctx.Backend.UniformBufferUnbind(r.Buffer)
	r.bound = false
	return nil
}

// CameraResource is a snapshot of a camera taken before the frame runs.
type CameraResource struct {
	source
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Position   mgl32.Vec3
}

func NewCameraResource(name string) *CameraResource {
	return &CameraResource{
		source:     newSource(name),
		View:       mgl32.Ident4(),
		Projection: mgl32.Ident4(),
	}
}

// NewEditorCameraResource snapshots the editor viewport camera.
func NewEditorCameraResource(name string, c *scene.EditorCamera) *CameraResource {
	r := NewCameraResource(name)
	r.UpdateFromEditor(c)
	return r
}

// NewSceneCameraResource snapshots a scene camera placed by its transform.
func NewSceneCameraResource(name string, c scene.Camera, t scene.Transform, aspect float32) *CameraResource {
	r := NewCameraResource(name)
	r.UpdateFromScene(c, t, aspect)
	return r
}

func (r *CameraResource) UpdateFromEditor(c *scene.EditorCamera) {
	r.View = c.View()
	r.Projection = c.Projection()
	r.Position = c.Position()
}

func (r *CameraResource) UpdateFromScene(c scene.Camera, t scene.Transform, aspect float32) {
	r.View = t.Matrix().Inv()
	r.Projection = c.Projection(aspect)
	r.Position = t.Position
}

func (r *CameraResource) ViewProjection() mgl32.Mat4 {
	return r.Projection.Mul4(r.View)
}

func (r *CameraResource) Kind() ResourceKind        { return ResourceCamera }
func (r *CameraResource) Bind(ctx *Context) error   { r.markBound(true); return nil }
func (r *CameraResource) Unbind(ctx *Context) error { r.markBound(false); return nil }

// Describe renders a resource for logs.
func Describe(r Resource) string {
	switch v := r.(type) {
	case *BoolResource:
		return fmt.Sprintf("%s(%s=%t)", v.Kind(), v.Name(), v.Value())
	case *IntResource:
		return fmt.Sprintf("%s(%s=%d)", v.Kind(), v.Name(), v.Value())
	case *Vec2IntResource:
		return fmt.Sprintf("%s(%s=%v)", v.Kind(), v.Name(), v.Value())
	case *IntListResource:
		return fmt.Sprintf("%s(%s=%v)", v.Kind(), v.Name(), v.Value())
	case *RenderTargetResource:
		return fmt.Sprintf("%s(%s %dx%d)", v.Kind(), v.Name(), v.Width(), v.Height())
	case *GBufferResource:
		return fmt.Sprintf("%s(%s %dx%d)", v.Kind(), v.Name(), v.Width(), v.Height())
	case *PixelBufferResource:
		return fmt.Sprintf("%s(%s %dx%d)", v.Kind(), v.Name(), v.Width(), v.Height())
	case *TextureResource:
		return fmt.Sprintf("%s(%s slot %d)", v.Kind(), v.Name(), v.Slot)
	case *UniformBufferResource:
		return fmt.Sprintf("%s(%s binding %d)", v.Kind(), v.Name(), v.Buffer.Binding)
	case *CameraResource:
		return fmt.Sprintf("%s(%s at %v)", v.Kind(), v.Name(), v.Position)
	case nil:
		return "<nil>"
	}
	return fmt.Sprintf("unknown(%s)", r.Name())
}

// NeedsResize reports whether a viewport sized resource no longer matches
// width x height. Kinds without a size never need resizing, and pixel buffers
// are sized by the region read back into them, not by the viewport.
func NeedsResize(r Resource, width, height uint32) bool {
	switch v := r.(type) {
	case *RenderTargetResource:
		return v.Width() != width || v.Height() != height
	case *GBufferResource:
		return v.Width() != width || v.Height() != height
	case *PixelBufferResource:
		return false
	case *BoolResource, *IntResource, *Vec2IntResource, *IntListResource,
		*TextureResource, *UniformBufferResource, *CameraResource:
		return false
	}
	return false
}
