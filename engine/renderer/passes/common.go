// Package passes holds the built-in render passes and the factory table the
// render graph builds them from.
package passes

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/framegraph/engine/math"
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

// Names of the global resources the engine registers.
const (
	GlobalCamera           = "Camera"
	GlobalRenderTarget     = "RenderTarget"
	GlobalGBuffer          = "GBuffer"
	GlobalPixelBuffer      = "PixelBuffer"
	GlobalMousePosition    = "MousePosition"
	GlobalPickedEntity     = "PickedEntity"
	GlobalSelectedEntities = "SelectedEntities"
	GlobalEditorMode       = "EditorMode"
)

// Sink names shared by several passes.
const (
	SinkTarget       = "target"
	SinkCamera       = "camera"
	SinkGBuffer      = "gbuffer"
	SinkSource       = "source"
	SinkShadowMap    = "shadowMap"
	SinkMouse        = "mouse"
	SinkPickedEntity = "pickedEntity"
	SinkPixels       = "pixels"
	SinkSelection    = "selection"
	SinkEditorMode   = "editorMode"
)

const (
	ShaderRenderer3D = "Renderer3D"
	ShaderDeferred   = "Renderer3D_DeferredLighting"
	ShaderRenderer2D = "Renderer2D"
	ShaderShadow     = "ShadowMap"
	ShaderHighlight  = "Highlight"
	ShaderUI         = "UI"
	ShaderParticle   = "Particle"
	ShaderSkybox     = "Skybox"
)

// defaultExtent is the half size used for meshes that do not declare one.
const defaultExtent = 0.5

var highlightColour = mgl32.Vec4{1, 0.55, 0, 1}

// scenePass is embedded by every pass that reads the entity registry.
type scenePass struct {
	rendergraph.BasePass
	registry *scene.Registry
}

func newScenePass(ctx *rendergraph.Context, name string, registry *scene.Registry, shader string) (scenePass, error) {
	if registry == nil {
		return scenePass{}, rendergraph.ErrMissingEntityRegistry
	}
	p := scenePass{BasePass: rendergraph.NewBasePass(name), registry: registry}
	p.SetDrawTarget(SinkTarget)
	if shader != "" {
		s, err := ctx.Shaders.Acquire(shader)
		if err != nil {
			return scenePass{}, err
		}
		p.Shader = s
	}
	return p, nil
}

func newPurePass(ctx *rendergraph.Context, name string, shader string) (rendergraph.BasePass, error) {
	p := rendergraph.NewBasePass(name)
	p.SetDrawTarget(SinkTarget)
	if shader != "" {
		s, err := ctx.Shaders.Acquire(shader)
		if err != nil {
			return p, err
		}
		p.Shader = s
	}
	return p, nil
}

// targetSink returns the render target behind a render target or geometry
// buffer sink.
func targetSink(p rendergraph.Pass, name string) (*renderer.RenderTarget, error) {
	s, ok := p.Sink(name)
	if !ok || !s.Resolved() {
		return nil, fmt.Errorf("pass %s: sink %s is not resolved", p.Name(), name)
	}
	switch r := s.Resource().(type) {
	case *rendergraph.RenderTargetResource:
		return r.Target, nil
	case *rendergraph.GBufferResource:
		return r.Target, nil
	default:
		return nil, fmt.Errorf("pass %s: sink %s holds a %s, not a render target", p.Name(), name, r.Kind())
	}
}

func cameraSink(p rendergraph.Pass) (*rendergraph.CameraResource, error) {
	c, ok := rendergraph.SinkAs[*rendergraph.CameraResource](p, SinkCamera)
	if !ok {
		return nil, errNotKind(p, SinkCamera, rendergraph.ResourceCamera)
	}
	return c, nil
}

func errNotKind(p rendergraph.Pass, sink string, kind rendergraph.ResourceKind) error {
	return fmt.Errorf("pass %s: sink %s is not a %s", p.Name(), sink, kind)
}

// editorModeEnabled is true when the optional editor mode sink is missing or
// set.
func editorModeEnabled(p rendergraph.Pass) bool {
	if _, linked := p.Sink(SinkEditorMode); !linked {
		return true
	}
	mode, ok := rendergraph.SinkAs[*rendergraph.BoolResource](p, SinkEditorMode)
	return ok && mode.Value()
}

// footprint is the pixel rectangle covered by a cube of half size extent
// placed by t.
func footprint(viewProj mgl32.Mat4, t scene.Transform, extent float32, target *renderer.RenderTarget) image.Rectangle {
	return math.ScreenBounds(viewProj, t.Position, extent*t.MaxScale(), int(target.Width), int(target.Height))
}

func meshExtent(m *scene.MeshRenderer) float32 {
	if m != nil && m.Extent > 0 {
		return m.Extent
	}
	return defaultExtent
}

func entityID(e scene.Entity) int32 {
	return int32(e)
}
