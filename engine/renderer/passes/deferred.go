package passes

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

// Geometry fills the geometry buffer. It shares its program with Lighting and
// switches it with the lightPass uniform.
type Geometry struct {
	scenePass
}

func NewGeometry(ctx *rendergraph.Context, name string, registry *scene.Registry) (rendergraph.Pass, error) {
	base, err := newScenePass(ctx, name, registry, ShaderDeferred)
	if err != nil {
		return nil, err
	}
	base.SetDrawTarget(SinkGBuffer)
	return &Geometry{scenePass: base}, nil
}

func (p *Geometry) Execute(ctx *rendergraph.Context, dt float64) error {
	gbuffer, err := targetSink(p, SinkGBuffer)
	if err != nil {
		return err
	}
	camera, err := cameraSink(p)
	if err != nil {
		return err
	}
	if err := ctx.Backend.RenderTargetClear(gbuffer, mgl32.Vec4{}); err != nil {
		return err
	}
	viewProj := camera.ViewProjection()
	p.Shader.Set("lightPass", false)
	p.Shader.Set("u_viewProjection", viewProj)

	var drawErr error
	scene.Each2(p.registry, func(e scene.Entity, m *scene.MeshRenderer, t *scene.Transform) {
		if drawErr != nil {
			return
		}
		drawErr = ctx.Submit(renderer.DrawCommand{
			Kind:     renderer.DrawMesh,
			EntityID: entityID(e),
			Model:    t.Matrix(),
			ViewProj: viewProj,
			Bounds:   footprint(viewProj, *t, meshExtent(m), gbuffer),
			Colour:   m.Colour,
			Material: m.Material,
		})
	})
	return drawErr
}

// Lighting resolves the geometry buffer into the target.
type Lighting struct {
	rendergraph.BasePass
}

func NewLighting(ctx *rendergraph.Context, name string, _ *scene.Registry) (rendergraph.Pass, error) {
	base, err := newPurePass(ctx, name, ShaderDeferred)
	if err != nil {
		return nil, err
	}
	return &Lighting{BasePass: base}, nil
}

func (p *Lighting) Execute(ctx *rendergraph.Context, dt float64) error {
	gbuffer, err := targetSink(p, SinkGBuffer)
	if err != nil {
		return err
	}
	target, err := targetSink(p, SinkTarget)
	if err != nil {
		return err
	}
	p.Shader.Set("lightPass", true)

	if err := ctx.Backend.Blit(gbuffer, renderer.AttachmentAlbedo, target, renderer.AttachmentColour); err != nil {
		return err
	}
	_, srcIDs := gbuffer.Attachment(renderer.AttachmentEntityID)
	_, dstIDs := target.Attachment(renderer.AttachmentEntityID)
	if srcIDs && dstIDs {
		return ctx.Backend.Blit(gbuffer, renderer.AttachmentEntityID, target, renderer.AttachmentEntityID)
	}
	return nil
}
