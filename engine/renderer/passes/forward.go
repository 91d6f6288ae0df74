package passes

import (
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

// Render3D gathers the scene lights and draws every mesh into the target.
type Render3D struct {
	scenePass
	lights []scene.Light
}

func NewRender3D(ctx *rendergraph.Context, name string, registry *scene.Registry) (rendergraph.Pass, error) {
	base, err := newScenePass(ctx, name, registry, ShaderRenderer3D)
	if err != nil {
		return nil, err
	}
	return &Render3D{scenePass: base}, nil
}

func (p *Render3D) Execute(ctx *rendergraph.Context, dt float64) error {
	target, err := targetSink(p, SinkTarget)
	if err != nil {
		return err
	}
	camera, err := cameraSink(p)
	if err != nil {
		return err
	}
	viewProj := camera.ViewProjection()

	p.lights = p.lights[:0]
	scene.Each2(p.registry, func(e scene.Entity, l *scene.Light, t *scene.Transform) {
		p.lights = append(p.lights, *l)
	})
	p.Shader.Set("u_viewProjection", viewProj)
	p.Shader.Set("u_lightCount", len(p.lights))
	p.Shader.Set("u_lights", p.lights)

	shadowMap, shadowed := rendergraph.SinkAs[*rendergraph.TextureResource](p, SinkShadowMap)
	p.Shader.Set("u_useShadows", shadowed)
	if shadowed {
		p.Shader.Set("u_shadowMap", shadowMap.Slot)
	}

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
			Bounds:   footprint(viewProj, *t, meshExtent(m), target),
			Colour:   m.Colour,
			Material: m.Material,
		})
	})
	return drawErr
}

// Render2D draws sprites, circles and text.
type Render2D struct {
	scenePass
}

func NewRender2D(ctx *rendergraph.Context, name string, registry *scene.Registry) (rendergraph.Pass, error) {
	base, err := newScenePass(ctx, name, registry, ShaderRenderer2D)
	if err != nil {
		return nil, err
	}
	return &Render2D{scenePass: base}, nil
}

func (p *Render2D) Execute(ctx *rendergraph.Context, dt float64) error {
	target, err := targetSink(p, SinkTarget)
	if err != nil {
		return err
	}
	camera, err := cameraSink(p)
	if err != nil {
		return err
	}
	viewProj := camera.ViewProjection()
	p.Shader.Set("u_viewProjection", viewProj)

	var cmds []renderer.DrawCommand
	scene.Each2(p.registry, func(e scene.Entity, s *scene.SpriteRenderer, t *scene.Transform) {
		cmds = append(cmds, renderer.DrawCommand{
			Kind:     renderer.DrawSprite,
			EntityID: entityID(e),
			Model:    t.Matrix(),
			ViewProj: viewProj,
			Bounds:   footprint(viewProj, *t, max(s.Size.X(), s.Size.Y())/2, target),
			Colour:   s.Colour,
		})
	})
	scene.Each2(p.registry, func(e scene.Entity, c *scene.CircleRenderer, t *scene.Transform) {
		cmds = append(cmds, renderer.DrawCommand{
			Kind:     renderer.DrawCircle,
			EntityID: entityID(e),
			Model:    t.Matrix(),
			ViewProj: viewProj,
			Bounds:   footprint(viewProj, *t, c.Radius, target),
			Colour:   c.Colour,
		})
	})
	scene.Each2(p.registry, func(e scene.Entity, txt *scene.Text, t *scene.Transform) {
		width := txt.Size * float32(len(txt.Value)) / 2
		cmds = append(cmds, renderer.DrawCommand{
			Kind:     renderer.DrawText,
			EntityID: entityID(e),
			Model:    t.Matrix(),
			ViewProj: viewProj,
			Bounds:   footprint(viewProj, *t, max(width, txt.Size)/2, target),
			Colour:   txt.Colour,
			Text:     txt.Value,
			Material: txt.Font,
		})
	})
	for _, cmd := range cmds {
		if err := ctx.Submit(cmd); err != nil {
			return err
		}
	}
	return nil
}
