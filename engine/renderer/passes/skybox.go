package passes

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

// Skybox fills the target with the first skybox in the scene. Declare it
// before the passes drawing geometry.
type Skybox struct {
	scenePass
}

func NewSkybox(ctx *rendergraph.Context, name string, registry *scene.Registry) (rendergraph.Pass, error) {
	base, err := newScenePass(ctx, name, registry, ShaderSkybox)
	if err != nil {
		return nil, err
	}
	return &Skybox{scenePass: base}, nil
}

func (p *Skybox) Execute(ctx *rendergraph.Context, dt float64) error {
	if _, err := targetSink(p, SinkTarget); err != nil {
		return err
	}
	camera, err := cameraSink(p)
	if err != nil {
		return err
	}

	var sky *scene.Skybox
	scene.Each(p.registry, func(e scene.Entity, s *scene.Skybox) {
		if sky == nil {
			sky = s
		}
	})
	if sky == nil {
		return nil
	}

	// the skybox ignores camera translation
	view := camera.View
	view.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	p.Shader.Set("u_view", view)
	p.Shader.Set("u_projection", camera.Projection)
	p.Shader.Set("u_cubemap", sky.Cubemap)

	return ctx.Submit(renderer.DrawCommand{
		Kind:     renderer.DrawSkybox,
		ViewProj: camera.Projection.Mul4(view),
		Colour:   sky.Tint,
		Material: sky.Cubemap,
	})
}
