package passes

import (
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

// ParticleSystem composites particles simulated before the frame. Particle
// positions are relative to the emitter transform.
type ParticleSystem struct {
	scenePass
}

func NewParticleSystem(ctx *rendergraph.Context, name string, registry *scene.Registry) (rendergraph.Pass, error) {
	base, err := newScenePass(ctx, name, registry, ShaderParticle)
	if err != nil {
		return nil, err
	}
	return &ParticleSystem{scenePass: base}, nil
}

func (p *ParticleSystem) Execute(ctx *rendergraph.Context, dt float64) error {
	target, err := targetSink(p, SinkTarget)
	if err != nil {
		return err
	}
	camera, err := cameraSink(p)
	if err != nil {
		return err
	}
	viewProj := camera.ViewProjection()

	var cmds []renderer.DrawCommand
	scene.Each2(p.registry, func(e scene.Entity, em *scene.ParticleEmitter, t *scene.Transform) {
		for _, particle := range em.Particles {
			at := scene.NewTransform(t.Position.Add(particle.Position))
			cmds = append(cmds, renderer.DrawCommand{
				Kind:     renderer.DrawParticle,
				ViewProj: viewProj,
				Model:    at.Matrix(),
				Bounds:   footprint(viewProj, at, particle.Size/2, target),
				Colour:   particle.Colour,
				Additive: em.Additive,
			})
		}
	})
	for _, cmd := range cmds {
		if err := ctx.Submit(cmd); err != nil {
			return err
		}
	}
	return nil
}
