package passes

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

const (
	DefaultShadowMapSize uint32 = 1024
	// ShadowMapSlot is the texture slot the shadow map is sampled from.
	ShadowMapSlot uint32 = 4
	// shadowDistance is how far back along the light direction the light
	// camera is placed, and half the size of its orthographic volume.
	shadowDistance float32 = 20
)

// Shadow renders shadow casters from the first directional light into a
// depth map it owns. The map is published as a texture named "<name>.map" so
// consumers sample it instead of drawing into it, together with the light
// camera as "<name>.lightSpace".
type Shadow struct {
	scenePass
	target     *renderer.RenderTarget
	shadowMap  *rendergraph.TextureResource
	lightSpace *rendergraph.CameraResource
}

func NewShadow(ctx *rendergraph.Context, name string, registry *scene.Registry) (rendergraph.Pass, error) {
	base, err := newScenePass(ctx, name, registry, ShaderShadow)
	if err != nil {
		return nil, err
	}
	target, err := ctx.Backend.RenderTargetCreate(renderer.RenderTargetConfig{
		Name:        rendergraph.OutputName(name, "map"),
		Width:       DefaultShadowMapSize,
		Height:      DefaultShadowMapSize,
		Attachments: []renderer.AttachmentType{renderer.AttachmentColour, renderer.AttachmentDepth},
	})
	if err != nil {
		return nil, err
	}
	depth, _ := target.Attachment(renderer.AttachmentColour)
	return &Shadow{
		scenePass:  base,
		target:     target,
		shadowMap:  rendergraph.NewTextureResource(rendergraph.OutputName(name, "map"), depth, ShadowMapSlot),
		lightSpace: rendergraph.NewCameraResource(rendergraph.OutputName(name, "lightSpace")),
	}, nil
}

func (p *Shadow) Execute(ctx *rendergraph.Context, dt float64) error {
	if err := ctx.Backend.RenderTargetBind(p.target); err != nil {
		return err
	}
	err := p.render(ctx)
	if uerr := ctx.Backend.RenderTargetUnbind(p.target); err == nil {
		err = uerr
	}
	if err != nil {
		return err
	}

	if err := p.Publish(p.shadowMap); err != nil {
		return err
	}
	return p.Publish(p.lightSpace)
}

func (p *Shadow) render(ctx *rendergraph.Context) error {
	if err := ctx.Backend.RenderTargetClear(p.target, mgl32.Vec4{}); err != nil {
		return err
	}

	var light *scene.Light
	scene.Each2(p.registry, func(e scene.Entity, l *scene.Light, t *scene.Transform) {
		if light == nil && l.Kind == scene.LightKindDirectional && l.CastShadows {
			light = l
		}
	})
	if light == nil || light.Direction.Len() == 0 {
		return nil
	}

	dir := light.Direction.Normalize()
	up := mgl32.Vec3{0, 1, 0}
	if mgl32.Abs(dir.Dot(up)) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	p.lightSpace.Position = dir.Mul(-shadowDistance)
	p.lightSpace.View = mgl32.LookAtV(p.lightSpace.Position, mgl32.Vec3{}, up)
	p.lightSpace.Projection = mgl32.Ortho(-shadowDistance, shadowDistance, -shadowDistance, shadowDistance, 0.1, 2*shadowDistance)
	viewProj := p.lightSpace.ViewProjection()
	p.Shader.Set("u_lightSpace", viewProj)

	var drawErr error
	scene.Each2(p.registry, func(e scene.Entity, m *scene.MeshRenderer, t *scene.Transform) {
		if drawErr != nil || !m.CastShadows {
			return
		}
		drawErr = ctx.Submit(renderer.DrawCommand{
			Kind:     renderer.DrawMesh,
			Model:    t.Matrix(),
			ViewProj: viewProj,
			Bounds:   footprint(viewProj, *t, meshExtent(m), p.target),
			Colour:   mgl32.Vec4{1, 1, 1, 1},
		})
	})
	if drawErr != nil {
		return drawErr
	}
	// the map target is only bound inside this call
	return ctx.Flush()
}

func (p *Shadow) Destroy(ctx *rendergraph.Context) {
	ctx.Backend.RenderTargetDestroy(p.target)
}
