package passes

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

// Highlight outlines every entity carrying a Highlighted component.
type Highlight struct {
	scenePass
}

func NewHighlight(ctx *rendergraph.Context, name string, registry *scene.Registry) (rendergraph.Pass, error) {
	base, err := newScenePass(ctx, name, registry, ShaderHighlight)
	if err != nil {
		return nil, err
	}
	return &Highlight{scenePass: base}, nil
}

func (p *Highlight) Execute(ctx *rendergraph.Context, dt float64) error {
	target, err := targetSink(p, SinkTarget)
	if err != nil {
		return err
	}
	camera, err := cameraSink(p)
	if err != nil {
		return err
	}
	viewProj := camera.ViewProjection()

	var drawErr error
	scene.Each2(p.registry, func(e scene.Entity, h *scene.Highlighted, t *scene.Transform) {
		if drawErr != nil {
			return
		}
		mesh, _ := scene.Get[scene.MeshRenderer](p.registry, e)
		drawErr = ctx.Submit(outlineCommand(e, *t, meshExtent(mesh), h.Colour, viewProj, target))
	})
	return drawErr
}

// EditorHighlight outlines the entities selected in the editor. It draws
// nothing when a linked editor mode flag is off.
type EditorHighlight struct {
	scenePass
}

func NewEditorHighlight(ctx *rendergraph.Context, name string, registry *scene.Registry) (rendergraph.Pass, error) {
	base, err := newScenePass(ctx, name, registry, ShaderHighlight)
	if err != nil {
		return nil, err
	}
	return &EditorHighlight{scenePass: base}, nil
}

func (p *EditorHighlight) Execute(ctx *rendergraph.Context, dt float64) error {
	if !editorModeEnabled(p) {
		return nil
	}
	target, err := targetSink(p, SinkTarget)
	if err != nil {
		return err
	}
	camera, err := cameraSink(p)
	if err != nil {
		return err
	}
	selection, ok := rendergraph.SinkAs[*rendergraph.IntListResource](p, SinkSelection)
	if !ok {
		return errNotKind(p, SinkSelection, rendergraph.ResourceIntList)
	}
	viewProj := camera.ViewProjection()

	for _, id := range selection.Value() {
		e := scene.Entity(id)
		t, ok := scene.Get[scene.Transform](p.registry, e)
		if !ok || !p.registry.Alive(e) {
			continue
		}
		mesh, _ := scene.Get[scene.MeshRenderer](p.registry, e)
		if err := ctx.Submit(outlineCommand(e, *t, meshExtent(mesh), highlightColour, viewProj, target)); err != nil {
			return err
		}
	}
	return nil
}

func outlineCommand(e scene.Entity, t scene.Transform, extent float32, colour mgl32.Vec4, viewProj mgl32.Mat4, target *renderer.RenderTarget) renderer.DrawCommand {
	return renderer.DrawCommand{
		Kind:     renderer.DrawOutline,
		EntityID: entityID(e),
		Model:    t.Matrix(),
		ViewProj: viewProj,
		Bounds:   footprint(viewProj, t, extent, target),
		Colour:   colour,
	}
}
