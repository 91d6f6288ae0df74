package passes

import (
	"cmp"
	"image"
	"slices"

	"github.com/spaghettifunk/framegraph/engine/math"
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

type uiItem struct {
	entity scene.Entity
	elem   *scene.UIElement
}

// collectUI returns the elements of one space ordered by layer, then entity.
func collectUI(registry *scene.Registry, space scene.UISpace) []uiItem {
	var items []uiItem
	scene.Each(registry, func(e scene.Entity, u *scene.UIElement) {
		if u.Space == space {
			items = append(items, uiItem{entity: e, elem: u})
		}
	})
	slices.SortStableFunc(items, func(a, b uiItem) int {
		return cmp.Compare(a.elem.Layer, b.elem.Layer)
	})
	return items
}

func submitUI(ctx *rendergraph.Context, items []uiItem) error {
	for _, it := range items {
		cmd := renderer.DrawCommand{
			Kind:     renderer.DrawUI,
			EntityID: entityID(it.entity),
			Bounds:   it.elem.Rect,
			Colour:   it.elem.Colour,
		}
		if err := ctx.Submit(cmd); err != nil {
			return err
		}
	}
	return nil
}

// UI composites screen space elements over the target.
type UI struct {
	scenePass
}

func NewUI(ctx *rendergraph.Context, name string, registry *scene.Registry) (rendergraph.Pass, error) {
	base, err := newScenePass(ctx, name, registry, ShaderUI)
	if err != nil {
		return nil, err
	}
	return &UI{scenePass: base}, nil
}

func (p *UI) Execute(ctx *rendergraph.Context, dt float64) error {
	if _, err := targetSink(p, SinkTarget); err != nil {
		return err
	}
	return submitUI(ctx, collectUI(p.registry, scene.UISpaceScreen))
}

// EditorUI composites editor overlay elements while editor mode is on.
type EditorUI struct {
	scenePass
}

func NewEditorUI(ctx *rendergraph.Context, name string, registry *scene.Registry) (rendergraph.Pass, error) {
	base, err := newScenePass(ctx, name, registry, ShaderUI)
	if err != nil {
		return nil, err
	}
	return &EditorUI{scenePass: base}, nil
}

func (p *EditorUI) Execute(ctx *rendergraph.Context, dt float64) error {
	if !editorModeEnabled(p) {
		return nil
	}
	if _, err := targetSink(p, SinkTarget); err != nil {
		return err
	}
	return submitUI(ctx, collectUI(p.registry, scene.UISpaceEditor))
}

// UIWorld places world space elements at the projected position of their
// entity.
type UIWorld struct {
	scenePass
}

func NewUIWorld(ctx *rendergraph.Context, name string, registry *scene.Registry) (rendergraph.Pass, error) {
	base, err := newScenePass(ctx, name, registry, ShaderUI)
	if err != nil {
		return nil, err
	}
	return &UIWorld{scenePass: base}, nil
}

func (p *UIWorld) Execute(ctx *rendergraph.Context, dt float64) error {
	target, err := targetSink(p, SinkTarget)
	if err != nil {
		return err
	}
	camera, err := cameraSink(p)
	if err != nil {
		return err
	}
	viewProj := camera.ViewProjection()

	items := collectUI(p.registry, scene.UISpaceWorld)
	placed := items[:0]
	for _, it := range items {
		t, ok := scene.Get[scene.Transform](p.registry, it.entity)
		if !ok {
			continue
		}
		centre, visible := math.ProjectPoint(viewProj, t.Position, int(target.Width), int(target.Height))
		if !visible {
			continue
		}
		size := it.elem.Rect.Size()
		elem := *it.elem
		elem.Rect = image.Rectangle{Min: centre.Sub(size.Div(2))}
		elem.Rect.Max = elem.Rect.Min.Add(size)
		placed = append(placed, uiItem{entity: it.entity, elem: &elem})
	}
	return submitUI(ctx, placed)
}
