package passes

import (
	"image"

	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

// ObjectPicking reads the entity id under the mouse from the target and
// writes it to the picked entity reference, 0 when nothing is there. The
// readback is published as "<name>.pixels"; a linked pixels sink is used
// instead of the pass's own buffer.
type ObjectPicking struct {
	rendergraph.BasePass
	pixels *renderer.PixelBuffer
}

func NewObjectPicking(ctx *rendergraph.Context, name string, _ *scene.Registry) (rendergraph.Pass, error) {
	base, err := newPurePass(ctx, name, "")
	if err != nil {
		return nil, err
	}
	return &ObjectPicking{
		BasePass: base,
		pixels:   renderer.NewPixelBuffer(rendergraph.OutputName(name, "pixels"), 1, 1),
	}, nil
}

func (p *ObjectPicking) Execute(ctx *rendergraph.Context, dt float64) error {
	target, err := targetSink(p, SinkTarget)
	if err != nil {
		return err
	}
	mouse, ok := rendergraph.SinkAs[*rendergraph.Vec2IntResource](p, SinkMouse)
	if !ok {
		return errNotKind(p, SinkMouse, rendergraph.ResourceVec2Int)
	}
	picked, ok := rendergraph.SinkAs[*rendergraph.IntResource](p, SinkPickedEntity)
	if !ok {
		return errNotKind(p, SinkPickedEntity, rendergraph.ResourceInt)
	}

	pixels := p.pixels
	if linked, ok := rendergraph.SinkAs[*rendergraph.PixelBufferResource](p, SinkPixels); ok {
		pixels = linked.Buffer
	}

	pos := mouse.Value()
	if !pos.In(image.Rect(0, 0, int(target.Width), int(target.Height))) {
		picked.Set(int(scene.InvalidEntity))
		return nil
	}
	if err := ctx.Backend.ReadPixels(target, renderer.AttachmentEntityID, image.Rectangle{Min: pos, Max: pos.Add(image.Pt(1, 1))}, pixels); err != nil {
		return err
	}
	picked.Set(int(pixels.At(0, 0)))

	return p.Publish(rendergraph.NewPixelBufferResource(rendergraph.OutputName(p.Name(), "pixels"), pixels))
}
