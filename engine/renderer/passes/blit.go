package passes

import (
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

// RenderToTarget copies the source target into the target, scaling when the
// sizes differ. Geometry buffers contribute their albedo.
type RenderToTarget struct {
	rendergraph.BasePass
}

func NewRenderToTarget(ctx *rendergraph.Context, name string, _ *scene.Registry) (rendergraph.Pass, error) {
	base, err := newPurePass(ctx, name, "")
	if err != nil {
		return nil, err
	}
	return &RenderToTarget{BasePass: base}, nil
}

func (p *RenderToTarget) Execute(ctx *rendergraph.Context, dt float64) error {
	src, err := targetSink(p, SinkSource)
	if err != nil {
		return err
	}
	dst, err := targetSink(p, SinkTarget)
	if err != nil {
		return err
	}

	colour := renderer.AttachmentColour
	if _, ok := src.Attachment(colour); !ok {
		colour = renderer.AttachmentAlbedo
	}
	if err := ctx.Backend.Blit(src, colour, dst, renderer.AttachmentColour); err != nil {
		return err
	}
	_, srcIDs := src.Attachment(renderer.AttachmentEntityID)
	_, dstIDs := dst.Attachment(renderer.AttachmentEntityID)
	if srcIDs && dstIDs {
		return ctx.Backend.Blit(src, renderer.AttachmentEntityID, dst, renderer.AttachmentEntityID)
	}
	return nil
}
