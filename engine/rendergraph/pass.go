package rendergraph

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spaghettifunk/framegraph/engine/renderer"
)

// Pass is one unit of per-frame work. Concrete passes embed BasePass and
// implement Execute.
type Pass interface {
	Name() string
	Sinks() []*Sink
	Sink(name string) (*Sink, bool)
	SetSinkLinkage(sinkName, sourceName string) error
	Outputs() []Resource
	Output(name string) (Resource, bool)

	Bind(ctx *Context) error
	Unbind(ctx *Context) error
	// Execute only runs when every sink resolved.
	Execute(ctx *Context, dt float64) error
	// ResetFrame drops sink resolutions and published outputs.
	ResetFrame()
}

// Destroyer is implemented by passes owning backend objects. Graph.Init calls
// it before dropping the pass.
type Destroyer interface {
	Destroy(ctx *Context)
}

type BasePass struct {
	name       string
	sinks      []*Sink
	outputs    []Resource
	bound      []Resource
	drawTarget string
	Shader     *renderer.Shader
}

func NewBasePass(name string) BasePass {
	return BasePass{name: name}
}

// SetDrawTarget names the sink the pass draws into. Bind binds it after every
// other sink so that targets the pass only reads never receive its draws.
func (p *BasePass) SetDrawTarget(sinkName string) {
	p.drawTarget = sinkName
}

func (p *BasePass) DrawTarget() string {
	return p.drawTarget
}

func (p *BasePass) Name() string {
	return p.name
}

func (p *BasePass) Sinks() []*Sink {
	return p.sinks
}

func (p *BasePass) Sink(name string) (*Sink, bool) {
	for _, s := range p.sinks {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// SetSinkLinkage declares a sink and the source it resolves against. Nothing
// is looked up here.
func (p *BasePass) SetSinkLinkage(sinkName, sourceName string) error {
	link := &LinkageError{Pass: p.name, Sink: sinkName, Source: sourceName}
	switch {
	case sinkName == "" || sourceName == "":
		link.Reason = "sink and source names cannot be empty"
	case strings.Contains(sinkName, "."):
		link.Reason = "sink names cannot contain '.'"
	case sourceName == OutputName(p.name, sinkName):
		link.Reason = "sink cannot resolve to its own output"
	default:
		if _, exists := p.Sink(sinkName); exists {
			link.Reason = "sink already linked"
		}
	}
	if link.Reason != "" {
		return link
	}
	p.sinks = append(p.sinks, newSink(p.name, sinkName, sourceName))
	return nil
}

func (p *BasePass) Outputs() []Resource {
	return p.outputs
}

func (p *BasePass) Output(name string) (Resource, bool) {
	for _, r := range p.outputs {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// Publish registers a pass-local output for the rest of the frame. Its name
// must be "<pass>.<name>"; publishing the same name again replaces it.
func (p *BasePass) Publish(r Resource) error {
	prefix := p.name + "."
	if !strings.HasPrefix(r.Name(), prefix) || len(r.Name()) == len(prefix) {
		return fmt.Errorf("%w: %q must be named %s<name>", ErrInvalidOutput, r.Name(), prefix)
	}
	for i, existing := range p.outputs {
		if existing.Name() == r.Name() {
			p.outputs[i] = r
			return nil
		}
	}
	p.outputs = append(p.outputs, r)
	return nil
}

// Bind uses the pass shader, then binds every resolved sink in declaration
// order, leaving the draw target for last. On failure everything bound so far
// is released.
func (p *BasePass) Bind(ctx *Context) error {
	if p.Shader != nil {
		if err := ctx.Backend.ShaderUse(p.Shader); err != nil {
			return fmt.Errorf("pass %s: %w", p.name, err)
		}
	}
	var target *Sink
	for _, s := range p.sinks {
		if p.drawTarget != "" && s.name == p.drawTarget {
			target = s
			continue
		}
		if err := p.bindSink(ctx, s); err != nil {
			return err
		}
	}
	if target != nil {
		return p.bindSink(ctx, target)
	}
	return nil
}

func (p *BasePass) bindSink(ctx *Context, s *Sink) error {
	if s.resource == nil || s.resource.IsBound() {
		return nil
	}
	if err := s.resource.Bind(ctx); err != nil {
		return errors.Join(fmt.Errorf("pass %s sink %s: %w", p.name, s.name, err), p.Unbind(ctx))
	}
	p.bound = append(p.bound, s.resource)
	return nil
}

// Unbind releases what Bind acquired, in reverse order.
func (p *BasePass) Unbind(ctx *Context) error {
	var errs []error
	for _, r := range slices.Backward(p.bound) {
		if err := r.Unbind(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.bound = p.bound[:0]
	if p.Shader != nil {
		ctx.Backend.ShaderRelease(p.Shader)
	}
	return errors.Join(errs...)
}

func (p *BasePass) ResetFrame() {
	for _, s := range p.sinks {
		s.reset()
	}
	clear(p.outputs)
	p.outputs = p.outputs[:0]
}
