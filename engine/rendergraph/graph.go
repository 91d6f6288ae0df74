package rendergraph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spaghettifunk/framegraph/engine/core"
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

type GraphState uint8

const (
	GraphEmpty GraphState = iota
	GraphConfigured
	GraphFinalized
	GraphExecuting
)

func (s GraphState) String() string {
	switch s {
	case GraphEmpty:
		return "empty"
	case GraphConfigured:
		return "configured"
	case GraphFinalized:
		return "finalized"
	case GraphExecuting:
		return "executing"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// SkipNotifier is told about every pass skipped because of unresolved sinks.
type SkipNotifier func(frame uint64, pass string, unresolved []string)

type Option func(*Graph)

func WithSkipNotifier(fn SkipNotifier) Option {
	return func(g *Graph) {
		g.notify = fn
	}
}

// WithScene sets the registry injected into scene-aware passes.
func WithScene(registry *scene.Registry) Option {
	return func(g *Graph) {
		g.registry = registry
	}
}

// FrameStats lists what happened to every pass during one Execute.
type FrameStats struct {
	Frame     uint64
	Executed  []string
	Skipped   []string
	Failed    []string
	Presented bool
}

type Graph struct {
	factory  FactoryTable
	registry *scene.Registry
	notify   SkipNotifier

	passes    []Pass
	globals   []Resource
	config    *Config
	finalSink *Sink
	state     GraphState
	frame     uint64
}

func NewGraph(factory FactoryTable, opts ...Option) *Graph {
	g := &Graph{factory: factory}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Init destroys every pass and forgets the global pool, the config and the
// final sink.
func (g *Graph) Init(ctx *Context) {
	for _, p := range g.passes {
		if d, ok := p.(Destroyer); ok {
			d.Destroy(ctx)
		}
	}
	g.passes = nil
	g.globals = nil
	g.config = nil
	g.finalSink = nil
	g.state = GraphEmpty
}

func (g *Graph) State() GraphState {
	return g.state
}

// AddPass appends an already built pass.
func (g *Graph) AddPass(p Pass) error {
	if _, exists := g.Pass(p.Name()); exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePass, p.Name())
	}
	g.passes = append(g.passes, p)
	return nil
}

func (g *Graph) Pass(name string) (Pass, bool) {
	for _, p := range g.passes {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

func (g *Graph) Passes() []Pass {
	return slices.Clone(g.passes)
}

// SetGlobalSource adds r to the global pool. Adding the same handle twice is
// a no-op; different handles may share a name and the first one wins.
func (g *Graph) SetGlobalSource(r Resource) {
	if slices.Contains(g.globals, r) {
		return
	}
	g.globals = append(g.globals, r)
}

func (g *Graph) GlobalSources() []Resource {
	return slices.Clone(g.globals)
}

// SetConfig records a snapshot of cfg for the next Finalize.
func (g *Graph) SetConfig(cfg *Config) {
	g.config = cfg.Clone()
	if g.state == GraphEmpty {
		g.state = GraphConfigured
	}
}

func (g *Graph) Config() *Config {
	return g.config
}

// SetScene replaces the registry used by the next Finalize.
func (g *Graph) SetScene(registry *scene.Registry) {
	g.registry = registry
}

// SetFinalSink names the resource presented after every pass ran.
func (g *Graph) SetFinalSink(sinkName, sourceName string) {
	g.finalSink = newSink("", sinkName, sourceName)
	g.finalSink.outputName = sinkName
}

func (g *Graph) FinalSink() *Sink {
	return g.finalSink
}

// Finalize builds the configured passes in order and applies their
// linkages. No name is resolved. On error the graph is left unchanged.
func (g *Graph) Finalize(ctx *Context) error {
	if g.config == nil {
		return ErrNoConfig
	}
	if g.state == GraphExecuting {
		return ErrGraphExecuting
	}
	if err := g.config.Validate(); err != nil {
		return err
	}

	built := make([]Pass, 0, len(g.config.Passes))
	discard := func() {
		for _, p := range built {
			if d, ok := p.(Destroyer); ok {
				d.Destroy(ctx)
			}
		}
	}
	for _, spec := range g.config.Passes {
		if _, exists := g.Pass(spec.Name); exists {
			discard()
			return fmt.Errorf("%w: %q", ErrDuplicatePass, spec.Name)
		}
		p, err := g.factory.Build(ctx, spec, g.registry)
		if err != nil {
			discard()
			return err
		}
		built = append(built, p)
	}

	g.passes = append(g.passes, built...)
	for _, r := range g.config.GlobalSources() {
		g.SetGlobalSource(r)
	}
	if final := g.config.FinalSink; final != nil {
		g.SetFinalSink(final.Sink, final.Source)
	}
	g.state = GraphFinalized

	names := make([]string, 0, len(g.globals))
	for _, r := range g.globals {
		names = append(names, r.Name())
	}
	for _, issue := range g.config.Diagnose(g.factory, names...) {
		core.LogWarn("render graph: %s", issue)
	}
	core.LogDebug("render graph finalized with %d passes and %d globals", len(g.passes), len(g.globals))
	return nil
}

// FindSource looks name up in the global pool first, then among the
// resolved sinks and published outputs of the passes in list order.
func (g *Graph) FindSource(name string) Resource {
	for _, r := range g.globals {
		if r.Name() == name {
			return r
		}
	}
	for _, p := range g.passes {
		for _, s := range p.Sinks() {
			if s.OutputName() == name && s.Resolved() {
				return s.Resource()
			}
		}
		if r, ok := p.Output(name); ok {
			return r
		}
	}
	return nil
}

func (g *Graph) Frame() uint64 {
	return g.frame
}

// Execute runs one frame. Passes with an unresolved sink are skipped, failing
// passes are logged, and neither stops the rest of the frame.
func (g *Graph) Execute(ctx *Context, dt float64) FrameStats {
	g.frame++
	ctx.FrameNumber = g.frame
	stats := FrameStats{Frame: g.frame}

	previous := g.state
	g.state = GraphExecuting
	defer func() {
		g.state = previous
	}()

	for _, p := range g.passes {
		var unresolved []string
		for _, s := range p.Sinks() {
			if s.Resolved() {
				continue
			}
			if r := g.FindSource(s.SourceName()); r != nil {
				s.resolve(r)
			} else {
				unresolved = append(unresolved, s.Name())
			}
		}
		if len(unresolved) > 0 {
			stats.Skipped = append(stats.Skipped, p.Name())
			if g.notify != nil {
				g.notify(g.frame, p.Name(), unresolved)
			}
			continue
		}

		if err := g.runPass(ctx, p, dt); err != nil {
			core.LogError("render pass %s failed: %v", p.Name(), err)
			stats.Failed = append(stats.Failed, p.Name())
			continue
		}
		stats.Executed = append(stats.Executed, p.Name())
	}

	if g.finalSink != nil {
		if r := g.FindSource(g.finalSink.SourceName()); r != nil {
			g.finalSink.resolve(r)
			if err := present(ctx, r); err != nil {
				core.LogError("failed to present %s: %v", r.Name(), err)
			} else {
				stats.Presented = true
			}
		}
	}

	g.endFrame(ctx)
	return stats
}

func (g *Graph) runPass(ctx *Context, p Pass, dt float64) (err error) {
	if err := p.Bind(ctx); err != nil {
		return err
	}
	defer func() {
		if uerr := p.Unbind(ctx); uerr != nil {
			err = errors.Join(err, uerr)
		}
	}()
	if err := p.Execute(ctx, dt); err != nil {
		return err
	}
	return ctx.Flush()
}

// endFrame drops everything that only lives for one frame.
func (g *Graph) endFrame(ctx *Context) {
	for _, p := range g.passes {
		p.ResetFrame()
	}
	if g.finalSink != nil {
		g.finalSink.reset()
	}
	ctx.Reset()
}

func present(ctx *Context, r Resource) error {
	switch v := r.(type) {
	case *RenderTargetResource:
		return ctx.Backend.Present(v.Target, renderer.AttachmentColour)
	case *GBufferResource:
		return ctx.Backend.Present(v.Target, renderer.AttachmentAlbedo)
	case *BoolResource, *IntResource, *Vec2IntResource, *IntListResource,
		*PixelBufferResource, *TextureResource, *UniformBufferResource, *CameraResource:
		return fmt.Errorf("%s resources cannot be presented", r.Kind())
	}
	return fmt.Errorf("unknown resource %s", r.Name())
}
