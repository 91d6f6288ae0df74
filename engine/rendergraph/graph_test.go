package rendergraph

import (
	"errors"
	"io"
	"os"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/framegraph/engine/core"
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/renderer/headless"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

// producerPass publishes "<name>.out" every time it runs.
type producerPass struct {
	BasePass
	runs  int
	value int
}

func (p *producerPass) Execute(ctx *Context, dt float64) error {
	p.runs++
	p.value = p.runs
	return p.Publish(NewIntResource(OutputName(p.Name(), "out"), &p.value))
}

// consumerPass records what its "in" sink resolved to.
type consumerPass struct {
	BasePass
	runs int
	seen []Resource
}

func (p *consumerPass) Execute(ctx *Context, dt float64) error {
	p.runs++
	s, _ := p.Sink("in")
	p.seen = append(p.seen, s.Resource())
	return nil
}

type failingPass struct {
	BasePass
}

func (p *failingPass) Execute(ctx *Context, dt float64) error {
	return errors.New("boom")
}

// The stub passes borrow real pass type tags because the enumeration is
// closed, so failure messages print those tag names: "shadow" is the producer
// stub, "render3d" the consumer, "highlight" the failing stub and "render2d"
// the scene-aware stub.
const (
	testProducer = PassTypeShadow
	testConsumer = PassTypeRender3D
	testFailing  = PassTypeHighlight
	testScene    = PassTypeRender2D
)

func testTable() FactoryTable {
	return FactoryTable{
		testProducer: {
			Type:    testProducer,
			Outputs: []string{"out"},
			New: func(ctx *Context, name string, registry *scene.Registry) (Pass, error) {
				return &producerPass{BasePass: NewBasePass(name)}, nil
			},
		},
		testConsumer: {
			Type:  testConsumer,
			Sinks: []string{"in"},
			New: func(ctx *Context, name string, registry *scene.Registry) (Pass, error) {
				return &consumerPass{BasePass: NewBasePass(name)}, nil
			},
		},
		testFailing: {
			Type: testFailing,
			New: func(ctx *Context, name string, registry *scene.Registry) (Pass, error) {
				return &failingPass{BasePass: NewBasePass(name)}, nil
			},
		},
		testScene: {
			Type:       testScene,
			NeedsScene: true,
			New: func(ctx *Context, name string, registry *scene.Registry) (Pass, error) {
				if registry == nil {
					return nil, ErrMissingEntityRegistry
				}
				return &producerPass{BasePass: NewBasePass(name)}, nil
			},
		},
	}
}

func newTestContext(t *testing.T) (*Context, *headless.HeadlessRenderer) {
	t.Helper()
	core.SetLogOutput(io.Discard)
	t.Cleanup(func() { core.SetLogOutput(os.Stderr) })

	backend := headless.New()
	if err := backend.Initialize("rendergraph", 64, 64); err != nil {
		t.Fatal(err)
	}
	return NewContext(backend, core.NewEventSystem(), 8), backend
}

func finalize(t *testing.T, ctx *Context, g *Graph, cfg *Config) {
	t.Helper()
	g.Init(ctx)
	g.SetConfig(cfg)
	if err := g.Finalize(ctx); err != nil {
		t.Fatalf("finalize: %v", err)
	}
}

func mustPass[T Pass](t *testing.T, g *Graph, name string) T {
	t.Helper()
	p, ok := g.Pass(name)
	if !ok {
		t.Fatalf("pass %s not found", name)
	}
	typed, ok := p.(T)
	if !ok {
		t.Fatalf("pass %s has unexpected type %T", name, p)
	}
	return typed
}

type passShape struct {
	name  string
	links []SinkLinkage
}

func shape(g *Graph) []passShape {
	var out []passShape
	for _, p := range g.Passes() {
		s := passShape{name: p.Name()}
		for _, sink := range p.Sinks() {
			s.links = append(s.links, SinkLinkage{Sink: sink.Name(), Source: sink.SourceName()})
		}
		out = append(out, s)
	}
	return out
}

func TestFinalizeTwiceYieldsSamePasses(t *testing.T) {
	ctx, _ := newTestContext(t)
	cfg := NewConfig().
		AddPass(NewPassSpec("A", testProducer)).
		AddPass(NewPassSpec("B", testConsumer).AddSinkLinkage("in", "A.out"))

	g := NewGraph(testTable())
	finalize(t, ctx, g, cfg)
	first := shape(g)
	finalize(t, ctx, g, cfg)
	second := shape(g)

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected two passes, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].name != second[i].name || !slices.Equal(first[i].links, second[i].links) {
			t.Errorf("pass %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
	if g.State() != GraphFinalized {
		t.Errorf("expected finalized state, got %s", g.State())
	}
}

func TestFinalizeDoesNotResolve(t *testing.T) {
	ctx, _ := newTestContext(t)
	cfg := NewConfig().AddPass(NewPassSpec("B", testConsumer).AddSinkLinkage("in", "Global"))
	cfg.AddGlobalSource(NewBoolResource("Global", nil))

	g := NewGraph(testTable())
	finalize(t, ctx, g, cfg)

	b := mustPass[*consumerPass](t, g, "B")
	if b.Sinks()[0].Resolved() {
		t.Error("finalize must not resolve sinks")
	}
	if len(g.GlobalSources()) != 1 {
		t.Errorf("config globals must join the pool, got %d", len(g.GlobalSources()))
	}
}

func TestProducerBeforeConsumerResolvesSameFrame(t *testing.T) {
	ctx, _ := newTestContext(t)
	cfg := NewConfig().
		AddPass(NewPassSpec("A", testProducer)).
		AddPass(NewPassSpec("B", testConsumer).AddSinkLinkage("in", "A.out"))
	g := NewGraph(testTable())
	finalize(t, ctx, g, cfg)

	stats := g.Execute(ctx, 0.016)

	if !slices.Equal(stats.Executed, []string{"A", "B"}) || len(stats.Skipped) != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	b := mustPass[*consumerPass](t, g, "B")
	in, ok := b.seen[0].(*IntResource)
	if !ok || in.Name() != "A.out" || in.Value() != 1 {
		t.Errorf("B must read A's output of the same frame, got %v", Describe(b.seen[0]))
	}

	g.Execute(ctx, 0.016)
	if in := b.seen[1].(*IntResource); in.Value() != 2 {
		t.Errorf("second frame must see the second output, got %d", in.Value())
	}
}

func TestConsumerBeforeProducerIsSkippedEveryFrame(t *testing.T) {
	ctx, _ := newTestContext(t)
	cfg := NewConfig().
		AddPass(NewPassSpec("B", testConsumer).AddSinkLinkage("in", "A.out")).
		AddPass(NewPassSpec("A", testProducer))
	g := NewGraph(testTable())
	finalize(t, ctx, g, cfg)

	for frame := 0; frame < 5; frame++ {
		stats := g.Execute(ctx, 0.016)
		if !slices.Equal(stats.Skipped, []string{"B"}) || !slices.Equal(stats.Executed, []string{"A"}) {
			t.Fatalf("frame %d: unexpected stats %+v", frame, stats)
		}
	}
	if b := mustPass[*consumerPass](t, g, "B"); b.runs != 0 {
		t.Errorf("B must never run, ran %d times", b.runs)
	}
	if a := mustPass[*producerPass](t, g, "A"); a.runs != 5 {
		t.Errorf("A must run every frame, ran %d times", a.runs)
	}
}

func TestUnresolvableSinkNeverCrashes(t *testing.T) {
	ctx, _ := newTestContext(t)
	var notified []string
	cfg := NewConfig().AddPass(NewPassSpec("B", testConsumer).AddSinkLinkage("in", "Nowhere"))
	g := NewGraph(testTable(), WithSkipNotifier(func(frame uint64, pass string, unresolved []string) {
		notified = append(notified, pass+":"+unresolved[0])
	}))
	finalize(t, ctx, g, cfg)

	for i := 0; i < 200; i++ {
		stats := g.Execute(ctx, 0.016)
		if len(stats.Skipped) != 1 {
			t.Fatalf("frame %d: expected B skipped, got %+v", i, stats)
		}
	}
	if len(notified) != 200 || notified[0] != "B:in" {
		t.Errorf("expected one notification per frame, got %d", len(notified))
	}
	if g.Frame() != 200 {
		t.Errorf("expected frame counter 200, got %d", g.Frame())
	}
}

func TestSkippedPassDoesNotBlockOthers(t *testing.T) {
	ctx, _ := newTestContext(t)
	cfg := NewConfig().
		AddPass(NewPassSpec("A", testProducer)).
		AddPass(NewPassSpec("Broken", testConsumer).AddSinkLinkage("in", "Typo.out")).
		AddPass(NewPassSpec("C", testConsumer).AddSinkLinkage("in", "A.out")).
		AddPass(NewPassSpec("D", testProducer))
	g := NewGraph(testTable())
	finalize(t, ctx, g, cfg)

	stats := g.Execute(ctx, 0.016)
	if !slices.Equal(stats.Executed, []string{"A", "C", "D"}) || !slices.Equal(stats.Skipped, []string{"Broken"}) {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestGlobalTakesPrecedenceOverPassOutput(t *testing.T) {
	ctx, _ := newTestContext(t)
	global := NewIntResource("A.out", nil)
	global.Set(42)

	cfg := NewConfig().
		AddPass(NewPassSpec("A", testProducer)).
		AddPass(NewPassSpec("B", testConsumer).AddSinkLinkage("in", "A.out"))
	g := NewGraph(testTable())
	finalize(t, ctx, g, cfg)
	g.SetGlobalSource(global)

	g.Execute(ctx, 0.016)
	b := mustPass[*consumerPass](t, g, "B")
	if b.seen[0] != Resource(global) {
		t.Errorf("expected the global resource, got %s", Describe(b.seen[0]))
	}
}

func TestDuplicateGlobalNameFirstWins(t *testing.T) {
	ctx, _ := newTestContext(t)
	first := NewIntResource("Camera", nil)
	second := NewIntResource("Camera", nil)

	g := NewGraph(testTable())
	finalize(t, ctx, g, NewConfig())
	g.SetGlobalSource(first)
	g.SetGlobalSource(second)
	g.SetGlobalSource(first)

	if len(g.GlobalSources()) != 2 {
		t.Errorf("re-adding the same handle must be a no-op, got %d globals", len(g.GlobalSources()))
	}
	if g.FindSource("Camera") != Resource(first) {
		t.Error("the first registered global must win")
	}
}

func TestSinkOutputChaining(t *testing.T) {
	ctx, _ := newTestContext(t)
	target := NewBoolResource("Flag", nil)
	cfg := NewConfig().
		AddPass(NewPassSpec("B", testConsumer).AddSinkLinkage("in", "Flag")).
		AddPass(NewPassSpec("C", testConsumer).AddSinkLinkage("in", "B.in"))
	cfg.AddGlobalSource(target)
	g := NewGraph(testTable())
	finalize(t, ctx, g, cfg)

	g.Execute(ctx, 0.016)
	c := mustPass[*consumerPass](t, g, "C")
	if len(c.seen) != 1 || c.seen[0] != Resource(target) {
		t.Errorf("C must resolve through B's sink, got %v", c.seen)
	}
	if g.FindSource("B.in") != nil {
		t.Error("sink resolutions must not outlive the frame")
	}
}

// shadowPass owns a render target and publishes it as "<name>.map".
type shadowPass struct {
	BasePass
	target *renderer.RenderTarget
}

func (p *shadowPass) Execute(ctx *Context, dt float64) error {
	return p.Publish(NewRenderTargetResource(OutputName(p.Name(), "map"), p.target))
}

func (p *shadowPass) Destroy(ctx *Context) {
	ctx.Backend.RenderTargetDestroy(p.target)
}

type mainPass struct {
	BasePass
	shadow   *RenderTargetResource
	camera   *CameraResource
	sawBound bool
}

func (p *mainPass) Execute(ctx *Context, dt float64) error {
	p.shadow, _ = SinkAs[*RenderTargetResource](p, "shadowMap")
	p.camera, _ = SinkAs[*CameraResource](p, "camera")
	p.sawBound = p.shadow.IsBound() && p.camera.IsBound()
	return nil
}

func TestShadowThenMainScenario(t *testing.T) {
	ctx, backend := newTestContext(t)
	table := FactoryTable{
		PassTypeShadow: {
			Type:    PassTypeShadow,
			Outputs: []string{"map"},
			New: func(ctx *Context, name string, registry *scene.Registry) (Pass, error) {
				target, err := ctx.Backend.RenderTargetCreate(renderer.RenderTargetConfig{
					Name: name, Width: 16, Height: 16,
					Attachments: []renderer.AttachmentType{renderer.AttachmentDepth, renderer.AttachmentColour},
				})
				if err != nil {
					return nil, err
				}
				return &shadowPass{BasePass: NewBasePass(name), target: target}, nil
			},
		},
		PassTypeRender3D: {
			Type:  PassTypeRender3D,
			Sinks: []string{"shadowMap", "camera"},
			New: func(ctx *Context, name string, registry *scene.Registry) (Pass, error) {
				return &mainPass{BasePass: NewBasePass(name)}, nil
			},
		},
	}
	camera := NewEditorCameraResource("Camera", scene.NewEditorCamera(64, 64))
	cfg := NewConfig().
		AddPass(NewPassSpec("Shadow", PassTypeShadow)).
		AddPass(NewPassSpec("Main", PassTypeRender3D).
			AddSinkLinkage("shadowMap", "Shadow.map").
			AddSinkLinkage("camera", "Camera")).
		AddGlobalSource(camera)

	g := NewGraph(table)
	finalize(t, ctx, g, cfg)
	stats := g.Execute(ctx, 0.016)

	if !slices.Equal(stats.Executed, []string{"Shadow", "Main"}) {
		t.Fatalf("unexpected stats %+v", stats)
	}
	main := mustPass[*mainPass](t, g, "Main")
	shadow := mustPass[*shadowPass](t, g, "Shadow")
	if main.shadow == nil || main.shadow.Target != shadow.target {
		t.Error("Main must read the shadow map published this frame")
	}
	if main.camera != camera {
		t.Error("Main must read the global camera")
	}
	if !main.sawBound {
		t.Error("sinks must be bound while the pass executes")
	}
	if main.shadow.IsBound() || camera.IsBound() || backend.BoundTargets() != 0 {
		t.Error("sinks must be unbound after the pass")
	}
}

// drawPass fills whatever target is bound with red.
type drawPass struct {
	BasePass
}

func (p *drawPass) Execute(ctx *Context, dt float64) error {
	return ctx.Backend.Draw(renderer.DrawCommand{
		Kind:   renderer.DrawFullscreen,
		Colour: mgl32.Vec4{1, 0, 0, 1},
	})
}

func TestBindLeavesDrawTargetForLast(t *testing.T) {
	ctx, backend := newTestContext(t)
	newTarget := func(name string) *renderer.RenderTarget {
		target, err := backend.RenderTargetCreate(renderer.RenderTargetConfig{
			Name: name, Width: 8, Height: 8,
			Attachments: []renderer.AttachmentType{renderer.AttachmentColour},
		})
		if err != nil {
			t.Fatal(err)
		}
		return target
	}
	output, input := newTarget("Output"), newTarget("Input")

	table := FactoryTable{
		PassTypeRender3D: {
			Type: PassTypeRender3D,
			New: func(ctx *Context, name string, registry *scene.Registry) (Pass, error) {
				p := &drawPass{BasePass: NewBasePass(name)}
				p.SetDrawTarget("target")
				return p, nil
			},
		},
	}
	cfg := NewConfig().
		AddPass(NewPassSpec("Main", PassTypeRender3D).
			AddSinkLinkage("target", "Output").
			AddSinkLinkage("read", "Input")).
		AddGlobalSource(NewRenderTargetResource("Output", output)).
		AddGlobalSource(NewRenderTargetResource("Input", input))

	g := NewGraph(table)
	finalize(t, ctx, g, cfg)
	if stats := g.Execute(ctx, 0.016); len(stats.Failed) != 0 || len(stats.Executed) != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	drawn, _ := headless.Image(output, renderer.AttachmentColour)
	if c := drawn.RGBAAt(4, 4); c.R != 255 {
		t.Errorf("the draw target must receive the draw, got %v", c)
	}
	read, _ := headless.Image(input, renderer.AttachmentColour)
	if c := read.RGBAAt(4, 4); c.R != 0 {
		t.Errorf("a sink linked after the draw target must not receive draws, got %v", c)
	}
	if backend.BoundTargets() != 0 {
		t.Errorf("every target must be unbound after the frame, %d left", backend.BoundTargets())
	}
}

// reentrantPass tries to rebuild its own graph mid-frame.
type reentrantPass struct {
	BasePass
	graph *Graph
	err   error
}

func (p *reentrantPass) Execute(ctx *Context, dt float64) error {
	p.err = p.graph.Finalize(ctx)
	return nil
}

func TestFinalizeWhileExecuting(t *testing.T) {
	ctx, _ := newTestContext(t)
	var g *Graph
	table := FactoryTable{
		testProducer: {
			Type: testProducer,
			New: func(ctx *Context, name string, registry *scene.Registry) (Pass, error) {
				return &reentrantPass{BasePass: NewBasePass(name), graph: g}, nil
			},
		},
	}
	g = NewGraph(table)
	finalize(t, ctx, g, NewConfig().AddPass(NewPassSpec("Rebuild", testProducer)))
	g.Execute(ctx, 0.016)

	p := mustPass[*reentrantPass](t, g, "Rebuild")
	if !errors.Is(p.err, ErrGraphExecuting) {
		t.Errorf("expected ErrGraphExecuting, got %v", p.err)
	}
	if g.State() != GraphFinalized {
		t.Errorf("expected the graph back in the finalized state, got %s", g.State())
	}
}

func TestFinalizeFailsFast(t *testing.T) {
	ctx, _ := newTestContext(t)
	tests := []struct {
		name string
		cfg  *Config
		want error
	}{
		{
			name: "unknown pass type",
			cfg:  NewConfig().AddPass(NewPassSpec("X", PassTypeSkybox)),
			want: ErrUnknownPassType,
		},
		{
			name: "scene aware without registry",
			cfg:  NewConfig().AddPass(NewPassSpec("S", testScene)),
			want: ErrMissingEntityRegistry,
		},
		{
			name: "required sink missing",
			cfg:  NewConfig().AddPass(NewPassSpec("B", testConsumer)),
			want: ErrMalformedLinkage,
		},
		{
			name: "self reference",
			cfg:  NewConfig().AddPass(NewPassSpec("B", testConsumer).AddSinkLinkage("in", "B.in")),
			want: ErrMalformedLinkage,
		},
		{
			name: "duplicate pass",
			cfg:  NewConfig().AddPass(NewPassSpec("A", testProducer)).AddPass(NewPassSpec("A", testProducer)),
			want: ErrDuplicatePass,
		},
		{
			name: "missing name",
			cfg:  NewConfig().AddPass(NewPassSpec("", testProducer)),
			want: ErrInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph(testTable())
			finalize(t, ctx, g, NewConfig().AddPass(NewPassSpec("Keep", testProducer)))

			g.SetConfig(tt.cfg)
			err := g.Finalize(ctx)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(g.Passes()) != 1 || g.Passes()[0].Name() != "Keep" {
				t.Error("a failed finalize must leave the graph unchanged")
			}
		})
	}
}

func TestConstructionErrorNamesThePass(t *testing.T) {
	ctx, _ := newTestContext(t)
	g := NewGraph(testTable())
	g.SetConfig(NewConfig().AddPass(NewPassSpec("Sky", PassTypeSkybox)))

	var cerr *ConstructionError
	if err := g.Finalize(ctx); !errors.As(err, &cerr) {
		t.Fatalf("expected a construction error, got %v", err)
	}
	if cerr.Pass != "Sky" || cerr.Type != PassTypeSkybox {
		t.Errorf("unexpected construction error %+v", cerr)
	}
}

func TestFinalizeWithoutConfig(t *testing.T) {
	ctx, _ := newTestContext(t)
	if err := NewGraph(testTable()).Finalize(ctx); !errors.Is(err, ErrNoConfig) {
		t.Errorf("expected ErrNoConfig, got %v", err)
	}
}

func TestSceneAwarePassGetsRegistry(t *testing.T) {
	ctx, _ := newTestContext(t)
	g := NewGraph(testTable(), WithScene(scene.NewRegistry()))
	finalize(t, ctx, g, NewConfig().AddPass(NewPassSpec("S", testScene)))
	if len(g.Passes()) != 1 {
		t.Error("scene-aware pass must be built when a registry is set")
	}
}

func TestFailingPassIsIsolated(t *testing.T) {
	ctx, backend := newTestContext(t)
	frame := NewRenderTargetResource("Frame", mustTarget(t, backend))
	cfg := NewConfig().
		AddPass(NewPassSpec("Fail", testFailing)).
		AddPass(NewPassSpec("A", testProducer)).
		AddGlobalSource(frame)
	g := NewGraph(testTable())
	finalize(t, ctx, g, cfg)
	fail := mustPass[*failingPass](t, g, "Fail")
	if err := fail.SetSinkLinkage("target", "Frame"); err != nil {
		t.Fatal(err)
	}

	stats := g.Execute(ctx, 0.016)
	if !slices.Equal(stats.Failed, []string{"Fail"}) || !slices.Equal(stats.Executed, []string{"A"}) {
		t.Errorf("unexpected stats %+v", stats)
	}
	if frame.IsBound() || backend.BoundTargets() != 0 {
		t.Error("a failing pass must still unbind its sinks")
	}
}

func mustTarget(t *testing.T, backend *headless.HeadlessRenderer) *renderer.RenderTarget {
	t.Helper()
	target, err := backend.RenderTargetCreate(renderer.RenderTargetConfig{
		Name: "frame", Width: 64, Height: 64, Attachments: renderer.FrameAttachments,
	})
	if err != nil {
		t.Fatal(err)
	}
	return target
}

func TestFinalSinkIsPresented(t *testing.T) {
	ctx, backend := newTestContext(t)
	cfg := NewConfig().AddGlobalSource(NewRenderTargetResource("RenderTarget", mustTarget(t, backend)))
	cfg.SetFinalSink("present", "RenderTarget")
	g := NewGraph(testTable())
	finalize(t, ctx, g, cfg)

	if stats := g.Execute(ctx, 0.016); !stats.Presented {
		t.Error("final sink must be presented")
	}
	if backend.Stats().Presents != 1 {
		t.Errorf("expected one present, got %d", backend.Stats().Presents)
	}

	g.SetFinalSink("present", "Missing")
	if stats := g.Execute(ctx, 0.016); stats.Presented {
		t.Error("an unresolved final sink must not present")
	}
}

func TestExecuteFlushesAndClearsDrawQueue(t *testing.T) {
	ctx, backend := newTestContext(t)
	frame := NewRenderTargetResource("Frame", mustTarget(t, backend))
	table := FactoryTable{
		PassTypeRender2D: {
			Type:  PassTypeRender2D,
			Sinks: []string{"target"},
			New: func(ctx *Context, name string, registry *scene.Registry) (Pass, error) {
				return &drawingPass{BasePass: NewBasePass(name)}, nil
			},
		},
	}
	cfg := NewConfig().
		AddPass(NewPassSpec("Draw", PassTypeRender2D).AddSinkLinkage("target", "Frame")).
		AddGlobalSource(frame)
	g := NewGraph(table)
	finalize(t, ctx, g, cfg)

	g.Execute(ctx, 0.016)
	if backend.Stats().Draws != 20 {
		t.Errorf("expected every queued draw to reach the backend, got %d", backend.Stats().Draws)
	}
	if !ctx.DrawQueue.IsEmpty() {
		t.Error("draw queue must be empty after the frame")
	}
}

// drawingPass submits more draws than the queue holds.
type drawingPass struct {
	BasePass
}

func (p *drawingPass) Execute(ctx *Context, dt float64) error {
	for i := 0; i < 20; i++ {
		if err := ctx.Submit(renderer.DrawCommand{Kind: renderer.DrawSprite}); err != nil {
			return err
		}
	}
	return nil
}
