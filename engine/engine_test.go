package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/framegraph/engine/core"
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/renderer/headless"
	"github.com/spaghettifunk/framegraph/engine/renderer/passes"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
	"github.com/spaghettifunk/framegraph/engine/scene"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const viewport = 64

func testConfig() *ApplicationConfig {
	cfg := DefaultApplicationConfig()
	cfg.Name = "engine test"
	cfg.StartWidth = viewport
	cfg.StartHeight = viewport
	cfg.TargetFPS = 0
	cfg.LogLevel = "error"
	return cfg
}

type testEngine struct {
	*Engine
	backend *headless.HeadlessRenderer
	reader  *sdkmetric.ManualReader
	mesh    scene.Entity
}

func newTestEngine(t *testing.T, cfg *ApplicationConfig) *testEngine {
	t.Helper()
	core.SetLogOutput(io.Discard)
	t.Cleanup(func() { core.SetLogOutput(os.Stderr) })

	te := &testEngine{
		backend: headless.New(),
		reader:  sdkmetric.NewManualReader(),
	}
	game := &Game{
		ApplicationConfig: cfg,
		FnInitialize: func(e *Engine) error {
			te.mesh = e.Scene().Create()
			scene.Assign(e.Scene(), te.mesh, scene.NewTransform(mgl32.Vec3{}))
			scene.Assign(e.Scene(), te.mesh, scene.MeshRenderer{Mesh: "cube", Colour: mgl32.Vec4{1, 0, 0, 1}})
			return nil
		},
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(te.reader))
	e, err := New(game, WithBackend(te.backend), WithMeter(provider.Meter("test")))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	te.Engine = e
	t.Cleanup(func() { e.Shutdown() })
	return te
}

func (te *testEngine) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := te.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s is not an int64 sum", name)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestFrameRunsDefaultPipeline(t *testing.T) {
	for _, editor := range []bool{true, false} {
		t.Run(fmt.Sprintf("editor=%t", editor), func(t *testing.T) {
			cfg := testConfig()
			cfg.EditorMode = editor
			te := newTestEngine(t, cfg)
			te.SetMousePosition(viewport/2, viewport/2)

			stats, err := te.Frame(0.016)
			if err != nil {
				t.Fatal(err)
			}
			want := len(passes.DefaultConfig().Passes)
			if len(stats.Executed) != want || len(stats.Skipped) != 0 || len(stats.Failed) != 0 || !stats.Presented {
				t.Fatalf("expected %d executed passes and a present, got %+v", want, stats)
			}
			frame, _ := headless.Image(te.FrameTarget(), renderer.AttachmentColour)
			if c := frame.RGBAAt(viewport/2, viewport/2); c != (color.RGBA{R: 255, A: 255}) {
				t.Errorf("expected the mesh at the centre of the frame target, got %v", c)
			}
			if te.PickedEntity() != te.mesh {
				t.Errorf("expected the mesh %d under the mouse, got %d", te.mesh, te.PickedEntity())
			}
			if got := te.counter(t, "pass.executed"); got != int64(want) {
				t.Errorf("expected %d executed passes recorded, got %d", want, got)
			}
			if te.backend.Stats().Frames != 1 {
				t.Errorf("expected one backend frame, got %d", te.backend.Stats().Frames)
			}
		})
	}
}

func TestFrameClearsTargets(t *testing.T) {
	te := newTestEngine(t, testConfig())
	te.SetMousePosition(viewport/2, viewport/2)
	if _, err := te.Frame(0.016); err != nil {
		t.Fatal(err)
	}
	te.Scene().Destroy(te.mesh)
	if _, err := te.Frame(0.016); err != nil {
		t.Fatal(err)
	}
	if te.PickedEntity() != scene.InvalidEntity {
		t.Errorf("ids from the previous frame must not be picked, got %d", te.PickedEntity())
	}
}

func TestDeferredPipeline(t *testing.T) {
	cfg := testConfig()
	cfg.Pipeline = PipelineDeferred
	te := newTestEngine(t, cfg)
	te.SetMousePosition(viewport/2, viewport/2)

	stats, err := te.Frame(0.016)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(stats.Executed, "Lighting") || te.PickedEntity() != te.mesh {
		t.Errorf("unexpected deferred frame %+v, picked %d", stats, te.PickedEntity())
	}
}

func TestSkippedPassesAreForwardedAsEvents(t *testing.T) {
	te := newTestEngine(t, testConfig())
	var skipped []*core.PassSkippedEvent
	te.Events().Register(core.EVENT_CODE_PASS_SKIPPED, t, func(code core.SystemEventCode, sender, listener interface{}, ctx core.EventContext) bool {
		skipped = append(skipped, ctx.Data.(*core.PassSkippedEvent))
		return true
	})

	cfg := rendergraph.NewConfig().
		AddPass(rendergraph.NewPassSpec("UI", rendergraph.PassTypeUI).
			AddSinkLinkage(passes.SinkTarget, "Nowhere"))
	if err := te.Rebuild(cfg); err != nil {
		t.Fatal(err)
	}
	stats, err := te.Frame(0.016)
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 1 || skipped[0].Pass != "UI" || !slices.Equal(skipped[0].Unresolved, []string{passes.SinkTarget}) {
		t.Fatalf("unexpected skip events %+v", skipped)
	}
	if skipped[0].Frame != stats.Frame {
		t.Errorf("skip event for frame %d, stats for frame %d", skipped[0].Frame, stats.Frame)
	}
	if got := te.counter(t, "pass.skipped"); got != 1 {
		t.Errorf("expected one skipped pass recorded, got %d", got)
	}
}

func TestRebuildKeepsRunningGraphOnError(t *testing.T) {
	te := newTestEngine(t, testConfig())
	before := te.Graph()

	var reloaded int
	te.Events().Register(core.EVENT_CODE_GRAPH_RELOADED, t, func(code core.SystemEventCode, sender, listener interface{}, ctx core.EventContext) bool {
		reloaded++
		return true
	})

	bad := rendergraph.NewConfig().
		AddPass(rendergraph.NewPassSpec("Main", rendergraph.PassTypeRender3D)).
		AddPass(rendergraph.NewPassSpec("Main", rendergraph.PassTypeUI))
	if err := te.Rebuild(bad); !errors.Is(err, rendergraph.ErrDuplicatePass) {
		t.Fatalf("expected ErrDuplicatePass, got %v", err)
	}
	if te.Graph() != before || reloaded != 0 {
		t.Error("a rejected config must leave the running graph in place")
	}

	if err := te.Rebuild(passes.DeferredConfig()); err != nil {
		t.Fatal(err)
	}
	if te.Graph() == before || reloaded != 1 {
		t.Error("an accepted config must replace the graph and announce it")
	}
}

func TestOnResize(t *testing.T) {
	te := newTestEngine(t, testConfig())
	before := te.Graph()

	var refreshed bool
	te.Events().Register(core.EVENT_CODE_DEFAULT_RENDERTARGET_REFRESH_REQUIRED, t, func(code core.SystemEventCode, sender, listener interface{}, ctx core.EventContext) bool {
		refreshed = true
		return true
	})

	te.Events().Fire(core.EVENT_CODE_RESIZED, nil, &core.ResizeEvent{Width: 32, Height: 16})
	if w, h := te.GetFramebufferSize(); w != 32 || h != 16 {
		t.Fatalf("expected 32x16, got %dx%d", w, h)
	}
	if te.FrameTarget().Width != 32 || te.FrameTarget().Height != 16 {
		t.Errorf("frame target not resized: %dx%d", te.FrameTarget().Width, te.FrameTarget().Height)
	}
	if !refreshed || te.Graph() == before {
		t.Error("a resize must announce the new targets and rebuild the graph")
	}
	if te.pixels.Width != 1 || te.pixels.Height != 1 {
		t.Errorf("the pick buffer must keep its 1x1 size, got %dx%d", te.pixels.Width, te.pixels.Height)
	}
	if te.Camera().AspectRatio() != 2 {
		t.Errorf("editor camera must follow the viewport, aspect %v", te.Camera().AspectRatio())
	}
	if _, err := te.Frame(0.016); err != nil {
		t.Fatal(err)
	}

	if err := te.OnResize(0, 0); err != nil {
		t.Fatal(err)
	}
	if !te.isSuspended {
		t.Error("a zero size must suspend the engine")
	}
	if err := te.OnResize(viewport, viewport); err != nil {
		t.Fatal(err)
	}
	if te.isSuspended {
		t.Error("a non-zero size must resume the engine")
	}
}

func TestRunStopsAfterMaxFrames(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFrames = 3
	te := newTestEngine(t, cfg)

	var updates int
	te.gameInstance.FnUpdate = func(e *Engine, deltaTime float64) error {
		updates++
		return nil
	}
	if err := te.Run(); err != nil {
		t.Fatal(err)
	}
	if te.Frames() != 3 || updates != 3 {
		t.Errorf("expected 3 frames and updates, got %d and %d", te.Frames(), updates)
	}
}

func TestQuitEventStopsRun(t *testing.T) {
	te := newTestEngine(t, testConfig())
	te.gameInstance.FnUpdate = func(e *Engine, deltaTime float64) error {
		e.Events().Fire(core.EVENT_CODE_APPLICATION_QUIT, nil, nil)
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- te.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		te.Quit()
		t.Fatal("run did not stop on the quit event")
	}
	if te.Frames() != 1 {
		t.Errorf("the frame in flight must complete, got %d frames", te.Frames())
	}
}

func TestUpdateErrorStopsRun(t *testing.T) {
	te := newTestEngine(t, testConfig())
	te.gameInstance.FnUpdate = func(e *Engine, deltaTime float64) error {
		return errors.New("boom")
	}
	if err := te.Run(); err != nil {
		t.Fatal(err)
	}
	if te.Frames() != 0 {
		t.Errorf("no frame must be rendered after a failed update, got %d", te.Frames())
	}
}

func TestSceneCameraOutsideEditorMode(t *testing.T) {
	te := newTestEngine(t, testConfig())
	cam := te.Scene().Create()
	scene.Assign(te.Scene(), cam, scene.Camera{FOV: mgl32.DegToRad(60), Near: 0.1, Far: 100, Primary: true})
	scene.Assign(te.Scene(), cam, scene.NewTransform(mgl32.Vec3{0, 0, 20}))

	te.SetEditorMode(false)
	if _, err := te.Frame(0.016); err != nil {
		t.Fatal(err)
	}
	if te.cameraRes.Position != (mgl32.Vec3{0, 0, 20}) {
		t.Errorf("expected the scene camera, got %v", te.cameraRes.Position)
	}

	te.SetEditorMode(true)
	if _, err := te.Frame(0.016); err != nil {
		t.Fatal(err)
	}
	if te.cameraRes.Position != te.Camera().Position() {
		t.Errorf("expected the editor camera, got %v", te.cameraRes.Position)
	}
}

func TestSelection(t *testing.T) {
	te := newTestEngine(t, testConfig())
	te.Select(te.mesh)
	if _, err := te.Frame(0.016); err != nil {
		t.Fatal(err)
	}
	if got := te.Selection(); len(got) != 1 || got[0] != te.mesh {
		t.Errorf("unexpected selection %v", got)
	}
	te.Select()
	if len(te.Selection()) != 0 {
		t.Error("an empty select must clear the selection")
	}
}

const reloadedGraph = `
[[pass]]
name = "Render3D"
type = "render3d"
sinks = [
  { sink = "target", source = "RenderTarget" },
  { sink = "camera", source = "Camera" },
]

[final_sink]
sink = "present"
source = "RenderTarget"
`

func TestGraphFileHotReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.toml")
	var buf bytes.Buffer
	if err := passes.DefaultConfig().Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.GraphFile = path
	cfg.WatchGraph = true
	te := newTestEngine(t, cfg)
	if got := len(te.Graph().Passes()); got != len(passes.DefaultConfig().Passes) {
		t.Fatalf("expected the file pipeline, got %d passes", got)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(reloadedGraph), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := te.Frame(0.016); err != nil {
			t.Fatal(err)
		}
		if len(te.Graph().Passes()) == 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("graph was not reloaded, still %d passes", len(te.Graph().Passes()))
}

func TestShutdown(t *testing.T) {
	te := newTestEngine(t, testConfig())
	if err := te.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := te.Shutdown(); !errors.Is(err, core.ErrAlreadyShutdown) {
		t.Errorf("expected ErrAlreadyShutdown, got %v", err)
	}
	if te.Stage() != EngineStageShutdown {
		t.Errorf("unexpected stage %d", te.Stage())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Backend = "vulkan"
	if _, err := New(&Game{ApplicationConfig: cfg}); !errors.Is(err, ErrInvalidApplicationConfig) {
		t.Errorf("expected ErrInvalidApplicationConfig, got %v", err)
	}
}
