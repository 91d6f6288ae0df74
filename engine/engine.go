package engine

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/framegraph/engine/assets"
	"github.com/spaghettifunk/framegraph/engine/core"
	"github.com/spaghettifunk/framegraph/engine/renderer"
	"github.com/spaghettifunk/framegraph/engine/renderer/headless"
	"github.com/spaghettifunk/framegraph/engine/renderer/passes"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
	"github.com/spaghettifunk/framegraph/engine/scene"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/spaghettifunk/framegraph/engine"

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released everything it owned
	EngineStageShutdown
)

var clearColour = mgl32.Vec4{0, 0, 0, 1}

type Option func(*Engine)

// WithBackend replaces the backend selected by the application config.
func WithBackend(backend renderer.Backend) Option {
	return func(e *Engine) {
		e.backend = backend
	}
}

// WithMeter records frame metrics on meter instead of the global provider.
func WithMeter(meter metric.Meter) Option {
	return func(e *Engine) {
		e.meter = meter
	}
}

// WithFactory replaces the built-in pass table.
func WithFactory(factory rendergraph.FactoryTable) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

type Engine struct {
	currentStage Stage
	gameInstance *Game
	config       *ApplicationConfig
	isRunning    atomic.Bool
	isSuspended  bool
	width        uint32
	height       uint32
	clock        *core.Clock
	lastTime     float64
	frames       uint64

	backend renderer.Backend
	meter   metric.Meter
	metrics *core.FrameMetrics
	events  *core.EventSystem
	ctx     *rendergraph.Context
	assets  *assets.Manager

	factory     rendergraph.FactoryTable
	graph       *rendergraph.Graph
	graphConfig *rendergraph.Config
	lastStats   rendergraph.FrameStats

	registry *scene.Registry
	camera   *scene.EditorCamera

	// frame targets and the editor state shared with the passes as globals
	frameTarget *renderer.RenderTarget
	gbuffer     *renderer.RenderTarget
	pixels      *renderer.PixelBuffer
	mouse       image.Point
	picked      int
	selection   []int
	editorMode  bool
	globals     []rendergraph.Resource
	cameraRes   *rendergraph.CameraResource
}

func New(g *Game, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, errors.New("engine needs a game")
	}
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		return nil, err
	}
	if err := core.SetLogLevel(g.ApplicationConfig.LogLevel); err != nil {
		return nil, err
	}

	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       g.ApplicationConfig,
		clock:        core.NewClock(),
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		editorMode:   g.ApplicationConfig.EditorMode,
		registry:     scene.NewRegistry(),
		events:       core.NewEventSystem(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.backend == nil {
		switch g.ApplicationConfig.Backend {
		case "headless":
			e.backend = headless.New()
		default:
			return nil, fmt.Errorf("%w: unknown backend %q", ErrInvalidApplicationConfig, g.ApplicationConfig.Backend)
		}
	}
	if e.factory == nil {
		e.factory = passes.Builtin()
	}
	if e.meter == nil {
		e.meter = otel.Meter(instrumentationName)
	}
	metrics, err := core.NewFrameMetrics(e.meter)
	if err != nil {
		return nil, err
	}
	e.metrics = metrics
	e.isRunning.Store(true)
	return e, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine cannot be initialized in stage %d", e.currentStage)
	}
	e.currentStage = EngineStageInitializing

	if err := e.backend.Initialize(e.config.Name, e.width, e.height); err != nil {
		return err
	}
	e.ctx = rendergraph.NewContext(e.backend, e.events, rendergraph.DefaultDrawQueueSize)

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)
	e.events.Register(core.EVENT_CODE_MOUSE_MOVED, e, e.onMouseMoved)

	if err := e.createTargets(); err != nil {
		return err
	}

	cfg, err := e.initialGraphConfig()
	if err != nil {
		return err
	}
	if e.config.WatchGraph {
		am, err := assets.NewManager()
		if err != nil {
			return err
		}
		if err := am.Watch(filepath.Dir(e.config.GraphFile)); err != nil {
			am.Close()
			return err
		}
		e.assets = am
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}
	if err := e.Rebuild(cfg); err != nil {
		return err
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized (%dx%d, %d passes)", e.width, e.height, len(e.graph.Passes()))
	return nil
}

func (e *Engine) initialGraphConfig() (*rendergraph.Config, error) {
	if e.config.GraphFile != "" {
		return rendergraph.LoadConfigFile(e.config.GraphFile)
	}
	if e.config.Pipeline == PipelineDeferred {
		return passes.DeferredConfig(), nil
	}
	return passes.DefaultConfig(), nil
}

// createTargets allocates the viewport sized targets and the globals every
// graph is given.
func (e *Engine) createTargets() error {
	frame, err := e.backend.RenderTargetCreate(renderer.RenderTargetConfig{
		Name:        passes.GlobalRenderTarget,
		Width:       e.width,
		Height:      e.height,
		Attachments: renderer.FrameAttachments,
	})
	if err != nil {
		return err
	}
	gbuffer, err := e.backend.RenderTargetCreate(renderer.RenderTargetConfig{
		Name:        passes.GlobalGBuffer,
		Width:       e.width,
		Height:      e.height,
		Attachments: renderer.GBufferAttachments,
	})
	if err != nil {
		e.backend.RenderTargetDestroy(frame)
		return err
	}
	e.frameTarget = frame
	e.gbuffer = gbuffer
	e.pixels = renderer.NewPixelBuffer(passes.GlobalPixelBuffer, 1, 1)
	e.camera = scene.NewEditorCamera(e.width, e.height)
	e.cameraRes = rendergraph.NewEditorCameraResource(passes.GlobalCamera, e.camera)

	e.globals = []rendergraph.Resource{
		e.cameraRes,
		rendergraph.NewRenderTargetResource(passes.GlobalRenderTarget, e.frameTarget),
		rendergraph.NewGBufferResource(passes.GlobalGBuffer, e.gbuffer),
		rendergraph.NewPixelBufferResource(passes.GlobalPixelBuffer, e.pixels),
		rendergraph.NewVec2IntResource(passes.GlobalMousePosition, &e.mouse),
		rendergraph.NewIntResource(passes.GlobalPickedEntity, &e.picked),
		rendergraph.NewIntListResource(passes.GlobalSelectedEntities, &e.selection),
		rendergraph.NewBoolResource(passes.GlobalEditorMode, &e.editorMode),
	}
	return nil
}

// Rebuild replaces the graph with one built from cfg. The running graph is
// kept when cfg does not finalize.
func (e *Engine) Rebuild(cfg *rendergraph.Config) error {
	if e.ctx == nil {
		return core.ErrNotInitialized
	}
	g := rendergraph.NewGraph(e.factory,
		rendergraph.WithScene(e.registry),
		rendergraph.WithSkipNotifier(e.onPassSkipped),
	)
	g.SetConfig(cfg)
	for _, r := range e.globals {
		g.SetGlobalSource(r)
	}
	if err := g.Finalize(e.ctx); err != nil {
		return err
	}

	if e.graph != nil {
		e.graph.Init(e.ctx)
		e.events.Fire(core.EVENT_CODE_GRAPH_RELOADED, e, g)
	}
	e.graph = g
	e.graphConfig = cfg
	return nil
}

// Frame renders one frame: pending graph reloads are applied, the camera
// snapshot refreshed and the graph executed between BeginFrame and EndFrame.
func (e *Engine) Frame(deltaTime float64) (rendergraph.FrameStats, error) {
	if e.graph == nil {
		return rendergraph.FrameStats{}, core.ErrNotInitialized
	}
	e.applyReloads()
	e.refreshCamera()

	if err := e.backend.BeginFrame(deltaTime); err != nil {
		return rendergraph.FrameStats{}, err
	}
	if err := e.clearTargets(); err != nil {
		e.backend.EndFrame(deltaTime)
		return rendergraph.FrameStats{}, err
	}
	stats := e.graph.Execute(e.ctx, deltaTime)
	if err := e.backend.EndFrame(deltaTime); err != nil {
		return stats, err
	}

	e.frames++
	e.lastStats = stats
	e.metrics.RecordPasses(stats.Executed, stats.Skipped, stats.Failed)
	return stats, nil
}

func (e *Engine) clearTargets() error {
	return errors.Join(
		e.backend.RenderTargetClear(e.frameTarget, clearColour),
		e.backend.RenderTargetClear(e.gbuffer, mgl32.Vec4{}),
	)
}

// refreshCamera renders through the primary scene camera outside editor
// mode, and through the editor camera otherwise or when the scene has none.
func (e *Engine) refreshCamera() {
	if !e.editorMode {
		if _, cam, t, ok := scene.PrimaryCamera(e.registry); ok {
			e.cameraRes.UpdateFromScene(*cam, *t, float32(e.width)/float32(e.height))
			return
		}
	}
	e.cameraRes.UpdateFromEditor(e.camera)
}

// applyReloads rebuilds the graph from the newest description delivered by
// the watcher since the last frame.
func (e *Engine) applyReloads() {
	if e.assets == nil {
		return
	}
	want, err := filepath.Abs(e.config.GraphFile)
	if err != nil {
		want = filepath.Clean(e.config.GraphFile)
	}

	var latest *rendergraph.Config
drain:
	for {
		select {
		case update, ok := <-e.assets.Graphs():
			if !ok {
				break drain
			}
			if path, err := filepath.Abs(update.Path); err == nil && path == want {
				latest = update.Config
			}
		case err, ok := <-e.assets.Errors():
			if !ok {
				break drain
			}
			core.LogWarn("graph watcher: %v", err)
		default:
			break drain
		}
	}
	if latest == nil {
		return
	}
	if err := e.Rebuild(latest); err != nil {
		core.LogError("graph reload rejected, keeping the running graph: %v", err)
		return
	}
	core.LogInfo("graph reloaded from %s", e.config.GraphFile)
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return core.ErrNotInitialized
	}
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var targetFrameSeconds float64
	if e.config.TargetFPS > 0 {
		targetFrameSeconds = 1.0 / e.config.TargetFPS
	}

	for e.isRunning.Load() {
		if e.isSuspended {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStart := time.Now()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(e, delta); err != nil {
				core.LogError("game update failed, shutting down: %v", err)
				e.isRunning.Store(false)
				break
			}
		}
		if _, err := e.Frame(delta); err != nil {
			core.LogError("frame %d failed, shutting down: %v", e.frames, err)
			e.isRunning.Store(false)
			break
		}

		frameElapsed := time.Since(frameStart).Seconds()
		e.metrics.Update(frameElapsed)
		if remaining := targetFrameSeconds - frameElapsed; remaining > 0 {
			// give the rest of the frame back to the OS
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}

		e.lastTime = currentTime
		if e.config.MaxFrames > 0 && e.frames >= e.config.MaxFrames {
			e.isRunning.Store(false)
		}
	}

	fps, frameTime := e.metrics.Frame()
	core.LogInfo("stopped after %d frames (%.1f fps, %.3f ms)", e.frames, fps, frameTime)
	e.currentStage = EngineStageInitialized
	return nil
}

// Quit stops Run after the current frame. It is safe to call from any
// goroutine.
func (e *Engine) Quit() {
	e.isRunning.Store(false)
}

// OnResize resizes the viewport sized targets and rebuilds the graph. A zero
// size suspends Run until the next non-zero resize.
func (e *Engine) OnResize(width, height uint32) error {
	if width == e.width && height == e.height {
		return nil
	}
	e.width, e.height = width, height
	core.LogDebug("viewport resize: %d, %d", width, height)

	if width == 0 || height == 0 {
		core.LogInfo("viewport minimized, suspending application.")
		e.isSuspended = true
		return nil
	}
	if e.isSuspended {
		core.LogInfo("viewport restored, resuming application.")
		e.isSuspended = false
	}

	if err := e.backend.Resized(width, height); err != nil {
		return err
	}
	e.camera.SetViewport(width, height)
	for _, r := range e.globals {
		if !rendergraph.NeedsResize(r, width, height) {
			continue
		}
		var err error
		switch v := r.(type) {
		case *rendergraph.RenderTargetResource:
			err = e.backend.RenderTargetResize(v.Target, width, height)
		case *rendergraph.GBufferResource:
			err = e.backend.RenderTargetResize(v.Target, width, height)
		}
		if err != nil {
			return err
		}
	}
	e.events.Fire(core.EVENT_CODE_DEFAULT_RENDERTARGET_REFRESH_REQUIRED, e, &core.ResizeEvent{Width: width, Height: height})

	if e.graphConfig != nil {
		if err := e.Rebuild(e.graphConfig); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		return e.gameInstance.FnOnResize(width, height)
	}
	return nil
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return core.ErrAlreadyShutdown
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning.Store(false)

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.assets != nil {
		errs = append(errs, e.assets.Close())
		e.assets = nil
	}
	if e.ctx != nil {
		if e.graph != nil {
			e.graph.Init(e.ctx)
			e.graph = nil
		}
		e.ctx.Shutdown()
	}
	if e.frameTarget != nil {
		e.backend.RenderTargetDestroy(e.frameTarget)
		e.backend.RenderTargetDestroy(e.gbuffer)
	}
	errs = append(errs, e.events.Shutdown())
	if e.ctx != nil {
		errs = append(errs, e.backend.Shutdown())
	}
	e.currentStage = EngineStageShutdown
	return errors.Join(errs...)
}

func (e *Engine) Stage() Stage                        { return e.currentStage }
func (e *Engine) Scene() *scene.Registry              { return e.registry }
func (e *Engine) Graph() *rendergraph.Graph           { return e.graph }
func (e *Engine) Backend() renderer.Backend           { return e.backend }
func (e *Engine) Events() *core.EventSystem           { return e.events }
func (e *Engine) Camera() *scene.EditorCamera         { return e.camera }
func (e *Engine) Metrics() *core.FrameMetrics         { return e.metrics }
func (e *Engine) FrameTarget() *renderer.RenderTarget { return e.frameTarget }
func (e *Engine) LastFrame() rendergraph.FrameStats   { return e.lastStats }
func (e *Engine) Frames() uint64                      { return e.frames }

// GetFramebufferSize returns the width and height (in this order) of the
// viewport.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) SetMousePosition(x, y int) {
	e.mouse = image.Pt(x, y)
}

// PickedEntity is the entity under the mouse as of the last frame.
func (e *Engine) PickedEntity() scene.Entity {
	return scene.Entity(e.picked)
}

func (e *Engine) Select(entities ...scene.Entity) {
	e.selection = e.selection[:0]
	for _, ent := range entities {
		e.selection = append(e.selection, int(ent))
	}
}

func (e *Engine) Selection() []scene.Entity {
	out := make([]scene.Entity, 0, len(e.selection))
	for _, id := range e.selection {
		out = append(out, scene.Entity(id))
	}
	return out
}

func (e *Engine) SetEditorMode(enabled bool) {
	e.editorMode = enabled
}

func (e *Engine) EditorMode() bool {
	return e.editorMode
}

func (e *Engine) onPassSkipped(frame uint64, pass string, unresolved []string) {
	e.events.Fire(core.EVENT_CODE_PASS_SKIPPED, e, &core.PassSkippedEvent{
		Frame:      frame,
		Pass:       pass,
		Unresolved: unresolved,
	})
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.Quit()
		return true
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	re, ok := context.Data.(*core.ResizeEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if err := e.OnResize(re.Width, re.Height); err != nil {
		core.LogError("resize to %dx%d failed: %v", re.Width, re.Height, err)
	}
	return false
}

func (e *Engine) onMouseMoved(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	e.SetMousePosition(me.PosX, me.PosY)
	return false
}
