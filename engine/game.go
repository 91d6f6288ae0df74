package engine

// Game is the application driven by the engine. Every hook is optional.
type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

// Initialize runs once the frame targets exist and before the first frame;
// it is the place to populate the scene.
type Initialize func(e *Engine) error

// Update runs before every frame.
type Update func(e *Engine, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
