package testbed

import (
	"io"
	"os"
	"testing"

	"github.com/spaghettifunk/framegraph/engine"
	"github.com/spaghettifunk/framegraph/engine/core"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

func TestGameRunsHeadless(t *testing.T) {
	core.SetLogOutput(io.Discard)
	t.Cleanup(func() { core.SetLogOutput(os.Stderr) })

	cfg := engine.DefaultApplicationConfig()
	cfg.StartWidth, cfg.StartHeight = 160, 90
	cfg.MaxFrames = 5
	cfg.TargetFPS = 0
	cfg.LogLevel = "error"

	game := NewTestGame(cfg)
	e, err := engine.New(game.Game)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()

	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if e.Frames() != 5 {
		t.Fatalf("expected 5 frames, got %d", e.Frames())
	}
	last := e.LastFrame()
	if len(last.Skipped) != 0 || len(last.Failed) != 0 || !last.Presented {
		t.Errorf("unexpected last frame %+v", last)
	}

	state := game.State.(*gameState)
	if w, h := state.width, state.height; w != 160 || h != 90 {
		t.Errorf("resize hook not called, state has %dx%d", w, h)
	}
	em, ok := scene.Get[scene.ParticleEmitter](e.Scene(), state.emitter)
	if !ok || len(em.Particles) != 8 {
		t.Errorf("emitter not updated: %+v", em)
	}
}
