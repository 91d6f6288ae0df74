package testbed

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/framegraph/engine"
	"github.com/spaghettifunk/framegraph/engine/core"
	"github.com/spaghettifunk/framegraph/engine/scene"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	width  uint32
	height uint32

	cubes   []scene.Entity
	emitter scene.Entity
	elapsed float64

	hoveredObjectID scene.Entity
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogDebug("TestGame Initialize fn....")

	state := g.State.(*gameState)
	reg := e.Scene()
	e.Camera().SetPosition(mgl32.Vec3{0, 2, 12})

	sky := reg.Create()
	scene.Assign(reg, sky, scene.Skybox{Cubemap: "skybox", Tint: mgl32.Vec4{0.05, 0.07, 0.12, 1}})

	sun := reg.Create()
	scene.Assign(reg, sun, scene.NewTransform(mgl32.Vec3{0, 10, 0}))
	scene.Assign(reg, sun, scene.Light{
		Kind:        scene.LightKindDirectional,
		Colour:      mgl32.Vec3{1, 0.95, 0.9},
		Intensity:   1,
		Direction:   mgl32.Vec3{-0.3, -1, -0.4},
		CastShadows: true,
	})

	// three cubes, each smaller than the last
	for i, size := range []float32{1, 0.6, 0.3} {
		cube := reg.Create()
		t := scene.NewTransform(mgl32.Vec3{float32(i)*3 - 3, 0, 0})
		t.Scale = mgl32.Vec3{size, size, size}
		scene.Assign(reg, cube, t)
		scene.Assign(reg, cube, scene.MeshRenderer{
			Mesh:        "cube",
			Material:    "test_material",
			Colour:      mgl32.Vec4{0.8, 0.3 + 0.2*float32(i), 0.2, 1},
			CastShadows: true,
		})
		state.cubes = append(state.cubes, cube)
	}
	scene.Assign(reg, state.cubes[0], scene.Highlighted{Colour: mgl32.Vec4{0, 1, 0.4, 1}})

	sprite := reg.Create()
	scene.Assign(reg, sprite, scene.NewTransform(mgl32.Vec3{0, 3, 0}))
	scene.Assign(reg, sprite, scene.SpriteRenderer{Colour: mgl32.Vec4{0.2, 0.6, 1, 1}, Size: mgl32.Vec2{1, 1}})

	label := reg.Create()
	scene.Assign(reg, label, scene.NewTransform(mgl32.Vec3{-3, 1.5, 0}))
	scene.Assign(reg, label, scene.Text{Value: "cube", Font: "Ubuntu Mono 21px", Colour: mgl32.Vec4{1, 1, 1, 1}, Size: 0.4})
	scene.Assign(reg, label, scene.UIElement{Space: scene.UISpaceWorld, Rect: image.Rect(0, 0, 40, 12), Colour: mgl32.Vec4{0, 0, 0, 0.6}})

	state.emitter = reg.Create()
	scene.Assign(reg, state.emitter, scene.NewTransform(mgl32.Vec3{3, -1, 0}))
	scene.Assign(reg, state.emitter, scene.ParticleEmitter{Additive: true})

	hud := reg.Create()
	scene.Assign(reg, hud, scene.UIElement{Space: scene.UISpaceScreen, Rect: image.Rect(8, 8, 200, 32), Colour: mgl32.Vec4{0, 0, 0, 0.5}})
	gizmo := reg.Create()
	scene.Assign(reg, gizmo, scene.UIElement{Space: scene.UISpaceEditor, Rect: image.Rect(8, 40, 40, 72), Colour: mgl32.Vec4{1, 1, 0, 0.8}, Layer: 1})

	e.Select(state.cubes[1])
	return nil
}

func (g *TestGame) Update(e *engine.Engine, deltaTime float64) error {
	state := g.State.(*gameState)
	state.elapsed += deltaTime
	reg := e.Scene()

	// Perform a small rotation on every cube.
	rotation := mgl32.QuatRotate(float32(0.5*deltaTime), mgl32.Vec3{0, 1, 0})
	for _, cube := range state.cubes {
		if t, ok := scene.Get[scene.Transform](reg, cube); ok {
			t.Rotation = rotation.Mul(t.Rotation).Normalize()
		}
	}

	// the particle simulation lives outside the graph; this one just orbits
	if em, ok := scene.Get[scene.ParticleEmitter](reg, state.emitter); ok {
		em.Particles = em.Particles[:0]
		for i := 0; i < 8; i++ {
			angle := state.elapsed + float64(i)*math.Pi/4
			em.Particles = append(em.Particles, scene.Particle{
				Position: mgl32.Vec3{0.5 * float32(math.Cos(angle)), 0.5 * float32(math.Sin(angle)), 0},
				Size:     0.1,
				Colour:   mgl32.Vec4{1, 0.5, 0.1, 0.6},
			})
		}
	}

	// sweep the mouse across the viewport so picking has something to do
	if state.width > 0 {
		x := int(state.elapsed*100) % int(state.width)
		e.SetMousePosition(x, int(state.height)/2)
	}
	if hovered := e.PickedEntity(); hovered != state.hoveredObjectID {
		state.hoveredObjectID = hovered
		if hovered == scene.InvalidEntity {
			core.LogDebug("Hovered: none")
		} else {
			core.LogDebug("Hovered: %d", hovered)
		}
	}

	if e.Frames() > 0 && e.Frames()%120 == 0 {
		fps, frameTime := e.Metrics().Frame()
		last := e.LastFrame()
		core.LogInfo("FPS: %5.1f(%4.1fms) passes: %d run, %d skipped, %d failed",
			fps, frameTime, len(last.Executed), len(last.Skipped), len(last.Failed))
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("testbed shutting down")
	return nil
}
