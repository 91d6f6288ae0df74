package math

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := Clamp(-1.5, 0.0, 1.0); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
	if got := Clamp(uint32(7), 2, 9); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
}

func TestScreenBoundsIdentity(t *testing.T) {
	// With an identity projection NDC maps straight to the viewport.
	r := ScreenBounds(mgl32.Ident4(), mgl32.Vec3{0, 0, 0}, 0.5, 100, 100)
	want := image.Rect(25, 25, 75, 75)
	if r != want {
		t.Errorf("expected %v, got %v", want, r)
	}
}

func TestScreenBoundsClipsToViewport(t *testing.T) {
	r := ScreenBounds(mgl32.Ident4(), mgl32.Vec3{0.9, 0, 0}, 0.5, 100, 100)
	if r.Max.X != 100 {
		t.Errorf("expected footprint clipped at the right edge, got %v", r)
	}
}

func TestScreenBoundsBehindCamera(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	if r := ScreenBounds(proj.Mul4(view), mgl32.Vec3{0, 0, 20}, 0.5, 64, 64); !r.Empty() {
		t.Errorf("object behind the camera must not be visible, got %v", r)
	}
	if r := ScreenBounds(proj.Mul4(view), mgl32.Vec3{0, 0, 0}, 0.5, 64, 64); r.Empty() {
		t.Error("object in front of the camera must be visible")
	}
}

func TestProjectPoint(t *testing.T) {
	p, ok := ProjectPoint(mgl32.Ident4(), mgl32.Vec3{0.5, 0.5, 0}, 100, 100)
	if !ok || p != image.Pt(75, 25) {
		t.Errorf("expected (75,25), got %v %v", p, ok)
	}
	behind := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	if _, ok := ProjectPoint(behind, mgl32.Vec3{0, 0, 5}, 100, 100); ok {
		t.Error("a point behind the camera must not project")
	}
}
