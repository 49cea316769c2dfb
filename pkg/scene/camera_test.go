package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCamera_Defaults(t *testing.T) {
	c := NewCamera()
	if c.Eye() != (mgl64.Vec3{0, 0, DefaultDistance}) {
		t.Errorf("Eye() = %v", c.Eye())
	}
	if f := c.Forward(); f.Sub(mgl64.Vec3{0, 0, -1}).Len() > 1e-12 {
		t.Errorf("Forward() = %v, want -Z", f)
	}
}

func TestCamera_MoveAndTurn(t *testing.T) {
	c := NewCamera()
	c.Move(100, 0, 0)
	if math.Abs(c.Position[2]-500) > 1e-9 {
		t.Errorf("after forward move z = %v, want 500", c.Position[2])
	}
	c.Move(0, 10, 5)
	if math.Abs(c.Position[0]-10) > 1e-9 || math.Abs(c.Position[1]-5) > 1e-9 {
		t.Errorf("after strafe position = %v", c.Position)
	}

	c.Turn(math.Pi/2, 0)
	if f := c.Forward(); f.Sub(mgl64.Vec3{1, 0, 0}).Len() > 1e-9 {
		t.Errorf("after quarter turn Forward() = %v, want +X", f)
	}

	c.Turn(0, 10)
	if c.Pitch >= math.Pi/2 {
		t.Errorf("pitch not clamped: %v", c.Pitch)
	}

	c.Reset()
	if c.Yaw != 0 || c.Pitch != 0 || c.Position[2] != DefaultDistance {
		t.Errorf("Reset() left %+v", c)
	}
}

func TestProjector_Project(t *testing.T) {
	c := NewCamera()
	p := c.Projector(200, 100)

	x, y, depth, ok := p.Project(mgl64.Vec3{})
	if !ok {
		t.Fatal("origin not visible")
	}
	if math.Abs(x-100) > 1e-6 || math.Abs(y-50) > 1e-6 {
		t.Errorf("origin projects to (%v, %v), want centre", x, y)
	}
	if math.Abs(depth-DefaultDistance) > 1e-6 {
		t.Errorf("depth = %v, want %v", depth, DefaultDistance)
	}

	// up in the world is up on screen
	_, yUp, _, _ := p.Project(mgl64.Vec3{0, 50, 0})
	if yUp >= y {
		t.Errorf("point above origin projected lower: %v >= %v", yUp, y)
	}

	if _, _, _, ok := p.Project(mgl64.Vec3{0, 0, 1000}); ok {
		t.Error("point behind camera reported visible")
	}
}
