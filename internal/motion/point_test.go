package motion

import (
	"math"
	"testing"

	"github.com/san-kum/wintersim/internal/geom"
)

func TestAnimatedPoint_ReflectsAtUpperBound(t *testing.T) {
	p := AnimatedPoint{
		Position: geom.Vec3{X: 0, Y: 6, Z: 0},
		Velocity: geom.Vec3{X: 0, Y: 0.02, Z: 0},
	}
	p.Bounds[1] = Bound(1, 6)

	flips := p.Step(1)

	if flips != 1 {
		t.Errorf("expected 1 flip, got %d", flips)
	}
	if p.Velocity.Y != -0.02 {
		t.Errorf("expected velocity -0.02, got %f", p.Velocity.Y)
	}
	if p.Position.Y > 6+0.02+1e-12 {
		t.Errorf("position %f exceeds bound by more than one step", p.Position.Y)
	}
}

func TestAnimatedPoint_ReflectsAtLowerBound(t *testing.T) {
	p := AnimatedPoint{
		Position: geom.Vec3{X: -20, Y: 3, Z: 0},
		Velocity: geom.Vec3{X: -0.01, Y: 0, Z: 0},
	}
	p.BoundedBy(geom.Domain{Min: geom.Vec3{X: -20, Y: 1, Z: -20}, Max: geom.Vec3{X: 20, Y: 6, Z: 20}})

	p.Step(1)
	if p.Velocity.X <= 0 {
		t.Errorf("expected positive x velocity after reflection, got %f", p.Velocity.X)
	}

	p.Step(1)
	if math.Abs(p.Position.X-(-20)) > 1e-12 {
		t.Errorf("expected point back at -20, got %f", p.Position.X)
	}
}

func TestAnimatedPoint_UnboundedAxisNeverFlips(t *testing.T) {
	p := AnimatedPoint{Velocity: geom.Vec3{X: 1, Y: 1, Z: 1}}
	for i := 0; i < 100; i++ {
		if flips := p.Step(1); flips != 0 {
			t.Fatalf("unbounded point flipped %d components", flips)
		}
	}
	if p.Position.X != 100 {
		t.Errorf("expected x 100, got %f", p.Position.X)
	}
}

func TestAnimatedPoint_ZeroDelta(t *testing.T) {
	p := AnimatedPoint{
		Position: geom.Vec3{X: 50, Y: 50, Z: 50},
		Velocity: geom.Vec3{X: 1, Y: 2, Z: 3},
	}
	p.BoundedBy(geom.Square(20, 0))

	if flips := p.Step(0); flips != 0 {
		t.Errorf("zero delta flipped %d components", flips)
	}
	if p.Position != (geom.Vec3{X: 50, Y: 50, Z: 50}) {
		t.Errorf("zero delta moved point to %v", p.Position)
	}
	if p.Velocity != (geom.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("zero delta changed velocity to %v", p.Velocity)
	}
}

func TestAnimatedPoint_DegenerateRangeFlipsOnceThenSettles(t *testing.T) {
	p := AnimatedPoint{
		Position: geom.Vec3{Y: 2},
		Velocity: geom.Vec3{Y: 0.5},
	}
	p.Bounds[1] = Bound(2, 2)

	if flips := p.Step(1); flips != 1 {
		t.Fatalf("expected one flip leaving a flat range, got %d", flips)
	}
	if flips := p.Step(1); flips != 0 {
		t.Fatalf("expected no flip back on the plane, got %d", flips)
	}
	if p.Position.Y != 2 {
		t.Errorf("expected point back on plane, got %f", p.Position.Y)
	}
}

func TestAnimatedPoint_LongStepReentersRange(t *testing.T) {
	p := AnimatedPoint{
		Position: geom.Vec3{Y: 5.95},
		Velocity: geom.Vec3{Y: 0.025},
	}
	p.Bounds[1] = Bound(1, 6)

	if flips := p.Step(4); flips != 1 {
		t.Fatalf("expected 1 flip on the long step, got %d", flips)
	}

	for i := 0; i < 3; i++ {
		if flips := p.Step(1); flips != 0 {
			t.Fatalf("tick %d: expected no flip while heading back in, got %d", i, flips)
		}
	}
	if p.Position.Y > 6 {
		t.Fatalf("expected point back in range after 3 ticks, got %f", p.Position.Y)
	}

	for i := 0; i < 1000; i++ {
		p.Step(1)
		if p.Position.Y < 1-0.025-1e-9 || p.Position.Y > 6+0.025+1e-9 {
			t.Fatalf("tick %d: position %f outside range by more than one step", i, p.Position.Y)
		}
	}
}

func TestAnimatedPoint_InwardVelocityOutsideRangeKept(t *testing.T) {
	tests := []struct {
		name     string
		y, vy    float64
		wantVel  float64
		wantFlip int
	}{
		{"above heading down", 7, -0.5, -0.5, 0},
		{"above heading up", 7, 0.5, -0.5, 1},
		{"below heading up", 0, 0.5, 0.5, 0},
		{"below heading down", 0, -0.5, 0.5, 1},
	}

	for _, tt := range tests {
		p := AnimatedPoint{Position: geom.Vec3{Y: tt.y}, Velocity: geom.Vec3{Y: tt.vy}}
		p.Bounds[1] = Bound(1, 6)

		flips := p.Step(1)
		if flips != tt.wantFlip {
			t.Errorf("%s: expected %d flips, got %d", tt.name, tt.wantFlip, flips)
		}
		if p.Velocity.Y != tt.wantVel {
			t.Errorf("%s: expected velocity %f, got %f", tt.name, tt.wantVel, p.Velocity.Y)
		}
	}
}

func TestPoints_EachPoint(t *testing.T) {
	ps := Points{{}, {}, {}}
	ps.EachPoint(func(p *AnimatedPoint) { p.Position.X = 7 })

	for i, p := range ps {
		if p.Position.X != 7 {
			t.Errorf("point %d not mutated in place", i)
		}
	}
}
