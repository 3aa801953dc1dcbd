package motion

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/wintersim/internal/geom"
)

type testSignal struct {
	done bool
	err  error
}

func (s *testSignal) Poll() (bool, error) { return s.done, s.err }

func newTestUpdater(t *testing.T) (*Updater, Points, *ParticleField) {
	t.Helper()
	field, err := NewParticleField(4, 0.05, 0, 30)
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	for i := 0; i < 4; i++ {
		field.Set(i, geom.Vec3{X: float64(i), Y: 10 + float64(i), Z: 0})
	}
	points := Points{
		{Position: geom.Vec3{X: 1, Y: 2, Z: 3}, Velocity: geom.Vec3{X: 0.01, Y: -0.02, Z: 0.005}},
		{Position: geom.Vec3{X: -4, Y: 5, Z: 6}, Velocity: geom.Vec3{X: -0.01, Y: 0.01, Z: 0}},
	}
	return NewUpdater(field, points), points, field
}

func TestUpdater_TickAdvancesEverything(t *testing.T) {
	u, points, field := newTestUpdater(t)

	st, err := u.Tick(1)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	if st.Frame != 0 || u.Frame() != 1 {
		t.Errorf("expected stats for frame 0 and counter 1, got %d and %d", st.Frame, u.Frame())
	}
	if math.Abs(points[0].Position.X-1.01) > 1e-12 {
		t.Errorf("expected x 1.01, got %f", points[0].Position.X)
	}
	if math.Abs(field.At(0).Y-9.95) > 1e-12 {
		t.Errorf("expected y 9.95, got %f", field.At(0).Y)
	}
}

func TestUpdater_ZeroTickIsIdempotent(t *testing.T) {
	u, points, field := newTestUpdater(t)
	beforePts := append(Points(nil), points...)
	beforeField := field.Snapshot()

	for i := 0; i < 10; i++ {
		if _, err := u.Tick(0); err != nil {
			t.Fatalf("tick failed: %v", err)
		}
	}

	for i := range points {
		if points[i] != beforePts[i] {
			t.Errorf("point %d changed: %v -> %v", i, beforePts[i], points[i])
		}
	}
	for i := range beforeField {
		if field.Positions[i] != beforeField[i] {
			t.Errorf("field component %d changed", i)
		}
	}
}

func TestUpdater_RejectsBadDelta(t *testing.T) {
	u, _, _ := newTestUpdater(t)

	for _, dt := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := u.Tick(dt); !errors.Is(err, ErrNegativeDelta) {
			t.Errorf("dt=%v: expected ErrNegativeDelta, got %v", dt, err)
		}
	}
	if u.Frame() != 0 {
		t.Errorf("rejected ticks advanced the frame counter to %d", u.Frame())
	}
}

func TestUpdater_AttachesOnFirstTickAfterSignal(t *testing.T) {
	u, _, _ := newTestUpdater(t)
	sig := &testSignal{}
	u.Await("snowman", sig)

	st, _ := u.Tick(1)
	if u.Present("snowman") || len(st.Attached) != 0 {
		t.Fatal("model present before its signal fired")
	}

	sig.done = true
	if u.Present("snowman") {
		t.Fatal("model present before the next tick observed the signal")
	}

	st, _ = u.Tick(1)
	if !u.Present("snowman") {
		t.Fatal("model not present after signal")
	}
	if len(st.Attached) != 1 || st.Attached[0] != "snowman" {
		t.Errorf("expected snowman attached, got %v", st.Attached)
	}

	st, _ = u.Tick(1)
	if len(st.Attached) != 0 {
		t.Errorf("model attached twice: %v", st.Attached)
	}
}

func TestUpdater_FailedSignalIsDropped(t *testing.T) {
	u, _, _ := newTestUpdater(t)
	u.Await("fox", &testSignal{done: true, err: errors.New("404")})

	st, err := u.Tick(1)
	if err != nil {
		t.Fatalf("failed load should not fail the tick: %v", err)
	}
	if u.Present("fox") {
		t.Error("failed model reported present")
	}
	if len(st.Dropped) != 1 || st.Dropped[0] != "fox" {
		t.Errorf("expected fox dropped, got %v", st.Dropped)
	}
}

func TestUpdater_NilField(t *testing.T) {
	u := NewUpdater(nil, Points{{Velocity: geom.Vec3{X: 1}}})
	if _, err := u.Tick(1); err != nil {
		t.Fatalf("tick without field failed: %v", err)
	}
}

func TestFrameDelta(t *testing.T) {
	if got := FrameDelta(time.Second); got != ReferenceFPS {
		t.Errorf("expected %d frames per second, got %f", ReferenceFPS, got)
	}
	if got := FrameDelta(-time.Second); got != 0 {
		t.Errorf("expected 0 for negative elapsed, got %f", got)
	}
}
