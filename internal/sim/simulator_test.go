package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/wintersim/internal/config"
	"github.com/san-kum/wintersim/internal/motion"
	"github.com/san-kum/wintersim/internal/placement"
	"github.com/san-kum/wintersim/internal/world"
)

type countingMetric struct {
	ticks int
}

func (c *countingMetric) Name() string                    { return "ticks" }
func (c *countingMetric) Observe(st motion.Stats, v View) { c.ticks++ }
func (c *countingMetric) Value() float64                  { return float64(c.ticks) }
func (c *countingMetric) Reset()                          { c.ticks = 0 }

type flag struct{ done bool }

func (f *flag) Poll() (bool, error) { return f.done, nil }

func smallScene(t *testing.T) (*world.Scene, *motion.Updater) {
	t.Helper()
	cfg := config.GetPreset("fox")
	cfg.Snow.Count = 200
	cfg.Trees.Count = 3
	cfg.Mushrooms.Count = 5

	scene, err := world.Build(cfg, placement.New(7), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return scene, scene.Updater()
}

func TestSimulatorRun(t *testing.T) {
	scene, up := smallScene(t)
	s := New(scene, up, "")
	m := &countingMetric{}
	s.AddMetric(m)

	res, err := s.Run(context.Background(), Config{Frames: 25, Dt: 1, SampleEvery: 10})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.StepsTaken != 25 {
		t.Errorf("expected 25 steps, got %d", res.StepsTaken)
	}
	if res.Metrics["ticks"] != 25 {
		t.Errorf("expected metric 25, got %f", res.Metrics["ticks"])
	}

	// initial, 10, 20, and the final frame
	if len(res.Samples) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(res.Samples))
	}
	want := []int{0, 10, 20, 25}
	for i, f := range want {
		if res.Samples[i].Frame != f {
			t.Errorf("sample %d: expected frame %d, got %d", i, f, res.Samples[i].Frame)
		}
	}
	if res.Samples[1].Time != 10.0/motion.ReferenceFPS {
		t.Errorf("expected time %f, got %f", 10.0/motion.ReferenceFPS, res.Samples[1].Time)
	}
	if up.Frame() != 25 {
		t.Errorf("expected updater at frame 25, got %d", up.Frame())
	}
}

func TestSimulatorRun_FocalAttach(t *testing.T) {
	scene, up := smallScene(t)
	sig := &flag{}
	up.Await("fox", sig)

	s := New(scene, up, "fox")
	s.AddObserver(observerFunc(func(st motion.Stats, v View) {
		if st.Frame == 4 {
			sig.done = true
		}
	}))

	res, err := s.Run(context.Background(), Config{Frames: 10, Dt: 1, SampleEvery: 5})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if f, ok := res.Attached["fox"]; !ok || f != 5 {
		t.Errorf("expected fox attached on frame 5, got %d (%v)", f, ok)
	}
	if res.Samples[0].FocalPresent {
		t.Error("expected focal absent at frame 0")
	}
	if !res.Samples[len(res.Samples)-1].FocalPresent {
		t.Error("expected focal present at the end")
	}
}

type observerFunc func(st motion.Stats, v View)

func (f observerFunc) OnTick(st motion.Stats, v View) { f(st, v) }

func TestSimulatorRun_Cancelled(t *testing.T) {
	scene, up := smallScene(t)
	s := New(scene, up, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Run(ctx, Config{Frames: 10, Dt: 1, SampleEvery: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.StepsTaken != 0 {
		t.Errorf("expected no steps after cancel, got %+v", res)
	}
}

func TestSimulatorRun_InvalidConfig(t *testing.T) {
	scene, up := smallScene(t)
	s := New(scene, up, "")

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero frames", Config{Frames: 0, Dt: 1, SampleEvery: 1}},
		{"negative dt", Config{Frames: 1, Dt: -1, SampleEvery: 1}},
		{"zero sample interval", Config{Frames: 1, Dt: 1, SampleEvery: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunWithCallback(t *testing.T) {
	scene, up := smallScene(t)
	s := New(scene, up, "")

	calls := 0
	err := s.RunWithCallback(context.Background(), func() float64 { return 1 }, func(st motion.Stats) bool {
		calls++
		return calls < 5
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 5 {
		t.Errorf("expected 5 callbacks, got %d", calls)
	}

	err = s.RunWithCallback(context.Background(), func() float64 { return -1 }, func(motion.Stats) bool { return true })
	if !errors.Is(err, motion.ErrNegativeDelta) {
		t.Errorf("expected ErrNegativeDelta, got %v", err)
	}
}
