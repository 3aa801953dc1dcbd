// Package sim drives a scene's frame updater for a fixed number of frames,
// feeding metrics and recording a sampled trace.
package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/wintersim/internal/motion"
	"github.com/san-kum/wintersim/internal/world"
)

type Simulator struct {
	scene     *world.Scene
	updater   *motion.Updater
	focal     string
	metrics   []Metric
	observers []Observer
}

// New binds a simulator to scene. The updater must be the one advancing the
// scene; focal names the awaited model, if any.
func New(scene *world.Scene, updater *motion.Updater, focal string) *Simulator {
	return &Simulator{
		scene:     scene,
		updater:   updater,
		focal:     focal,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SnowMeanHeight() float64 {
	if s.scene.Snow == nil {
		return 0
	}
	return s.scene.Snow.MeanHeight()
}

func (s *Simulator) FireflyMeanHeight() float64 {
	flies := s.scene.Fireflies()
	if len(flies) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range flies {
		sum += f.Position.Y
	}
	return sum / float64(len(flies))
}

func (s *Simulator) Present(name string) bool { return s.updater.Present(name) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Samples:  make([]Sample, 0, cfg.Frames/cfg.SampleEvery+1),
		Metrics:  make(map[string]float64),
		Attached: make(map[string]int),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Samples = append(result.Samples, s.Snapshot(0, 0, 0, 0))

	resets, bounces := 0, 0
	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		st, err := s.Step(cfg.Dt)
		if err != nil {
			return result, SimError{Frame: i, Message: err.Error()}
		}
		result.StepsTaken++
		resets += st.Resets
		bounces += st.Bounces

		for _, name := range st.Attached {
			result.Attached[name] = st.Frame
		}
		result.Dropped = append(result.Dropped, st.Dropped...)

		if (i+1)%cfg.SampleEvery == 0 || i == cfg.Frames-1 {
			result.Samples = append(result.Samples, s.Snapshot(i+1, float64(i+1)*cfg.Dt, resets, bounces))
			resets, bounces = 0, 0
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// Snapshot records the scene state after frame ticks. elapsed is the total
// delta applied so far in reference frames; resets and bounces are the
// counts since the previous sample.
func (s *Simulator) Snapshot(frame int, elapsed float64, resets, bounces int) Sample {
	return Sample{
		Frame:        frame,
		Time:         elapsed / motion.ReferenceFPS,
		Resets:       resets,
		Bounces:      bounces,
		SnowMeanY:    s.SnowMeanHeight(),
		FireflyMeanY: s.FireflyMeanHeight(),
		FocalPresent: s.focal != "" && s.updater.Present(s.focal),
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.Dt < 0 {
		return fmt.Errorf("dt must be non-negative, got %f", cfg.Dt)
	}
	if cfg.SampleEvery <= 0 {
		return fmt.Errorf("sample interval must be positive, got %d", cfg.SampleEvery)
	}
	return nil
}

// Step applies a single tick of dt reference frames and notifies metrics
// and observers.
func (s *Simulator) Step(dt float64) (motion.Stats, error) {
	st, err := s.updater.Tick(dt)
	if err != nil {
		return st, err
	}
	for _, m := range s.metrics {
		m.Observe(st, s)
	}
	for _, obs := range s.observers {
		obs.OnTick(st, s)
	}
	return st, nil
}

// Metrics returns the current value of every registered metric.
func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Simulator) Scene() *world.Scene      { return s.scene }
func (s *Simulator) Updater() *motion.Updater { return s.updater }

// RunWithCallback ticks with dt from next until the callback returns false
// or ctx is done. next is called before every tick and returns the delta in
// reference frames, which lets a caller pace ticks off a wall clock.
func (s *Simulator) RunWithCallback(ctx context.Context, next func() float64, callback func(motion.Stats) bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		st, err := s.Step(next())
		if err != nil {
			return err
		}
		if !callback(st) {
			return nil
		}
	}
}
