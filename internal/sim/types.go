package sim

import (
	"fmt"

	"github.com/san-kum/wintersim/internal/motion"
)

// Metric accumulates a scalar over the ticks of a run.
type Metric interface {
	Name() string
	Observe(st motion.Stats, v View)
	Value() float64
	Reset()
}

// Observer is notified after every tick.
type Observer interface {
	OnTick(st motion.Stats, v View)
}

// View is the read-only scene state handed to metrics and observers.
type View interface {
	SnowMeanHeight() float64
	FireflyMeanHeight() float64
	Present(name string) bool
}

type Config struct {
	Frames      int
	Dt          float64
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{Frames: 600, Dt: 1, SampleEvery: 10}
}

// Sample is one row of the recorded frame trace.
type Sample struct {
	Frame        int     `csv:"frame" json:"frame"`
	Time         float64 `csv:"time" json:"time"`
	Resets       int     `csv:"resets" json:"resets"`
	Bounces      int     `csv:"bounces" json:"bounces"`
	SnowMeanY    float64 `csv:"snow_mean_y" json:"snow_mean_y"`
	FireflyMeanY float64 `csv:"firefly_mean_y" json:"firefly_mean_y"`
	FocalPresent bool    `csv:"focal_present" json:"focal_present"`
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Attached   map[string]int
	Dropped    []string
}

type SimError struct {
	Frame   int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d: %s", e.Frame, e.Message)
}
