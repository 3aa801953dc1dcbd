// Package automation runs batches of scenes: scripted scenarios from a yaml
// file and parameter sweeps that probe placement feasibility.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/wintersim/internal/config"
	"github.com/san-kum/wintersim/internal/metrics"
	"github.com/san-kum/wintersim/internal/placement"
	"github.com/san-kum/wintersim/internal/sim"
	"github.com/san-kum/wintersim/internal/world"
)

// Scenario defines a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Zero fields keep the preset's values.
type ScenarioStep struct {
	Preset      string             `yaml:"preset"`
	Seed        int64              `yaml:"seed"`
	Frames      int                `yaml:"frames"`
	Dt          float64            `yaml:"dt"`
	SampleEvery int                `yaml:"sample_every"`
	Params      map[string]float64 `yaml:"params"`
	SaveAs      string             `yaml:"save_as"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Scene  *world.Scene
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// stepConfig resolves the config a step runs with.
func stepConfig(step ScenarioStep) (*config.Config, error) {
	name := step.Preset
	if name == "" {
		name = "snowman"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	if step.Seed != 0 {
		cfg.Run.Seed = step.Seed
	}
	if step.Frames > 0 {
		cfg.Run.Frames = step.Frames
	}
	if step.Dt > 0 {
		cfg.Run.Dt = step.Dt
	}
	if step.SampleEvery > 0 {
		cfg.Run.SampleEvery = step.SampleEvery
	}
	for k, v := range step.Params {
		if err := SetParam(cfg, k, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes every step in order. The focal model is never
// fetched in a batch run. Results of completed steps are returned with the
// first error.
func RunScenario(ctx context.Context, scenario *Scenario, log *slog.Logger) ([]StepResult, error) {
	if log == nil {
		log = slog.Default()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("running step", "step", i+1, "of", len(scenario.Steps), "preset", step.Preset)

		cfg, err := stepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		scene, err := world.Build(cfg, placement.New(cfg.Run.Seed), log)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		s := sim.New(scene, scene.Updater(), "")
		s.AddMetric(metrics.NewSnowResets())
		s.AddMetric(metrics.NewSnowHeight())
		s.AddMetric(metrics.NewFireflyBounces())

		result, err := s.Run(ctx, sim.Config{Frames: cfg.Run.Frames, Dt: cfg.Run.Dt, SampleEvery: cfg.Run.SampleEvery})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Scene: scene, Result: result})
	}

	return results, nil
}

// SetParam sets a numeric scene parameter by its sweep name.
func SetParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "safe_radius":
		cfg.Scene.SafeRadius = v
	case "scatter_half":
		cfg.Scene.ScatterHalf = v
	case "trees":
		cfg.Trees.Count = int(v)
	case "mushrooms":
		cfg.Mushrooms.Count = int(v)
	case "fireflies":
		cfg.Fireflies.Count = int(v)
	case "snow":
		cfg.Snow.Count = int(v)
	case "fall_speed":
		cfg.Snow.FallSpeed = v
	case "firefly_speed":
		cfg.Fireflies.Speed = v
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

// ParameterSweep scatters a preset across a range of one parameter, several
// seeds per value.
type ParameterSweep struct {
	Preset      string
	ParamName   string
	ParamMin    float64
	ParamMax    float64
	NumSteps    int
	Trials      int
	Seed        int64
	MaxAttempts int
}

// SweepResult summarizes the trials at one parameter value.
type SweepResult struct {
	ParamValue    float64
	Feasible      int
	Infeasible    int
	MeanClearance float64
	MinClearance  float64
}

// RunSweep builds Trials scenes per parameter value and records how many
// could be placed. Snow is not seeded; only placement is exercised.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 || sweep.Trials < 1 {
		return nil, fmt.Errorf("sweep needs at least one step and one trial")
	}
	base := config.GetPreset(sweep.Preset)
	if base == nil {
		return nil, fmt.Errorf("unknown preset: %s", sweep.Preset)
	}
	base.Snow.Count = 0
	if sweep.MaxAttempts > 0 {
		base.Run.MaxAttempts = sweep.MaxAttempts
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	quiet := slog.New(slog.DiscardHandler)
	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := base.Clone()
		if err := SetParam(cfg, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		res := SweepResult{ParamValue: paramVal, MinClearance: -1}
		var means []float64
		for trial := 0; trial < sweep.Trials; trial++ {
			scene, err := world.Build(cfg, placement.New(sweep.Seed+int64(trial)), quiet)
			if errors.Is(err, placement.ErrPlacementInfeasible) {
				res.Infeasible++
				continue
			}
			if err != nil {
				return results, fmt.Errorf("%s=%.4f: %w", sweep.ParamName, paramVal, err)
			}
			res.Feasible++

			c := metrics.Clearance(scene.Placements(world.KindTree), scene.Zones())
			if c.Count == 0 {
				continue
			}
			means = append(means, c.Mean)
			if res.MinClearance < 0 || c.Min < res.MinClearance {
				res.MinClearance = c.Min
			}
		}
		if len(means) > 0 {
			res.MeanClearance = stat.Mean(means, nil)
		}

		results = append(results, res)
	}

	return results, nil
}
