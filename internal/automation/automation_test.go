package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/wintersim/internal/config"
)

const scenarioYAML = `name: dusk
description: two short runs
steps:
  - preset: calm
    seed: 5
    frames: 12
    sample_every: 4
    params:
      snow: 200
  - preset: fox
    frames: 6
    sample_every: 3
    params:
      snow: 100
      trees: 4
    save_as: fox-short
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Name != "dusk" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	results, err := RunScenario(context.Background(), sc, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.Config.Run.Seed != 5 || first.Config.Snow.Count != 200 {
		t.Errorf("expected seed 5 and 200 flakes, got %d and %d", first.Config.Run.Seed, first.Config.Snow.Count)
	}
	if first.Result.StepsTaken != 12 || len(first.Result.Samples) != 4 {
		t.Errorf("expected 12 steps and 4 samples, got %d and %d", first.Result.StepsTaken, len(first.Result.Samples))
	}

	second := results[1]
	if second.Step.SaveAs != "fox-short" {
		t.Errorf("expected save_as fox-short, got %s", second.Step.SaveAs)
	}
	if len(second.Scene.Placements(0)) != 4 {
		t.Errorf("expected 4 trees, got %d", len(second.Scene.Placements(0)))
	}
}

func TestRunScenario_BadStep(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Preset: "calm", Frames: 2, Params: map[string]float64{"snow": 10}},
		{Preset: "calm", Params: map[string]float64{"gravity": 9.8}},
	}}

	results, err := RunScenario(context.Background(), sc, nil)
	if err == nil {
		t.Fatal("expected error for unknown parameter")
	}
	if len(results) != 1 {
		t.Errorf("expected the first step to complete, got %d results", len(results))
	}
}

func TestLoadScenario_Empty(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestSetParam(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		name  string
		value float64
		check func() bool
	}{
		{"safe_radius", 7, func() bool { return cfg.Scene.SafeRadius == 7 }},
		{"trees", 3, func() bool { return cfg.Trees.Count == 3 }},
		{"fall_speed", 0.1, func() bool { return cfg.Snow.FallSpeed == 0.1 }},
	}

	for _, tt := range tests {
		if err := SetParam(cfg, tt.name, tt.value); err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		if !tt.check() {
			t.Errorf("%s: value not applied", tt.name)
		}
	}

	if err := SetParam(cfg, "wind", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Preset:      "snowman",
		ParamName:   "safe_radius",
		ParamMin:    5,
		ParamMax:    30,
		NumSteps:    2,
		Trials:      3,
		Seed:        1,
		MaxAttempts: 200,
	}

	results, err := RunSweep(context.Background(), sweep)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].ParamValue != 5 || results[0].Feasible != 3 || results[0].Infeasible != 0 {
		t.Errorf("expected all trials feasible at radius 5, got %+v", results[0])
	}
	if results[0].MinClearance < 0 || results[0].MeanClearance <= results[0].MinClearance {
		t.Errorf("unexpected clearance %+v", results[0])
	}

	// a radius of 30 covers the whole scatter square
	if results[1].ParamValue != 30 || results[1].Infeasible != 3 {
		t.Errorf("expected all trials infeasible at radius 30, got %+v", results[1])
	}
}

func TestRunSweep_Invalid(t *testing.T) {
	if _, err := RunSweep(context.Background(), &ParameterSweep{Preset: "snowman", NumSteps: 0, Trials: 1}); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := RunSweep(context.Background(), &ParameterSweep{Preset: "nope", NumSteps: 1, Trials: 1}); err == nil {
		t.Error("expected error for unknown preset")
	}
}
