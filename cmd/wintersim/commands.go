package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/wintersim/internal/config"
	"github.com/san-kum/wintersim/internal/export"
	"github.com/san-kum/wintersim/internal/motion"
	"github.com/san-kum/wintersim/internal/sim"
	"github.com/san-kum/wintersim/internal/storage"
	"github.com/san-kum/wintersim/internal/viz"
	"github.com/san-kum/wintersim/internal/world"
)

func runScene(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, _, err := newSimulator(ctx, cfg)
	if err != nil {
		return err
	}

	simCfg := sim.Config{Frames: cfg.Run.Frames, Dt: cfg.Run.Dt, SampleEvery: cfg.Run.SampleEvery}
	fmt.Printf("running %s scene for %d frames...\n", cfg.Variant, simCfg.Frames)
	start := time.Now()

	var result *sim.Result
	if realtime {
		result, err = runRealtime(ctx, s, simCfg)
	} else {
		result, err = s.Run(ctx, simCfg)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := saveRun(st, cfg, s.Scene(), result, "")
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func saveRun(st *storage.Store, cfg *config.Config, scene *world.Scene, result *sim.Result, label string) (string, error) {
	counts := make(map[string]int)
	for k, n := range scene.Counts() {
		counts[k.String()] = n
	}
	if scene.Snow != nil {
		counts["snowflake"] = scene.Snow.Len()
	}

	return st.Save(&storage.Run{
		Meta: storage.RunMetadata{
			Variant:   cfg.Variant,
			Label:     label,
			Focal:     scene.Focal.Name,
			Seed:      cfg.Run.Seed,
			Dt:        cfg.Run.Dt,
			Frames:    result.StepsTaken,
			Counts:    counts,
			Metrics:   result.Metrics,
			Clearance: clearanceByKind(scene),
			Attached:  result.Attached,
			Dropped:   result.Dropped,
		},
		Config:     cfg,
		Placements: placementsByKind(scene),
		Samples:    result.Samples,
	})
}

// runRealtime paces the simulator at the reference frame rate.
func runRealtime(ctx context.Context, s *sim.Simulator, cfg sim.Config) (*sim.Result, error) {
	ticker := time.NewTicker(time.Second / motion.ReferenceFPS)
	defer ticker.Stop()

	last := time.Now()
	return runPaced(ctx, s, cfg, func() float64 {
		now := <-ticker.C
		d := motion.FrameDelta(now.Sub(last))
		last = now
		return d
	})
}

// runPaced ticks with deltas from next and samples on the same frames as
// Simulator.Run: frame 0, every SampleEvery frames and the final frame.
func runPaced(ctx context.Context, s *sim.Simulator, cfg sim.Config, next func() float64) (*sim.Result, error) {
	result := &sim.Result{
		Samples:  []sim.Sample{s.Snapshot(0, 0, 0, 0)},
		Metrics:  make(map[string]float64),
		Attached: make(map[string]int),
	}
	if cfg.Frames <= 0 || cfg.SampleEvery <= 0 {
		return result, fmt.Errorf("frames and sample interval must be positive, got %d and %d", cfg.Frames, cfg.SampleEvery)
	}

	elapsed := 0.0
	resets, bounces := 0, 0
	step := func() float64 {
		d := next()
		elapsed += d
		return d
	}

	err := s.RunWithCallback(ctx, step, func(st motion.Stats) bool {
		result.StepsTaken++
		for _, name := range st.Attached {
			result.Attached[name] = st.Frame
		}
		result.Dropped = append(result.Dropped, st.Dropped...)
		resets += st.Resets
		bounces += st.Bounces
		if result.StepsTaken%cfg.SampleEvery == 0 || result.StepsTaken == cfg.Frames {
			result.Samples = append(result.Samples, s.Snapshot(result.StepsTaken, elapsed, resets, bounces))
			slog.Debug("sample", "frame", result.StepsTaken, "snow_mean_y", s.SnowMeanHeight())
			resets, bounces = 0, 0
		}
		return result.StepsTaken < cfg.Frames
	})
	if err != nil {
		return result, err
	}
	result.Metrics = s.Metrics()
	return result, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// keep log output off the alternate screen
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	return viz.Run(ctx, viz.Options{
		Build: func() (*sim.Simulator, error) {
			s, _, err := newSimulator(ctx, cfg)
			return s, err
		},
		FixedStep:  fixedStep,
		SnowStride: snowStride,
		Theme:      theme,
		Frames:     frames,
		AutoRotate: autoRotate,
	})
}

func runPlace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scene, err := buildScene(cfg)
	if err != nil {
		return err
	}

	placements := placementsByKind(scene)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(placements)
	}

	clearance := clearanceByKind(scene)
	kinds := make([]string, 0, len(placements))
	for k := range placements {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Printf("variant: %s  seed: %d  zones: %d\n\n", cfg.Variant, cfg.Run.Seed, len(scene.Zones()))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tCOUNT\tMIN CLEAR\tMEAN CLEAR\tSTDDEV")
	for _, k := range kinds {
		c := clearance[k]
		fmt.Fprintf(w, "%s\t%d\t%.3f\t%.3f\t%.3f\n", k, len(placements[k]), c.Min, c.Mean, c.StdDev)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVARIANT\tTIME\tFRAMES\tSEED\tMODEL")

	for _, run := range runs {
		model := "absent"
		if _, ok := run.Attached[run.Focal]; ok {
			model = fmt.Sprintf("frame %d", run.Attached[run.Focal])
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Variant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Seed,
			model,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("variant: %s\n", meta.Variant)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(sim.Sample) float64
	}{
		{"mean snow height", func(s sim.Sample) float64 { return s.SnowMeanY }},
		{"mean firefly height", func(s sim.Sample) float64 { return s.FireflyMeanY }},
		{"snow resets per sample", func(s sim.Sample) float64 { return float64(s.Resets) }},
	}

	for _, ser := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = ser.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(ser.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	run, err := storage.New(dataDir).LoadRun(args[0])
	if err != nil {
		return err
	}
	return writeOutput(outFile, func(w io.Writer) error { return storage.ExportJSON(w, run) })
}

func exportCSV(cmd *cobra.Command, args []string) error {
	samples, err := storage.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}
	return writeOutput(outFile, func(w io.Writer) error { return storage.WriteFrames(w, samples) })
}

// exportSVG draws the scene from the current flags, or rebuilds the scene
// of a stored run from the config saved with it.
func exportSVG(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	if len(args) == 1 {
		loaded, err := storedConfig(storage.New(dataDir), args[0])
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	scene, err := buildScene(cfg)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		checkPlacements(storage.New(dataDir), args[0], scene)
	}

	svg := export.SceneToSVG(scene, export.MapOptions{Size: svgSize, SnowStride: svgStride})
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

// storedConfig returns the config a run was built from. Runs stored
// without one fall back to their preset and seed.
func storedConfig(st *storage.Store, runID string) (*config.Config, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}
	cfg, err := st.LoadConfig(runID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, storage.ErrRunNotFound) {
		return nil, err
	}

	slog.Warn("run has no stored config, rebuilding from preset", "run", runID, "variant", meta.Variant)
	cfg = config.GetPreset(meta.Variant)
	if cfg == nil {
		return nil, fmt.Errorf("run %s uses unknown variant %q", meta.ID, meta.Variant)
	}
	cfg.Run.Seed = meta.Seed
	return cfg, nil
}

// checkPlacements warns when a rebuilt scene differs from the placements
// stored with the run.
func checkPlacements(st *storage.Store, runID string, scene *world.Scene) {
	stored, err := st.LoadPlacements(runID)
	if err != nil {
		slog.Warn("cannot read stored placements", "run", runID, "error", err)
		return
	}
	for kind, pts := range placementsByKind(scene) {
		if !slices.Equal(pts, stored[kind]) {
			slog.Warn("rebuilt scene differs from stored run", "run", runID, "kind", kind,
				"stored", len(stored[kind]), "rebuilt", len(pts))
		}
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tFOCAL\tTREES\tMUSHROOMS\tFIREFLIES\tSNOW\tANIMATED")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%v\n",
			name, c.Scene.FocalModel, c.Trees.Count, c.Mushrooms.Count,
			c.Fireflies.Count, c.Snow.Count, c.Fireflies.Animate)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
