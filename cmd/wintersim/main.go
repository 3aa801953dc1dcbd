package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/wintersim/internal/config"
)

var (
	dataDir     string
	configFile  string
	preset      string
	seed        int64
	frames      int
	dt          float64
	sampleEvery int
	realtime    bool
	modelURL    string
	noModel     bool
	logFormat   string
	logLevel    string

	// live view
	fixedStep  bool
	theme      string
	autoRotate bool
	snowStride int

	// output
	outFile   string
	asJSON    bool
	svgSize   int
	svgStride int

	// sweep
	sweepParam    string
	sweepMin      float64
	sweepMax      float64
	sweepSteps    int
	sweepTrials   int
	sweepAttempts int
)

// main registers the wintersim commands and exits with status 1 when a
// command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "wintersim",
		Short:         "procedural winter scene: placement, snowfall and fireflies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logFormat, logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".wintersim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "snowman", "scene preset")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 keeps the config seed)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	sceneFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&modelURL, "model-url", "", "override the focal model location")
		cmd.Flags().BoolVar(&noModel, "no-model", false, "skip loading the focal model")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the scene headless and store the trace",
		RunE:  runScene,
	}
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	runCmd.Flags().Float64Var(&dt, "dt", 1, "reference frames per tick")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record a sample every n frames")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "pace ticks off the wall clock instead of running flat out")
	sceneFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the scene in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frames, "frames", 0, "stop after n frames (0 runs until quit)")
	liveCmd.Flags().BoolVar(&fixedStep, "fixed", false, "advance one reference frame per tick")
	liveCmd.Flags().StringVar(&theme, "theme", "moonlight", "color theme")
	liveCmd.Flags().BoolVar(&autoRotate, "auto-rotate", true, "orbit the camera automatically")
	liveCmd.Flags().IntVar(&snowStride, "stride", 4, "draw every n-th snowflake")
	sceneFlags(liveCmd)

	placeCmd := &cobra.Command{
		Use:   "place",
		Short: "scatter the scene and print placements",
		RunE:  runPlace,
	}
	placeCmd.Flags().BoolVar(&asJSON, "json", false, "print placements as JSON")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's frame trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's frame trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a top-down map of the scene, or of a stored run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "scene.svg", "output file")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")
	exportSVGCmd.Flags().IntVar(&svgStride, "snow-stride", 25, "draw every n-th snowflake (0 hides snow)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scene presets",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a scenario file and store the runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "probe placement feasibility across a parameter range",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "safe_radius", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 2, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 30, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")
	sweepCmd.Flags().IntVar(&sweepTrials, "trials", 5, "seeds per value")
	sweepCmd.Flags().IntVar(&sweepAttempts, "attempts", 1000, "placement attempts per sample")

	rootCmd.AddCommand(runCmd, liveCmd, placeCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd, initCmd, scenarioCmd, sweepCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func setupLogger(format, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text", "":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unknown log format: %s", format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadConfig resolves the preset or config file, then applies flag
// overrides. Flags win over the file only when set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Run.Seed = seed
	}
	// live treats --frames 0 as "until quit", which is not a run length
	if flags.Lookup("frames") != nil && flags.Changed("frames") && frames > 0 {
		cfg.Run.Frames = frames
	}
	if flags.Lookup("dt") != nil && flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Lookup("sample-every") != nil && flags.Changed("sample-every") {
		cfg.Run.SampleEvery = sampleEvery
	}
	if flags.Lookup("model-url") != nil && flags.Changed("model-url") {
		cfg.Assets.ModelURL = modelURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
