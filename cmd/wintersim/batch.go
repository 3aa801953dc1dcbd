package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/wintersim/internal/automation"
	"github.com/san-kum/wintersim/internal/storage"
)

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, runErr := automation.RunScenario(cmd.Context(), scenario, slog.Default())
	for _, r := range results {
		runID, err := saveRun(st, r.Config, r.Scene, r.Result, r.Step.SaveAs)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", runID, r.Step.SaveAs)
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Preset:      cfg.Variant,
		ParamName:   sweepParam,
		ParamMin:    sweepMin,
		ParamMax:    sweepMax,
		NumSteps:    sweepSteps,
		Trials:      sweepTrials,
		Seed:        cfg.Run.Seed,
		MaxAttempts: sweepAttempts,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFEASIBLE\tINFEASIBLE\tMEAN CLEAR\tMIN CLEAR\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%d\t%d\t%.3f\t%.3f\n", r.ParamValue, r.Feasible, r.Infeasible, r.MeanClearance, r.MinClearance)
	}
	return w.Flush()
}
