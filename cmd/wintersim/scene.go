package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/san-kum/wintersim/internal/assets"
	"github.com/san-kum/wintersim/internal/config"
	"github.com/san-kum/wintersim/internal/geom"
	"github.com/san-kum/wintersim/internal/metrics"
	"github.com/san-kum/wintersim/internal/placement"
	"github.com/san-kum/wintersim/internal/sim"
	"github.com/san-kum/wintersim/internal/world"
)

// buildScene scatters a scene from cfg.
func buildScene(cfg *config.Config) (*world.Scene, error) {
	return world.Build(cfg, placement.New(cfg.Run.Seed), slog.Default())
}

// newSimulator builds a scene, starts the focal model download and wires
// the standard metrics. The returned pending load is nil when no model is
// fetched.
func newSimulator(ctx context.Context, cfg *config.Config) (*sim.Simulator, *assets.Pending, error) {
	scene, err := buildScene(cfg)
	if err != nil {
		return nil, nil, err
	}
	up := scene.Updater()

	var pending *assets.Pending
	name, url := scene.Focal.Name, cfg.Assets.ModelURL
	if !noModel && name != "" && url != "" {
		pending = assets.LoadAsync(ctx, modelLoader(cfg), name, url, slog.Default())
		up.Await(name, pending)
	}

	s := sim.New(scene, up, name)
	s.AddMetric(metrics.NewSnowResets())
	s.AddMetric(metrics.NewSnowHeight())
	s.AddMetric(metrics.NewFireflyBounces())
	if pending != nil {
		s.AddMetric(metrics.NewFocalArrival(name))
	}
	return s, pending, nil
}

func modelLoader(cfg *config.Config) assets.Loader {
	url := cfg.Assets.ModelURL
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return assets.NewHTTPLoader(&http.Client{Timeout: cfg.Assets.Timeout})
	}
	return assets.NewLoader(url)
}

// placementsByKind keys a scene's placements by kind name.
func placementsByKind(scene *world.Scene) map[string][]geom.Vec3 {
	out := make(map[string][]geom.Vec3)
	for _, k := range []world.Kind{world.KindTree, world.KindMushroom, world.KindFirefly} {
		out[k.String()] = scene.Placements(k)
	}
	return out
}

func clearanceByKind(scene *world.Scene) map[string]metrics.ClearanceSummary {
	out := make(map[string]metrics.ClearanceSummary)
	for name, pts := range placementsByKind(scene) {
		out[name] = metrics.Clearance(pts, scene.Zones())
	}
	return out
}
