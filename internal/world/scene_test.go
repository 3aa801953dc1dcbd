package world

import (
	"io"
	"log/slog"
	"testing"

	"github.com/san-kum/wintersim/internal/config"
	"github.com/san-kum/wintersim/internal/geom"
	"github.com/san-kum/wintersim/internal/placement"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildScene(t *testing.T, cfg *config.Config) *Scene {
	t.Helper()
	s, err := Build(cfg, placement.New(11), quietLogger())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return s
}

func TestBuild_DefaultCounts(t *testing.T) {
	cfg := config.DefaultConfig()
	s := buildScene(t, cfg)

	counts := s.Counts()
	if counts[KindTree] != 10 {
		t.Errorf("expected 10 trees, got %d", counts[KindTree])
	}
	if counts[KindMushroom] != 50 {
		t.Errorf("expected 50 mushrooms, got %d", counts[KindMushroom])
	}
	if counts[KindFirefly] != 15 {
		t.Errorf("expected 15 fireflies, got %d", counts[KindFirefly])
	}
	if s.Snow.Len() != 5000 {
		t.Errorf("expected 5000 snowflakes, got %d", s.Snow.Len())
	}
}

func TestBuild_EverythingOutsideClearing(t *testing.T) {
	cfg := config.GetPreset("crowded")
	s := buildScene(t, cfg)

	for _, k := range []Kind{KindTree, KindMushroom, KindFirefly} {
		for _, p := range s.Placements(k) {
			if !geom.Outside(p, s.Zones()...) {
				t.Errorf("%s at %v inside an exclusion zone", k, p)
			}
		}
	}
	for _, f := range s.Fireflies() {
		if f.Position.DistanceTo(cfg.Scene.FocalPos) < cfg.Scene.SafeRadius {
			t.Errorf("firefly at %v inside the clearing", f.Position)
		}
	}
}

func TestBuild_TreeGeometry(t *testing.T) {
	s := buildScene(t, config.DefaultConfig())

	for _, d := range s.Decorations() {
		if d.Kind != KindTree {
			continue
		}
		if d.Parts[0].Center.Y != 2 || d.Parts[1].Center.Y != 5 {
			t.Errorf("expected trunk at y=2 and foliage at y=5, got %f and %f", d.Parts[0].Center.Y, d.Parts[1].Center.Y)
		}
		if d.Parts[0].Center.X != d.Parts[1].Center.X {
			t.Error("foliage not above trunk")
		}
	}
}

func TestBuild_SnowInsideSeedDomain(t *testing.T) {
	cfg := config.DefaultConfig()
	s := buildScene(t, cfg)

	d := cfg.SnowDomain()
	for i := 0; i < s.Snow.Len(); i++ {
		if p := s.Snow.At(i); !d.Contains(p) {
			t.Fatalf("snowflake %d at %v outside seed domain", i, p)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	cfg := config.DefaultConfig()
	a, _ := Build(cfg, placement.New(5), quietLogger())
	b, _ := Build(cfg, placement.New(5), quietLogger())

	pa, pb := a.Placements(KindTree), b.Placements(KindTree)
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("tree %d differs: %v vs %v", i, pa[i], pb[i])
		}
	}
}

func TestBuild_InfeasibleClearing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scene.SafeRadius = 100

	if _, err := Build(cfg, placement.New(1), quietLogger()); err == nil {
		t.Fatal("expected error when the clearing covers the scatter area")
	}
}

func TestUpdater_StaticFireflies(t *testing.T) {
	s := buildScene(t, config.DefaultConfig())
	before := s.Fireflies()

	u := s.Updater()
	for i := 0; i < 10; i++ {
		if _, err := u.Tick(1); err != nil {
			t.Fatalf("tick failed: %v", err)
		}
	}

	after := s.Fireflies()
	for i := range before {
		if before[i].Position != after[i].Position {
			t.Fatalf("firefly %d moved while animation is off", i)
		}
	}
}

func TestUpdater_AnimatedFirefliesStayInBand(t *testing.T) {
	cfg := config.GetPreset("fox")
	s := buildScene(t, cfg)
	domain := cfg.FireflyDomain()
	step := cfg.Fireflies.Speed

	u := s.Updater()
	moved := false
	before := s.Fireflies()
	for i := 0; i < 2000; i++ {
		if _, err := u.Tick(1); err != nil {
			t.Fatalf("tick failed: %v", err)
		}
	}

	for i, f := range s.Fireflies() {
		if f.Position != before[i].Position {
			moved = true
		}
		p := f.Position
		if p.Y < domain.Min.Y-step || p.Y > domain.Max.Y+step {
			t.Errorf("firefly %d left its band: y=%f", i, p.Y)
		}
		if p.X < domain.Min.X-step || p.X > domain.Max.X+step {
			t.Errorf("firefly %d left the domain: x=%f", i, p.X)
		}
	}
	if !moved {
		t.Error("animated fireflies never moved")
	}
}
