// Package world assembles a winter scene: the focal clearing, scattered
// decorations, fireflies and the snowfall field.
//
// Decorations and fireflies are entities in an ark ECS world owned by the
// Scene. The snow field is a single flat buffer.
package world

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/san-kum/wintersim/internal/config"
	"github.com/san-kum/wintersim/internal/geom"
	"github.com/san-kum/wintersim/internal/motion"
	"github.com/san-kum/wintersim/internal/placement"
)

type Scene struct {
	world *ecs.World

	decorMap    *ecs.Map2[Anchor, Decoration]
	decorFilter *ecs.Filter2[Anchor, Decoration]
	flyMap      *ecs.Map2[motion.AnimatedPoint, Light]
	flyFilter   *ecs.Filter2[motion.AnimatedPoint, Light]

	Focal   Focal
	Moon    config.LightConfig
	Ambient config.LightConfig
	Ground  float64
	Snow    *motion.ParticleField

	zones        []geom.Zone
	placements   map[Kind][]geom.Vec3
	animateFlies bool
}

func newScene() *Scene {
	w := ecs.NewWorld()
	return &Scene{
		world:       w,
		decorMap:    ecs.NewMap2[Anchor, Decoration](w),
		decorFilter: ecs.NewFilter2[Anchor, Decoration](w),
		flyMap:      ecs.NewMap2[motion.AnimatedPoint, Light](w),
		flyFilter:   ecs.NewFilter2[motion.AnimatedPoint, Light](w),
		placements:  make(map[Kind][]geom.Vec3),
	}
}

// Build scatters every category from cfg using gen. The same seed yields the
// same scene.
func Build(cfg *config.Config, gen *placement.Generator, log *slog.Logger) (*Scene, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Run.MaxAttempts > 0 {
		gen.SetMaxAttempts(cfg.Run.MaxAttempts)
	}

	zones, err := cfg.Zones()
	if err != nil {
		return nil, err
	}

	s := newScene()
	s.zones = zones
	s.Ground = cfg.Scene.GroundSize
	s.Moon = cfg.Lights.Moon
	s.Ambient = cfg.Lights.Ambient
	s.animateFlies = cfg.Fireflies.Animate
	s.Focal = Focal{
		Name:       cfg.Scene.FocalModel,
		Position:   cfg.Scene.FocalPos,
		Scale:      cfg.Scene.FocalScale,
		SafeRadius: cfg.Scene.SafeRadius,
		URL:        cfg.Assets.ModelURL,
	}

	if err := s.scatterTrees(cfg, gen); err != nil {
		return nil, err
	}
	if err := s.scatterMushrooms(cfg, gen); err != nil {
		return nil, err
	}
	if err := s.scatterFireflies(cfg, gen); err != nil {
		return nil, err
	}
	if err := s.seedSnow(cfg, gen); err != nil {
		return nil, err
	}

	log.Info("scene built",
		"variant", cfg.Variant,
		"focal", s.Focal.Name,
		"trees", len(s.placements[KindTree]),
		"mushrooms", len(s.placements[KindMushroom]),
		"fireflies", len(s.placements[KindFirefly]),
		"snowflakes", s.Snow.Len(),
		"zones", len(zones),
	)
	return s, nil
}

func (s *Scene) scatterTrees(cfg *config.Config, gen *placement.Generator) error {
	pts, err := gen.Generate(cfg.Trees.Count, cfg.ScatterDomain(0), s.zones...)
	if err != nil {
		return fmt.Errorf("placing trees: %w", err)
	}
	trunk, foliage := cfg.Trees.TrunkHeight, cfg.Trees.FoliageHeight
	for _, p := range pts {
		anchor := Anchor{Position: p}
		decor := Decoration{
			Kind: KindTree,
			Parts: [2]Part{
				{Name: "trunk", Shape: "cylinder", Center: geom.Vec3{X: p.X, Y: trunk / 2, Z: p.Z}, Radius: 0.5, Height: trunk, Color: "#8b4513"},
				{Name: "foliage", Shape: "cone", Center: geom.Vec3{X: p.X, Y: trunk/2 + foliage/2, Z: p.Z}, Radius: 2, Height: foliage, Color: "#ffffff"},
			},
		}
		s.decorMap.NewEntity(&anchor, &decor)
	}
	s.placements[KindTree] = pts
	return nil
}

func (s *Scene) scatterMushrooms(cfg *config.Config, gen *placement.Generator) error {
	stem := cfg.Mushrooms.StemHeight
	pts, err := gen.Generate(cfg.Mushrooms.Count, cfg.ScatterDomain(stem/2), s.zones...)
	if err != nil {
		return fmt.Errorf("placing mushrooms: %w", err)
	}
	for _, p := range pts {
		anchor := Anchor{Position: p}
		decor := Decoration{
			Kind: KindMushroom,
			Parts: [2]Part{
				{Name: "stem", Shape: "cylinder", Center: p, Radius: 0.2, Height: stem, Color: "#ffffff"},
				{Name: "cap", Shape: "cone", Center: geom.Vec3{X: p.X, Y: stem + 0.05, Z: p.Z}, Radius: 0.4, Height: 0.3, Color: "#ff0000"},
			},
		}
		s.decorMap.NewEntity(&anchor, &decor)
	}
	s.placements[KindMushroom] = pts
	return nil
}

func (s *Scene) scatterFireflies(cfg *config.Config, gen *placement.Generator) error {
	domain := cfg.FireflyDomain()
	pts, err := gen.Generate(cfg.Fireflies.Count, domain, s.zones...)
	if err != nil {
		return fmt.Errorf("placing fireflies: %w", err)
	}
	for _, p := range pts {
		pt := motion.AnimatedPoint{Position: p, Velocity: gen.RandomVector(cfg.Fireflies.Speed)}
		pt.BoundedBy(domain)
		light := Light{Color: cfg.Fireflies.Color, Intensity: cfg.Fireflies.Intensity, Range: cfg.Fireflies.Range}
		s.flyMap.NewEntity(&pt, &light)
	}
	s.placements[KindFirefly] = pts
	return nil
}

func (s *Scene) seedSnow(cfg *config.Config, gen *placement.Generator) error {
	field, err := motion.NewParticleField(cfg.Snow.Count, cfg.Snow.FallSpeed, cfg.Snow.Floor, cfg.Snow.Ceiling)
	if err != nil {
		return fmt.Errorf("seeding snow: %w", err)
	}
	pts, err := gen.Generate(cfg.Snow.Count, cfg.SnowDomain())
	if err != nil {
		return fmt.Errorf("seeding snow: %w", err)
	}
	for i, p := range pts {
		field.Set(i, p)
	}
	s.Snow = field
	return nil
}

// EachPoint visits the firefly points when firefly animation is enabled.
// It satisfies motion.PointSet.
func (s *Scene) EachPoint(fn func(p *motion.AnimatedPoint)) {
	if !s.animateFlies {
		return
	}
	query := s.flyFilter.Query()
	for query.Next() {
		pt, _ := query.Get()
		fn(pt)
	}
}

// Updater returns a frame updater bound to the scene's fireflies and snow.
func (s *Scene) Updater() *motion.Updater {
	return motion.NewUpdater(s.Snow, s)
}

func (s *Scene) Animated() bool { return s.animateFlies }

// Zones returns the exclusion zones the scene was built against.
func (s *Scene) Zones() []geom.Zone { return s.zones }

// Placements returns the original anchor positions of a category.
func (s *Scene) Placements(k Kind) []geom.Vec3 { return s.placements[k] }

// Decorations snapshots every static decoration.
func (s *Scene) Decorations() []Decoration {
	var out []Decoration
	query := s.decorFilter.Query()
	for query.Next() {
		_, d := query.Get()
		out = append(out, *d)
	}
	return out
}

// FireflyView is a read-only copy of a firefly.
type FireflyView struct {
	Position geom.Vec3
	Velocity geom.Vec3
	Light    Light
}

// Fireflies snapshots the current firefly state.
func (s *Scene) Fireflies() []FireflyView {
	var out []FireflyView
	query := s.flyFilter.Query()
	for query.Next() {
		pt, l := query.Get()
		out = append(out, FireflyView{Position: pt.Position, Velocity: pt.Velocity, Light: *l})
	}
	return out
}

// Counts returns the number of entities per kind.
func (s *Scene) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	query := s.decorFilter.Query()
	for query.Next() {
		_, d := query.Get()
		counts[d.Kind]++
	}
	flies := s.flyFilter.Query()
	for flies.Next() {
		counts[KindFirefly]++
	}
	return counts
}
