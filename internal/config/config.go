package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wintersim/internal/geom"
)

const (
	DefaultSafeRadius   = 5.0
	DefaultScatterHalf  = 20.0
	DefaultGroundSize   = 50.0
	DefaultSnowCount    = 5000
	DefaultFallSpeed    = 0.05
	DefaultSnowCeiling  = 30.0
	DefaultFireflySpeed = 0.05
	DefaultFrames       = 600
	DefaultSampleEvery  = 10

	SnowmanModelURL = "https://trystan211.github.io/test_lyndon/snowman.glb"
	FoxModelURL     = "https://raw.githubusercontent.com/KhronosGroup/glTF-Sample-Models/master/2.0/Fox/glTF-Binary/Fox.glb"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Variant   string         `yaml:"variant"`
	Scene     SceneConfig    `yaml:"scene"`
	Lights    LightsConfig   `yaml:"lights"`
	Trees     TreeConfig     `yaml:"trees"`
	Mushrooms MushroomConfig `yaml:"mushrooms"`
	Fireflies FireflyConfig  `yaml:"fireflies"`
	Snow      SnowConfig     `yaml:"snow"`
	Assets    AssetsConfig   `yaml:"assets"`
	Run       RunConfig      `yaml:"run"`
}

type SceneConfig struct {
	GroundSize  float64   `yaml:"ground_size"`
	ScatterHalf float64   `yaml:"scatter_half"`
	FocalModel  string    `yaml:"focal_model"`
	FocalPos    geom.Vec3 `yaml:"focal_position"`
	FocalScale  float64   `yaml:"focal_scale"`
	SafeRadius  float64   `yaml:"safe_radius"`
	Background  string    `yaml:"background"`
	FogColor    string    `yaml:"fog_color"`
	FogNear     float64   `yaml:"fog_near"`
	FogFar      float64   `yaml:"fog_far"`

	// Exclusions are extra keep-out zones on top of the focal clearing.
	Exclusions []ZoneConfig `yaml:"exclusions"`
}

// ZoneConfig describes a sphere (center, radius) or a box (min, max).
type ZoneConfig struct {
	Shape  string    `yaml:"shape"`
	Center geom.Vec3 `yaml:"center,omitempty"`
	Radius float64   `yaml:"radius,omitempty"`
	Min    geom.Vec3 `yaml:"min,omitempty"`
	Max    geom.Vec3 `yaml:"max,omitempty"`
}

type LightConfig struct {
	Color     string    `yaml:"color"`
	Intensity float64   `yaml:"intensity"`
	Position  geom.Vec3 `yaml:"position"`
	Shadows   bool      `yaml:"shadows"`
}

type LightsConfig struct {
	Moon    LightConfig `yaml:"moon"`
	Ambient LightConfig `yaml:"ambient"`
}

type TreeConfig struct {
	Count         int     `yaml:"count"`
	TrunkHeight   float64 `yaml:"trunk_height"`
	FoliageHeight float64 `yaml:"foliage_height"`
}

type MushroomConfig struct {
	Count      int     `yaml:"count"`
	StemHeight float64 `yaml:"stem_height"`
}

type FireflyConfig struct {
	Count     int     `yaml:"count"`
	MinHeight float64 `yaml:"min_height"`
	MaxHeight float64 `yaml:"max_height"`
	Speed     float64 `yaml:"speed"`
	Animate   bool    `yaml:"animate"`
	Color     string  `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
	Range     float64 `yaml:"range"`
}

type SnowConfig struct {
	Count     int     `yaml:"count"`
	Spread    float64 `yaml:"spread"`
	MinHeight float64 `yaml:"min_height"`
	MaxHeight float64 `yaml:"max_height"`
	FallSpeed float64 `yaml:"fall_speed"`
	Floor     float64 `yaml:"floor"`
	Ceiling   float64 `yaml:"ceiling"`
}

type AssetsConfig struct {
	ModelURL string        `yaml:"model_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

type RunConfig struct {
	Frames      int     `yaml:"frames"`
	Dt          float64 `yaml:"dt"`
	Seed        int64   `yaml:"seed"`
	SampleEvery int     `yaml:"sample_every"`
	MaxAttempts int     `yaml:"max_attempts"`
}

// DefaultConfig is the snowman scene.
func DefaultConfig() *Config {
	return &Config{
		Variant: "snowman",
		Scene: SceneConfig{
			GroundSize:  DefaultGroundSize,
			ScatterHalf: DefaultScatterHalf,
			FocalModel:  "snowman",
			FocalScale:  5,
			SafeRadius:  DefaultSafeRadius,
			Background:  "#000022",
			FogColor:    "#ffffff",
			FogNear:     10,
			FogFar:      50,
		},
		Lights: LightsConfig{
			Moon:    LightConfig{Color: "#6666ff", Intensity: 0.4, Position: geom.Vec3{X: 10, Y: 30, Z: -10}, Shadows: true},
			Ambient: LightConfig{Color: "#404040", Intensity: 0.6},
		},
		Trees:     TreeConfig{Count: 10, TrunkHeight: 4, FoliageHeight: 6},
		Mushrooms: MushroomConfig{Count: 50, StemHeight: 0.5},
		Fireflies: FireflyConfig{
			Count:     15,
			MinHeight: 1,
			MaxHeight: 6,
			Speed:     DefaultFireflySpeed,
			Color:     "#ffff00",
			Intensity: 2,
			Range:     7,
		},
		Snow: SnowConfig{
			Count:     DefaultSnowCount,
			Spread:    25,
			MinHeight: 5,
			MaxHeight: 35,
			FallSpeed: DefaultFallSpeed,
			Floor:     0,
			Ceiling:   DefaultSnowCeiling,
		},
		Assets: AssetsConfig{ModelURL: SnowmanModelURL, Timeout: 30 * time.Second},
		Run: RunConfig{
			Frames:      DefaultFrames,
			Dt:          1,
			SampleEvery: DefaultSampleEvery,
		},
	}
}

// Load reads a yaml file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Scene.Exclusions = append([]ZoneConfig(nil), c.Scene.Exclusions...)
	return &cp
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
		}
	}

	check(c.Scene.ScatterHalf > 0, "scene.scatter_half must be positive, got %v", c.Scene.ScatterHalf)
	check(c.Scene.SafeRadius > 0, "scene.safe_radius must be positive, got %v", c.Scene.SafeRadius)
	check(c.Trees.Count >= 0, "trees.count must be >= 0, got %d", c.Trees.Count)
	check(c.Mushrooms.Count >= 0, "mushrooms.count must be >= 0, got %d", c.Mushrooms.Count)
	check(c.Fireflies.Count >= 0, "fireflies.count must be >= 0, got %d", c.Fireflies.Count)
	check(c.Fireflies.MinHeight <= c.Fireflies.MaxHeight, "fireflies.min_height %v above max_height %v", c.Fireflies.MinHeight, c.Fireflies.MaxHeight)
	check(c.Snow.Count >= 0, "snow.count must be >= 0, got %d", c.Snow.Count)
	check(c.Snow.Spread > 0, "snow.spread must be positive, got %v", c.Snow.Spread)
	check(c.Snow.MinHeight <= c.Snow.MaxHeight, "snow.min_height %v above max_height %v", c.Snow.MinHeight, c.Snow.MaxHeight)
	check(finite(c.Fireflies.Speed) && c.Fireflies.Speed >= 0, "fireflies.speed must be finite and >= 0, got %v", c.Fireflies.Speed)
	check(finite(c.Snow.FallSpeed) && c.Snow.FallSpeed >= 0, "snow.fall_speed must be finite and >= 0, got %v", c.Snow.FallSpeed)
	check(c.Snow.Ceiling >= c.Snow.Floor, "snow.ceiling %v below floor %v", c.Snow.Ceiling, c.Snow.Floor)
	check(c.Run.Frames > 0, "run.frames must be positive, got %d", c.Run.Frames)
	check(c.Run.Dt >= 0, "run.dt must be >= 0, got %v", c.Run.Dt)
	check(c.Run.SampleEvery > 0, "run.sample_every must be positive, got %d", c.Run.SampleEvery)

	if _, err := c.Zones(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}

	return errors.Join(errs...)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Zones returns the focal clearing followed by any extra exclusions.
func (c *Config) Zones() ([]geom.Zone, error) {
	focal, err := geom.NewSphere(c.Scene.FocalPos, c.Scene.SafeRadius)
	if err != nil {
		return nil, fmt.Errorf("scene.safe_radius: %w", err)
	}
	zones := []geom.Zone{focal}

	for i, zc := range c.Scene.Exclusions {
		z, err := zc.Zone()
		if err != nil {
			return nil, fmt.Errorf("scene.exclusions[%d]: %w", i, err)
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func (zc ZoneConfig) Zone() (geom.Zone, error) {
	switch zc.Shape {
	case "sphere":
		return geom.NewSphere(zc.Center, zc.Radius)
	case "box":
		return geom.NewBox(zc.Min, zc.Max)
	default:
		return nil, fmt.Errorf("%w: unknown shape %q", geom.ErrInvalidZone, zc.Shape)
	}
}

// ScatterDomain is the ground-level region trees are placed in.
func (c *Config) ScatterDomain(y float64) geom.Domain {
	return geom.Square(c.Scene.ScatterHalf, y)
}

// FireflyDomain is the airborne region fireflies are placed in and bounce
// inside.
func (c *Config) FireflyDomain() geom.Domain {
	h := c.Scene.ScatterHalf
	return geom.Domain{
		Min: geom.Vec3{X: -h, Y: c.Fireflies.MinHeight, Z: -h},
		Max: geom.Vec3{X: h, Y: c.Fireflies.MaxHeight, Z: h},
	}
}

// SnowDomain is the region snowflakes are seeded in.
func (c *Config) SnowDomain() geom.Domain {
	s := c.Snow.Spread
	return geom.Domain{
		Min: geom.Vec3{X: -s, Y: c.Snow.MinHeight, Z: -s},
		Max: geom.Vec3{X: s, Y: c.Snow.MaxHeight, Z: s},
	}
}
