package config

import (
	"sort"

	"github.com/san-kum/wintersim/internal/geom"
)

type presetFunc func(c *Config)

// Presets are the scene variants, each a tweak over DefaultConfig.
var Presets = map[string]presetFunc{
	"snowman": func(c *Config) {},
	"fox": func(c *Config) {
		c.Scene.FocalModel = "fox"
		c.Scene.FocalScale = 0.05
		c.Scene.SafeRadius = 4
		c.Assets.ModelURL = FoxModelURL
		c.Fireflies.Animate = true
	},
	"blizzard": func(c *Config) {
		c.Snow.Count = 20000
		c.Snow.FallSpeed = 0.15
		c.Scene.FogFar = 25
		c.Fireflies.Count = 5
		c.Fireflies.Animate = true
	},
	"calm": func(c *Config) {
		c.Snow.Count = 1000
		c.Snow.FallSpeed = 0.02
		c.Fireflies.Count = 30
		c.Fireflies.Speed = 0.02
		c.Fireflies.Animate = true
	},
	"crowded": func(c *Config) {
		c.Trees.Count = 40
		c.Mushrooms.Count = 150
		c.Scene.Exclusions = []ZoneConfig{
			{Shape: "box", Min: geom.Vec3{X: 8, Y: -1, Z: -14}, Max: geom.Vec3{X: 16, Y: 8, Z: -6}},
		}
		c.Fireflies.Count = 40
		c.Fireflies.Animate = true
	},
}

// GetPreset returns a fresh config for the named variant, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Variant = name
	fn(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
