package main

import (
	"github.com/pthm-cable/timeruns/config"
)

// ParamSpec is one tunable config value and its search range.
type ParamSpec struct {
	Name     string
	Path     string // config path, for output only
	Min, Max float64
	Default  float64

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

func (s ParamSpec) clamp(v float64) float64 { return min(max(v, s.Min), s.Max) }

// ParamVector maps between config values and the unit cube CMA-ES searches.
type ParamVector struct {
	Specs []ParamSpec
}

// archetype returns the first monster archetype, which the tuner owns.
func archetype(c *config.Config) *config.ArchetypeConfig { return &c.Monster.Archetypes[0] }

// NewParamVector creates the balance parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		{
			Name: "monster_health", Path: "monster.archetypes[0].health", Min: 40, Max: 200, Default: 95,
			get: func(c *config.Config) float64 { return archetype(c).Health },
			set: func(c *config.Config, v float64) { archetype(c).Health = v },
		},
		{
			Name: "monster_attack_speed", Path: "monster.archetypes[0].attack_speed", Min: 30, Max: 160, Default: 75,
			get: func(c *config.Config) float64 { return archetype(c).AttackSpeed },
			set: func(c *config.Config, v float64) { archetype(c).AttackSpeed = v },
		},
		{
			Name: "monster_fire_rate", Path: "monster.archetypes[0].fire_rate", Min: 0.4, Max: 3.0, Default: 1.2,
			get: func(c *config.Config) float64 { return archetype(c).FireRate },
			set: func(c *config.Config, v float64) { archetype(c).FireRate = v },
		},
		{
			Name: "monster_bullet_damage", Path: "monster.archetypes[0].bullet_damage", Min: 2, Max: 30, Default: 10,
			get: func(c *config.Config) float64 { return archetype(c).BulletDamage },
			set: func(c *config.Config, v float64) { archetype(c).BulletDamage = v },
		},
		{
			Name: "time_min", Path: "player.time_min", Min: 0.02, Max: 0.5, Default: 0.1,
			get: func(c *config.Config) float64 { return c.Player.TimeMin },
			set: func(c *config.Config, v float64) {
				c.Player.TimeMin = v
				c.Player.TimeMax = max(c.Player.TimeMax, v)
			},
		},
		{
			Name: "drop_chance", Path: "pickups.drop_chance", Min: 0, Max: 1, Default: 0.35,
			get: func(c *config.Config) float64 { return c.Pickups.DropChance },
			set: func(c *config.Config, v float64) { c.Pickups.DropChance = v },
		},
	}}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns every parameter's default.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.each(func(s ParamSpec, _ int) float64 { return s.Default })
}

// Normalize maps raw values onto [0, 1] per parameter range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(func(s ParamSpec, i int) float64 { return (raw[i] - s.Min) / (s.Max - s.Min) })
}

// Denormalize is the inverse of Normalize. Values outside [0, 1] map
// outside the range; Clamp bounds them.
func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	return pv.each(func(s ParamSpec, i int) float64 { return s.Min + unit[i]*(s.Max-s.Min) })
}

// Clamp bounds each raw value to its range.
func (pv *ParamVector) Clamp(raw []float64) []float64 {
	return pv.each(func(s ParamSpec, i int) float64 { return s.clamp(raw[i]) })
}

// ApplyToConfig writes clamped raw values into cfg. Raising time_min also
// raises time_max so the multiplier range stays ordered.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) {
	for i, s := range pv.Specs {
		s.set(cfg, s.clamp(raw[i]))
	}
}

// ExtractFromConfig reads the raw values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return pv.each(func(s ParamSpec, _ int) float64 { return s.get(cfg) })
}

func (pv *ParamVector) each(fn func(s ParamSpec, i int) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = fn(s, i)
	}
	return out
}
