// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Level      LevelConfig      `yaml:"level"`
	Player     PlayerConfig     `yaml:"player"`
	Monster    MonsterConfig    `yaml:"monster"`
	Weapons    WeaponsConfig    `yaml:"weapons"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Explosion  ExplosionConfig  `yaml:"explosion"`
	Collision  CollisionConfig  `yaml:"collision"`
	Sim        SimConfig        `yaml:"sim"`
	Pickups    PickupsConfig    `yaml:"pickups"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	HUDHeight int `yaml:"hud_height"` // Reserved strip at the bottom of the screen
	TargetFPS int `yaml:"target_fps"`
}

// LevelConfig holds tile grid dimensions and default file locations.
type LevelConfig struct {
	TilesX    int    `yaml:"tiles_x"`
	TilesY    int    `yaml:"tiles_y"`
	TileSize  int    `yaml:"tile_size"`
	File      string `yaml:"file"`       // Level CSV ("" = default fill)
	TilesFile string `yaml:"tiles_file"` // Tile definition YAML ("" = embedded catalogue)
	DefaultID string `yaml:"default_id"` // Tile used to fill a missing level
}

// PlayerConfig holds player movement and time-flow parameters.
type PlayerConfig struct {
	CollideRadius  float64 `yaml:"collide_radius"`
	Health         float64 `yaml:"health"`
	MaxSpeed       float64 `yaml:"max_speed"`
	ReverseSpeed   float64 `yaml:"reverse_speed"`
	StrafeSpeed    float64 `yaml:"strafe_speed"`
	Acceleration   float64 `yaml:"acceleration"`
	Deceleration   float64 `yaml:"deceleration"`
	TimeMin        float64 `yaml:"time_min"`        // Multiplier when standing still
	TimeMax        float64 `yaml:"time_max"`        // Multiplier at full speed
	CrystalSeconds float64 `yaml:"crystal_seconds"` // Time crystal freeze duration
	FlashSeconds   float64 `yaml:"flash_seconds"`   // Damage flash duration
	BarrelForward  float64 `yaml:"barrel_forward"`  // Barrel exit distance along the aim
	BarrelSide     float64 `yaml:"barrel_side"`     // Shotgun barrel spacing from the aim line
}

// ArchetypeConfig defines a monster template selected by an aiSpawn type id.
type ArchetypeConfig struct {
	ID           int     `yaml:"id"`
	Name         string  `yaml:"name"`
	Health       float64 `yaml:"health"`
	IdleSpeed    float64 `yaml:"idle_speed"`
	AttackSpeed  float64 `yaml:"attack_speed"`
	SightRange   float64 `yaml:"sight_range"`
	FireRange    float64 `yaml:"fire_range"`
	FireRate     float64 `yaml:"fire_rate"`     // Seconds between shots
	BulletDamage float64 `yaml:"bullet_damage"`
}

// MonsterConfig holds parameters shared by all monsters.
type MonsterConfig struct {
	CollideRadius float64           `yaml:"collide_radius"`
	WanderTurn    float64           `yaml:"wander_turn"` // Seconds between idle heading changes
	Archetypes    []ArchetypeConfig `yaml:"archetypes"`
}

// WeaponConfig holds one weapon's parameters. Ammo < 0 means infinite.
type WeaponConfig struct {
	Ammo     int     `yaml:"ammo"`
	FireRate float64 `yaml:"fire_rate"` // Seconds between shots
	Damage   float64 `yaml:"damage"`
}

// WeaponsConfig holds the three player weapons.
type WeaponsConfig struct {
	Rifle    WeaponConfig `yaml:"rifle"`
	Shotgun  WeaponConfig `yaml:"shotgun"`
	Launcher WeaponConfig `yaml:"launcher"`
}

// ProjectileConfig holds bullet and missile flight parameters.
type ProjectileConfig struct {
	BulletSpeed  float64 `yaml:"bullet_speed"`
	BulletRange  float64 `yaml:"bullet_range"`
	BulletSize   float64 `yaml:"bullet_size"` // Edge of the square hit box
	MissileSpeed float64 `yaml:"missile_speed"`
	MissileRange float64 `yaml:"missile_range"`
	MissileSize  float64 `yaml:"missile_size"`
	HomingDelay  float64 `yaml:"homing_delay"`  // Seconds before seeking starts
	HomingRadius float64 `yaml:"homing_radius"` // Seek radius
}

// ExplosionConfig holds area-of-effect parameters.
type ExplosionConfig struct {
	Radius   float64 `yaml:"radius"`
	Lifetime float64 `yaml:"lifetime"`
	Frames   int     `yaml:"frames"`
}

// CollisionConfig bounds the relaxation loop.
type CollisionConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	MinPush       float64 `yaml:"min_push"`
}

// SimConfig holds frame clock parameters.
type SimConfig struct {
	MaxDT float64 `yaml:"max_dt"` // Cap on a single tick's dt
	DT    float64 `yaml:"dt"`     // Fixed step for headless runs
}

// PickupsConfig holds pick-up drop and effect parameters.
type PickupsConfig struct {
	DropChance   float64 `yaml:"drop_chance"`
	HealthAmount float64 `yaml:"health_amount"`
	AmmoAmount   int     `yaml:"ammo_amount"`
	Size         float64 `yaml:"size"` // Edge of the square pick-up box
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of game time per window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	PlayW, PlayH   int         // Screen minus HUD
	LevelW, LevelH int         // Level size in pixels
	PlayTilesX     int         // Tiles needed to cover the play area
	PlayTilesY     int
	ArchetypeIndex map[int]int // aiSpawn type id -> Monster.Archetypes index
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Level.TileSize <= 0 || c.Level.TilesX <= 0 || c.Level.TilesY <= 0 {
		return fmt.Errorf("level: tile_size, tiles_x and tiles_y must be positive")
	}
	if c.Screen.Height <= c.Screen.HUDHeight {
		return fmt.Errorf("screen: height %d leaves no play area below hud %d",
			c.Screen.Height, c.Screen.HUDHeight)
	}
	if c.Player.CollideRadius <= 0 || c.Monster.CollideRadius <= 0 {
		return fmt.Errorf("collide_radius must be positive")
	}
	if c.Collision.MaxIterations <= 0 {
		return fmt.Errorf("collision: max_iterations must be positive")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.PlayW = c.Screen.Width
	c.Derived.PlayH = c.Screen.Height - c.Screen.HUDHeight
	c.Derived.LevelW = c.Level.TilesX * c.Level.TileSize
	c.Derived.LevelH = c.Level.TilesY * c.Level.TileSize
	c.Derived.PlayTilesX = (c.Derived.PlayW + c.Level.TileSize - 1) / c.Level.TileSize
	c.Derived.PlayTilesY = (c.Derived.PlayH + c.Level.TileSize - 1) / c.Level.TileSize

	if c.Sim.MaxDT <= 0 {
		c.Sim.MaxDT = 0.05
	}
	if c.Sim.DT <= 0 {
		c.Sim.DT = 1.0 / 60.0
	}

	// Synthesize a default archetype if none specified
	if len(c.Monster.Archetypes) == 0 {
		c.Monster.Archetypes = []ArchetypeConfig{{
			ID:           0,
			Name:         "grunt",
			Health:       95,
			IdleSpeed:    35,
			AttackSpeed:  75,
			SightRange:   400,
			FireRange:    350,
			FireRate:     1.2,
			BulletDamage: 10,
		}}
	}

	c.Derived.ArchetypeIndex = make(map[int]int, len(c.Monster.Archetypes))
	for i, arch := range c.Monster.Archetypes {
		c.Derived.ArchetypeIndex[arch.ID] = i
	}
}

// Archetype returns the archetype for an aiSpawn type id. Unknown ids fall
// back to the first archetype; ok reports whether the id was known.
func (c *Config) Archetype(id int) (arch ArchetypeConfig, ok bool) {
	if i, found := c.Derived.ArchetypeIndex[id]; found {
		return c.Monster.Archetypes[i], true
	}
	return c.Monster.Archetypes[0], false
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
