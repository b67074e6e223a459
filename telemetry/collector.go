package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	runID               string
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	shots         int
	bulletHits    int
	missileHits   int
	tileHits      int
	explosions    int
	monsterDeaths int
	pickUps       int
	damageTaken   float64

	// Collision resolver counters
	resolves      int
	iterations    int
	maxIterations int
	capHits       int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(runID string, windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		runID:               runID,
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record adds an event to the current window.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventShot:
		c.shots += e.Count
	case EventBulletHit:
		c.bulletHits += e.Count
	case EventMissileHit:
		c.missileHits += e.Count
	case EventTileHit:
		c.tileHits += e.Count
	case EventExplosion:
		c.explosions += e.Count
	case EventMonsterDeath:
		c.monsterDeaths += e.Count
	case EventPlayerDamage:
		c.damageTaken += e.Amount
	case EventPickUp:
		c.pickUps += e.Count
	}
}

// RecordCollision adds the resolver work of one tick: the number of Resolve
// calls, total passes, the longest single resolve and iteration cap hits.
func (c *Collector) RecordCollision(resolves, iterations, maxIterations, capHits int) {
	c.resolves += resolves
	c.iterations += iterations
	c.maxIterations = max(c.maxIterations, maxIterations)
	c.capHits += capHits
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// WorldState is the population sampled at window end.
type WorldState struct {
	Monsters     int
	Projectiles  int
	Explosions   int
	PickUps      int
	PlayerHealth float64
	Multiplier   float64

	// MonsterHealth holds the health of every live monster, for percentiles.
	MonsterHealth []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, world WorldState) WindowStats {
	var hitRate, meanIterations float64
	if c.shots > 0 {
		hitRate = float64(c.bulletHits+c.missileHits) / float64(c.shots)
	}
	if c.resolves > 0 {
		meanIterations = float64(c.iterations) / float64(c.resolves)
	}

	healthMean, healthP10, healthP50, healthP90 := Distribution(world.MonsterHealth)

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Monsters:     world.Monsters,
		Projectiles:  world.Projectiles,
		Explosions:   world.Explosions,
		PickUps:      world.PickUps,
		PlayerHealth: world.PlayerHealth,
		Multiplier:   world.Multiplier,

		Shots:         c.shots,
		BulletHits:    c.bulletHits,
		MissileHits:   c.missileHits,
		TileHits:      c.tileHits,
		Detonations:   c.explosions,
		MonsterDeaths: c.monsterDeaths,
		PickUpsTaken:  c.pickUps,
		DamageTaken:   c.damageTaken,
		HitRate:       hitRate,

		MonsterHealthMean: healthMean,
		MonsterHealthP10:  healthP10,
		MonsterHealthP50:  healthP50,
		MonsterHealthP90:  healthP90,

		Resolves:       c.resolves,
		MeanIterations: meanIterations,
		MaxIterations:  c.maxIterations,
		CapHits:        c.capHits,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.shots = 0
	c.bulletHits = 0
	c.missileHits = 0
	c.tileHits = 0
	c.explosions = 0
	c.monsterDeaths = 0
	c.pickUps = 0
	c.damageTaken = 0
	c.resolves = 0
	c.iterations = 0
	c.maxIterations = 0
	c.capHits = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
