package components

import "gonum.org/v1/gonum/spatial/r2"

// Monster is an AI-controlled foe spawned from an aiSpawn record.
type Monster struct {
	Actor

	TypeID int
	Name   string

	IdleSpeed    float64
	AttackSpeed  float64
	SightRange   float64
	FireRange    float64
	FireRate     float64
	BulletDamage float64

	Chasing      bool
	WanderTimer  float64
	FireCooldown float64

	// Path is the planned route to the player when a wall blocks sight:
	// nil before planning, empty when no route was found.
	Path      []r2.Vec
	PathIndex int
	PathGoal  r2.Vec
	PathAge   float64
}

// ClearPath drops the planned route.
func (m *Monster) ClearPath() {
	m.Path = nil
	m.PathIndex = 0
	m.PathAge = 0
}

// NewMonster creates a monster facing north at world.
func NewMonster(world r2.Vec, radius, health float64, typeID int) *Monster {
	return &Monster{
		Actor:  NewActor(world, radius, health, SideFoe),
		TypeID: typeID,
	}
}
