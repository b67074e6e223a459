package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/geom"
)

// Position is a world position ECS component.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// PickUpKind selects the effect of a pick-up.
type PickUpKind uint8

const (
	PickUpHealth PickUpKind = iota
	PickUpAmmo
	PickUpTimeCrystal
)

func (k PickUpKind) String() string {
	switch k {
	case PickUpHealth:
		return "health"
	case PickUpAmmo:
		return "ammo"
	case PickUpTimeCrystal:
		return "time_crystal"
	default:
		return "unknown"
	}
}

// PickUp is an ECS component for a collectable dropped by a monster.
type PickUp struct {
	Kind      PickUpKind
	Amount    float64 // health points, rounds, or crystal seconds
	Size      float64
	Collected bool
}

// Box returns the square pick-up box around pos.
func (p *PickUp) Box(pos Position) r2.Box {
	return geom.BoxAt(pos.Vec(), r2.Vec{X: p.Size, Y: p.Size})
}
