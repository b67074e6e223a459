// Package telemetry provides per-window combat and collision statistics,
// performance timing, bookmarks and CSV output for a run.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventShot EventType = iota
	EventBulletHit
	EventMissileHit
	EventTileHit
	EventExplosion
	EventMonsterDeath
	EventPlayerDamage
	EventPickUp
)

func (t EventType) String() string {
	switch t {
	case EventShot:
		return "shot"
	case EventBulletHit:
		return "bullet_hit"
	case EventMissileHit:
		return "missile_hit"
	case EventTileHit:
		return "tile_hit"
	case EventExplosion:
		return "explosion"
	case EventMonsterDeath:
		return "monster_death"
	case EventPlayerDamage:
		return "player_damage"
	case EventPickUp:
		return "pickup"
	default:
		return "unknown"
	}
}

// Event represents a single telemetry event.
type Event struct {
	Type  EventType
	Tick  int32
	Count int

	// Optional fields depending on event type
	TypeID int     // monster archetype for deaths, pick-up kind for pick-ups
	Amount float64 // damage taken or amount picked up
}

// NewShotEvent records n projectiles fired by the player.
func NewShotEvent(tick int32, n int) Event {
	return Event{Type: EventShot, Tick: tick, Count: n}
}

// NewHitEvent records projectile impacts of one type.
func NewHitEvent(tick int32, t EventType, n int) Event {
	return Event{Type: t, Tick: tick, Count: n}
}

// NewMonsterDeathEvent records a monster removed by the sweep.
func NewMonsterDeathEvent(tick int32, typeID int) Event {
	return Event{Type: EventMonsterDeath, Tick: tick, Count: 1, TypeID: typeID}
}

// NewPlayerDamageEvent records damage taken by the player.
func NewPlayerDamageEvent(tick int32, amount float64) Event {
	return Event{Type: EventPlayerDamage, Tick: tick, Count: 1, Amount: amount}
}

// NewPickUpEvent records a collected pick-up.
func NewPickUpEvent(tick int32, kind int, amount float64) Event {
	return Event{Type: EventPickUp, Tick: tick, Count: 1, TypeID: kind, Amount: amount}
}
