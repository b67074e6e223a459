package systems

import "github.com/pthm-cable/timeruns/telemetry"

// PhaseInfo describes a tick phase for perf output.
type PhaseInfo struct {
	Phase       telemetry.Phase
	Name        string // display name
	Description string
	Category    string // "core", "actors", "ai" or "combat"
}

// SystemRegistry names the tick phases so log output and the perf panel
// agree.
type SystemRegistry struct {
	phases [telemetry.NumPhases]PhaseInfo
}

// NewSystemRegistry creates a registry describing every phase.
func NewSystemRegistry() *SystemRegistry {
	r := &SystemRegistry{}
	r.register(telemetry.PhaseViewport, "Viewport", "Scrolls the view and rebuilds the visible tiles", "core")

	r.register(telemetry.PhasePlayer, "Player", "Player movement, collision and weapons", "actors")
	r.register(telemetry.PhaseMonsters, "Monsters", "Monster AI, pathing, collision and fire", "ai")

	r.register(telemetry.PhaseProjectiles, "Projectiles", "Bullet and missile flight, homing and hits", "combat")
	r.register(telemetry.PhaseExplosions, "Explosions", "Ages area-of-effect explosions", "combat")
	r.register(telemetry.PhasePickUps, "Pick-ups", "Collects dropped pick-ups", "actors")

	r.register(telemetry.PhaseSweep, "Sweep", "Removes dead entities", "core")
	r.register(telemetry.PhaseTelemetry, "Telemetry", "Window stats and bookmarks", "core")
	return r
}

func (r *SystemRegistry) register(ph telemetry.Phase, name, desc, category string) {
	r.phases[ph] = PhaseInfo{Phase: ph, Name: name, Description: desc, Category: category}
}

// Get returns the description of ph.
func (r *SystemRegistry) Get(ph telemetry.Phase) (PhaseInfo, bool) {
	if ph >= telemetry.NumPhases {
		return PhaseInfo{}, false
	}
	return r.phases[ph], true
}

// GetName returns the display name for ph, falling back to its id.
func (r *SystemRegistry) GetName(ph telemetry.Phase) string {
	if info, ok := r.Get(ph); ok && info.Name != "" {
		return info.Name
	}
	return ph.String()
}

// All returns every phase in tick order.
func (r *SystemRegistry) All() []PhaseInfo {
	return r.phases[:]
}

// InCategory returns the phases of one category in tick order.
func (r *SystemRegistry) InCategory(category string) []PhaseInfo {
	var out []PhaseInfo
	for _, info := range r.phases {
		if info.Category == category {
			out = append(out, info)
		}
	}
	return out
}
