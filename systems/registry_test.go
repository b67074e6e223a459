package systems

import (
	"testing"

	"github.com/pthm-cable/timeruns/telemetry"
)

func TestRegistryDescribesEveryPhase(t *testing.T) {
	r := NewSystemRegistry()
	for _, ph := range telemetry.Phases {
		info, ok := r.Get(ph)
		if !ok || info.Phase != ph || info.Name == "" || info.Category == "" {
			t.Errorf("%v: info = %+v", ph, info)
		}
	}
	if got := r.GetName(telemetry.PhasePickUps); got != "Pick-ups" {
		t.Errorf("GetName = %q", got)
	}
	if got := r.GetName(telemetry.NumPhases); got != "unknown" {
		t.Errorf("GetName(out of range) = %q", got)
	}
}

func TestRegistryCategories(t *testing.T) {
	r := NewSystemRegistry()
	combat := r.InCategory("combat")
	if len(combat) != 2 || combat[0].Phase != telemetry.PhaseProjectiles || combat[1].Phase != telemetry.PhaseExplosions {
		t.Errorf("combat = %+v", combat)
	}
	if n := len(r.All()); n != int(telemetry.NumPhases) {
		t.Errorf("All = %d phases", n)
	}
}
