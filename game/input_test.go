package game

import "testing"

func TestScriptedInput(t *testing.T) {
	s := &ScriptedInput{Steps: []ScriptStep{
		{Ticks: 2, Input: Input{Forward: true}},
		{Ticks: 1, Input: Input{Fire: true}},
		{Ticks: 1, Input: Input{Select: WeaponShotgun}},
	}}

	want := []Input{
		{Forward: true},
		{Forward: true},
		{Fire: true},
		{Select: WeaponShotgun},
		{Select: WeaponShotgun}, // the last step repeats
	}
	for i, w := range want {
		if got := s.Next(nil); got != w {
			t.Errorf("tick %d: got %+v, want %+v", i, got, w)
		}
	}
}

func TestScriptedInputEmpty(t *testing.T) {
	var s ScriptedInput
	if got := s.Next(nil); got != (Input{}) {
		t.Errorf("got %+v, want zero input", got)
	}
}

func TestAutoPilotTargetsNearest(t *testing.T) {
	g := testGame(t, [][2]int{farCorner, {7, 13}}, Options{})
	pilot := NewAutoPilot()

	in := pilot.Next(g)
	if !in.HasAim {
		t.Fatal("autopilot did not aim")
	}
	target := g.Viewport().WorldToScreen(g.Monsters()[1].World)
	if in.Aim != target {
		t.Errorf("aim = %v, want nearest monster at %v", in.Aim, target)
	}
	if !in.Fire {
		t.Error("autopilot should fire at a monster in range")
	}
}
