package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/components"
)

func TestSpatialGridQuery(t *testing.T) {
	g := NewSpatialGrid(1024, 1024, 64)

	near := components.NewActor(r2.Vec{X: 110, Y: 100}, 18, 100, components.SideFoe)
	edge := components.NewActor(r2.Vec{X: 100, Y: 200}, 18, 100, components.SideFoe)
	far := components.NewActor(r2.Vec{X: 600, Y: 600}, 18, 100, components.SideFoe)
	self := components.NewActor(r2.Vec{X: 100, Y: 100}, 18, 100, components.SideFriend)
	for _, a := range []*components.Actor{&near, &edge, &far, &self} {
		g.Insert(a)
	}

	got := g.QueryRadiusInto(nil, self.World, 100, &self, MaxQueryResults)
	found := map[*components.Actor]float64{}
	for _, n := range got {
		found[n.Actor] = n.DistSq
	}

	if len(found) != 2 {
		t.Fatalf("found %d neighbors, want 2", len(found))
	}
	if d, ok := found[&near]; !ok || d != 100 {
		t.Errorf("near: ok=%v distSq=%v", ok, d)
	}
	if _, ok := found[&edge]; !ok {
		t.Error("actor exactly at the radius should be included")
	}
	if _, ok := found[&self]; ok {
		t.Error("excluded actor returned")
	}

	g.Clear()
	if got := g.QueryRadiusInto(got[:0], self.World, 100, nil, MaxQueryResults); len(got) != 0 {
		t.Errorf("after Clear found %d", len(got))
	}
}

func TestSpatialGridClampsOutside(t *testing.T) {
	g := NewSpatialGrid(256, 256, 64)
	a := components.NewActor(r2.Vec{X: -20, Y: 300}, 18, 100, components.SideFoe)
	g.Insert(&a)

	got := g.QueryRadiusInto(nil, r2.Vec{X: 0, Y: 256}, 64, nil, MaxQueryResults)
	if len(got) != 1 {
		t.Errorf("found %d, want the clamped actor", len(got))
	}
}

func TestSpatialGridQueryLimit(t *testing.T) {
	g := NewSpatialGrid(1024, 1024, 64)
	crowd := make([]components.Actor, MaxQueryResults+10)
	for i := range crowd {
		crowd[i] = components.NewActor(r2.Vec{X: 200, Y: 360}, 18, 100, components.SideFoe)
		g.Insert(&crowd[i])
	}
	near := components.NewActor(r2.Vec{X: 450, Y: 360}, 18, 100, components.SideFoe)
	g.Insert(&near)

	p := r2.Vec{X: 400, Y: 360}
	if got := g.QueryRadiusInto(nil, p, 256, nil, MaxQueryResults); len(got) != MaxQueryResults {
		t.Errorf("capped query found %d, want %d", len(got), MaxQueryResults)
	}
	got := g.QueryRadiusInto(nil, p, 256, nil, 0)
	if len(got) != len(crowd)+1 {
		t.Fatalf("uncapped query found %d, want %d", len(got), len(crowd)+1)
	}
	found := false
	for _, n := range got {
		found = found || n.Actor == &near
	}
	if !found {
		t.Error("uncapped query missed the nearest actor")
	}
}
