package render

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/timeruns/components"
	"github.com/pthm-cable/timeruns/game"
	"github.com/pthm-cable/timeruns/geom"
	"github.com/pthm-cable/timeruns/level"
)

// Renderer draws a game frame.
type Renderer struct {
	Theme Theme
	HUD   *HUD

	// ShowSpawns marks the aiSpawn cells of the level.
	ShowSpawns bool
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme(), HUD: NewHUD()}
}

// Draw renders the play area and the HUD. Call between BeginDrawing and
// EndDrawing.
func (r *Renderer) Draw(g *game.Game) {
	rl.ClearBackground(r.Theme.Background)

	cfg := g.Config()
	rl.BeginScissorMode(0, 0, int32(cfg.Derived.PlayW), int32(cfg.Derived.PlayH))
	size := float32(cfg.Level.TileSize)
	r.drawTiles(g.Level().Visible(), size, r.Theme.Ground, r.Theme.Collider)
	r.drawTiles(g.Level().VisibleTop(), size, rl.Blank, r.Theme.TopLayer)
	if r.ShowSpawns {
		r.drawSpawns(g)
	}
	r.drawPickUps(g)
	r.drawMonsters(g)
	r.drawPlayer(g.Player())
	r.drawProjectiles(g.Projectiles())
	r.drawExplosions(g.Explosions())
	rl.EndScissorMode()

	r.HUD.Draw(g, &r.Theme)
}

func (r *Renderer) drawTiles(tiles []*level.Tile, size float32, fill, outline rl.Color) {
	for _, t := range tiles {
		if fill.A > 0 {
			c := t.ScreenPos()
			rl.DrawRectangleLinesEx(rl.Rectangle{
				X: float32(c.X) - size/2, Y: float32(c.Y) - size/2, Width: size, Height: size,
			}, 1, fill)
		}
		for _, s := range t.Shapes() {
			drawShape(s, outline)
		}
	}
}

func drawShape(s geom.Shape, color rl.Color) {
	switch s.Kind {
	case geom.ShapeCircle:
		rl.DrawCircleLinesV(vec(s.Center), float32(s.Radius), color)
	case geom.ShapeRect:
		rl.DrawRectangleLinesEx(rect(s.Rect), 1, color)
	}
}

func (r *Renderer) drawSpawns(g *game.Game) {
	vp := g.Viewport()
	for _, s := range g.Level().Spawns() {
		if vp.IsVisible(s.World, 16) {
			p := vp.WorldToScreen(s.World)
			rl.DrawCircleLinesV(vec(p), 16, r.Theme.Spawn)
		}
	}
}

func (r *Renderer) drawPickUps(g *game.Game) {
	vp := g.Viewport()
	g.PickUps().Each(func(pos components.Position, p components.PickUp) {
		if !vp.IsVisible(pos.Vec(), p.Size) {
			return
		}
		color := r.Theme.PickUpHealth
		switch p.Kind {
		case components.PickUpAmmo:
			color = r.Theme.PickUpAmmo
		case components.PickUpTimeCrystal:
			color = r.Theme.PickUpCrystal
		}
		b := p.Box(pos)
		b = r2.Box{Min: vp.WorldToScreen(b.Min), Max: vp.WorldToScreen(b.Max)}
		rl.DrawRectangleRec(rect(b), color)
	})
}

func (r *Renderer) drawMonsters(g *game.Game) {
	for _, m := range g.Monsters() {
		color := r.Theme.Monster
		if m.Chasing {
			color = r.Theme.MonsterChase
		}
		r.drawActor(&m.Actor, color)
	}
}

func (r *Renderer) drawPlayer(p *game.Player) {
	r.drawActor(&p.Actor, r.Theme.Player)
	// Both barrels of the gun.
	right := r2.Vec{X: -p.Heading.Y, Y: p.Heading.X}
	for _, side := range [2]float64{-6, 6} {
		base := r2.Add(p.Screen, r2.Scale(side, right))
		tip := r2.Add(base, r2.Scale(p.CollideRadius+8, p.Heading))
		rl.DrawLineEx(vec(base), vec(tip), 3, r.Theme.Player)
	}
}

func (r *Renderer) drawActor(a *components.Actor, color rl.Color) {
	if a.Flash > 0 {
		color = r.Theme.Flash
	}
	rl.DrawCircleV(vec(a.Screen), float32(a.CollideRadius), rl.Fade(color, 0.35))
	rl.DrawCircleLinesV(vec(a.Screen), float32(a.CollideRadius), color)
	nose := r2.Add(a.Screen, r2.Scale(a.CollideRadius, a.Heading))
	rl.DrawLineV(vec(a.Screen), vec(nose), color)
}

func (r *Renderer) drawProjectiles(ps []components.Projectile) {
	for i := range ps {
		p := &ps[i]
		color := r.Theme.FriendlyShot
		if p.Side == components.SideFoe {
			color = r.Theme.HostileShot
		}
		if p.Kind == components.KindMissile {
			tail := r2.Sub(p.Screen, r2.Scale(p.Size, p.Heading))
			rl.DrawLineEx(vec(tail), vec(p.Screen), float32(p.Size)/2, color)
			continue
		}
		rl.DrawRectangleRec(rect(p.ScreenBox()), color)
	}
}

func (r *Renderer) drawExplosions(es []components.Explosion) {
	for i := range es {
		e := &es[i]
		t := 1.0
		if e.Lifetime > 0 {
			t = e.Remaining / e.Lifetime
		}
		alpha := float32(math.Max(0, t))
		rl.DrawCircleV(vec(e.Screen), float32(e.Radius), rl.Fade(r.Theme.Explosion, alpha*0.5))
		rl.DrawCircleLinesV(vec(e.Screen), float32(e.Radius), r.Theme.Explosion)
	}
}

func vec(v r2.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}

func rect(b r2.Box) rl.Rectangle {
	return rl.Rectangle{
		X:      float32(b.Min.X),
		Y:      float32(b.Min.Y),
		Width:  float32(b.Max.X - b.Min.X),
		Height: float32(b.Max.Y - b.Min.Y),
	}
}
