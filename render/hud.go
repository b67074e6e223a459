package render

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/timeruns/game"
	"github.com/pthm-cable/timeruns/telemetry"
)

// HUD renders the strip below the play area and the optional perf panel.
type HUD struct {
	ShowPerf bool
}

// NewHUD creates a HUD.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD strip and, when the run is over, the outcome banner.
func (h *HUD) Draw(g *game.Game, t *Theme) {
	cfg := g.Config()
	top := int32(cfg.Derived.PlayH)
	width := int32(cfg.Screen.Width)
	t.drawPanel(0, top, width, int32(cfg.Screen.HUDHeight))

	p := g.Player()
	x := t.Padding
	y := top + t.Padding
	y = t.drawBar(x, y, "Health", float32(p.Health/p.MaxHealth),
		fmt.Sprintf("%.0f/%.0f", p.Health, p.MaxHealth), 320)
	y = t.drawBar(x, y, "Time", float32(g.Multiplier()),
		fmt.Sprintf("%.2fx", g.Multiplier()), 320)
	if p.Crystal > 0 {
		y = t.drawBar(x, y, "Crystal", float32(p.Crystal/cfg.Player.CrystalSeconds),
			fmt.Sprintf("%.1fs", p.Crystal), 320)
	}

	for i, k := range []game.WeaponKind{game.WeaponRifle, game.WeaponShotgun, game.WeaponLauncher} {
		w := p.Weapon(k)
		ammo := "inf"
		if w.Ammo >= 0 {
			ammo = fmt.Sprintf("%d", w.Ammo)
		}
		color := t.LabelColor
		if k == p.Active {
			color = rl.Yellow
		}
		rl.DrawText(fmt.Sprintf("[%d] %s %s", i+1, k, ammo), 340, top+t.Padding+int32(i)*t.LineHeight, t.FontSize, color)
	}

	totals := g.Totals()
	rl.DrawText(
		fmt.Sprintf("Monsters: %d | Kills: %d | Shots: %d | Tick: %d | FPS: %d",
			len(g.Monsters()), totals.Kills, totals.Shots, g.Tick(), rl.GetFPS()),
		x, y+4, t.FontSize, t.ValueColor,
	)
	rl.DrawText("WASD move | mouse aim | click fire | 1-3 weapon | R restart | F3 perf",
		540, top+int32(cfg.Screen.HUDHeight)-22, 12, rl.Gray)

	if g.State() != game.StatePlaying {
		msg := "YOU WIN"
		color := rl.Green
		if g.State() == game.StateLost {
			msg, color = "YOU DIED", rl.Red
		}
		tw := rl.MeasureText(msg, 40)
		rl.DrawText(msg, (width-tw)/2, top/2-20, 40, color)
		rl.DrawText("press R to restart", (width-150)/2, top/2+24, 16, rl.LightGray)
	}

	if h.ShowPerf {
		h.drawPerf(g, t, width-250, t.Padding)
	}
}

// drawPerf renders the per-phase tick breakdown.
func (h *HUD) drawPerf(g *game.Game, t *Theme, x, y int32) {
	stats := g.PerfStats()
	t.drawPanel(x, y, 240, int32(len(telemetry.Phases)+2)*14+2*t.Padding)
	x += t.Padding
	y += t.Padding

	rl.DrawText(fmt.Sprintf("Tick: %s", stats.AvgTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 18
	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 20 {
			color = rl.Red
		} else if pct > 10 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-12s %6s %5.1f%%", g.Registry().GetName(phase),
				stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
