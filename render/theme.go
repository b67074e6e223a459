// Package render draws the game with raylib: debug shapes for the visible
// tiles, actors, projectiles, explosions and pick-ups, and a HUD strip.
// It also samples the keyboard and mouse into a game.Input.
package render

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds drawing colours and text metrics.
type Theme struct {
	Background rl.Color
	Ground     rl.Color
	Collider   rl.Color
	TopLayer   rl.Color
	Spawn      rl.Color

	Player        rl.Color
	Monster       rl.Color
	MonsterChase  rl.Color
	Flash         rl.Color
	FriendlyShot  rl.Color
	HostileShot   rl.Color
	Explosion     rl.Color
	PickUpHealth  rl.Color
	PickUpAmmo    rl.Color
	PickUpCrystal rl.Color

	PanelBg       rl.Color
	PanelBorder   rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	BarFillLow    rl.Color
	BarFillMedium rl.Color
	BarFillHigh   rl.Color

	Padding    int32
	LineHeight int32
	LabelWidth int32
	BarHeight  int32
	FontSize   int32
}

// DefaultTheme returns the default colours.
func DefaultTheme() Theme {
	return Theme{
		Background: rl.Color{R: 16, G: 20, B: 16, A: 255},
		Ground:     rl.Color{R: 40, G: 56, B: 40, A: 255},
		Collider:   rl.Color{R: 200, G: 200, B: 210, A: 255},
		TopLayer:   rl.Color{R: 120, G: 120, B: 140, A: 160},
		Spawn:      rl.Color{R: 200, G: 60, B: 200, A: 200},

		Player:        rl.Color{R: 90, G: 170, B: 255, A: 255},
		Monster:       rl.Color{R: 220, G: 150, B: 60, A: 255},
		MonsterChase:  rl.Color{R: 240, G: 80, B: 60, A: 255},
		Flash:         rl.White,
		FriendlyShot:  rl.Color{R: 255, G: 240, B: 120, A: 255},
		HostileShot:   rl.Color{R: 255, G: 110, B: 90, A: 255},
		Explosion:     rl.Color{R: 255, G: 160, B: 40, A: 255},
		PickUpHealth:  rl.Color{R: 90, G: 220, B: 90, A: 255},
		PickUpAmmo:    rl.Color{R: 220, G: 200, B: 90, A: 255},
		PickUpCrystal: rl.Color{R: 120, G: 220, B: 255, A: 255},

		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		LabelColor:    rl.LightGray,
		ValueColor:    rl.LightGray,
		BarBg:         rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFillLow:    rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium: rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:   rl.Color{R: 100, G: 200, B: 100, A: 255},

		Padding:    10,
		LineHeight: 16,
		LabelWidth: 70,
		BarHeight:  12,
		FontSize:   14,
	}
}

// drawPanel draws a panel background with border.
func (t *Theme) drawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, t.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, t.PanelBorder)
}

// drawBar draws a labelled bar with colour thresholds and returns the next
// line's y.
func (t *Theme) drawBar(x, y int32, label string, ratio float32, value string, width int32) int32 {
	ratio = min(max(ratio, 0), 1)
	barX := x + t.LabelWidth
	barWidth := width - t.LabelWidth - 80

	rl.DrawText(label+":", x, y, t.FontSize, t.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, t.BarHeight, t.BarBg)

	barColor := t.BarFillHigh
	if ratio < 0.3 {
		barColor = t.BarFillLow
	} else if ratio < 0.6 {
		barColor = t.BarFillMedium
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), t.BarHeight, barColor)
	rl.DrawText(value, barX+barWidth+5, y, t.FontSize, t.ValueColor)

	return y + t.LineHeight + 2
}
