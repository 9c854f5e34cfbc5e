package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Draw composites the overlay at field resolution and uploads it. The
// overlay background stays transparent so a host pipeline can stack it over
// other content; standalone it reads as black.
func (g *Game) Draw(screen *ebiten.Image) {
	pixels := g.comp.Render(g.field, &g.uniforms)
	screen.WritePixels(pixels)

	if *debugFlag {
		g.drawPointerMarker(screen)
		solver := "cpu"
		if g.gpu != nil {
			solver = g.gpu.DeviceName()
		}
		st := g.tracker.State()
		debugMsg := fmt.Sprintf("FPS: %.1f\nSim: %.2f ms (%s)\nSpeed: %.3f dir %+d\nVis: %.2f idle %.2fs\nMax mag: %.3f",
			ebiten.ActualFPS(),
			g.lastSimDuration.Seconds()*1000, solver,
			st.Speed, st.Direction,
			st.Visibility, st.Idle,
			g.field.maxMagnitude())
		ebitenutil.DebugPrint(screen, debugMsg)
	}
}

// Layout reports the logical screen size used by Ebiten; the window scales
// this up by windowScale.
func (g *Game) Layout(_, _ int) (int, int) { return g.cfg.gridW, g.cfg.gridH }

// drawPointerMarker paints a small cross at the smoothed pointer position.
func (g *Game) drawPointerMarker(screen *ebiten.Image) {
	st := g.tracker.State()
	cx := clamp(int(st.Position.X()*float64(g.cfg.gridW)), 0, g.cfg.gridW-1)
	cy := clamp(int(st.Position.Y()*float64(g.cfg.gridH)), 0, g.cfg.gridH-1)
	clr := color.RGBA{255, 64, 64, 255}
	for o := -2; o <= 2; o++ {
		if x := cx + o; x >= 0 && x < g.cfg.gridW {
			screen.Set(x, cy, clr)
		}
		if y := cy + o; y >= 0 && y < g.cfg.gridH {
			screen.Set(cx, y, clr)
		}
	}
}
