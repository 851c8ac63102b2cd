package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/neuroviz/internal/colormap"
)

func orbitPosition(target rl.Vector3, yaw, pitch, dist float32) rl.Vector3 {
	cy := float32(math.Cos(float64(yaw)))
	sy := float32(math.Sin(float64(yaw)))
	cp := float32(math.Cos(float64(pitch)))
	sp := float32(math.Sin(float64(pitch)))
	return rl.NewVector3(
		target.X+dist*cp*sy,
		target.Y+dist*sp,
		target.Z+dist*cp*cy,
	)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	a.drawGrid()
	for i := range a.Tubes {
		a.drawTube(&a.Tubes[i], i == a.Focus)
	}
	rl.EndMode3D()

	a.drawHUD()
	rl.EndDrawing()
}

func (a *App) drawGrid() {
	const half = 60
	for i := -half; i <= half; i += 10 {
		rl.DrawLine3D(rl.NewVector3(float32(i), -25, -half), rl.NewVector3(float32(i), -25, half), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-half, -25, float32(i)), rl.NewVector3(half, -25, float32(i)), ColGrid)
	}
}

func (a *App) drawTube(t *tube, focused bool) {
	for i := 0; i < len(t.Points)-1; i++ {
		rl.DrawCylinderEx(t.Points[i], t.Points[i+1], t.Radii[i], t.Radii[i+1], 8, t.Color)
	}
	if len(t.Points) == 1 {
		rl.DrawSphere(t.Points[0], t.Radii[0], t.Color)
	}

	// Glow pass: a translucent shell whose alpha follows the emission level.
	if t.Emission > 0.05 {
		alpha := t.Emission / 4
		if alpha > 0.6 {
			alpha = 0.6
		}
		glow := rl.ColorAlpha(t.Color, alpha)
		for i, p := range t.Points {
			rl.DrawSphere(p, t.Radii[i]*2.2, glow)
		}
	}

	if focused && len(t.Points) > 0 {
		rl.DrawCubeWires(t.Points[0], t.Radii[0]*4, t.Radii[0]*4, t.Radii[0]*4, ColFocus)
	}
}

func (a *App) drawHUD() {
	ds := a.Viewer.Dataset()
	clock := a.Viewer.Clock()
	if ds == nil || clock == nil {
		rl.DrawText("no dataset", 20, 20, 20, ColText)
		return
	}

	timeMs := clock.Frame() * ds.Meta.TimeStepMs
	status := clock.Status().String()
	rl.DrawText(fmt.Sprintf("%s  frame %.1f/%d  %.1f ms  %.2fx",
		status, clock.Frame(), clock.FrameCount(), timeMs, clock.Speed()), 20, 20, 20, ColText)

	if a.Focus < len(a.Tubes) {
		rl.DrawText(fmt.Sprintf("focus: %s", a.Tubes[a.Focus].Name), 20, 46, 18, ColTextDim)
	}
	rl.DrawText("space pause  s stop  +/- speed  arrows seek  tab focus  c colormap  q quit",
		20, 690, 16, ColTextDim)

	a.drawLegend()
}

// drawLegend renders the colormap strip with the voltage range labels.
func (a *App) drawLegend() {
	ds := a.Viewer.Dataset()
	table := colormap.Lookup(a.Cmaps[a.CmapIdx])

	const x, y, w, h = 1020, 20, 220, 14
	cells := 64
	cw := w / cells
	for i := 0; i < cells; i++ {
		p := float64(i) / float64(cells-1)
		r, g, b := colormap.Sample(table, p).Clamped().RGB255()
		rl.DrawRectangle(int32(x+i*cw), y, int32(cw), h, rl.NewColor(r, g, b, 255))
	}
	rng := ds.Material.VoltageRange
	rl.DrawText(fmt.Sprintf("%.0f", rng.Min), x, y+h+4, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%.0f mV", rng.Max), x+w-50, y+h+4, 14, ColTextDim)
	rl.DrawText(table.Name(), x, y+h+22, 14, ColTextDim)
}
