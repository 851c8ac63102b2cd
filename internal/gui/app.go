package gui

import (
	"context"
	"fmt"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/neuroviz/internal/audio"
	"github.com/san-kum/neuroviz/internal/binding"
	"github.com/san-kum/neuroviz/internal/colormap"
	"github.com/san-kum/neuroviz/internal/config"
	"github.com/san-kum/neuroviz/internal/dataset"
	"github.com/san-kum/neuroviz/internal/driver"
	"github.com/san-kum/neuroviz/internal/morphology"
	"github.com/san-kum/neuroviz/internal/playback"
)

// Chrome colors. Section colors always come from the colormap.
var (
	ColBg      = rl.NewColor(10, 10, 12, 255)
	ColText    = rl.NewColor(180, 180, 180, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColGrid    = rl.NewColor(28, 28, 32, 255)
	ColFocus   = rl.NewColor(255, 255, 255, 255)
)

const worldSize = 40.0

// tube is the renderable form of one morphology section: its path rescaled
// to world units plus the material state last applied by the driver.
type tube struct {
	Name     string
	Kind     dataset.Kind
	Points   []rl.Vector3
	Radii    []float32
	Color    rl.Color
	Emission float32
}

type App struct {
	Viewer   *driver.Viewer
	Morph    *morphology.Morphology
	Tubes    []tube
	Camera   rl.Camera3D
	Sonifier *audio.Sonifier

	Cmaps   []string
	CmapIdx int
	Focus   int

	SpikeLevel float64
	lastFocusV float64

	orbitYaw   float32
	orbitPitch float32
	orbitDist  float32
}

// Meshes implements driver.MeshProvider over the current tube set.
func (a *App) Meshes() []binding.MeshHandle {
	handles := make([]binding.MeshHandle, len(a.Tubes))
	for i := range a.Tubes {
		handles[i] = binding.MeshHandle{ID: fmt.Sprintf("tube-%d", i), Name: a.Tubes[i].Name}
	}
	return handles
}

// Apply implements driver.MaterialSink: store the computed color and an
// emission level for the glow pass.
func (a *App) Apply(mesh binding.MeshHandle, rgb colorful.Color, normalized float64, mat dataset.MaterialConfig) error {
	var idx int
	if _, err := fmt.Sscanf(mesh.ID, "tube-%d", &idx); err != nil {
		return fmt.Errorf("gui: unknown mesh id %q", mesh.ID)
	}
	if idx < 0 || idx >= len(a.Tubes) {
		return fmt.Errorf("gui: mesh id %q out of range", mesh.ID)
	}
	r, g, b := rgb.Clamped().RGB255()
	a.Tubes[idx].Color = rl.NewColor(r, g, b, 255)
	a.Tubes[idx].Emission = float32(normalized * mat.EmissionStrength)
	return nil
}

func initWindow() {
	rl.InitWindow(1280, 720, "neuroviz")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func NewApp(cfg config.Config) *App {
	app := &App{
		Cmaps:      sortedColormaps(),
		SpikeLevel: cfg.SpikeLevel,
		orbitDist:  70,
		orbitPitch: 0.35,
	}
	app.Viewer = driver.NewViewer(app, app)
	app.Camera = rl.NewCamera3D(
		rl.NewVector3(0, 20, 70),
		rl.NewVector3(0, 10, 0),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
	if cfg.Audio {
		app.Sonifier = audio.NewSonifier()
	}
	return app
}

func sortedColormaps() []string {
	names := colormap.Names()
	sort.Strings(names)
	return names
}

// Run shows a dataset in the 3D viewer. swcPath optionally supplies real
// cell geometry; without it the layout falls back to a schematic.
func Run(source, swcPath string, cfg config.Config) error {
	app := NewApp(cfg)

	if err := app.Viewer.LoadDataset(context.Background(), source); err != nil {
		return err
	}
	if err := app.loadGeometry(swcPath); err != nil {
		return err
	}
	ds := app.Viewer.Dataset()
	active := ds.Material.Colormap
	if cfg.Colormap != "" {
		app.Viewer.SetColormap(cfg.Colormap)
		active = cfg.Colormap
	}
	for i, name := range app.Cmaps {
		if name == colormap.Lookup(active).Name() {
			app.CmapIdx = i
		}
	}
	if cfg.Focus != "" {
		for i := range app.Tubes {
			if app.Tubes[i].Name == cfg.Focus {
				app.Focus = i
			}
		}
	}
	if err := app.Viewer.Play(cfg.Speed); err != nil {
		return err
	}

	if app.Sonifier != nil {
		if err := app.Sonifier.Start(); err != nil {
			// Keep rendering without sound.
			app.Sonifier = nil
		} else {
			defer app.Sonifier.Stop()
		}
	}

	initWindow()
	defer rl.CloseWindow()

	for !rl.WindowShouldClose() {
		if app.Update() {
			break
		}
		app.Draw()
	}
	return nil
}

// loadGeometry builds the tube set from an SWC file or a schematic layout,
// rescaled so the whole cell fits the world box, then rebinds.
func (a *App) loadGeometry(swcPath string) error {
	ds := a.Viewer.Dataset()
	var morph *morphology.Morphology
	if swcPath != "" {
		m, err := morphology.LoadSWC(swcPath)
		if err != nil {
			return err
		}
		morph = m
	} else {
		morph = morphology.Schematic(ds)
	}
	a.Morph = morph
	a.Tubes = buildTubes(morph)
	a.Viewer.BindToCurrentMeshes()
	a.Viewer.Repaint()
	return nil
}

func buildTubes(m *morphology.Morphology) []tube {
	min, max := m.Bounds()
	extent := max.X - min.X
	if e := max.Y - min.Y; e > extent {
		extent = e
	}
	if e := max.Z - min.Z; e > extent {
		extent = e
	}
	if extent <= 0 {
		extent = 1
	}
	scale := worldSize / extent
	cx := (min.X + max.X) / 2
	cy := (min.Y + max.Y) / 2
	cz := (min.Z + max.Z) / 2

	tubes := make([]tube, 0, len(m.Sections))
	for _, sec := range m.Sections {
		t := tube{Name: sec.Name, Kind: sec.Kind, Color: rl.Gray}
		for _, p := range sec.Points {
			t.Points = append(t.Points, rl.NewVector3(
				float32((p.X-cx)*scale),
				float32((p.Y-cy)*scale),
				float32((p.Z-cz)*scale),
			))
			r := float32(p.Radius * scale)
			if r < 0.15 {
				r = 0.15
			}
			t.Radii = append(t.Radii, r)
		}
		tubes = append(tubes, t)
	}
	return tubes
}

// Update handles input and advances playback. Returns true on quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return true
	}

	clock := a.Viewer.Clock()

	if rl.IsKeyPressed(rl.KeySpace) && clock != nil {
		if clock.Status() == playback.Playing {
			a.Viewer.Pause()
		} else {
			a.Viewer.Play(clock.Speed())
		}
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.Viewer.Stop()
		a.Viewer.Repaint()
	}
	if clock != nil {
		if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
			a.Viewer.SetSpeed(clock.Speed() * 1.25)
		}
		if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
			a.Viewer.SetSpeed(clock.Speed() / 1.25)
		}
		step := float64(clock.FrameCount()) / 20.0
		if rl.IsKeyPressed(rl.KeyLeft) {
			clock.Seek(clock.Frame() - step)
			a.Viewer.Repaint()
		}
		if rl.IsKeyPressed(rl.KeyRight) {
			clock.Seek(clock.Frame() + step)
			a.Viewer.Repaint()
		}
	}
	if rl.IsKeyPressed(rl.KeyC) && len(a.Cmaps) > 0 {
		a.CmapIdx = (a.CmapIdx + 1) % len(a.Cmaps)
		a.Viewer.SetColormap(a.Cmaps[a.CmapIdx])
		a.Viewer.Repaint()
	}
	if rl.IsKeyPressed(rl.KeyTab) && len(a.Tubes) > 0 {
		a.Focus = (a.Focus + 1) % len(a.Tubes)
	}

	a.updateCamera()
	a.Viewer.Tick(float64(rl.GetFrameTime()))
	a.updateAudio()
	return false
}

func (a *App) updateCamera() {
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		a.orbitYaw -= delta.X * 0.01
		a.orbitPitch += delta.Y * 0.01
		if a.orbitPitch > 1.4 {
			a.orbitPitch = 1.4
		}
		if a.orbitPitch < -1.4 {
			a.orbitPitch = -1.4
		}
	}
	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		a.orbitDist -= wheel * 4
		if a.orbitDist < 10 {
			a.orbitDist = 10
		}
		if a.orbitDist > 300 {
			a.orbitDist = 300
		}
	}
	a.Camera.Position = orbitPosition(a.Camera.Target, a.orbitYaw, a.orbitPitch, a.orbitDist)
}

func (a *App) updateAudio() {
	if a.Sonifier == nil {
		return
	}
	ds := a.Viewer.Dataset()
	clock := a.Viewer.Clock()
	bind := a.Viewer.Binding()
	if ds == nil || clock == nil || bind == nil {
		return
	}
	for _, e := range bind.Entries() {
		var idx int
		if _, err := fmt.Sscanf(e.Mesh.ID, "tube-%d", &idx); err != nil || idx != a.Focus {
			continue
		}
		sec := &ds.Sections[e.SectionIndex]
		v := clock.Sample(sec)
		rng := ds.Material.VoltageRange
		a.Sonifier.SetVoltage(colormap.Normalize(v, rng.Min, rng.Max))
		if a.lastFocusV < a.SpikeLevel && v >= a.SpikeLevel {
			a.Sonifier.Spike()
		}
		a.lastFocusV = v
		return
	}
}
