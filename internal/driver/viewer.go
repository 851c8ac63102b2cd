package driver

import (
	"context"
	"errors"
	"log"

	"github.com/san-kum/neuroviz/internal/binding"
	"github.com/san-kum/neuroviz/internal/colormap"
	"github.com/san-kum/neuroviz/internal/dataset"
	"github.com/san-kum/neuroviz/internal/playback"
)

// ErrNoDataset indicates a playback operation before any successful load.
var ErrNoDataset = errors.New("driver: no dataset loaded")

func defaultLogf(format string, args ...any) { log.Printf(format, args...) }

// Viewer composes one dataset, one binding, and one clock: the unit of a
// single visualized specimen. It is single-threaded by contract; run several
// independent Viewers for several specimens rather than sharing one.
type Viewer struct {
	provider MeshProvider
	driver   *Driver

	ds    *dataset.Dataset
	bind  *binding.Binding
	clock *playback.Clock
}

// NewViewer wires a provider and sink together. The viewer starts empty;
// nothing animates until LoadDataset succeeds.
func NewViewer(provider MeshProvider, sink MaterialSink) *Viewer {
	return &Viewer{
		provider: provider,
		driver:   New(sink, colormap.NewEngine(colormap.Default)),
	}
}

// SetLogf redirects sink failure reports.
func (v *Viewer) SetLogf(logf func(format string, args ...any)) {
	if logf != nil {
		v.driver.Logf = logf
	}
}

func (v *Viewer) Dataset() *dataset.Dataset  { return v.ds }
func (v *Viewer) Binding() *binding.Binding  { return v.bind }
func (v *Viewer) Clock() *playback.Clock     { return v.clock }
func (v *Viewer) Engine() *colormap.Engine   { return v.driver.engine }

// LoadDataset fetches, validates, and installs a new dataset. The swap is
// all-or-nothing: the current dataset, binding, and clock stay untouched
// until the new dataset is fully built, so a failed or canceled load leaves
// playback exactly as it was.
func (v *Viewer) LoadDataset(ctx context.Context, source string) error {
	ds, err := dataset.Load(ctx, source)
	if err != nil {
		return err
	}
	v.install(ds)
	return nil
}

// LoadParsed installs an already-decoded payload, with the same swap rules.
func (v *Viewer) LoadParsed(raw []byte) error {
	ds, err := dataset.Parse(raw)
	if err != nil {
		return err
	}
	v.install(ds)
	return nil
}

func (v *Viewer) install(ds *dataset.Dataset) {
	engine := colormap.NewEngine(colormap.Lookup(ds.Material.Colormap))
	engine.SetRange(ds.Material.CmapStart, ds.Material.CmapEnd)

	v.ds = ds
	v.driver.engine = engine
	v.clock = playback.NewClock(ds)
	v.bind = v.currentBinding()
}

// SetColormap overrides the dataset's palette, keeping the configured
// cmap sub-range.
func (v *Viewer) SetColormap(name string) {
	engine := colormap.NewEngine(colormap.Lookup(name))
	if v.ds != nil {
		engine.SetRange(v.ds.Material.CmapStart, v.ds.Material.CmapEnd)
	}
	v.driver.engine = engine
}

// BindToCurrentMeshes rebuilds the mesh↔section association, replacing any
// prior binding. Called again whenever the renderer reloads its model.
func (v *Viewer) BindToCurrentMeshes() *binding.Binding {
	v.bind = v.currentBinding()
	return v.bind
}

func (v *Viewer) currentBinding() *binding.Binding {
	if v.provider == nil || v.ds == nil {
		return binding.Bind(nil, v.ds)
	}
	return binding.Bind(v.provider.Meshes(), v.ds)
}

// Play starts playback at the given speed; speed <= 0 keeps the current one.
func (v *Viewer) Play(speed float64) error {
	if v.clock == nil {
		return ErrNoDataset
	}
	if speed > 0 {
		if err := v.clock.SetSpeed(speed); err != nil {
			return err
		}
	}
	v.clock.Play()
	return nil
}

func (v *Viewer) Pause() {
	if v.clock != nil {
		v.clock.Pause()
	}
}

func (v *Viewer) Stop() {
	if v.clock != nil {
		v.clock.Stop()
	}
}

func (v *Viewer) SetSpeed(speed float64) error {
	if v.clock == nil {
		return nil
	}
	return v.clock.SetSpeed(speed)
}

// Tick advances one display frame. delta is elapsed wall time in seconds.
func (v *Viewer) Tick(delta float64) {
	v.driver.Tick(delta, v.clock, v.ds, v.bind)
}

// Repaint re-emits the current frame without advancing, e.g. after a seek
// or a colormap change while paused.
func (v *Viewer) Repaint() {
	if v.clock == nil || v.ds == nil || v.bind == nil {
		return
	}
	v.driver.Emit(v.clock, v.ds, v.bind)
}
