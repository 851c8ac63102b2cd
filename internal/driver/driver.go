// Package driver orchestrates one visualized specimen: it advances the
// playback clock on every display tick, samples the bound sections, converts
// voltage to color, and pushes the result through the material sink.
//
// The core never touches renderer-owned objects. It sees meshes only as
// opaque handles from a MeshProvider and hands computed visual parameters to
// a MaterialSink, so any backend (GPU window, terminal, test fake) can sit on
// the other side.
package driver

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/neuroviz/internal/binding"
	"github.com/san-kum/neuroviz/internal/colormap"
	"github.com/san-kum/neuroviz/internal/dataset"
	"github.com/san-kum/neuroviz/internal/playback"
)

// MeshProvider exposes the renderer's current part list, in render order.
// Invoked after a model finishes loading.
type MeshProvider interface {
	Meshes() []binding.MeshHandle
}

// MaterialSink receives the computed visual parameters for one mesh. The
// sink derives any renderer-specific values (emissive scaling, opacity,
// roughness) from the normalized voltage and material config; the core never
// mutates materials itself.
type MaterialSink interface {
	Apply(mesh binding.MeshHandle, rgb colorful.Color, normalized float64, mat dataset.MaterialConfig) error
}

// Driver runs the per-tick sampling loop over one binding.
type Driver struct {
	sink   MaterialSink
	engine *colormap.Engine

	// Logf receives per-mesh sink failures. Defaults to a stderr logger;
	// a failing sink never aborts the remaining meshes in a tick.
	Logf func(format string, args ...any)
}

func New(sink MaterialSink, engine *colormap.Engine) *Driver {
	return &Driver{sink: sink, engine: engine, Logf: defaultLogf}
}

// Tick performs one animation step: advance the clock, then sample, color,
// and emit every bound mesh. A nil binding or a non-playing clock is a no-op.
func (d *Driver) Tick(delta float64, clock *playback.Clock, ds *dataset.Dataset, bind *binding.Binding) {
	if clock == nil || ds == nil || bind == nil {
		return
	}
	if clock.Status() != playback.Playing {
		return
	}
	clock.Tick(delta)
	d.Emit(clock, ds, bind)
}

// Emit pushes the clock's current frame to the sink without advancing,
// which lets callers repaint after a seek while paused.
func (d *Driver) Emit(clock *playback.Clock, ds *dataset.Dataset, bind *binding.Binding) {
	vr := ds.Material.VoltageRange
	for _, entry := range bind.Entries() {
		sec := &ds.Sections[entry.SectionIndex]
		v := clock.Sample(sec)
		normalized := colormap.Normalize(v, vr.Min, vr.Max)
		rgb := d.engine.Color(v, vr.Min, vr.Max)
		d.apply(entry.Mesh, rgb, normalized, ds.Material)
	}
}

// apply isolates one sink call: an error is logged and a panic is recovered
// so a broken renderer part cannot take the rest of the frame down with it.
func (d *Driver) apply(mesh binding.MeshHandle, rgb colorful.Color, normalized float64, mat dataset.MaterialConfig) {
	defer func() {
		if r := recover(); r != nil {
			d.Logf("driver: sink panic for mesh %q: %v", mesh.Name, r)
		}
	}()
	if err := d.sink.Apply(mesh, rgb, normalized, mat); err != nil {
		d.Logf("driver: sink error for mesh %q: %v", mesh.Name, err)
	}
}
