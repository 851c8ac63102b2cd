package driver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/neuroviz/internal/binding"
	"github.com/san-kum/neuroviz/internal/dataset"
	"github.com/san-kum/neuroviz/internal/playback"
)

type fakeProvider struct {
	meshes []binding.MeshHandle
}

func (p *fakeProvider) Meshes() []binding.MeshHandle { return p.meshes }

type applied struct {
	mesh       binding.MeshHandle
	rgb        colorful.Color
	normalized float64
}

type fakeSink struct {
	calls   []applied
	failFor map[string]error
	panicOn string
}

func (s *fakeSink) Apply(mesh binding.MeshHandle, rgb colorful.Color, normalized float64, mat dataset.MaterialConfig) error {
	if mesh.Name == s.panicOn {
		panic("renderer exploded")
	}
	if err, ok := s.failFor[mesh.Name]; ok {
		return err
	}
	s.calls = append(s.calls, applied{mesh: mesh, rgb: rgb, normalized: normalized})
	return nil
}

const testPayload = `{
	"metadata": {
		"frames": 100,
		"duration_ms": 1000.0,
		"time_step_ms": 10.0,
		"global_voltage_range": {"min": -70.0, "max": 20.0}
	},
	"sections": [
		{"id": 0, "name": "soma", "type": "soma", "voltage_frames": %s},
		{"id": 1, "name": "axon", "type": "axon", "voltage_frames": %s},
		{"id": 2, "name": "dend", "type": "basal_dendrite", "voltage_frames": %s}
	]
}`

func rampPayload(t *testing.T) []byte {
	t.Helper()
	frames := make([]string, 100)
	for i := range frames {
		frames[i] = fmt.Sprintf("%g", -70.0+float64(i))
	}
	ramp := "[" + strings.Join(frames, ",") + "]"
	return []byte(fmt.Sprintf(testPayload, ramp, ramp, ramp))
}

func newTestViewer(t *testing.T, sink MaterialSink) *Viewer {
	t.Helper()
	provider := &fakeProvider{meshes: []binding.MeshHandle{
		{ID: "m0", Name: "soma"},
		{ID: "m1", Name: "axon"},
		{ID: "m2", Name: "dend"},
	}}
	v := NewViewer(provider, sink)
	v.SetLogf(func(string, ...any) {})
	if err := v.LoadParsed(rampPayload(t)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return v
}

func TestEndToEndAdvance(t *testing.T) {
	sink := &fakeSink{}
	v := newTestViewer(t, sink)

	if err := v.Play(1.0); err != nil {
		t.Fatal(err)
	}
	// 100 frames / 1 s: each 0.5 s tick advances 50 frames.
	v.Tick(0.5)
	v.Tick(0.5)
	v.Tick(0.5)

	if got := v.Clock().Frame(); math.Abs(got-50) > 1e-9 {
		t.Errorf("frame after 3 half-second ticks = %v, want 50 (150 wrapped)", got)
	}
	// Every bound mesh got one apply per tick.
	if len(sink.calls) != 9 {
		t.Errorf("sink calls = %d, want 9", len(sink.calls))
	}
}

func TestTickWhileNotPlayingIsNoop(t *testing.T) {
	sink := &fakeSink{}
	v := newTestViewer(t, sink)

	v.Tick(0.5)
	if len(sink.calls) != 0 {
		t.Errorf("stopped viewer emitted %d sink calls", len(sink.calls))
	}

	if err := v.Play(1.0); err != nil {
		t.Fatal(err)
	}
	v.Pause()
	v.Tick(0.5)
	if len(sink.calls) != 0 || v.Clock().Frame() != 0 {
		t.Errorf("paused viewer advanced: calls=%d frame=%v", len(sink.calls), v.Clock().Frame())
	}
}

func TestNormalizedAndColorMatchVoltage(t *testing.T) {
	sink := &fakeSink{}
	v := newTestViewer(t, sink)

	// Frame 45: ramp voltage -70+45 = -25, the midpoint of [-70, 20].
	v.Clock().Seek(45)
	v.Repaint()

	if len(sink.calls) != 3 {
		t.Fatalf("sink calls = %d, want 3", len(sink.calls))
	}
	for _, call := range sink.calls {
		if math.Abs(call.normalized-0.5) > 1e-9 {
			t.Errorf("mesh %s normalized = %v, want 0.5", call.mesh.Name, call.normalized)
		}
		want := v.Engine().Color(-25, -70, 20)
		if call.rgb != want {
			t.Errorf("mesh %s rgb = %v, want %v", call.mesh.Name, call.rgb, want)
		}
	}
}

func TestSinkErrorDoesNotAbortTick(t *testing.T) {
	var logged []string
	sink := &fakeSink{failFor: map[string]error{"axon": errors.New("gpu busy")}}
	v := newTestViewer(t, sink)
	v.SetLogf(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	})

	if err := v.Play(1.0); err != nil {
		t.Fatal(err)
	}
	v.Tick(0.1)

	// soma and dend still applied.
	if len(sink.calls) != 2 {
		t.Errorf("sink calls = %d, want 2 (axon skipped)", len(sink.calls))
	}
	if len(logged) != 1 || !strings.Contains(logged[0], "axon") {
		t.Errorf("expected one logged failure mentioning axon, got %v", logged)
	}
}

func TestSinkPanicIsRecovered(t *testing.T) {
	var logged []string
	sink := &fakeSink{panicOn: "soma"}
	v := newTestViewer(t, sink)
	v.SetLogf(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	})

	if err := v.Play(1.0); err != nil {
		t.Fatal(err)
	}
	v.Tick(0.1)

	if len(sink.calls) != 2 {
		t.Errorf("sink calls = %d, want 2 (soma panicked)", len(sink.calls))
	}
	if len(logged) != 1 || !strings.Contains(logged[0], "panic") {
		t.Errorf("expected one logged panic, got %v", logged)
	}
	// Clock keeps running.
	v.Tick(0.1)
	if v.Clock().Frame() == 0 {
		t.Error("clock stopped after sink panic")
	}
}

func TestFailedLoadKeepsPriorState(t *testing.T) {
	sink := &fakeSink{}
	v := newTestViewer(t, sink)
	if err := v.Play(2.0); err != nil {
		t.Fatal(err)
	}
	v.Tick(0.1)

	before := struct {
		ds    *dataset.Dataset
		bind  *binding.Binding
		frame float64
	}{v.Dataset(), v.Binding(), v.Clock().Frame()}

	if err := v.LoadParsed([]byte(`{"metadata": {"frames": 0, "duration_ms": 1}, "sections": []}`)); err == nil {
		t.Fatal("malformed load should fail")
	} else if !errors.Is(err, dataset.ErrDataFormat) {
		t.Errorf("error %v is not ErrDataFormat", err)
	}

	if v.Dataset() != before.ds || v.Binding() != before.bind {
		t.Error("failed load replaced dataset or binding")
	}
	if v.Clock().Frame() != before.frame || v.Clock().Status() != playback.Playing {
		t.Errorf("failed load disturbed the clock: frame=%v status=%s",
			v.Clock().Frame(), v.Clock().Status())
	}
}

func TestCanceledLoadKeepsPriorState(t *testing.T) {
	sink := &fakeSink{}
	v := newTestViewer(t, sink)
	before := v.Dataset()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := v.LoadDataset(ctx, "http://127.0.0.1:0/trace.json"); err == nil {
		t.Fatal("canceled load should fail")
	}
	if v.Dataset() != before {
		t.Error("canceled load replaced the dataset")
	}
}

func TestSuccessfulReloadSwapsAtomically(t *testing.T) {
	sink := &fakeSink{}
	v := newTestViewer(t, sink)
	oldBind := v.Binding()

	if err := v.LoadParsed(rampPayload(t)); err != nil {
		t.Fatal(err)
	}
	if v.Binding() == oldBind {
		t.Error("reload should rebuild the binding")
	}
	if v.Clock().Status() != playback.Stopped || v.Clock().Frame() != 0 {
		t.Errorf("reload should reset the clock, got status=%s frame=%v",
			v.Clock().Status(), v.Clock().Frame())
	}
}

func TestPlayWithoutDataset(t *testing.T) {
	v := NewViewer(&fakeProvider{}, &fakeSink{})
	if err := v.Play(1.0); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Play without dataset: %v, want ErrNoDataset", err)
	}
}

func TestBindingStrategyIsPositional(t *testing.T) {
	sink := &fakeSink{}
	v := newTestViewer(t, sink)
	for _, e := range v.Binding().Entries() {
		if e.Strategy != binding.Positional {
			t.Errorf("equal counts should bind positionally, got %s", e.Strategy)
		}
	}
}
