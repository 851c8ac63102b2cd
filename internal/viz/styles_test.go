package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/neuroviz/internal/binding"
	"github.com/san-kum/neuroviz/internal/colormap"
	"github.com/san-kum/neuroviz/internal/dataset"
)

func TestGetTheme(t *testing.T) {
	if got := GetTheme("retro"); got.Name != "retro" {
		t.Errorf("GetTheme(retro) = %s", got.Name)
	}
	if got := GetTheme("nope"); got.Name != "dark" {
		t.Errorf("unknown theme should fall back to dark, got %s", got.Name)
	}
}

func TestMeterBar(t *testing.T) {
	tests := []struct {
		v      float64
		filled int
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{-3, 0},
		{2, 10},
	}
	for _, tt := range tests {
		bar := MeterBar(tt.v, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("MeterBar(%v): %d filled cells, want %d", tt.v, got, tt.filled)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 10 {
			t.Errorf("MeterBar(%v): %d cells total, want 10", tt.v, got)
		}
	}
}

func TestLegendBarWidth(t *testing.T) {
	bar := LegendBar(colormap.Default, 16)
	if got := strings.Count(bar, "█"); got != 16 {
		t.Errorf("legend has %d cells, want 16", got)
	}
}

func TestCellSinkRecordsByMeshID(t *testing.T) {
	sink := newCellSink()
	mesh := binding.MeshHandle{ID: "sec-0", Name: "soma"}
	c := colormap.Sample(colormap.Default, 1.0)
	if err := sink.Apply(mesh, c, 0.75, dataset.MaterialConfig{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	cell, ok := sink.state("sec-0")
	if !ok {
		t.Fatal("no cell recorded for sec-0")
	}
	if cell.Normalized != 0.75 {
		t.Errorf("normalized = %v, want 0.75", cell.Normalized)
	}
	if cell.RGB != c {
		t.Errorf("color = %v, want %v", cell.RGB, c)
	}
}

func TestSectionProviderReload(t *testing.T) {
	ds := &dataset.Dataset{
		Sections: []dataset.Section{
			{ID: 0, Name: "soma"},
			{ID: 1, Name: "axon_0"},
		},
	}
	p := &sectionProvider{}
	p.reload(ds)
	meshes := p.Meshes()
	if len(meshes) != 2 {
		t.Fatalf("%d meshes, want 2", len(meshes))
	}
	if meshes[0].ID != "sec-0" || meshes[0].Name != "soma" {
		t.Errorf("first mesh = %+v", meshes[0])
	}
	p.reload(nil)
	if len(p.Meshes()) != 0 {
		t.Errorf("reload(nil) should clear meshes")
	}
}
