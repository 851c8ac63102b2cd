package viz

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/neuroviz/internal/binding"
	"github.com/san-kum/neuroviz/internal/dataset"
)

// cellState is the latest visual parameters applied to one mesh row.
type cellState struct {
	RGB        colorful.Color
	Normalized float64
}

// cellSink is the terminal's material sink: instead of mutating GPU
// materials it records the computed color per mesh for the next View pass.
type cellSink struct {
	cells map[string]cellState
}

func newCellSink() *cellSink {
	return &cellSink{cells: make(map[string]cellState)}
}

func (s *cellSink) Apply(mesh binding.MeshHandle, rgb colorful.Color, normalized float64, _ dataset.MaterialConfig) error {
	s.cells[mesh.ID] = cellState{RGB: rgb, Normalized: normalized}
	return nil
}

func (s *cellSink) state(id string) (cellState, bool) {
	c, ok := s.cells[id]
	return c, ok
}

// sectionProvider exposes dataset sections as the "meshes" of the terminal
// renderer: one row per section, names taken verbatim so binding is the
// trivial positional case.
type sectionProvider struct {
	meshes []binding.MeshHandle
}

func (p *sectionProvider) Meshes() []binding.MeshHandle { return p.meshes }

func (p *sectionProvider) reload(ds *dataset.Dataset) {
	p.meshes = p.meshes[:0]
	if ds == nil {
		return
	}
	for i := range ds.Sections {
		p.meshes = append(p.meshes, binding.MeshHandle{
			ID:   fmt.Sprintf("sec-%d", i),
			Name: ds.Sections[i].Name,
		})
	}
}
