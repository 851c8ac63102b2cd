package morphology

import (
	"testing"

	"github.com/san-kum/neuroviz/internal/dataset"
)

// Soma root with an axon run and two dendrite branches off node 4.
const sampleSWC = `# test morphology
1 1 0 0 0 10 -1
2 2 0 -10 0 1.5 1
3 2 0 -20 0 1.2 2
4 3 5 5 0 2.0 1
5 3 10 10 0 1.5 4
6 3 10 0 5 1.5 4
`

func TestParseSWCSections(t *testing.T) {
	m, err := ParseSWC(sampleSWC)
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]dataset.Kind)
	for _, s := range m.Sections {
		names[s.Name] = s.Kind
	}

	if kind, ok := names["soma_1"]; !ok || kind != dataset.KindSoma {
		t.Errorf("missing soma_1, got %v", names)
	}
	if kind, ok := names["axon_1"]; !ok || kind != dataset.KindAxon {
		t.Errorf("missing axon_1, got %v", names)
	}
	// The two branches off node 4 each become their own dendrite section.
	if _, ok := names["basal_dendrite_1"]; !ok {
		t.Errorf("missing basal_dendrite_1, got %v", names)
	}
	if len(m.Sections) < 4 {
		t.Errorf("section count = %d, want >= 4", len(m.Sections))
	}
}

func TestParseSWCAxonRunCollapses(t *testing.T) {
	m, err := ParseSWC(sampleSWC)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range m.Sections {
		if s.Name == "axon_1" && len(s.Points) != 2 {
			t.Errorf("axon_1 has %d points, want the 2-node run", len(s.Points))
		}
	}
}

func TestParseSWCIgnoresCommentsAndBlank(t *testing.T) {
	m, err := ParseSWC("# only comments\n\n1 1 0 0 0 5 -1\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Sections) != 1 {
		t.Errorf("sections = %d, want 1", len(m.Sections))
	}
}

func TestParseSWCErrors(t *testing.T) {
	if _, err := ParseSWC(""); err == nil {
		t.Error("empty SWC should fail")
	}
	if _, err := ParseSWC("1 1 x 0 0 5 -1\n"); err == nil {
		t.Error("non-numeric field should fail")
	}
}

func TestBounds(t *testing.T) {
	m, err := ParseSWC(sampleSWC)
	if err != nil {
		t.Fatal(err)
	}
	min, max := m.Bounds()
	if min.Y != -20 || max.Y != 10 {
		t.Errorf("bounds y = [%v, %v], want [-20, 10]", min.Y, max.Y)
	}
}

func TestSchematic(t *testing.T) {
	ds := &dataset.Dataset{
		Sections: []dataset.Section{
			{ID: 0, Name: "soma", Kind: dataset.KindSoma},
			{ID: 1, Name: "axon", Kind: dataset.KindAxon},
			{ID: 2, Name: "dend_1", Kind: dataset.KindDendrite},
			{ID: 3, Name: "apical", Kind: dataset.KindApical},
		},
	}
	m := Schematic(ds)
	if len(m.Sections) != 4 {
		t.Fatalf("schematic sections = %d, want 4", len(m.Sections))
	}
	for i, s := range m.Sections {
		if s.Name != ds.Sections[i].Name {
			t.Errorf("schematic section %d name = %q, want %q", i, s.Name, ds.Sections[i].Name)
		}
		if len(s.Points) < 2 {
			t.Errorf("section %q has %d points, want >= 2", s.Name, len(s.Points))
		}
	}
}
