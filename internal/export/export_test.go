package export

import (
	"context"
	"strings"
	"testing"

	"github.com/san-kum/neuroviz/internal/colormap"
	"github.com/san-kum/neuroviz/internal/dataset"
)

func exportDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Sections: []dataset.Section{
			{ID: 0, Name: "soma", Frames: []float64{-70, 20, -70}},
			{ID: 1, Name: "axon", Frames: []float64{-70, -60}},
		},
		Meta: dataset.Metadata{FrameCount: 3, DurationMs: 30, TimeStepMs: 10},
		Material: dataset.MaterialConfig{
			Colormap:     "plasma",
			CmapEnd:      1,
			VoltageRange: dataset.Range{Min: -70, Max: 20},
		},
	}
}

func TestTimelineSVG(t *testing.T) {
	ds := exportDataset()
	engine := colormap.NewEngine(colormap.Lookup(ds.Material.Colormap))

	svg, err := TimelineSVG(context.Background(), ds, engine, 600, 14)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(svg, `<?xml version="1.0"`) || !strings.HasSuffix(svg, "</svg>") {
		t.Error("svg envelope missing")
	}
	if !strings.Contains(svg, ">soma</text>") || !strings.Contains(svg, ">axon</text>") {
		t.Error("section labels missing")
	}
	// 2 sections x 3 frames of cells.
	if got := strings.Count(svg, "<rect"); got != 1+6 {
		t.Errorf("rect count = %d, want 7 (background + 6 cells)", got)
	}
	// Frame 1 of soma is at the top of the voltage range: last table color.
	tbl := engine.Table()
	if !strings.Contains(svg, tbl.At(tbl.Len()-1).Hex()) {
		t.Error("peak-voltage cell should use the last control point color")
	}
}

func TestWriteCSV(t *testing.T) {
	ds := exportDataset()
	var sb strings.Builder
	if err := WriteCSV(&sb, ds); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("csv lines = %d, want header + 3 frames", len(lines))
	}
	if lines[0] != "time_ms,soma,axon" {
		t.Errorf("header = %q", lines[0])
	}
	// Short axon trace repeats its last sample on frame 2.
	if !strings.HasPrefix(lines[3], "20.000,-70.000000,-60.000000") {
		t.Errorf("frame 2 row = %q", lines[3])
	}
}
