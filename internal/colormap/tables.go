package colormap

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

const tableSize = 256

// fixedTable is a named, precomputed list of control points. Tables are
// expanded once at init from published anchor colors, blending between
// anchors in Lab space so perceptual spacing survives the expansion.
type fixedTable struct {
	name   string
	points []colorful.Color
}

func (t *fixedTable) Name() string            { return t.name }
func (t *fixedTable) Len() int                { return len(t.points) }
func (t *fixedTable) At(i int) colorful.Color { return t.points[i] }

// Anchor colors for the built-in palettes (matplotlib hex values).
var (
	plasmaAnchors = []string{
		"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
		"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
	}
	viridisAnchors = []string{
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
	}
	coolwarmAnchors = []string{
		"#3b4cc0", "#6788ee", "#9abbff", "#c9d7f0", "#dddddd",
		"#f2cbb7", "#f7ac8e", "#e26952", "#b40426",
	}
)

// Tables holds every registered colormap by name.
var Tables = map[string]Table{}

// Default is used whenever a requested name is unknown.
var Default Table

func init() {
	Default = register("plasma", plasmaAnchors)
	register("viridis", viridisAnchors)
	register("coolwarm", coolwarmAnchors)
}

func register(name string, anchors []string) Table {
	t := &fixedTable{name: name, points: expand(anchors, tableSize)}
	Tables[name] = t
	return t
}

// Lookup returns the named table, falling back to the default palette for
// unknown names so a misspelled dataset config still renders.
func Lookup(name string) Table {
	if t, ok := Tables[name]; ok {
		return t
	}
	return Default
}

// Names lists the registered colormaps.
func Names() []string {
	names := make([]string, 0, len(Tables))
	for name := range Tables {
		names = append(names, name)
	}
	return names
}

func expand(anchors []string, n int) []colorful.Color {
	parsed := make([]colorful.Color, len(anchors))
	for i, hex := range anchors {
		c, err := colorful.Hex(hex)
		if err != nil {
			panic("colormap: bad anchor " + hex)
		}
		parsed[i] = c
	}

	points := make([]colorful.Color, n)
	last := len(parsed) - 1
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n-1)
		scaled := p * float64(last)
		i0 := int(scaled)
		if i0 >= last {
			points[i] = parsed[last]
			continue
		}
		frac := scaled - float64(i0)
		points[i] = parsed[i0].BlendLab(parsed[i0+1], frac).Clamped()
	}
	return points
}
