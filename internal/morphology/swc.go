// Package morphology loads neuron geometry from SWC files. Each SWC node is
// a point with a type, radius, and parent; runs of single-child nodes are
// collapsed into sections so the 3D viewer gets one renderable part per
// unbranched stretch, named the way simulation exporters name them
// (soma_1, axon_2, basal_dendrite_1, ...).
package morphology

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/neuroviz/internal/dataset"
)

// Point is one 3D sample along a section's path, in micrometers.
type Point struct {
	X, Y, Z float64
	Radius  float64
}

// Section is an unbranched stretch of the morphology.
type Section struct {
	Name   string
	Kind   dataset.Kind
	Points []Point
}

// Morphology is the parsed cell geometry.
type Morphology struct {
	Sections []Section
}

// SWC type column values.
var swcTypeNames = map[int]string{
	1: "soma",
	2: "axon",
	3: "basal_dendrite",
	4: "apical_dendrite",
	5: "custom",
	6: "unspecified",
	7: "glia",
}

type swcNode struct {
	id       int
	typ      int
	point    Point
	parent   int
	children []int
}

// LoadSWC reads and parses an SWC morphology file.
func LoadSWC(path string) (*Morphology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(bufio.NewScanner(f))
}

// ParseSWC parses SWC content from a string, for embedded and test data.
func ParseSWC(content string) (*Morphology, error) {
	return parse(bufio.NewScanner(strings.NewReader(content)))
}

func parse(sc *bufio.Scanner) (*Morphology, error) {
	nodes := make(map[int]*swcNode)
	var roots []int

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 7 {
			continue
		}
		id, err1 := strconv.Atoi(fields[0])
		typ, err2 := strconv.Atoi(fields[1])
		x, err3 := strconv.ParseFloat(fields[2], 64)
		y, err4 := strconv.ParseFloat(fields[3], 64)
		z, err5 := strconv.ParseFloat(fields[4], 64)
		radius, err6 := strconv.ParseFloat(fields[5], 64)
		parent, err7 := strconv.Atoi(fields[6])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil ||
			err5 != nil || err6 != nil || err7 != nil {
			return nil, fmt.Errorf("morphology: bad swc line %q", line)
		}
		nodes[id] = &swcNode{
			id:     id,
			typ:    typ,
			point:  Point{X: x, Y: y, Z: z, Radius: radius},
			parent: parent,
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("morphology: no swc nodes found")
	}

	ids := make([]int, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		n := nodes[id]
		if n.parent == -1 || nodes[n.parent] == nil {
			roots = append(roots, id)
			continue
		}
		p := nodes[n.parent]
		p.children = append(p.children, id)
	}

	m := &Morphology{}
	counts := make(map[int]int)
	visited := make(map[int]bool)
	for _, root := range roots {
		traceSections(nodes, root, visited, counts, m)
	}
	return m, nil
}

// traceSections walks from start until a branch or a leaf, emitting one
// section per run; branches recurse into each child.
func traceSections(nodes map[int]*swcNode, start int, visited map[int]bool, counts map[int]int, m *Morphology) {
	cur := start
	var points []Point
	typ := nodes[start].typ

	for cur != 0 && !visited[cur] {
		visited[cur] = true
		n := nodes[cur]
		points = append(points, n.point)

		switch len(n.children) {
		case 0:
			cur = 0
		case 1:
			cur = n.children[0]
		default:
			for _, child := range n.children {
				if !visited[child] {
					traceSections(nodes, child, visited, counts, m)
				}
			}
			cur = 0
		}
	}

	if len(points) == 0 {
		return
	}
	counts[typ]++
	typeName := swcTypeNames[typ]
	if typeName == "" {
		typeName = "unknown"
	}
	m.Sections = append(m.Sections, Section{
		Name:   fmt.Sprintf("%s_%d", typeName, counts[typ]),
		Kind:   dataset.KindFromType(typeName),
		Points: points,
	})
}

// Bounds returns the axis-aligned bounding box of all section points.
func (m *Morphology) Bounds() (min, max Point) {
	first := true
	for _, s := range m.Sections {
		for _, p := range s.Points {
			if first {
				min, max = p, p
				first = false
				continue
			}
			if p.X < min.X {
				min.X = p.X
			}
			if p.Y < min.Y {
				min.Y = p.Y
			}
			if p.Z < min.Z {
				min.Z = p.Z
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Y > max.Y {
				max.Y = p.Y
			}
			if p.Z > max.Z {
				max.Z = p.Z
			}
		}
	}
	return min, max
}
