package morphology

import (
	"math"

	"github.com/san-kum/neuroviz/internal/dataset"
)

// Schematic builds a stylized morphology straight from a dataset when no SWC
// geometry is available: soma at the origin, axons extending down, apical
// dendrites up, and basal dendrites fanned out radially.
func Schematic(ds *dataset.Dataset) *Morphology {
	m := &Morphology{}
	dendrites := 0
	for _, sec := range ds.Sections {
		if sec.Kind == dataset.KindDendrite || sec.Kind == dataset.KindOther {
			dendrites++
		}
	}

	dendIdx := 0
	axonIdx := 0
	apicalIdx := 0
	for _, sec := range ds.Sections {
		var pts []Point
		switch sec.Kind {
		case dataset.KindSoma:
			pts = []Point{
				{X: 0, Y: 0, Z: 0, Radius: 10},
				{X: 0, Y: 10, Z: 0, Radius: 10},
			}
		case dataset.KindAxon:
			x := float64(axonIdx) * 6
			axonIdx++
			pts = []Point{
				{X: x, Y: 0, Z: 0, Radius: 1.5},
				{X: x, Y: -100, Z: 0, Radius: 1.2},
				{X: x, Y: -200, Z: 0, Radius: 1.0},
			}
		case dataset.KindApical:
			x := float64(apicalIdx) * 30
			apicalIdx++
			pts = []Point{
				{X: 0, Y: 10, Z: 0, Radius: 2.5},
				{X: x / 2, Y: 110, Z: 0, Radius: 2.0},
				{X: x, Y: 180, Z: 0, Radius: 1.5},
			}
		default:
			angle := 2 * math.Pi * float64(dendIdx) / float64(maxInt(dendrites, 1))
			dendIdx++
			pts = []Point{
				{X: 0, Y: 0, Z: 0, Radius: 2.0},
				{
					X:      90 * math.Cos(angle),
					Y:      -20,
					Z:      90 * math.Sin(angle),
					Radius: 1.2,
				},
			}
		}
		m.Sections = append(m.Sections, Section{Name: sec.Name, Kind: sec.Kind, Points: pts})
	}
	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
