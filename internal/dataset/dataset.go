// Package dataset holds the immutable in-memory form of a voltage trace
// recording: one membrane voltage value per anatomical section per frame,
// plus the metadata and material configuration needed to animate it.
//
// A Dataset is never mutated after Load returns; reloading replaces the
// whole value.
package dataset

import "strings"

// Kind classifies an anatomical section.
type Kind string

const (
	KindSoma     Kind = "soma"
	KindAxon     Kind = "axon"
	KindDendrite Kind = "dendrite"
	KindApical   Kind = "apical"
	KindOther    Kind = "other"
)

// KindFromType maps a wire "type" string onto a Kind. The wire values follow
// SWC naming, where dendrites arrive as basal_dendrite / apical_dendrite.
func KindFromType(s string) Kind {
	t := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(t, "soma"):
		return KindSoma
	case strings.Contains(t, "axon"):
		return KindAxon
	case strings.Contains(t, "apic"):
		return KindApical
	case strings.Contains(t, "dend"):
		return KindDendrite
	default:
		return KindOther
	}
}

// Range is a closed numeric interval.
type Range struct {
	Min float64
	Max float64
}

// Section is one anatomical unit with its voltage trace over time.
type Section struct {
	ID     int
	Name   string
	Kind   Kind
	Frames []float64 // mV, one per time step
	Local  Range     // min/max over Frames
}

// Frame returns the trace value at index i, clamped into the valid range so
// traces shorter than the dataset frame count never panic.
func (s *Section) Frame(i int) float64 {
	if len(s.Frames) == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s.Frames) {
		i = len(s.Frames) - 1
	}
	return s.Frames[i]
}

// Metadata describes the recording's time base.
type Metadata struct {
	FrameCount  int
	DurationMs  float64
	TimeStepMs  float64
	GlobalRange Range
}

// MaterialConfig carries the visual parameters a renderer needs.
type MaterialConfig struct {
	Colormap         string
	Steps            int
	CmapStart        float64
	CmapEnd          float64
	EmissionStrength float64
	VoltageRange     Range
}

// Default material parameters, used when the wire payload omits
// material_config.
const (
	DefaultColormap = "plasma"
	DefaultSteps    = 10
	DefaultEmission = 2.0
	DefaultRangeMin = -70.0
	DefaultRangeMax = 20.0
)

// DefaultMaterial synthesizes a config for a dataset without one. The voltage
// range falls back to the recording's global range when it is usable.
func DefaultMaterial(meta Metadata) MaterialConfig {
	vr := meta.GlobalRange
	if vr.Min == 0 && vr.Max == 0 {
		vr = Range{Min: DefaultRangeMin, Max: DefaultRangeMax}
	}
	return MaterialConfig{
		Colormap:         DefaultColormap,
		Steps:            DefaultSteps,
		CmapStart:        0,
		CmapEnd:          1,
		EmissionStrength: DefaultEmission,
		VoltageRange:     vr,
	}
}

// Dataset is the validated, immutable recording.
type Dataset struct {
	Sections []Section
	Meta     Metadata
	Material MaterialConfig
}

// DurationSeconds returns the recording length in seconds.
func (d *Dataset) DurationSeconds() float64 {
	return d.Meta.DurationMs / 1000.0
}

// FramesPerSecond returns the recording's native frame rate.
func (d *Dataset) FramesPerSecond() float64 {
	if d.Meta.DurationMs <= 0 {
		return 0
	}
	return float64(d.Meta.FrameCount) / d.DurationSeconds()
}

// SectionByName returns the index of the named section, or -1.
func (d *Dataset) SectionByName(name string) int {
	for i := range d.Sections {
		if d.Sections[i].Name == name {
			return i
		}
	}
	return -1
}

func localRange(frames []float64) Range {
	if len(frames) == 0 {
		return Range{}
	}
	r := Range{Min: frames[0], Max: frames[0]}
	for _, v := range frames[1:] {
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	return r
}
