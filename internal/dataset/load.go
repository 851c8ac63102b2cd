package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Wire structs mirror the JSON payload produced by the simulation exporter.
type wireDataset struct {
	Metadata *wireMetadata `json:"metadata"`
	Material *wireMaterial `json:"material_config"`
	Sections []wireSection `json:"sections"`
}

type wireMetadata struct {
	Frames      int       `json:"frames"`
	DurationMs  float64   `json:"duration_ms"`
	TimeStepMs  float64   `json:"time_step_ms"`
	GlobalRange wireRange `json:"global_voltage_range"`
}

type wireMaterial struct {
	ColormapName     string    `json:"colormap_name"`
	ColormapSteps    int       `json:"colormap_steps"`
	CmapStart        float64   `json:"cmap_start"`
	CmapEnd          float64   `json:"cmap_end"`
	EmissionStrength float64   `json:"emission_strength"`
	VoltageRange     wireRange `json:"voltage_range"`
}

type wireRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type wireSection struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	VoltageFrames []float64 `json:"voltage_frames"`
}

// Load fetches and validates a dataset from a file path or http(s) URL.
// On any error the returned dataset is nil and nothing else changes; a
// canceled context aborts a URL fetch without side effects.
func Load(ctx context.Context, source string) (*Dataset, error) {
	raw, err := fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, source, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a raw JSON payload.
func Parse(raw []byte) (*Dataset, error) {
	var w wireDataset
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, &FormatError{Field: "json", Reason: err.Error()}
	}
	if w.Metadata == nil {
		return nil, &FormatError{Field: "metadata", Reason: "missing"}
	}
	if w.Sections == nil {
		return nil, &FormatError{Field: "sections", Reason: "missing"}
	}
	if w.Metadata.Frames < 1 {
		return nil, &FormatError{Field: "metadata.frames", Reason: fmt.Sprintf("must be >= 1, got %d", w.Metadata.Frames)}
	}
	if w.Metadata.DurationMs <= 0 {
		return nil, &FormatError{Field: "metadata.duration_ms", Reason: fmt.Sprintf("must be > 0, got %g", w.Metadata.DurationMs)}
	}

	meta := Metadata{
		FrameCount:  w.Metadata.Frames,
		DurationMs:  w.Metadata.DurationMs,
		TimeStepMs:  w.Metadata.TimeStepMs,
		GlobalRange: normalizeRange(w.Metadata.GlobalRange),
	}
	if meta.TimeStepMs <= 0 {
		meta.TimeStepMs = meta.DurationMs / float64(meta.FrameCount)
	}

	mat := DefaultMaterial(meta)
	if w.Material != nil {
		mat = materialFromWire(w.Material, meta)
	}

	sections := make([]Section, len(w.Sections))
	for i, ws := range w.Sections {
		sections[i] = Section{
			ID:     ws.ID,
			Name:   ws.Name,
			Kind:   KindFromType(ws.Type),
			Frames: append([]float64(nil), ws.VoltageFrames...),
			Local:  localRange(ws.VoltageFrames),
		}
	}

	return &Dataset{Sections: sections, Meta: meta, Material: mat}, nil
}

func materialFromWire(w *wireMaterial, meta Metadata) MaterialConfig {
	mat := MaterialConfig{
		Colormap:         w.ColormapName,
		Steps:            w.ColormapSteps,
		CmapStart:        w.CmapStart,
		CmapEnd:          w.CmapEnd,
		EmissionStrength: w.EmissionStrength,
		VoltageRange:     normalizeRange(w.VoltageRange),
	}
	if mat.Colormap == "" {
		mat.Colormap = DefaultColormap
	}
	if mat.Steps <= 0 {
		mat.Steps = DefaultSteps
	}
	// Tolerate reversed or missing sub-range bounds.
	if mat.CmapStart > mat.CmapEnd {
		mat.CmapStart, mat.CmapEnd = mat.CmapEnd, mat.CmapStart
	}
	if mat.CmapStart == 0 && mat.CmapEnd == 0 {
		mat.CmapEnd = 1
	}
	if mat.EmissionStrength < 0 {
		mat.EmissionStrength = 0
	}
	if mat.VoltageRange.Min == 0 && mat.VoltageRange.Max == 0 {
		mat.VoltageRange = DefaultMaterial(meta).VoltageRange
	}
	return mat
}

func normalizeRange(w wireRange) Range {
	if w.Min > w.Max {
		w.Min, w.Max = w.Max, w.Min
	}
	return Range{Min: w.Min, Max: w.Max}
}

func fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(source)
}
