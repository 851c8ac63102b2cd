// Package export renders a dataset to offline artifacts: an SVG timeline
// strip of colormapped voltage per section, and CSV trace dumps.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/neuroviz/internal/bake"
	"github.com/san-kum/neuroviz/internal/colormap"
	"github.com/san-kum/neuroviz/internal/dataset"
)

// TimelineSVG draws one row per section, one colored cell per frame, with
// the section name on the left. Width is the drawing width in pixels and
// rowPx the height of each section row.
func TimelineSVG(ctx context.Context, ds *dataset.Dataset, engine *colormap.Engine, width, rowPx int) (string, error) {
	baked, err := bake.Frames(ctx, ds, engine, 0)
	if err != nil {
		return "", err
	}

	const labelPx = 140
	frameCount := ds.Meta.FrameCount
	cellW := float64(width-labelPx) / float64(frameCount)
	height := rowPx * len(ds.Sections)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for s := range ds.Sections {
		y := s * rowPx
		sb.WriteString(fmt.Sprintf(`<text x="4" y="%d" fill="#cccccc" font-family="monospace" font-size="%d">%s</text>
`, y+rowPx-rowPx/4, rowPx-4, escape(ds.Sections[s].Name)))
		for f := 0; f < frameCount; f++ {
			c := baked.Colors[f][s]
			x := float64(labelPx) + float64(f)*cellW
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%d" width="%.2f" height="%d" fill="%s"/>
`, x, y, cellW+0.5, rowPx, c.Hex()))
		}
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
