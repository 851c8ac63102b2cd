// Package bake precomputes per-frame colors for a whole dataset, fanning the
// frames out over a worker pool. Export paths and benchmarks use it so they
// never pay the per-tick sampling cost frame by frame.
package bake

import (
	"context"
	"runtime"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/neuroviz/internal/colormap"
	"github.com/san-kum/neuroviz/internal/dataset"
	"github.com/san-kum/neuroviz/internal/playback"
)

// Result holds baked colors indexed [frame][section].
type Result struct {
	Colors [][]colorful.Color
}

// Frames bakes every integer frame of the dataset through the engine.
// workers <= 0 uses one worker per CPU.
func Frames(ctx context.Context, ds *dataset.Dataset, engine *colormap.Engine, workers int) (*Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	frameCount := ds.Meta.FrameCount
	colors := make([][]colorful.Color, frameCount)
	vr := ds.Material.VoltageRange

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				row := make([]colorful.Color, len(ds.Sections))
				for s := range ds.Sections {
					v := playback.SampleSection(&ds.Sections[s], float64(f), frameCount)
					row[s] = engine.Color(v, vr.Min, vr.Max)
				}
				colors[f] = row
			}
		}()
	}

	var err error
feed:
	for f := 0; f < frameCount; f++ {
		if err = ctx.Err(); err != nil {
			break feed
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- f:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return &Result{Colors: colors}, nil
}
