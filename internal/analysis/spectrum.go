// Package analysis provides offline inspection of voltage traces: power
// spectra and spike counting for the CLI's analyze command.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum computes the one-sided power spectrum of a trace sampled every
// timeStepMs. The trace is Hann-windowed and zero-padded to a power of two.
func Spectrum(trace []float64, timeStepMs float64) []float64 {
	if len(trace) < 2 {
		return nil
	}

	n := nextPow2(len(trace))
	padded := make([]float64, n)
	mean := meanOf(trace)
	for i, v := range trace {
		// Remove DC and taper so the resting potential does not swamp
		// the spike content.
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(trace)-1)))
		padded[i] = (v - mean) * w
	}

	out := fft.FFTReal(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(out[i])
	}
	return ps
}

// DominantFrequencyHz returns the strongest non-DC frequency in the trace.
func DominantFrequencyHz(trace []float64, timeStepMs float64) float64 {
	ps := Spectrum(trace, timeStepMs)
	if len(ps) < 2 || timeStepMs <= 0 {
		return 0
	}
	best, bestIdx := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			best, bestIdx = ps[i], i
		}
	}
	n := nextPow2(len(trace))
	sampleRate := 1000.0 / timeStepMs
	return float64(bestIdx) * sampleRate / float64(n)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func meanOf(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
