package analysis

import (
	"math"
	"testing"
)

func TestCountSpikes(t *testing.T) {
	trace := []float64{-70, -65, 10, 25, -40, -70, 15, -60, -70}
	if got := CountSpikes(trace, -20); got != 2 {
		t.Errorf("CountSpikes = %d, want 2", got)
	}
}

func TestCountSpikesNoRetriggersWhileAbove(t *testing.T) {
	trace := []float64{-70, 10, 20, 30, 25, -70}
	if got := CountSpikes(trace, 0); got != 1 {
		t.Errorf("plateau counted as %d spikes, want 1", got)
	}
}

func TestCountSpikesEmpty(t *testing.T) {
	if got := CountSpikes(nil, 0); got != 0 {
		t.Errorf("empty trace: %d spikes", got)
	}
}

func TestPeakVoltage(t *testing.T) {
	if got := PeakVoltage([]float64{-70, 35, -60}); got != 35 {
		t.Errorf("PeakVoltage = %v, want 35", got)
	}
	if got := PeakVoltage(nil); got != 0 {
		t.Errorf("empty PeakVoltage = %v, want 0", got)
	}
}

func TestDominantFrequency(t *testing.T) {
	// 20 Hz sine sampled at 1 kHz (time step 1 ms) for 1024 samples.
	const timeStepMs = 1.0
	trace := make([]float64, 1024)
	for i := range trace {
		tSec := float64(i) * timeStepMs / 1000.0
		trace[i] = -65 + 30*math.Sin(2*math.Pi*20*tSec)
	}

	got := DominantFrequencyHz(trace, timeStepMs)
	if math.Abs(got-20) > 2 {
		t.Errorf("DominantFrequencyHz = %v, want ~20", got)
	}
}

func TestSpectrumLength(t *testing.T) {
	trace := make([]float64, 300)
	ps := Spectrum(trace, 1)
	// Padded to 512, one-sided spectrum has 256 bins.
	if len(ps) != 256 {
		t.Errorf("spectrum length = %d, want 256", len(ps))
	}
	if Spectrum([]float64{1}, 1) != nil {
		t.Error("single-sample trace should yield nil spectrum")
	}
}
