package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 512

	baseHz  = 110.0
	spanHz  = 660.0
	spikeHz = 1320.0
)

// Sonifier turns the focused section's voltage into sound: pitch tracks the
// normalized membrane potential and a short chirp marks each spike, so a
// recording can be followed by ear while watching a different section.
type Sonifier struct {
	Stream *portaudio.Stream
	Active bool

	mu         sync.Mutex
	normalized float64
	spike      bool

	// DSP state, touched only by the stream callback.
	smooth float64
	phase  float64
	chirp  float64
	filter float64
}

func NewSonifier() *Sonifier {
	return &Sonifier{}
}

func (s *Sonifier) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, s.process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	s.Stream = stream
	s.Active = true
	return nil
}

func (s *Sonifier) Stop() {
	if s.Stream != nil {
		s.Stream.Stop()
		s.Stream.Close()
		s.Stream = nil
	}
	portaudio.Terminate()
	s.Active = false
}

// SetVoltage feeds the latest normalized voltage (0..1) from the animation
// driver. Safe to call from the render loop.
func (s *Sonifier) SetVoltage(normalized float64) {
	s.mu.Lock()
	s.normalized = clamp01(normalized)
	s.mu.Unlock()
}

// Spike triggers the chirp transient, typically on a threshold crossing.
func (s *Sonifier) Spike() {
	s.mu.Lock()
	s.spike = true
	s.mu.Unlock()
}

// Triangle wave, no harsh buzz at low volume.
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// One pole low pass.
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

func (s *Sonifier) process(_ []float32, out [][]float32) {
	s.mu.Lock()
	target := s.normalized
	if s.spike {
		s.chirp = 1.0
		s.spike = false
	}
	s.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	for i := range out[0] {
		// Slew toward the target so frame-rate voltage updates don't click.
		s.smooth += (target - s.smooth) * 0.0015

		freq := baseHz + spanHz*s.smooth + spikeHz*s.chirp
		s.phase += freq * dt
		sample := triangle(s.phase) * (0.05 + 0.25*s.smooth)

		// Chirp decays in ~50 ms.
		s.chirp *= 1.0 - 20.0*dt
		if s.chirp < 0.001 {
			s.chirp = 0
		}

		cutoff := 300.0 + 4000.0*s.smooth
		sample, s.filter = lpf(sample, cutoff, dt, s.filter)

		out[0][i] = float32(sample)
		out[1][i] = float32(sample)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
