// Package playback owns the animation position for one dataset: a frame
// counter with sub-frame precision, a play/pause/stop state machine, and
// sub-frame voltage sampling.
package playback

import (
	"fmt"
	"math"

	"github.com/san-kum/neuroviz/internal/dataset"
)

// Status is the clock's state machine position.
type Status int

const (
	Stopped Status = iota
	Playing
	Paused
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// Clock advances frames in dataset time regardless of the display's refresh
// rate. It is created with a dataset and discarded when one is replaced.
type Clock struct {
	frame      float64
	speed      float64
	status     Status
	frameCount int
	durationMs float64
}

// NewClock builds a stopped clock over the dataset's time base.
func NewClock(ds *dataset.Dataset) *Clock {
	return &Clock{
		speed:      1.0,
		frameCount: ds.Meta.FrameCount,
		durationMs: ds.Meta.DurationMs,
	}
}

func (c *Clock) Frame() float64  { return c.frame }
func (c *Clock) Speed() float64  { return c.speed }
func (c *Clock) Status() Status  { return c.status }
func (c *Clock) FrameCount() int { return c.frameCount }

// Play starts or resumes advancing.
func (c *Clock) Play() { c.status = Playing }

// Pause holds the current frame; Play resumes from it.
func (c *Clock) Pause() {
	if c.status == Playing {
		c.status = Paused
	}
}

// Stop halts playback and rewinds to frame 0.
func (c *Clock) Stop() {
	c.status = Stopped
	c.frame = 0
}

// SetSpeed changes the playback rate. Legal in any state; takes effect on
// the next tick while playing.
func (c *Clock) SetSpeed(s float64) error {
	if s <= 0 {
		return fmt.Errorf("playback: speed must be > 0, got %g", s)
	}
	c.speed = s
	return nil
}

// Seek jumps to a frame position, wrapped into [0, frameCount).
func (c *Clock) Seek(frame float64) {
	c.frame = wrap(frame, c.frameCount)
}

// Tick advances the frame by elapsed wall time while playing. The advance
// rate is the dataset's native frame rate scaled by speed, and the position
// wraps at frameCount so looping playback never jumps or stalls.
func (c *Clock) Tick(deltaSeconds float64) {
	if c.status != Playing || c.frameCount < 1 || c.durationMs <= 0 {
		return
	}
	framesPerSecond := float64(c.frameCount) / (c.durationMs / 1000.0)
	c.frame = wrap(c.frame+deltaSeconds*framesPerSecond*c.speed, c.frameCount)
}

func wrap(frame float64, frameCount int) float64 {
	if frameCount < 1 {
		return 0
	}
	n := float64(frameCount)
	frame = math.Mod(frame, n)
	if frame < 0 {
		frame += n
	}
	return frame
}

// SampleSection interpolates a section's trace at a fractional frame.
// Indices are clamped so traces shorter than the dataset frame count read
// their last sample instead of panicking.
func SampleSection(sec *dataset.Section, frame float64, frameCount int) float64 {
	i0 := int(math.Floor(frame))
	i1 := i0 + 1
	if i1 > frameCount-1 {
		i1 = frameCount - 1
	}
	t := frame - float64(i0)
	return sec.Frame(i0)*(1-t) + sec.Frame(i1)*t
}

// Sample interpolates the clock's current position in one section.
func (c *Clock) Sample(sec *dataset.Section) float64 {
	return SampleSection(sec, c.frame, c.frameCount)
}
