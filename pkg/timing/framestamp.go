// Package timing converts between frame counts, edit-rate ticks and clock
// time.
//
// Project timing fields are integer tick counts at the project edit rate.
// [FrameStamp] is an exact (frame, rate) pair; arithmetic between stamps
// of different rates happens at their least common multiple so nothing is
// lost to rounding.
package timing

import (
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/tscproj/pkg/errors"
)

// FrameStamp is a non-negative frame count at a positive frame rate.
type FrameStamp struct {
	Frame int64 `json:"frame"`
	Rate  int64 `json:"rate"`
}

// New validates and returns a FrameStamp.
func New(frame, rate int64) (FrameStamp, error) {
	if rate <= 0 {
		return FrameStamp{}, errors.New(errors.ErrCodeInvalidInput, "frame rate must be positive, got %d", rate)
	}
	if frame < 0 {
		return FrameStamp{}, errors.New(errors.ErrCodeInvalidInput, "frame number must be non-negative, got %d", frame)
	}
	return FrameStamp{Frame: frame, Rate: rate}, nil
}

// FromSeconds rounds seconds to the nearest frame at rate.
func FromSeconds(seconds float64, rate int64) (FrameStamp, error) {
	return New(int64(math.Round(seconds*float64(rate))), rate)
}

// FromDuration rounds d to the nearest frame at rate.
func FromDuration(d time.Duration, rate int64) (FrameStamp, error) {
	return FromSeconds(d.Seconds(), rate)
}

// FrameTime splits the stamp into whole seconds and the remaining frames,
// the way editors display timecodes.
func (s FrameStamp) FrameTime() (time.Duration, int64) {
	secs, frames := s.Frame/s.Rate, s.Frame%s.Rate
	return time.Duration(secs) * time.Second, frames
}

// Seconds returns the exact time in seconds.
func (s FrameStamp) Seconds() float64 {
	return float64(s.Frame) / float64(s.Rate)
}

// Duration returns the time rounded to the nearest nanosecond.
func (s FrameStamp) Duration() time.Duration {
	return time.Duration(math.Round(s.Seconds() * float64(time.Second)))
}

// String formats the stamp as "seconds;frames".
func (s FrameStamp) String() string {
	d, frames := s.FrameTime()
	return fmt.Sprintf("%d;%d", int64(d/time.Second), frames)
}

// Compare returns -1, 0 or +1 ordering s and o by time.
func (s FrameStamp) Compare(o FrameStamp) int {
	a, b := s.Frame*o.Rate, o.Frame*s.Rate
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Add returns s+o at the least common multiple of the two rates.
func (s FrameStamp) Add(o FrameStamp) FrameStamp {
	rate := lcm(s.Rate, o.Rate)
	return FrameStamp{Frame: s.Frame*(rate/s.Rate) + o.Frame*(rate/o.Rate), Rate: rate}
}

// Sub returns s-o at the least common multiple of the two rates. It fails
// when o is later than s.
func (s FrameStamp) Sub(o FrameStamp) (FrameStamp, error) {
	rate := lcm(s.Rate, o.Rate)
	return New(s.Frame*(rate/s.Rate)-o.Frame*(rate/o.Rate), rate)
}

// ToRate converts s to rate, rounding to the nearest frame.
func (s FrameStamp) ToRate(rate int64) (FrameStamp, error) {
	return FromSeconds(s.Seconds(), rate)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func lcm(a, b int64) int64 {
	return a / gcd(a, b) * b
}
