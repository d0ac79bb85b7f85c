// Package frame normalizes raw device frames into immutable samples consumed
// by the pointer modes.
package frame

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/ayusman/leapointer/internal/device"
)

// microsPerSecond converts device timestamps to seconds.
const microsPerSecond = 1e6

// Sample is a normalized snapshot of one device frame. Geometry fields are
// meaningful only when HandPresent is true; FingertipCenter only when
// FingerCount > 0.
type Sample struct {
	Timestamp       float64   // seconds on the device clock
	HandPresent     bool
	PalmPosition    r3.Vector // mm
	PalmRoll        float64   // radians, roll of the palm normal
	DirectionPitch  float64   // radians, pitch of the hand direction
	FingertipCenter r3.Vector // mm, mean of the primary hand's fingertips
	FingerCount     int
	TapDetected     bool
}

// New builds a Sample from the first hand of f. A tap is detected when any
// key-tap gesture in the frame reached the stop state.
func New(f device.Frame) Sample {
	s := Sample{
		Timestamp:   float64(f.Timestamp) / microsPerSecond,
		TapDetected: tapCompleted(f.Gestures),
	}

	if len(f.Hands) == 0 {
		return s
	}

	hand := f.Hands[0]
	s.HandPresent = true
	s.PalmPosition = hand.PalmPosition
	s.PalmRoll = device.Roll(hand.PalmNormal)
	s.DirectionPitch = device.Pitch(hand.Direction)
	s.FingerCount = len(hand.Fingers)

	if s.FingerCount > 0 {
		var sum r3.Vector
		for _, finger := range hand.Fingers {
			sum = sum.Add(finger.TipPosition)
		}
		s.FingertipCenter = sum.Mul(1 / float64(s.FingerCount))
	}

	return s
}

// ReferencePoint returns the fingertip center and whether it is usable.
func (s Sample) ReferencePoint() (r3.Vector, bool) {
	if !s.HandPresent || s.FingerCount == 0 {
		return r3.Vector{}, false
	}
	if math.IsNaN(s.FingertipCenter.X) || math.IsNaN(s.FingertipCenter.Y) || math.IsNaN(s.FingertipCenter.Z) {
		return r3.Vector{}, false
	}
	return s.FingertipCenter, true
}

// String formats the sample for debug logging.
func (s Sample) String() string {
	if !s.HandPresent {
		return fmt.Sprintf("%10.3f: no hand", s.Timestamp)
	}
	return fmt.Sprintf("%10.3f: palm (%+.1f, %+.1f, %+.1f)mm, %d fingers",
		s.Timestamp, s.PalmPosition.X, s.PalmPosition.Y, s.PalmPosition.Z, s.FingerCount)
}

func tapCompleted(gestures []device.Gesture) bool {
	for _, g := range gestures {
		if g.Type == device.GestureKeyTap && g.State == device.StateStop {
			return true
		}
	}
	return false
}
