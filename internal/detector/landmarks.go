// Package detector finds hand landmarks in camera frames and derives palm
// and fingertip geometry from them.
package detector

import "github.com/golang/geo/r3"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Finger names a digit by its landmark chain.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

// Fingers lists every digit from thumb to pinky.
var Fingers = [...]Finger{Thumb, Index, Middle, Ring, Pinky}

// joints returns the base, middle and tip landmark of a finger. For the
// thumb these are MCP, IP and tip.
func (f Finger) joints() (base, mid, tip int) {
	switch f {
	case Thumb:
		return ThumbMCP, ThumbIP, ThumbTip
	case Index:
		return IndexMCP, IndexPIP, IndexTip
	case Middle:
		return MiddleMCP, MiddlePIP, MiddleTip
	case Ring:
		return RingMCP, RingPIP, RingTip
	default:
		return PinkyMCP, PinkyPIP, PinkyTip
	}
}

// HandLandmarks are the 21 landmarks of one detected hand in normalized
// image coordinates: X and Y in [0, 1] with Y growing downward, Z relative
// depth with the wrist near zero.
type HandLandmarks struct {
	Points     [NumLandmarks]r3.Vector `json:"points"`
	Handedness string                  `json:"handedness"` // "Left" or "Right"
	Score      float64                 `json:"score"`
}

// palmJoints are averaged for the palm center.
var palmJoints = [...]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// Palm returns the palm center, the mean of the wrist and the four finger
// MCP joints.
func (h *HandLandmarks) Palm() r3.Vector {
	var sum r3.Vector
	for _, i := range palmJoints {
		sum = sum.Add(h.Points[i])
	}
	return sum.Mul(1 / float64(len(palmJoints)))
}

// Direction returns the unit vector from the wrist to the middle MCP.
func (h *HandLandmarks) Direction() r3.Vector {
	return h.Points[MiddleMCP].Sub(h.Points[Wrist]).Normalize()
}

// Normal returns the unit normal of the palm plane spanned by the wrist,
// index MCP and pinky MCP, oriented out of the palm for either hand.
func (h *HandLandmarks) Normal() r3.Vector {
	wrist := h.Points[Wrist]
	n := h.Points[IndexMCP].Sub(wrist).Cross(h.Points[PinkyMCP].Sub(wrist))
	if h.Handedness == "Left" {
		n = n.Mul(-1)
	}
	return n.Normalize()
}

// Extended reports whether finger f is straightened. A finger is extended
// when its tip lies farther from the reference joint than its middle joint;
// the reference is the wrist, or the pinky MCP for the thumb.
func (h *HandLandmarks) Extended(f Finger) bool {
	_, mid, tip := f.joints()
	ref := h.Points[Wrist]
	if f == Thumb {
		ref = h.Points[PinkyMCP]
	}
	return h.Points[tip].Distance(ref) > h.Points[mid].Distance(ref)
}

// Fingertip returns the tip landmark of f.
func (h *HandLandmarks) Fingertip(f Finger) r3.Vector {
	_, _, tip := f.joints()
	return h.Points[tip]
}
