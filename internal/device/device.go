// Package device defines the hand-tracking device interface: raw frames,
// gesture notifications, and the listener callbacks a tracking source drives.
package device

import (
	"context"
	"errors"
	"math"

	"github.com/golang/geo/r3"
)

// GestureType identifies a device-recognized gesture.
type GestureType string

// Gesture types reported by the tracking service.
const (
	GestureKeyTap    GestureType = "keyTap"
	GestureScreenTap GestureType = "screenTap"
	GestureSwipe     GestureType = "swipe"
	GestureCircle    GestureType = "circle"
)

// GestureState is the lifecycle state of a gesture notification.
type GestureState string

const (
	StateStart  GestureState = "start"
	StateUpdate GestureState = "update"
	StateStop   GestureState = "stop"
)

// Gesture is a single gesture notification delivered with a frame.
type Gesture struct {
	ID    int64        `json:"id"`
	Type  GestureType  `json:"type"`
	State GestureState `json:"state"`
}

// Finger is one detected fingertip. Positions are in millimeters.
type Finger struct {
	ID          int64     `json:"id"`
	TipPosition r3.Vector `json:"tip_position"`
}

// Hand is one detected hand. Positions are in millimeters, with +Y pointing
// up away from the sensor and +Z pointing toward the user.
type Hand struct {
	ID           int64     `json:"id"`
	PalmPosition r3.Vector `json:"palm_position"`
	PalmNormal   r3.Vector `json:"palm_normal"`
	Direction    r3.Vector `json:"direction"`
	Fingers      []Finger  `json:"fingers"`
}

// Frame is one snapshot from the tracking device.
// Timestamp is the device clock in microseconds.
type Frame struct {
	ID        int64     `json:"id"`
	Timestamp int64     `json:"timestamp"`
	Hands     []Hand    `json:"hands"`
	Gestures  []Gesture `json:"gestures"`
}

// Pitch returns the angle between the negative Z axis and the projection of
// v onto the Y-Z plane, in radians.
func Pitch(v r3.Vector) float64 {
	return math.Atan2(v.Y, -v.Z)
}

// Roll returns the angle between the negative Y axis and the projection of
// v onto the X-Y plane, in radians.
func Roll(v r3.Vector) float64 {
	return math.Atan2(v.X, -v.Y)
}

// Yaw returns the angle between the negative Z axis and the projection of
// v onto the X-Z plane, in radians.
func Yaw(v r3.Vector) float64 {
	return math.Atan2(v.X, -v.Z)
}

// ErrUnsupported is returned by a Controller for features its device lacks.
var ErrUnsupported = errors.New("not supported by this device")

// Controller is the handle a source passes to listeners on connect.
type Controller interface {
	// EnableGesture turns on recognition for the given gesture type.
	EnableGesture(t GestureType) error
}

// Listener receives device callbacks. A source must deliver OnFrame calls
// sequentially; a new call never begins before the previous one returns.
type Listener interface {
	OnInit()
	OnConnect(c Controller)
	OnDisconnect()
	OnExit()
	OnFrame(f Frame)
}

// Source produces frames from a tracking device until ctx is canceled or the
// device stream ends.
type Source interface {
	Run(ctx context.Context, l Listener) error
}
