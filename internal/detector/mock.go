package detector

import (
	"sync"

	"github.com/golang/geo/r3"
	"gocv.io/x/gocv"
)

// MockDetector returns scripted results.
type MockDetector struct {
	mu       sync.Mutex
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	err      error
	calls    int
}

// NewMockDetector creates a detector that finds no hands.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands makes every Detect return hands.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetSequence makes successive Detect calls return successive entries.
// Once exhausted, Detect falls back to the SetHands result.
func (m *MockDetector) SetSequence(seq [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = seq
}

// SetError makes Detect fail with err.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockDetector) Detect(*gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.sequence) > 0 {
		next := m.sequence[0]
		m.sequence = m.sequence[1:]
		return next, nil
	}
	return m.hands, nil
}

// Calls returns how many times Detect ran.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmLandmarks returns a right hand facing the camera with every
// finger straight.
func OpenPalmLandmarks() HandLandmarks {
	var lm HandLandmarks
	lm.Handedness = "Right"
	lm.Score = 0.95

	lm.Points[Wrist] = r3.Vector{X: 0.5, Y: 0.8}

	lm.Points[ThumbCMC] = r3.Vector{X: 0.55, Y: 0.75, Z: 0.02}
	lm.Points[ThumbMCP] = r3.Vector{X: 0.62, Y: 0.70, Z: 0.03}
	lm.Points[ThumbIP] = r3.Vector{X: 0.68, Y: 0.65, Z: 0.03}
	lm.Points[ThumbTip] = r3.Vector{X: 0.73, Y: 0.60, Z: 0.03}

	lm.Points[IndexMCP] = r3.Vector{X: 0.55, Y: 0.68}
	lm.Points[IndexPIP] = r3.Vector{X: 0.57, Y: 0.55}
	lm.Points[IndexDIP] = r3.Vector{X: 0.58, Y: 0.45}
	lm.Points[IndexTip] = r3.Vector{X: 0.58, Y: 0.35}

	lm.Points[MiddleMCP] = r3.Vector{X: 0.50, Y: 0.66}
	lm.Points[MiddlePIP] = r3.Vector{X: 0.50, Y: 0.52}
	lm.Points[MiddleDIP] = r3.Vector{X: 0.50, Y: 0.40}
	lm.Points[MiddleTip] = r3.Vector{X: 0.50, Y: 0.28}

	lm.Points[RingMCP] = r3.Vector{X: 0.45, Y: 0.68}
	lm.Points[RingPIP] = r3.Vector{X: 0.43, Y: 0.55}
	lm.Points[RingDIP] = r3.Vector{X: 0.42, Y: 0.45}
	lm.Points[RingTip] = r3.Vector{X: 0.42, Y: 0.35}

	lm.Points[PinkyMCP] = r3.Vector{X: 0.40, Y: 0.70}
	lm.Points[PinkyPIP] = r3.Vector{X: 0.37, Y: 0.60}
	lm.Points[PinkyDIP] = r3.Vector{X: 0.35, Y: 0.50}
	lm.Points[PinkyTip] = r3.Vector{X: 0.34, Y: 0.42}

	return lm
}

// PointingLandmarks returns OpenPalmLandmarks with the thumb, middle, ring
// and pinky curled so only the index finger is extended.
func PointingLandmarks() HandLandmarks {
	lm := OpenPalmLandmarks()

	lm.Points[ThumbIP] = r3.Vector{X: 0.56, Y: 0.68, Z: -0.01}
	lm.Points[ThumbTip] = r3.Vector{X: 0.50, Y: 0.70, Z: -0.02}

	lm.Points[MiddlePIP] = r3.Vector{X: 0.50, Y: 0.60, Z: -0.05}
	lm.Points[MiddleDIP] = r3.Vector{X: 0.49, Y: 0.66, Z: -0.04}
	lm.Points[MiddleTip] = r3.Vector{X: 0.49, Y: 0.70, Z: -0.02}

	lm.Points[RingPIP] = r3.Vector{X: 0.45, Y: 0.62, Z: -0.05}
	lm.Points[RingDIP] = r3.Vector{X: 0.44, Y: 0.68, Z: -0.04}
	lm.Points[RingTip] = r3.Vector{X: 0.44, Y: 0.71, Z: -0.02}

	lm.Points[PinkyPIP] = r3.Vector{X: 0.40, Y: 0.65, Z: -0.05}
	lm.Points[PinkyDIP] = r3.Vector{X: 0.39, Y: 0.70, Z: -0.04}
	lm.Points[PinkyTip] = r3.Vector{X: 0.39, Y: 0.73, Z: -0.02}

	return lm
}

// Shift returns lm translated by (dx, dy) in image coordinates.
func Shift(lm HandLandmarks, dx, dy float64) HandLandmarks {
	for i := range lm.Points {
		lm.Points[i] = lm.Points[i].Add(r3.Vector{X: dx, Y: dy})
	}
	return lm
}
