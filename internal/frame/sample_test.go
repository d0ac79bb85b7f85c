package frame

import (
	"math"
	"testing"

	"github.com/ayusman/leapointer/internal/device"
	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoHands(t *testing.T) {
	s := New(device.Frame{Timestamp: 2_500_000})

	assert.False(t, s.HandPresent)
	assert.Equal(t, 2.5, s.Timestamp)
	assert.Zero(t, s.FingerCount)

	_, ok := s.ReferencePoint()
	assert.False(t, ok)
}

func TestNew_FingertipCenter(t *testing.T) {
	f := device.Frame{
		Timestamp: 1_000_000,
		Hands: []device.Hand{
			{
				PalmPosition: r3.Vector{X: 10, Y: 200, Z: 5},
				PalmNormal:   r3.Vector{X: 0, Y: -1, Z: -1},
				Direction:    r3.Vector{X: 0, Y: 1, Z: -1},
				Fingers: []device.Finger{
					{TipPosition: r3.Vector{X: 0, Y: 0, Z: 0}},
					{TipPosition: r3.Vector{X: 40, Y: 20, Z: -8}},
				},
			},
			{
				PalmPosition: r3.Vector{X: -300},
			},
		},
	}

	s := New(f)
	require.True(t, s.HandPresent)
	assert.Equal(t, 2, s.FingerCount)
	assert.Equal(t, r3.Vector{X: 10, Y: 200, Z: 5}, s.PalmPosition)

	ref, ok := s.ReferencePoint()
	require.True(t, ok)
	assert.Equal(t, r3.Vector{X: 20, Y: 10, Z: -4}, ref)

	assert.InDelta(t, 0, s.PalmRoll, 1e-9)
	assert.InDelta(t, math.Pi/4, s.DirectionPitch, 1e-9)
}

func TestNew_HandWithoutFingers(t *testing.T) {
	s := New(device.Frame{
		Hands: []device.Hand{{PalmPosition: r3.Vector{Y: 150}}},
	})

	assert.True(t, s.HandPresent)
	assert.Zero(t, s.FingerCount)

	_, ok := s.ReferencePoint()
	assert.False(t, ok, "a hand with no fingers has no reference point")
}

func TestNew_TapDetection(t *testing.T) {
	tests := []struct {
		name     string
		gestures []device.Gesture
		want     bool
	}{
		{
			name: "no gestures",
			want: false,
		},
		{
			name:     "key tap stopped",
			gestures: []device.Gesture{{Type: device.GestureKeyTap, State: device.StateStop}},
			want:     true,
		},
		{
			name:     "key tap still updating",
			gestures: []device.Gesture{{Type: device.GestureKeyTap, State: device.StateUpdate}},
			want:     false,
		},
		{
			name:     "other gesture stopped",
			gestures: []device.Gesture{{Type: device.GestureSwipe, State: device.StateStop}},
			want:     false,
		},
		{
			name: "tap among others",
			gestures: []device.Gesture{
				{Type: device.GestureCircle, State: device.StateUpdate},
				{Type: device.GestureKeyTap, State: device.StateStop},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(device.Frame{Gestures: tt.gestures})
			assert.Equal(t, tt.want, s.TapDetected)
		})
	}
}

func TestReferencePoint_NaN(t *testing.T) {
	s := Sample{
		HandPresent:     true,
		FingerCount:     1,
		FingertipCenter: r3.Vector{X: math.NaN()},
	}

	_, ok := s.ReferencePoint()
	assert.False(t, ok)
}
