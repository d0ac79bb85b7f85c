package device

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestAngles(t *testing.T) {
	tests := []struct {
		name      string
		v         r3.Vector
		wantPitch float64
		wantRoll  float64
		wantYaw   float64
	}{
		{
			name:      "tilted forward",
			v:         r3.Vector{X: 0, Y: -1, Z: -1},
			wantPitch: -math.Pi / 4,
			wantRoll:  0,
			wantYaw:   0,
		},
		{
			name:      "tilted forward and right",
			v:         r3.Vector{X: 1, Y: -1, Z: -1},
			wantPitch: -math.Pi / 4,
			wantRoll:  math.Pi / 4,
			wantYaw:   math.Pi / 4,
		},
		{
			name:      "tilted forward and left",
			v:         r3.Vector{X: -1, Y: -1, Z: -1},
			wantPitch: -math.Pi / 4,
			wantRoll:  -math.Pi / 4,
			wantYaw:   -math.Pi / 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pitch(tt.v); math.Abs(got-tt.wantPitch) > 1e-9 {
				t.Errorf("Pitch() = %f, want %f", got, tt.wantPitch)
			}
			if got := Roll(tt.v); math.Abs(got-tt.wantRoll) > 1e-9 {
				t.Errorf("Roll() = %f, want %f", got, tt.wantRoll)
			}
			if got := Yaw(tt.v); math.Abs(got-tt.wantYaw) > 1e-9 {
				t.Errorf("Yaw() = %f, want %f", got, tt.wantYaw)
			}
		})
	}
}
