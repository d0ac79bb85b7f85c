package pointer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ayusman/leapointer/internal/frame"
	"github.com/ayusman/leapointer/internal/motion"
)

// PitchConfig configures the hand-angle mode. Angles are in radians.
type PitchConfig struct {
	MultiplierRoll  float64
	MultiplierPitch float64
	MinTapPeriod    float64
}

// DefaultPitchConfig returns ×5 on both angles.
func DefaultPitchConfig() PitchConfig {
	return PitchConfig{
		MultiplierRoll:  5,
		MultiplierPitch: 5,
		MinTapPeriod:    motion.DefaultMinTapPeriod,
	}
}

// Pitch maps the instantaneous palm roll and hand pitch to a relative move
// on every frame, so holding the hand tilted keeps the pointer moving.
type Pitch struct {
	cfg  PitchConfig
	taps *motion.TapDebouncer
	log  *slog.Logger
}

// NewPitch creates a Pitch mode.
func NewPitch(cfg PitchConfig, logger *slog.Logger) *Pitch {
	return &Pitch{
		cfg:  cfg,
		taps: motion.NewTapDebouncer(cfg.MinTapPeriod),
		log:  orDiscard(logger),
	}
}

// Name implements Mode.
func (p *Pitch) Name() string { return ModePitch }

// Update implements Mode.
func (p *Pitch) Update(s frame.Sample) Output {
	if !s.HandPresent {
		return Output{}
	}

	if p.log.Enabled(context.Background(), slog.LevelDebug) {
		p.log.Debug(fmt.Sprintf("%.3f: x: %+.3f, y: %+.3f%s",
			s.Timestamp, s.PalmRoll, s.DirectionPitch, tapSuffix(s.TapDetected)))
	}

	return Output{
		Move: &Motion{
			DX: -s.PalmRoll * p.cfg.MultiplierRoll,
			DY: s.DirectionPitch * p.cfg.MultiplierPitch,
		},
		Click: p.taps.Accept(s.Timestamp, s.TapDetected),
	}
}
