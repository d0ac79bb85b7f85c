package pointer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ayusman/leapointer/internal/frame"
	"github.com/ayusman/leapointer/internal/motion"
)

// FingerGain selects how the finger count scales motion.
type FingerGain string

const (
	// GainConstant ignores the finger count.
	GainConstant FingerGain = "constant"
	// GainInverseSquare multiplies motion by 16/n², so fewer fingers move faster.
	GainInverseSquare FingerGain = "inverse_square"
)

// MoveConfig configures the fingertip-following mode.
type MoveConfig struct {
	MultiplierX float64
	MultiplierY float64
	Filter      motion.FilterConfig

	// MinTapPeriod is the debounce window for taps, in seconds.
	MinTapPeriod float64

	FingerGain FingerGain
	// FingerPause freezes motion for this many seconds after the finger
	// count changes. Zero disables the pause.
	FingerPause float64
	// MinFingersForTap drops taps seen with fewer fingers. Zero disables it.
	MinFingersForTap int
}

// DefaultMoveConfig returns a ×4 constant gain with millimeter bounds.
func DefaultMoveConfig() MoveConfig {
	return MoveConfig{
		MultiplierX:  4,
		MultiplierY:  4,
		Filter:       motion.DefaultFilterConfig(),
		MinTapPeriod: motion.DefaultMinTapPeriod,
		FingerGain:   GainConstant,
	}
}

// Move moves the pointer by the scaled displacement of the fingertip center.
// The vertical axis is inverted so raising the hand moves the pointer up.
type Move struct {
	cfg    MoveConfig
	filter *motion.Filter
	taps   *motion.TapDebouncer
	log    *slog.Logger
	units  string

	fingers     int
	fingersSeen bool
	changedAt   float64
	pausing     bool
}

// NewMove creates a Move mode.
func NewMove(cfg MoveConfig, logger *slog.Logger) *Move {
	return &Move{
		cfg:    cfg,
		filter: motion.NewFilter(cfg.Filter),
		taps:   motion.NewTapDebouncer(cfg.MinTapPeriod),
		log:    orDiscard(logger),
		units:  unitLabel(cfg.Filter.Scale),
	}
}

// Name implements Mode.
func (m *Move) Name() string { return ModeMove }

// Update implements Mode. Rejected samples produce no output at all, taps
// included.
func (m *Move) Update(s frame.Sample) Output {
	paused := m.trackFingers(s)

	res, reason := m.filter.Evaluate(s)
	if reason != motion.Accepted {
		m.log.Debug("frame rejected", "ts", s.Timestamp, "reason", reason.String(), "fingers", s.FingerCount)
		return Output{}
	}

	if m.log.Enabled(context.Background(), slog.LevelDebug) {
		m.log.Debug(fmt.Sprintf("%.3f: (%+.1f, %+.1f)%s in %.3fs (%d fingers) => %.1f %s/s, %.1f %s/s²%s",
			s.Timestamp, res.Delta.X, res.Delta.Y, m.units, res.Elapsed, s.FingerCount,
			res.Velocity, m.units, res.Acceleration, m.units, tapSuffix(s.TapDetected)))
	}

	// A paused frame still emits a move, with zero delta like a resting hand.
	out := Output{Move: &Motion{}}
	if !paused {
		gain := m.gain(s.FingerCount)
		out.Move.DX = res.Delta.X * m.cfg.MultiplierX * gain
		out.Move.DY = -res.Delta.Y * m.cfg.MultiplierY * gain
	}

	tapped := s.TapDetected
	if m.cfg.MinFingersForTap > 0 && s.FingerCount < m.cfg.MinFingersForTap {
		tapped = false
	}
	out.Click = m.taps.Accept(s.Timestamp, tapped)

	return out
}

// trackFingers records finger-count changes and reports whether motion is
// inside the pause window.
func (m *Move) trackFingers(s frame.Sample) bool {
	if m.cfg.FingerPause <= 0 || !s.HandPresent {
		return false
	}
	if !m.fingersSeen {
		m.fingersSeen = true
		m.fingers = s.FingerCount
		return false
	}
	if s.FingerCount != m.fingers {
		m.fingers = s.FingerCount
		m.changedAt = s.Timestamp
		m.pausing = true
	}
	if m.pausing && s.Timestamp-m.changedAt < m.cfg.FingerPause {
		return true
	}
	m.pausing = false
	return false
}

func (m *Move) gain(fingers int) float64 {
	if m.cfg.FingerGain != GainInverseSquare {
		return 1
	}
	if fingers <= 0 {
		return 0
	}
	n := float64(fingers)
	return 16 / (n * n)
}
