// Package pointer implements the strategies that turn frame samples into
// pointer commands.
package pointer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ayusman/leapointer/internal/frame"
	"github.com/ayusman/leapointer/internal/motion"
)

// Mode names accepted by New.
const (
	ModeMove  = "move"
	ModePitch = "pitch"
)

// ErrUnknownMode is returned by New for an unrecognized mode name.
var ErrUnknownMode = errors.New("unknown pointer mode")

// Motion is a relative pointer move in screen units, before rounding.
type Motion struct {
	DX, DY float64
}

// Output is the command produced by one update. A nil Move and a false
// Click mean nothing should be sent to the sink.
type Output struct {
	Move  *Motion
	Click bool
}

// Empty reports whether the output carries no command.
func (o Output) Empty() bool {
	return o.Move == nil && !o.Click
}

// Mode consumes samples in arrival order. Implementations keep their
// filtering state internally and must not be updated concurrently.
type Mode interface {
	Name() string
	Update(s frame.Sample) Output
}

// Config carries the settings for every mode so one can be selected by name.
type Config struct {
	Move  MoveConfig
	Pitch PitchConfig
}

// DefaultConfig returns the default settings for both modes.
func DefaultConfig() Config {
	return Config{
		Move:  DefaultMoveConfig(),
		Pitch: DefaultPitchConfig(),
	}
}

// New creates the mode called name. A nil logger discards diagnostics.
func New(name string, cfg Config, logger *slog.Logger) (Mode, error) {
	switch name {
	case ModeMove:
		return NewMove(cfg.Move, logger), nil
	case ModePitch:
		return NewPitch(cfg.Pitch, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// Names lists the supported modes.
func Names() []string {
	return []string{ModeMove, ModePitch}
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

func tapSuffix(tapped bool) string {
	if tapped {
		return " TAP!"
	}
	return ""
}

func unitLabel(scale float64) string {
	if scale == motion.ScaleMeters {
		return "m"
	}
	return "mm"
}
