// Package actuator drives the host pointer.
package actuator

import (
	"errors"
	"fmt"
	"math"
)

// Backend names accepted by New.
const (
	BackendXdotool = "xdotool"
	BackendUinput  = "uinput"
)

// DefaultTimeoutMs bounds a single backend call.
const DefaultTimeoutMs = 500

var (
	// ErrUnknownBackend is returned by New for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown actuator backend")
	// ErrUnavailable is returned when a backend cannot run on this host.
	ErrUnavailable = errors.New("actuator backend unavailable")
	// ErrClosed is returned by calls on a closed sink.
	ErrClosed = errors.New("actuator closed")
)

// Sink moves and clicks the pointer. Relative moves are rounded to the
// nearest whole pixel before they are applied.
type Sink interface {
	Position() (x, y int, err error)
	MoveRelative(dx, dy float64) error
	ClickAt(x, y int) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend   string
	TimeoutMs int
	// Binary overrides the xdotool executable.
	Binary string
	// Origin is the starting position reported by backends that cannot
	// query the real pointer.
	OriginX, OriginY int
}

// DefaultConfig returns an xdotool configuration.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendXdotool,
		TimeoutMs: DefaultTimeoutMs,
		Binary:    "xdotool",
	}
}

// New opens the configured backend.
func New(cfg Config) (Sink, error) {
	switch cfg.Backend {
	case BackendXdotool, "":
		x, err := NewXdotool(cfg.Binary, cfg.TimeoutMs)
		if err != nil {
			return nil, err
		}
		return x, nil
	case BackendUinput:
		u, err := NewUinput(cfg.OriginX, cfg.OriginY)
		if err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// Round converts a fractional pixel offset to the nearest integer,
// rounding halves away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}
