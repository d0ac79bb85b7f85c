// Package replay plays recorded frames back through a device.Listener.
package replay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ayusman/leapointer/internal/device"
	"github.com/ayusman/leapointer/internal/logging"
)

// FrameReader loads the frames of a recorded session.
type FrameReader interface {
	BySession(sessionID string) ([]device.Frame, error)
}

// Config configures a Source.
type Config struct {
	Session string
	// Realtime sleeps between frames by their timestamp difference.
	Realtime bool
	// Speed divides the realtime delays. Zero means 1.
	Speed float64
}

// Source is a device.Source that delivers one recorded session and then
// returns.
type Source struct {
	cfg    Config
	frames FrameReader
	logger *slog.Logger
}

// New creates a replay Source. A nil logger discards output.
func New(cfg Config, frames FrameReader, logger *slog.Logger) *Source {
	if cfg.Speed <= 0 {
		cfg.Speed = 1
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Source{cfg: cfg, frames: frames, logger: logger}
}

// Run implements device.Source. It returns nil after the last frame or
// when ctx is canceled.
func (s *Source) Run(ctx context.Context, l device.Listener) error {
	frames, err := s.frames.BySession(s.cfg.Session)
	if err != nil {
		return fmt.Errorf("load session %s: %w", s.cfg.Session, err)
	}

	l.OnInit()
	defer l.OnExit()

	l.OnConnect(nopController{})
	defer l.OnDisconnect()

	s.logger.Debug("replaying session", "session", s.cfg.Session, "frames", len(frames), "realtime", s.cfg.Realtime)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for i, f := range frames {
		if ctx.Err() != nil {
			return nil
		}
		if s.cfg.Realtime && i > 0 {
			if d := s.delay(frames[i-1], f); d > 0 {
				if timer == nil {
					timer = time.NewTimer(d)
				} else {
					timer.Reset(d)
				}
				select {
				case <-ctx.Done():
					return nil
				case <-timer.C:
				}
			}
		}
		l.OnFrame(f)
	}

	return nil
}

func (s *Source) delay(prev, next device.Frame) time.Duration {
	us := next.Timestamp - prev.Timestamp
	if us <= 0 {
		return 0
	}
	return time.Duration(float64(us) * float64(time.Microsecond) / s.cfg.Speed)
}

// nopController accepts every gesture; recordings already carry them.
type nopController struct{}

func (nopController) EnableGesture(device.GestureType) error { return nil }
