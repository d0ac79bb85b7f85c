// Package camera turns webcam landmark detection into device frames, so the
// pointer can be driven without a Leap controller.
package camera

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang/geo/r3"

	"github.com/ayusman/leapointer/internal/capture"
	"github.com/ayusman/leapointer/internal/detector"
	"github.com/ayusman/leapointer/internal/device"
	"github.com/ayusman/leapointer/internal/logging"
)

// Config configures a Source.
type Config struct {
	FPS int
	// WorkspaceMM is the physical width the camera image is scaled to.
	WorkspaceMM float64
	// MotionThreshold is the changed-pixel percentage that wakes detection.
	// Zero runs detection on every frame.
	MotionThreshold float64
}

// DefaultConfig returns 30 fps over a 400 mm workspace without gating.
func DefaultConfig() Config {
	return Config{FPS: capture.DefaultFPS, WorkspaceMM: 400}
}

// Source is a device.Source backed by a camera and a landmark detector.
type Source struct {
	cfg    Config
	cam    capture.Camera
	det    detector.Detector
	logger *slog.Logger
}

// New creates a Source. A nil logger discards output.
func New(cfg Config, cam capture.Camera, det detector.Detector, logger *slog.Logger) *Source {
	def := DefaultConfig()
	if cfg.FPS <= 0 {
		cfg.FPS = def.FPS
	}
	if cfg.WorkspaceMM <= 0 {
		cfg.WorkspaceMM = def.WorkspaceMM
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Source{cfg: cfg, cam: cam, det: det, logger: logger}
}

// Run implements device.Source. It reads the camera at the configured rate
// until ctx is canceled or a finite camera runs out of frames.
func (s *Source) Run(ctx context.Context, l device.Listener) error {
	if err := s.cam.Open(); err != nil {
		return err
	}
	defer s.cam.Close()

	var gate *capture.MotionGate
	if s.cfg.MotionThreshold > 0 {
		gate = capture.NewMotionGate(s.cfg.MotionThreshold, 0)
		defer gate.Close()
	}

	l.OnInit()
	defer l.OnExit()
	l.OnConnect(controller{})
	defer l.OnDisconnect()

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()

	start := time.Now()
	var id int64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		mat, err := s.cam.ReadFrame()
		switch {
		case errors.Is(err, capture.ErrEndOfStream):
			return nil
		case errors.Is(err, capture.ErrCameraNotOpen):
			return err
		case err != nil:
			s.logger.Warn("camera read failed", "error", err)
			continue
		}

		now := time.Now()
		if gate != nil {
			if open, _ := gate.Check(mat, now); !open {
				mat.Close()
				continue
			}
		}

		hands, err := s.det.Detect(mat)
		mat.Close()
		if err != nil {
			s.logger.Warn("hand detection failed", "error", err)
			continue
		}

		id++
		l.OnFrame(Frame(id, now.Sub(start).Microseconds(), hands, s.cfg.WorkspaceMM))
	}
}

// Frame builds a device frame from detected landmarks. The image is scaled
// to workspace millimeters with the camera facing the user: image left is
// the user's right, image up is +Y, and points nearer the camera are -Z.
func Frame(id, timestamp int64, hands []detector.HandLandmarks, workspace float64) device.Frame {
	f := device.Frame{ID: id, Timestamp: timestamp}
	for i := range hands {
		lm := &hands[i]
		hand := device.Hand{
			ID:           int64(i + 1),
			PalmPosition: toPoint(lm.Palm(), workspace),
			PalmNormal:   toDirection(lm.Normal()),
			Direction:    toDirection(lm.Direction()),
		}
		for _, finger := range detector.Fingers {
			if !lm.Extended(finger) {
				continue
			}
			hand.Fingers = append(hand.Fingers, device.Finger{
				ID:          hand.ID*10 + int64(finger),
				TipPosition: toPoint(lm.Fingertip(finger), workspace),
			})
		}
		f.Hands = append(f.Hands, hand)
	}
	return f
}

func toPoint(p r3.Vector, workspace float64) r3.Vector {
	return r3.Vector{
		X: (0.5 - p.X) * workspace,
		Y: (1 - p.Y) * workspace,
		Z: p.Z * workspace,
	}
}

func toDirection(v r3.Vector) r3.Vector {
	return r3.Vector{X: -v.X, Y: -v.Y, Z: v.Z}
}

// controller reports that a camera has no gesture recognizer.
type controller struct{}

func (controller) EnableGesture(device.GestureType) error { return device.ErrUnsupported }
