package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/leapointer/internal/actuator"
	"github.com/ayusman/leapointer/internal/app"
	"github.com/ayusman/leapointer/internal/capture"
	"github.com/ayusman/leapointer/internal/config"
	"github.com/ayusman/leapointer/internal/detector"
	"github.com/ayusman/leapointer/internal/device"
	"github.com/ayusman/leapointer/internal/device/camera"
	"github.com/ayusman/leapointer/internal/device/leap"
	"github.com/ayusman/leapointer/internal/device/replay"
	"github.com/ayusman/leapointer/internal/logging"
	"github.com/ayusman/leapointer/internal/store"
	"github.com/ayusman/leapointer/internal/tray"
)

func run(ctx context.Context, cfg config.Config, opts *options) error {
	logger, err := logging.Setup(cfg.Logging.Level, opts.verbose, opts.quiet)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sink, err := actuator.New(cfg.ToActuatorConfig())
	if err != nil {
		return err
	}
	defer sink.Close()

	var st *store.Store
	if cfg.Recording.Path != "" {
		if st, err = openStore(cfg.Recording.Path); err != nil {
			return err
		}
		defer st.Close()
	}

	appCfg := app.Config{Mode: cfg.Pointer.Mode, Pointer: cfg.ToPointerConfig()}
	if st != nil && cfg.Device.Source != config.SourceReplay {
		rec, err := store.NewRecorder(st, cfg.Device.Source, cfg.Pointer.Mode, 0)
		if err != nil {
			return fmt.Errorf("start recording: %w", err)
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Warn("Finishing recording failed", "error", err)
			}
		}()
		logger.Info("Recording", "path", st.Path(), "session", rec.SessionID())
		appCfg.Recorder = rec
	}

	a, err := app.New(appCfg, sink, logger)
	if err != nil {
		return err
	}
	defer a.Stop()

	src, closeSrc, err := newSource(cfg, st, logger)
	if err != nil {
		return err
	}
	defer closeSrc()

	if cfg.Tray.Enabled {
		err = runWithTray(ctx, cancel, src, a, cfg.Pointer.Mode)
	} else {
		err = src.Run(ctx, a)
	}

	s := a.Stats()
	logger.Info("Stopped", "frames", s.Frames, "moves", s.Moves, "clicks", s.Clicks, "sink_errors", s.SinkErrors)
	return err
}

// newSource builds the configured frame source. The returned func releases
// its resources.
func newSource(cfg config.Config, st *store.Store, logger *slog.Logger) (device.Source, func(), error) {
	nop := func() {}

	switch cfg.Device.Source {
	case config.SourceReplay:
		if st == nil {
			return nil, nop, errors.New("replay needs a recording path")
		}
		if _, err := st.Sessions().Get(cfg.Recording.Session); err != nil {
			return nil, nop, fmt.Errorf("session %s: %w", cfg.Recording.Session, err)
		}
		src := replay.New(replay.Config{
			Session:  cfg.Recording.Session,
			Realtime: cfg.Recording.Realtime,
		}, st.Frames(), logger)
		return src, nop, nil

	case config.SourceCamera:
		det, err := detector.NewMediaPipeDetector(detectorConfig(cfg))
		if err != nil {
			return nil, nop, fmt.Errorf("camera source: %w", err)
		}
		cam := capture.NewCamera(capture.Config{
			DeviceID: cfg.Device.Camera.ID,
			FPS:      cfg.Device.Camera.FPS,
		})
		src := camera.New(camera.Config{
			FPS:             cfg.Device.Camera.FPS,
			WorkspaceMM:     cfg.Device.Camera.WorkspaceMM,
			MotionThreshold: cfg.Device.Camera.MotionThreshold,
		}, cam, det, logger)
		return src, func() { det.Close() }, nil

	default:
		return leap.New(cfg.ToLeapConfig(), logger), nop, nil
	}
}

func detectorConfig(cfg config.Config) detector.Config {
	dc := detector.DefaultConfig()
	dc.Python = config.ExpandPath(cfg.Device.Camera.Python)
	dc.Script = config.ExpandPath(cfg.Device.Camera.Script)
	return dc
}

// runWithTray keeps the tray on the calling goroutine, as systray requires,
// and runs the source beside it. Either side ending stops the other.
func runWithTray(ctx context.Context, cancel context.CancelFunc, src device.Source, a *app.App, mode string) error {
	t := tray.New(mode)
	t.OnToggle(a.SetEnabled)
	t.OnMode(a.SetMode)
	t.OnQuit(cancel)
	a.OnClick(func(int, int) { t.SetClicks(a.Stats().Clicks) })

	done := make(chan error, 1)
	go func() {
		done <- src.Run(ctx, a)
		t.Quit()
	}()
	go func() {
		<-ctx.Done()
		t.Quit()
	}()

	t.Run()
	cancel()
	return <-done
}

func openStore(path string) (*store.Store, error) {
	path = config.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create recording directory: %w", err)
	}
	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open recording %s: %w", path, err)
	}
	return st, nil
}
