// Package app connects a tracking device to the pointer: it receives device
// callbacks, drives the active pointer mode and applies its output.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ayusman/leapointer/internal/actuator"
	"github.com/ayusman/leapointer/internal/device"
	"github.com/ayusman/leapointer/internal/frame"
	"github.com/ayusman/leapointer/internal/logging"
	"github.com/ayusman/leapointer/internal/pointer"
)

// Recorder persists raw device frames.
type Recorder interface {
	Record(f device.Frame) error
}

// Config holds configuration options for the application.
type Config struct {
	Mode    string
	Pointer pointer.Config
	// Recorder, when set, receives every frame before it is processed.
	Recorder Recorder
}

// Stats counts what the app has done since it was created.
type Stats struct {
	Frames     uint64
	Moves      uint64
	Clicks     uint64
	SinkErrors uint64
}

// App implements device.Listener. Frame handling and mode changes are
// serialized by a dispatch lock, so a frame is fully consumed before the
// next one starts.
type App struct {
	dispatch sync.Mutex
	cfg      pointer.Config
	mode     pointer.Mode
	sink     actuator.Sink
	recorder Recorder
	logger   *slog.Logger
	onClick  func(x, y int)

	enabled atomic.Bool
	stopped atomic.Bool

	frames     atomic.Uint64
	moves      atomic.Uint64
	clicks     atomic.Uint64
	sinkErrors atomic.Uint64
}

var _ device.Listener = (*App)(nil)

// New creates an enabled App driving sink with the named mode.
func New(cfg Config, sink actuator.Sink, logger *slog.Logger) (*App, error) {
	if sink == nil {
		return nil, errors.New("app: nil sink")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	mode, err := pointer.New(cfg.Mode, cfg.Pointer, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:      cfg.Pointer,
		mode:     mode,
		sink:     sink,
		recorder: cfg.Recorder,
		logger:   logger,
	}
	a.enabled.Store(true)
	return a, nil
}

// OnClick registers fn to run after every click. It is called from the
// frame callback and must not block.
func (a *App) OnClick(fn func(x, y int)) {
	a.dispatch.Lock()
	defer a.dispatch.Unlock()
	a.onClick = fn
}

// SetMode replaces the active pointer mode with a fresh instance.
func (a *App) SetMode(name string) error {
	mode, err := pointer.New(name, a.cfg, a.logger)
	if err != nil {
		return err
	}

	a.dispatch.Lock()
	defer a.dispatch.Unlock()
	a.mode = mode
	a.logger.Info("Pointer mode", "mode", name)
	return nil
}

// Mode returns the name of the active pointer mode.
func (a *App) Mode() string {
	a.dispatch.Lock()
	defer a.dispatch.Unlock()
	return a.mode.Name()
}

// SetEnabled turns pointer control on or off. Re-enabling starts the mode
// over so motion is never computed across the gap.
func (a *App) SetEnabled(enabled bool) {
	a.dispatch.Lock()
	defer a.dispatch.Unlock()

	if a.enabled.Swap(enabled) == enabled {
		return
	}
	if enabled {
		if mode, err := pointer.New(a.mode.Name(), a.cfg, a.logger); err == nil {
			a.mode = mode
		}
	}
	a.logger.Info("Pointer control", "enabled", enabled)
}

// IsEnabled returns whether pointer control is on.
func (a *App) IsEnabled() bool {
	return a.enabled.Load()
}

// Stop ends frame dispatch. Frames arriving afterwards are dropped; a frame
// already being handled completes.
func (a *App) Stop() {
	a.stopped.Store(true)
}

// Stats returns the current counters.
func (a *App) Stats() Stats {
	return Stats{
		Frames:     a.frames.Load(),
		Moves:      a.moves.Load(),
		Clicks:     a.clicks.Load(),
		SinkErrors: a.sinkErrors.Load(),
	}
}

func (a *App) OnInit() {
	a.logger.Debug("Initialized")
}

func (a *App) OnConnect(c device.Controller) {
	a.logger.Info("Connected")

	err := c.EnableGesture(device.GestureKeyTap)
	switch {
	case errors.Is(err, device.ErrUnsupported):
		a.logger.Info("Tap gestures unavailable on this device")
	case err != nil:
		a.logger.Warn("Enable tap gesture failed", "error", err)
	}
}

func (a *App) OnDisconnect() {
	a.logger.Info("Disconnected")
}

func (a *App) OnExit() {
	a.logger.Debug("Exited")
}

// OnFrame records f, runs it through the active mode and applies the
// result to the sink.
func (a *App) OnFrame(f device.Frame) {
	if a.stopped.Load() {
		return
	}

	a.dispatch.Lock()
	defer a.dispatch.Unlock()

	if a.recorder != nil {
		if err := a.recorder.Record(f); err != nil {
			a.logger.Warn("Recording frame failed", "frame", f.ID, "error", err)
		}
	}

	if !a.enabled.Load() {
		return
	}

	a.frames.Add(1)
	out := a.mode.Update(frame.New(f))
	a.apply(out)
}

func (a *App) apply(out pointer.Output) {
	if out.Move != nil {
		if err := a.sink.MoveRelative(out.Move.DX, out.Move.DY); err != nil {
			a.sinkFailed("move", err)
		} else {
			a.moves.Add(1)
		}
	}

	if !out.Click {
		return
	}
	x, y, err := a.sink.Position()
	if err != nil {
		a.sinkFailed("position", err)
		return
	}
	if err := a.sink.ClickAt(x, y); err != nil {
		a.sinkFailed("click", err)
		return
	}
	a.clicks.Add(1)
	a.logger.Info(fmt.Sprintf("Mouse click at (%d, %d)", x, y))
	if a.onClick != nil {
		a.onClick(x, y)
	}
}

func (a *App) sinkFailed(op string, err error) {
	a.sinkErrors.Add(1)
	a.logger.Warn("Pointer "+op+" failed", "error", err)
}
