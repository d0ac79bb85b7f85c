// Package leap reads hand-tracking frames from the Leap Motion service over
// its local WebSocket JSON protocol.
package leap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/leapointer/internal/device"
	"github.com/ayusman/leapointer/internal/logging"
)

// DefaultURL is the service endpoint for protocol version 6.
const DefaultURL = "ws://127.0.0.1:6437/v6.json"

// ErrNotConnected is returned by a controller whose connection is gone.
var ErrNotConnected = errors.New("leap service not connected")

// Config configures a Source.
type Config struct {
	URL              string
	ReconnectDelay   time.Duration
	HandshakeTimeout time.Duration
	// Background asks the service to stream frames while another
	// application has focus.
	Background bool
}

// DefaultConfig returns the local service settings.
func DefaultConfig() Config {
	return Config{
		URL:              DefaultURL,
		ReconnectDelay:   time.Second,
		HandshakeTimeout: 2 * time.Second,
		Background:       true,
	}
}

// Source is a device.Source backed by the Leap service. It reconnects
// until its context is canceled.
type Source struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Source. A nil logger discards output.
func New(cfg Config, logger *slog.Logger) *Source {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = time.Second
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Source{cfg: cfg, logger: logger}
}

// Run implements device.Source. Frames are delivered to l from a single
// goroutine in arrival order. Run returns nil once ctx is canceled.
func (s *Source) Run(ctx context.Context, l device.Listener) error {
	l.OnInit()
	defer l.OnExit()

	for {
		err := s.session(ctx, l)
		if ctx.Err() != nil {
			return nil
		}
		s.logger.Debug("leap service unavailable", "url", s.cfg.URL, "error", err, "retry", s.cfg.ReconnectDelay)

		timer := time.NewTimer(s.cfg.ReconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// session runs one WebSocket connection until it fails or ctx ends.
func (s *Source) session(ctx context.Context, l device.Listener) error {
	d := websocket.Dialer{
		HandshakeTimeout: s.cfg.HandshakeTimeout,
	}

	conn, _, err := d.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.cfg.URL, err)
	}
	defer conn.Close()

	// Unblocks ReadMessage on cancellation.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	ctrl := &controller{conn: conn}
	defer ctrl.detach()

	if s.cfg.Background {
		on := true
		if err := ctrl.send(controlMessage{Background: &on}); err != nil {
			return err
		}
	}

	connected := false
	defer func() {
		if connected {
			l.OnDisconnect()
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		msg, err := Decode(data)
		if err != nil {
			s.logger.Debug("skipping leap message", "error", err)
			continue
		}

		switch msg.Kind {
		case KindVersion:
			if msg.Version != ProtocolVersion {
				s.logger.Warn("unexpected leap protocol version", "version", msg.Version, "want", ProtocolVersion)
			}
			s.logger.Debug("leap service", "service_version", msg.ServiceVersion, "protocol", msg.Version)
			if !connected {
				connected = true
				l.OnConnect(ctrl)
			}
		case KindDeviceEvent:
			switch {
			case msg.Attached && !connected:
				connected = true
				l.OnConnect(ctrl)
			case !msg.Attached && connected:
				connected = false
				l.OnDisconnect()
			}
		case KindFrame:
			l.OnFrame(msg.Frame)
		}
	}
}

// controller implements device.Controller for one connection.
type controller struct {
	mu       sync.Mutex
	conn     *websocket.Conn
	gestures bool
}

// EnableGesture turns on service-side gesture recognition. The protocol
// has a single switch for all gesture types, so it is sent once.
func (c *controller) EnableGesture(t device.GestureType) error {
	switch t {
	case device.GestureKeyTap, device.GestureScreenTap, device.GestureSwipe, device.GestureCircle:
	default:
		return fmt.Errorf("unsupported gesture type %q", t)
	}

	c.mu.Lock()
	enabled := c.gestures
	c.mu.Unlock()
	if enabled {
		return nil
	}

	on := true
	if err := c.send(controlMessage{EnableGestures: &on}); err != nil {
		return err
	}

	c.mu.Lock()
	c.gestures = true
	c.mu.Unlock()
	return nil
}

func (c *controller) send(msg controlMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal control message: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *controller) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = nil
}
