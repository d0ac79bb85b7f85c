// Package config loads the leapointer YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/leapointer/internal/actuator"
	"github.com/ayusman/leapointer/internal/device/leap"
	"github.com/ayusman/leapointer/internal/logging"
	"github.com/ayusman/leapointer/internal/motion"
	"github.com/ayusman/leapointer/internal/pointer"
)

// Device sources.
const (
	SourceLeap   = "leap"
	SourceCamera = "camera"
	SourceReplay = "replay"
)

// Unit names for move.units.
const (
	UnitsMillimeters = "mm"
	UnitsMeters      = "m"
)

// DefaultLeapURL is the Leap Motion service WebSocket endpoint.
const DefaultLeapURL = leap.DefaultURL

// Config is the top-level YAML configuration.
//
// Defaults and validation live here so the rest of the code can assume a
// well-formed config.
type Config struct {
	Pointer   PointerConfig   `yaml:"pointer"`
	Move      MoveConfig      `yaml:"move"`
	Pitch     PitchConfig     `yaml:"pitch"`
	Tap       TapConfig       `yaml:"tap"`
	Device    DeviceConfig    `yaml:"device"`
	Actuator  ActuatorConfig  `yaml:"actuator"`
	Recording RecordingConfig `yaml:"recording"`
	Logging   LoggingConfig   `yaml:"logging"`
	Tray      TrayConfig      `yaml:"tray"`
}

type PointerConfig struct {
	Mode string `yaml:"mode"` // "move" or "pitch"
}

// MoveConfig holds the fingertip-following mode settings. Velocity and
// acceleration bounds are expressed in Units per second (squared).
type MoveConfig struct {
	MultiplierX     float64 `yaml:"multiplier_x"`
	MultiplierY     float64 `yaml:"multiplier_y"`
	Units           string  `yaml:"units"`
	TimeoutSec      float64 `yaml:"timeout_sec"`
	MaxVelocity     float64 `yaml:"max_velocity"`
	MaxAcceleration float64 `yaml:"max_acceleration"`

	// Historical variants, off by default:
	FingerGain       string  `yaml:"finger_gain"`      // "constant" or "inverse_square"
	FingerPauseSec   float64 `yaml:"finger_pause_sec"` // 0 disables
	MinFingersForTap int     `yaml:"min_fingers_for_tap"`
}

type PitchConfig struct {
	MultiplierRoll  float64 `yaml:"multiplier_roll"`
	MultiplierPitch float64 `yaml:"multiplier_pitch"`
}

type TapConfig struct {
	MinPeriodSec float64 `yaml:"min_period_sec"`
}

type DeviceConfig struct {
	Source      string       `yaml:"source"` // "leap", "camera" or "replay"
	LeapURL     string       `yaml:"leap_url"`
	ReconnectMS int          `yaml:"reconnect_ms"`
	Camera      CameraConfig `yaml:"camera"`
}

type CameraConfig struct {
	ID              int     `yaml:"id"`
	FPS             int     `yaml:"fps"`
	WorkspaceMM     float64 `yaml:"workspace_mm"`
	MotionThreshold float64 `yaml:"motion_threshold"` // percent of changed pixels, 0 disables gating
	Python          string  `yaml:"python"`           // interpreter for the landmark service
	Script          string  `yaml:"script"`           // landmark service script, "" searches scripts/
}

type ActuatorConfig struct {
	Backend   string `yaml:"backend"` // "xdotool" or "uinput"
	TimeoutMS int    `yaml:"timeout_ms"`
}

// RecordingConfig points at the SQLite session store. An empty path
// disables recording; replay reads Session from the same file.
type RecordingConfig struct {
	Path     string `yaml:"path"`
	Session  string `yaml:"session"`
	Realtime bool   `yaml:"realtime"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	filter := motion.DefaultFilterConfig()
	return Config{
		Pointer: PointerConfig{Mode: pointer.ModeMove},
		Move: MoveConfig{
			MultiplierX:     4,
			MultiplierY:     4,
			Units:           UnitsMillimeters,
			TimeoutSec:      filter.Timeout,
			MaxVelocity:     filter.MaxVelocity,
			MaxAcceleration: filter.MaxAcceleration,
			FingerGain:      string(pointer.GainConstant),
		},
		Pitch: PitchConfig{
			MultiplierRoll:  5,
			MultiplierPitch: 5,
		},
		Tap: TapConfig{MinPeriodSec: motion.DefaultMinTapPeriod},
		Device: DeviceConfig{
			Source:      SourceLeap,
			LeapURL:     DefaultLeapURL,
			ReconnectMS: 1000,
			Camera: CameraConfig{
				FPS:         30,
				WorkspaceMM: 400,
			},
		},
		Actuator: ActuatorConfig{
			Backend:   actuator.BackendXdotool,
			TimeoutMS: actuator.DefaultTimeoutMs,
		},
		Recording: RecordingConfig{Realtime: true},
		Logging:   LoggingConfig{Level: string(logging.DefaultLevel)},
	}
}

// LoadConfigFile reads and parses a YAML config file on top of the
// defaults. Unknown fields are rejected.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Only whitespace and comments may follow the document.
	var trailing yaml.Node
	if err := dec.Decode(&trailing); err == nil {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// Validate checks config invariants and returns a user-friendly error.
// Call it after defaults, file and overrides are applied.
func (c *Config) Validate() error {
	if c.Pointer.Mode != pointer.ModeMove && c.Pointer.Mode != pointer.ModePitch {
		return fmt.Errorf("pointer.mode must be %q or %q", pointer.ModeMove, pointer.ModePitch)
	}

	// Move
	if c.Move.MultiplierX < 0 || c.Move.MultiplierY < 0 {
		return errors.New("move.multiplier_x and move.multiplier_y must be >= 0")
	}
	if c.Move.Units != UnitsMillimeters && c.Move.Units != UnitsMeters {
		return fmt.Errorf("move.units must be %q or %q", UnitsMillimeters, UnitsMeters)
	}
	if c.Move.TimeoutSec <= 0 {
		return errors.New("move.timeout_sec must be > 0")
	}
	if c.Move.MaxVelocity < 0 {
		return errors.New("move.max_velocity must be >= 0")
	}
	if c.Move.MaxAcceleration < 0 {
		return errors.New("move.max_acceleration must be >= 0")
	}
	switch pointer.FingerGain(c.Move.FingerGain) {
	case pointer.GainConstant, pointer.GainInverseSquare:
	default:
		return fmt.Errorf("move.finger_gain must be %q or %q", pointer.GainConstant, pointer.GainInverseSquare)
	}
	if c.Move.FingerPauseSec < 0 {
		return errors.New("move.finger_pause_sec must be >= 0")
	}
	if c.Move.MinFingersForTap < 0 {
		return errors.New("move.min_fingers_for_tap must be >= 0")
	}

	// Pitch
	if c.Pitch.MultiplierRoll < 0 || c.Pitch.MultiplierPitch < 0 {
		return errors.New("pitch.multiplier_roll and pitch.multiplier_pitch must be >= 0")
	}

	// Tap
	if c.Tap.MinPeriodSec < 0 {
		return errors.New("tap.min_period_sec must be >= 0")
	}

	// Device
	switch c.Device.Source {
	case SourceLeap:
		if c.Device.LeapURL == "" {
			return errors.New("device.leap_url must not be empty")
		}
		if c.Device.ReconnectMS <= 0 {
			return errors.New("device.reconnect_ms must be > 0")
		}
	case SourceCamera:
		if c.Device.Camera.FPS <= 0 || c.Device.Camera.FPS > 120 {
			return errors.New("device.camera.fps must be between 1 and 120")
		}
		if c.Device.Camera.WorkspaceMM <= 0 {
			return errors.New("device.camera.workspace_mm must be > 0")
		}
		if c.Device.Camera.MotionThreshold < 0 {
			return errors.New("device.camera.motion_threshold must be >= 0")
		}
	case SourceReplay:
		if c.Recording.Path == "" {
			return errors.New("device.source is replay but recording.path is empty")
		}
		if c.Recording.Session == "" {
			return errors.New("device.source is replay but recording.session is empty")
		}
	default:
		return fmt.Errorf("device.source must be %q, %q or %q", SourceLeap, SourceCamera, SourceReplay)
	}

	// Actuator
	if c.Actuator.Backend != actuator.BackendXdotool && c.Actuator.Backend != actuator.BackendUinput {
		return fmt.Errorf("actuator.backend must be %q or %q", actuator.BackendXdotool, actuator.BackendUinput)
	}
	if c.Actuator.TimeoutMS <= 0 {
		return errors.New("actuator.timeout_ms must be > 0")
	}

	// Logging
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

// ToPointerConfig converts the file config into the pointer mode settings.
func (c *Config) ToPointerConfig() pointer.Config {
	scale := motion.ScaleMillimeters
	if c.Move.Units == UnitsMeters {
		scale = motion.ScaleMeters
	}

	return pointer.Config{
		Move: pointer.MoveConfig{
			MultiplierX: c.Move.MultiplierX,
			MultiplierY: c.Move.MultiplierY,
			Filter: motion.FilterConfig{
				Timeout:         c.Move.TimeoutSec,
				MaxVelocity:     c.Move.MaxVelocity,
				MaxAcceleration: c.Move.MaxAcceleration,
				Scale:           scale,
			},
			MinTapPeriod:     c.Tap.MinPeriodSec,
			FingerGain:       pointer.FingerGain(c.Move.FingerGain),
			FingerPause:      c.Move.FingerPauseSec,
			MinFingersForTap: c.Move.MinFingersForTap,
		},
		Pitch: pointer.PitchConfig{
			MultiplierRoll:  c.Pitch.MultiplierRoll,
			MultiplierPitch: c.Pitch.MultiplierPitch,
			MinTapPeriod:    c.Tap.MinPeriodSec,
		},
	}
}

// ToActuatorConfig converts the file config into the actuator settings.
func (c *Config) ToActuatorConfig() actuator.Config {
	cfg := actuator.DefaultConfig()
	cfg.Backend = c.Actuator.Backend
	cfg.TimeoutMs = c.Actuator.TimeoutMS
	return cfg
}

// ToLeapConfig converts the file config into the Leap service settings.
func (c *Config) ToLeapConfig() leap.Config {
	cfg := leap.DefaultConfig()
	cfg.URL = c.Device.LeapURL
	cfg.ReconnectDelay = c.ReconnectDelay()
	return cfg
}

// ReconnectDelay returns device.reconnect_ms as a duration.
func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.Device.ReconnectMS) * time.Millisecond
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
