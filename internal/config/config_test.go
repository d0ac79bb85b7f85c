package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/leapointer/internal/motion"
	"github.com/ayusman/leapointer/internal/pointer"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	// The defaults convert to the documented pointer behavior.
	if diff := cmp.Diff(pointer.DefaultConfig(), cfg.ToPointerConfig()); diff != "" {
		t.Errorf("pointer config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "leapointer.yaml", `
pointer:
  mode: pitch
move:
  multiplier_x: 2
  units: m
  max_velocity: 2
  max_acceleration: 100
pitch:
  multiplier_roll: 8
device:
  source: camera
  camera:
    id: 1
    fps: 15
logging:
  level: debug
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, pointer.ModePitch, cfg.Pointer.Mode)
	assert.Equal(t, 2.0, cfg.Move.MultiplierX)
	assert.Equal(t, 4.0, cfg.Move.MultiplierY, "unset keys keep their defaults")
	assert.Equal(t, 8.0, cfg.Pitch.MultiplierRoll)
	assert.Equal(t, 5.0, cfg.Pitch.MultiplierPitch)
	assert.Equal(t, SourceCamera, cfg.Device.Source)
	assert.Equal(t, 1, cfg.Device.Camera.ID)
	assert.Equal(t, 15, cfg.Device.Camera.FPS)
	assert.Equal(t, 400.0, cfg.Device.Camera.WorkspaceMM)

	pc := cfg.ToPointerConfig()
	assert.Equal(t, motion.ScaleMeters, pc.Move.Filter.Scale)
	assert.Equal(t, 2.0, pc.Move.Filter.MaxVelocity)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown field", content: "pointer:\n  mood: move\n", wantErr: "field mood not found"},
		{name: "trailing document", content: "pointer:\n  mode: move\n---\nlogging:\n  level: info\n", wantErr: "trailing document"},
		{name: "bad yaml", content: "pointer: [\n", wantErr: "decode config yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFile(writeFile(t, "bad.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadConfigFile("")
	assert.Error(t, err)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "mode", mutate: func(c *Config) { c.Pointer.Mode = "joystick" }, wantErr: "pointer.mode"},
		{name: "negative multiplier", mutate: func(c *Config) { c.Move.MultiplierY = -1 }, wantErr: "move.multiplier"},
		{name: "zero multiplier allowed", mutate: func(c *Config) { c.Move.MultiplierX = 0 }},
		{name: "units", mutate: func(c *Config) { c.Move.Units = "in" }, wantErr: "move.units"},
		{name: "timeout", mutate: func(c *Config) { c.Move.TimeoutSec = 0 }, wantErr: "move.timeout_sec"},
		{name: "velocity", mutate: func(c *Config) { c.Move.MaxVelocity = -1 }, wantErr: "move.max_velocity"},
		{name: "acceleration", mutate: func(c *Config) { c.Move.MaxAcceleration = -1 }, wantErr: "move.max_acceleration"},
		{name: "finger gain", mutate: func(c *Config) { c.Move.FingerGain = "linear" }, wantErr: "move.finger_gain"},
		{name: "finger pause", mutate: func(c *Config) { c.Move.FingerPauseSec = -0.1 }, wantErr: "move.finger_pause_sec"},
		{name: "tap period", mutate: func(c *Config) { c.Tap.MinPeriodSec = -1 }, wantErr: "tap.min_period_sec"},
		{name: "source", mutate: func(c *Config) { c.Device.Source = "kinect" }, wantErr: "device.source"},
		{name: "leap url", mutate: func(c *Config) { c.Device.LeapURL = "" }, wantErr: "device.leap_url"},
		{
			name: "camera fps",
			mutate: func(c *Config) {
				c.Device.Source = SourceCamera
				c.Device.Camera.FPS = 0
			},
			wantErr: "device.camera.fps",
		},
		{
			name:    "replay without path",
			mutate:  func(c *Config) { c.Device.Source = SourceReplay },
			wantErr: "recording.path",
		},
		{
			name: "replay without session",
			mutate: func(c *Config) {
				c.Device.Source = SourceReplay
				c.Recording.Path = "frames.db"
			},
			wantErr: "recording.session",
		},
		{name: "backend", mutate: func(c *Config) { c.Actuator.Backend = "wayland" }, wantErr: "actuator.backend"},
		{name: "actuator timeout", mutate: func(c *Config) { c.Actuator.TimeoutMS = 0 }, wantErr: "actuator.timeout_ms"},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "chatty" }, wantErr: "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFlagOverrides_Apply(t *testing.T) {
	mode := "pitch"
	level := "debug"
	tray := false

	cfg := DefaultConfig()
	cfg.Tray.Enabled = true
	FlagOverrides{PointerMode: &mode, LogLevel: &level, TrayEnabled: &tray}.Apply(&cfg)

	assert.Equal(t, "pitch", cfg.Pointer.Mode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Tray.Enabled, "a pointer to a zero value still applies")
	assert.Equal(t, SourceLeap, cfg.Device.Source, "nil overrides are ignored")

	FlagOverrides{}.Apply(nil)
}

func TestEnvOverrides(t *testing.T) {
	dotenv := writeFile(t, ".env", strings.Join([]string{
		"LEAPOINTER_POINTER=pitch",
		"LEAPOINTER_LOG_LEVEL=debug",
		"LEAPOINTER_REALTIME=false",
		"UNRELATED=1",
	}, "\n"))
	t.Setenv(EnvLogLevel, "warning")

	o, err := EnvOverrides(dotenv)
	require.NoError(t, err)

	cfg := DefaultConfig()
	o.Apply(&cfg)

	assert.Equal(t, "pitch", cfg.Pointer.Mode)
	assert.Equal(t, "warning", cfg.Logging.Level, "process environment wins over the file")
	assert.False(t, cfg.Recording.Realtime)
	assert.Equal(t, DefaultLeapURL, cfg.Device.LeapURL)
}

func TestEnvOverrides_MissingFile(t *testing.T) {
	o, err := EnvOverrides(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
	assert.Nil(t, o.PointerMode)
}

func TestEnvOverrides_BadBool(t *testing.T) {
	t.Setenv(EnvTray, "maybe")

	_, err := EnvOverrides("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTray)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/etc/leapointer.yaml", ExpandPath("/etc/leapointer.yaml"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, ".config/leapointer.yaml"), ExpandPath("~/.config/leapointer.yaml"))
}

func TestToLeapConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Device.LeapURL = "ws://10.0.0.2:6437/v6.json"
	cfg.Device.ReconnectMS = 250

	lc := cfg.ToLeapConfig()
	assert.Equal(t, "ws://10.0.0.2:6437/v6.json", lc.URL)
	assert.Equal(t, 250*time.Millisecond, lc.ReconnectDelay)
	assert.True(t, lc.Background)
}
