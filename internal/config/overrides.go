package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// FlagOverrides are applied on top of a loaded config. Each pointer is
// applied only when non-nil, even if it points at a zero value.
type FlagOverrides struct {
	PointerMode *string
	Source      *string
	LeapURL     *string
	Actuator    *string

	RecordingPath *string
	Session       *string
	Realtime      *bool

	LogLevel    *string
	TrayEnabled *bool
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.PointerMode != nil {
		cfg.Pointer.Mode = *o.PointerMode
	}
	if o.Source != nil {
		cfg.Device.Source = *o.Source
	}
	if o.LeapURL != nil {
		cfg.Device.LeapURL = *o.LeapURL
	}
	if o.Actuator != nil {
		cfg.Actuator.Backend = *o.Actuator
	}
	if o.RecordingPath != nil {
		cfg.Recording.Path = *o.RecordingPath
	}
	if o.Session != nil {
		cfg.Recording.Session = *o.Session
	}
	if o.Realtime != nil {
		cfg.Recording.Realtime = *o.Realtime
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.TrayEnabled != nil {
		cfg.Tray.Enabled = *o.TrayEnabled
	}
}

// Environment variables read by EnvOverrides.
const (
	EnvPointer   = "LEAPOINTER_POINTER"
	EnvSource    = "LEAPOINTER_SOURCE"
	EnvLeapURL   = "LEAPOINTER_LEAP_URL"
	EnvActuator  = "LEAPOINTER_ACTUATOR"
	EnvRecording = "LEAPOINTER_RECORDING"
	EnvSession   = "LEAPOINTER_SESSION"
	EnvRealtime  = "LEAPOINTER_REALTIME"
	EnvLogLevel  = "LEAPOINTER_LOG_LEVEL"
	EnvTray      = "LEAPOINTER_TRAY"
)

// EnvOverrides reads LEAPOINTER_* settings from the process environment
// and, when dotenv names an existing file, from that file. Process
// variables win over the file. A missing dotenv file is not an error.
func EnvOverrides(dotenv string) (FlagOverrides, error) {
	vals := map[string]string{}
	if dotenv != "" {
		m, err := godotenv.Read(ExpandPath(dotenv))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return FlagOverrides{}, fmt.Errorf("read env file: %w", err)
		}
		for k, v := range m {
			vals[k] = v
		}
	}

	keys := []string{EnvPointer, EnvSource, EnvLeapURL, EnvActuator, EnvRecording,
		EnvSession, EnvRealtime, EnvLogLevel, EnvTray}
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			vals[k] = v
		}
	}

	return overridesFromEnv(vals)
}

func overridesFromEnv(vals map[string]string) (FlagOverrides, error) {
	var o FlagOverrides

	str := func(key string) *string {
		v, ok := vals[key]
		if !ok {
			return nil
		}
		return &v
	}
	boolean := func(key string) (*bool, error) {
		v, ok := vals[key]
		if !ok {
			return nil, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return &b, nil
	}

	o.PointerMode = str(EnvPointer)
	o.Source = str(EnvSource)
	o.LeapURL = str(EnvLeapURL)
	o.Actuator = str(EnvActuator)
	o.RecordingPath = str(EnvRecording)
	o.Session = str(EnvSession)
	o.LogLevel = str(EnvLogLevel)

	var err error
	if o.Realtime, err = boolean(EnvRealtime); err != nil {
		return FlagOverrides{}, err
	}
	if o.TrayEnabled, err = boolean(EnvTray); err != nil {
		return FlagOverrides{}, err
	}

	return o, nil
}
