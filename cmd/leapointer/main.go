// leapointer drives the desktop pointer from hand tracking: fingertip motion
// or hand tilt moves the cursor and a key-tap gesture clicks.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/leapointer/internal/config"
)

var version = "dev"

// options are the command-line flags. Flags left unset do not override
// the config file or the environment.
type options struct {
	configPath string
	envPath    string
	logLevel   string
	verbose    int
	quiet      int

	pointer  string
	source   string
	leapURL  string
	actuator string
	record   string
	session  string
	realtime bool
	tray     bool
}

func main() {
	if err := newRootCommand(&options{}).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leapointer",
		Short: "Control the mouse pointer with a hand-tracking controller",
		Long: `leapointer reads hand frames from the Leap Motion service (or a webcam,
or a recorded session) and moves the pointer.

In move mode the pointer follows the fingertips; in pitch mode tilting the
hand steers it. A key-tap gesture clicks. Stop with Ctrl-C.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.StringVar(&opts.envPath, "env", ".env", "dotenv file with LEAPOINTER_* settings")
	f.StringVar(&opts.logLevel, "log-level", "info", "base log level: error, warning, info or debug")
	f.CountVarP(&opts.verbose, "verbose", "v", "log more (repeatable)")
	f.CountVarP(&opts.quiet, "quiet", "q", "log less (repeatable)")
	f.StringVar(&opts.record, "record", "", "SQLite file to record frames to, or replay from")

	rf := cmd.Flags()
	rf.StringVar(&opts.pointer, "pointer", "move", "pointer mode: move or pitch")
	rf.StringVar(&opts.source, "source", "leap", "frame source: leap, camera or replay")
	rf.StringVar(&opts.leapURL, "leap-url", config.DefaultLeapURL, "Leap service WebSocket URL")
	rf.StringVar(&opts.actuator, "actuator", "xdotool", "pointer backend: xdotool or uinput")
	rf.StringVar(&opts.session, "session", "", "session ID to replay")
	rf.BoolVar(&opts.realtime, "realtime", true, "replay at recorded speed")
	rf.BoolVar(&opts.tray, "tray", false, "show a system tray menu")

	cmd.AddCommand(sessionsCommand(opts))
	return cmd
}

// load builds the effective config: defaults, then the config file, then
// the environment, then explicitly set flags.
func (o *options) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadConfigFile(o.configPath); err != nil {
			return config.Config{}, err
		}
	}

	env, err := config.EnvOverrides(o.envPath)
	if err != nil {
		return config.Config{}, err
	}
	env.Apply(&cfg)

	o.flagOverrides(cmd).Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (o *options) flagOverrides(cmd *cobra.Command) config.FlagOverrides {
	var fo config.FlagOverrides
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("pointer") {
		fo.PointerMode = &o.pointer
	}
	if changed("source") {
		fo.Source = &o.source
	}
	if changed("leap-url") {
		fo.LeapURL = &o.leapURL
	}
	if changed("actuator") {
		fo.Actuator = &o.actuator
	}
	if changed("record") {
		fo.RecordingPath = &o.record
	}
	if changed("session") {
		fo.Session = &o.session
	}
	if changed("realtime") {
		fo.Realtime = &o.realtime
	}
	if changed("log-level") {
		fo.LogLevel = &o.logLevel
	}
	if changed("tray") {
		fo.TrayEnabled = &o.tray
	}
	return fo
}
