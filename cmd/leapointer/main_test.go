package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/leapointer/internal/config"
	"github.com/ayusman/leapointer/internal/store"
)

func parse(t *testing.T, args ...string) (*options, config.Config, error) {
	t.Helper()
	opts := &options{}
	cmd := newRootCommand(opts)
	require.NoError(t, cmd.ParseFlags(args))
	cfg, err := opts.load(cmd)
	return opts, cfg, err
}

func noEnvFile(t *testing.T) string {
	return "--env=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	_, cfg, err := parse(t, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "leapointer.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("pointer:\n  mode: pitch\nactuator:\n  backend: uinput\nlogging:\n  level: debug\n"), 0644))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("LEAPOINTER_ACTUATOR=xdotool\nLEAPOINTER_LOG_LEVEL=warning\n"), 0644))

	_, cfg, err := parse(t, "--config", cfgPath, "--env", envPath, "--log-level", "error")
	require.NoError(t, err)

	assert.Equal(t, "pitch", cfg.Pointer.Mode, "file over defaults")
	assert.Equal(t, "xdotool", cfg.Actuator.Backend, "env over file")
	assert.Equal(t, "error", cfg.Logging.Level, "flag over env")
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	t.Setenv(config.EnvSource, config.SourceCamera)
	t.Setenv(config.EnvRealtime, "false")

	_, cfg, err := parse(t, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, config.SourceCamera, cfg.Device.Source)
	assert.False(t, cfg.Recording.Realtime)

	_, cfg, err = parse(t, noEnvFile(t), "--source", "leap", "--realtime")
	require.NoError(t, err)
	assert.Equal(t, config.SourceLeap, cfg.Device.Source)
	assert.True(t, cfg.Recording.Realtime)
}

func TestLoad_Invalid(t *testing.T) {
	_, _, err := parse(t, noEnvFile(t), "--pointer", "joystick")
	assert.Error(t, err)

	_, _, err = parse(t, noEnvFile(t), "--source", "replay", "--record", filepath.Join(t.TempDir(), "s.db"))
	assert.Error(t, err, "replay without a session")
}

func TestVerbosityFlags(t *testing.T) {
	opts, _, err := parse(t, noEnvFile(t), "-vv", "-q")
	require.NoError(t, err)
	assert.Equal(t, 2, opts.verbose)
	assert.Equal(t, 1, opts.quiet)
}

func TestPrintSessions(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	defer st.Close()

	done, err := st.Sessions().Create(config.SourceLeap, "move")
	require.NoError(t, err)
	require.NoError(t, st.Sessions().End(done.ID))
	live, err := st.Sessions().Create(config.SourceCamera, "pitch")
	require.NoError(t, err)

	sessions, err := st.Sessions().List()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printSessions(&buf, sessions))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))

	out := buf.String()
	assert.Contains(t, out, done.ID)
	assert.Contains(t, out, live.ID)
	assert.Contains(t, out, "recording")
}

func TestSessionsRm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	st, err := store.New(path)
	require.NoError(t, err)
	sess, err := st.Sessions().Create(config.SourceLeap, "move")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	var out bytes.Buffer
	cmd := newRootCommand(&options{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"sessions", "rm", "--record", path, sess.ID})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "deleted "+sess.ID)

	cmd = newRootCommand(&options{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"sessions", "rm", "--record", path, sess.ID})
	assert.ErrorContains(t, cmd.Execute(), "not found")
}
