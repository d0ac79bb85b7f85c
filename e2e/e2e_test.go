package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/leapointer/internal/actuator"
	"github.com/ayusman/leapointer/internal/app"
	"github.com/ayusman/leapointer/internal/config"
	"github.com/ayusman/leapointer/internal/device/leap"
	"github.com/ayusman/leapointer/internal/device/replay"
	"github.com/ayusman/leapointer/internal/store"
	"github.com/ayusman/leapointer/testdata"
)

// leapService streams the fixture to every client, then holds the
// connection open until the client leaves.
func leapService(t *testing.T, messages [][]byte) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, m); err != nil {
				return
			}
		}
		<-gone
	}))
}

func TestE2E_LeapToPointer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	messages, err := testdata.LoadLeapMessages(testdata.MoveTap)
	require.NoError(t, err)
	ts := leapService(t, messages)
	defer ts.Close()

	cfg := config.DefaultConfig()
	cfg.Device.LeapURL = "ws" + strings.TrimPrefix(ts.URL, "http")
	cfg.Recording.Path = filepath.Join(t.TempDir(), "sessions.db")
	require.NoError(t, cfg.Validate())

	st, err := store.New(cfg.Recording.Path)
	require.NoError(t, err)
	defer st.Close()

	rec, err := store.NewRecorder(st, cfg.Device.Source, cfg.Pointer.Mode, 0)
	require.NoError(t, err)

	sink := actuator.NewMockSink(500, 300)
	a, err := app.New(app.Config{
		Mode:     cfg.Pointer.Mode,
		Pointer:  cfg.ToPointerConfig(),
		Recorder: rec,
	}, sink, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- leap.New(cfg.ToLeapConfig(), nil).Run(ctx, a) }()

	require.Eventually(t, func() bool {
		return a.Stats().Frames == 6
	}, 5*time.Second, 10*time.Millisecond, "all fixture frames should be processed")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("leap source did not stop")
	}
	a.Stop()
	require.NoError(t, rec.Close())

	// 40 mm right at 4 px/mm, a still frame with a tap, a dropped hand that
	// costs the next frame its reference, then 10 mm more.
	wantMoves := []actuator.Point{{X: 160}, {}, {X: 40}}
	wantClicks := []actuator.Point{{X: 660, Y: 300}}
	assert.Equal(t, wantMoves, sink.Moves())
	assert.Equal(t, wantClicks, sink.Clicks())
	assert.Equal(t, app.Stats{Frames: 6, Moves: 3, Clicks: 1}, a.Stats())

	// The recorded session replays to the same pointer output.
	sess, err := st.Sessions().Get(rec.SessionID())
	require.NoError(t, err)
	assert.Equal(t, 6, sess.Frames)
	assert.False(t, sess.Active())

	replaySink := actuator.NewMockSink(500, 300)
	b, err := app.New(app.Config{Mode: cfg.Pointer.Mode, Pointer: cfg.ToPointerConfig()}, replaySink, nil)
	require.NoError(t, err)

	src := replay.New(replay.Config{Session: sess.ID}, st.Frames(), nil)
	require.NoError(t, src.Run(context.Background(), b))

	assert.Equal(t, wantMoves, replaySink.Moves())
	assert.Equal(t, wantClicks, replaySink.Clicks())
}

func TestE2E_PausedControlStillRecords(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	messages, err := testdata.LoadLeapMessages(testdata.MoveTap)
	require.NoError(t, err)
	ts := leapService(t, messages)
	defer ts.Close()

	st, err := store.New(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	defer st.Close()
	rec, err := store.NewRecorder(st, config.SourceLeap, "move", 2)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Device.LeapURL = "ws" + strings.TrimPrefix(ts.URL, "http")

	sink := actuator.NewMockSink(0, 0)
	a, err := app.New(app.Config{Mode: cfg.Pointer.Mode, Pointer: cfg.ToPointerConfig(), Recorder: rec}, sink, nil)
	require.NoError(t, err)
	a.SetEnabled(false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- leap.New(cfg.ToLeapConfig(), nil).Run(ctx, a) }()

	require.Eventually(t, func() bool {
		n, err := st.Frames().Count(rec.SessionID())
		return err == nil && n == 6
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, rec.Close())

	assert.Empty(t, sink.Moves())
	assert.Empty(t, sink.Clicks())
	assert.Zero(t, a.Stats().Frames)
}
