package tray

import (
	"errors"
	"testing"

	"github.com/ayusman/leapointer/internal/pointer"
)

func TestTray_Toggle(t *testing.T) {
	tr := New(pointer.ModeMove)

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	if !tr.IsEnabled() {
		t.Fatal("new tray should start enabled")
	}

	tr.handleToggle()
	tr.handleToggle()

	if len(got) != 2 || got[0] != false || got[1] != true {
		t.Errorf("toggle callbacks = %v, want [false true]", got)
	}
	if !tr.IsEnabled() {
		t.Error("tray should be enabled after two toggles")
	}
}

func TestTray_Mode(t *testing.T) {
	tests := []struct {
		name     string
		pick     string
		err      error
		wantMode string
		wantCall bool
	}{
		{name: "switch", pick: pointer.ModePitch, wantMode: pointer.ModePitch, wantCall: true},
		{name: "same mode", pick: pointer.ModeMove, wantMode: pointer.ModeMove},
		{name: "rejected", pick: pointer.ModePitch, err: errors.New("no"), wantMode: pointer.ModeMove, wantCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(pointer.ModeMove)
			called := false
			tr.OnMode(func(string) error {
				called = true
				return tt.err
			})

			tr.handleMode(tt.pick)

			if got := tr.Mode(); got != tt.wantMode {
				t.Errorf("Mode() = %q, want %q", got, tt.wantMode)
			}
			if called != tt.wantCall {
				t.Errorf("callback called = %v, want %v", called, tt.wantCall)
			}
		})
	}
}

func TestTray_SetClicksBeforeRun(t *testing.T) {
	tr := New(pointer.ModeMove)
	tr.SetClicks(3)

	if tr.clicks != 3 {
		t.Errorf("clicks = %d, want 3", tr.clicks)
	}
}

func TestTitles(t *testing.T) {
	if got := clicksTitle(1); got != "1 click" {
		t.Errorf("clicksTitle(1) = %q", got)
	}
	if got := clicksTitle(12); got != "12 clicks" {
		t.Errorf("clicksTitle(12) = %q", got)
	}
	if toggleTitle(true) == toggleTitle(false) {
		t.Error("toggle titles should differ")
	}
	if modeTitle("other") != "other" {
		t.Errorf("modeTitle(other) = %q", modeTitle("other"))
	}
}
