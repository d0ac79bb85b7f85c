package capture

import (
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestNewMotionGate(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		hold      time.Duration
		wantHold  time.Duration
	}{
		{name: "default hold", threshold: 1.0, hold: 0, wantHold: DefaultHold},
		{name: "negative hold", threshold: 1.0, hold: -time.Second, wantHold: DefaultHold},
		{name: "custom hold", threshold: 5.0, hold: 500 * time.Millisecond, wantHold: 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewMotionGate(tt.threshold, tt.hold)
			defer g.Close()

			if g.threshold != tt.threshold {
				t.Errorf("threshold = %f, want %f", g.threshold, tt.threshold)
			}
			if g.hold != tt.wantHold {
				t.Errorf("hold = %v, want %v", g.hold, tt.wantHold)
			}
			if g.primed {
				t.Error("gate should not be primed initially")
			}
		})
	}
}

func TestMotionGate_StaysClosedWithoutMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewMotionGate(1.0, time.Second)
	defer g.Close()

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()

	now := time.Unix(100, 0)
	for i := 0; i < 3; i++ {
		open, changed := g.Check(&frame, now.Add(time.Duration(i)*100*time.Millisecond))
		if open {
			t.Errorf("check #%d: gate open on a static scene (changed %.2f%%)", i, changed)
		}
	}
}

func TestMotionGate_OpensAndHolds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewMotionGate(1.0, time.Second)
	defer g.Close()

	black := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	now := time.Unix(100, 0)
	if open, _ := g.Check(&black, now); open {
		t.Fatal("first frame should only prime the gate")
	}

	open, changed := g.Check(&white, now.Add(100*time.Millisecond))
	if !open {
		t.Fatalf("black to white should open the gate, changed = %.2f%%", changed)
	}
	if changed < 50 {
		t.Errorf("changed = %.2f%%, want > 50%%", changed)
	}

	// Static again, but still inside the hold window.
	if open, _ := g.Check(&white, now.Add(900*time.Millisecond)); !open {
		t.Error("gate should stay open within the hold window")
	}
	if open, _ := g.Check(&white, now.Add(1200*time.Millisecond)); open {
		t.Error("gate should close after the hold window")
	}
}

func TestMotionGate_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewMotionGate(1.0, time.Second)
	defer g.Close()

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()

	g.Check(&frame, time.Unix(100, 0))
	if !g.primed {
		t.Fatal("gate should be primed after the first Check")
	}

	g.Reset()
	if g.primed {
		t.Error("gate should not be primed after Reset")
	}
	if !g.prev.Empty() {
		t.Error("stored frame should be empty after Reset")
	}
}

func TestMotionGate_NilFrame(t *testing.T) {
	g := NewMotionGate(1.0, time.Second)
	defer g.Close()

	if open, changed := g.Check(nil, time.Now()); open || changed != 0 {
		t.Errorf("Check(nil) = (%v, %f), want (false, 0)", open, changed)
	}

	g.Close()
	g.Close()
}
