// Package tray provides a system tray menu for leapointer: pause and resume
// pointer control, switch pointer modes, show the click count, and quit.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/leapointer/internal/pointer"
)

// Tray is the system tray application.
type Tray struct {
	mu       sync.RWMutex
	enabled  bool
	mode     string
	clicks   uint64
	onToggle func(enabled bool)
	onMode   func(mode string) error
	onQuit   func()

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuModes  map[string]*systray.MenuItem
	menuClicks *systray.MenuItem
}

// New creates a Tray showing pointer control enabled in the given mode.
func New(mode string) *Tray {
	return &Tray{
		enabled: true,
		mode:    mode,
	}
}

// OnToggle sets the callback run when pointer control is switched.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnMode sets the callback run when a mode is picked. The menu keeps the
// previous mode if it returns an error.
func (t *Tray) OnMode(fn func(mode string) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMode = fn
}

// OnQuit sets the callback run when quit is picked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray. It blocks until Quit is called and must run on the
// main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("LeaPointer")
	systray.SetTooltip("LeaPointer hand-tracking pointer")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume pointer control")
	systray.AddSeparator()

	t.menuModes = make(map[string]*systray.MenuItem)
	for _, name := range pointer.Names() {
		item := systray.AddMenuItemCheckbox(modeTitle(name), "Switch pointer mode", name == t.mode)
		t.menuModes[name] = item
		go t.watchMode(name, item)
	}
	systray.AddSeparator()

	t.menuClicks = systray.AddMenuItem(clicksTitle(t.clicks), "Clicks sent this session")
	t.menuClicks.Disable()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit LeaPointer")
	toggle := t.menuToggle
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-toggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) watchMode(name string, item *systray.MenuItem) {
	for range item.ClickedCh {
		t.handleMode(name)
	}
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleMode(name string) {
	t.mu.RLock()
	callback := t.onMode
	current := t.mode
	t.mu.RUnlock()

	if name == current {
		t.syncModes()
		return
	}
	if callback != nil {
		if err := callback(name); err != nil {
			t.syncModes()
			return
		}
	}

	t.mu.Lock()
	t.mode = name
	t.mu.Unlock()
	t.syncModes()
}

// syncModes makes the checked item match the current mode.
func (t *Tray) syncModes() {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for name, item := range t.menuModes {
		if name == t.mode {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetClicks updates the click counter.
func (t *Tray) SetClicks(n uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clicks = n
	if t.menuClicks != nil {
		t.menuClicks.SetTitle(clicksTitle(n))
	}
}

// IsEnabled returns the pointer control state shown in the menu.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Mode returns the mode checked in the menu.
func (t *Tray) Mode() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func modeTitle(name string) string {
	switch name {
	case pointer.ModeMove:
		return "Move: follow fingertips"
	case pointer.ModePitch:
		return "Pitch: tilt to steer"
	default:
		return name
	}
}

func clicksTitle(n uint64) string {
	if n == 1 {
		return "1 click"
	}
	return fmt.Sprintf("%d clicks", n)
}
