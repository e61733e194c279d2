// Package tray puts the headless game in the system tray.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray menu for a running round.
type Tray struct {
	onPause    func(paused bool)
	onViewer   func()
	onNewRound func()
	onQuit     func()
	paused     bool
	score      string
	mu         sync.RWMutex

	menuPause *systray.MenuItem
	menuScore *systray.MenuItem
}

// New creates a Tray for an unpaused round with no score yet.
func New() *Tray {
	return &Tray{score: scoreLabel(0, 0)}
}

// OnPause sets the callback run when the round is paused or resumed.
func (t *Tray) OnPause(fn func(paused bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPause = fn
}

// OnOpenViewer sets the callback run by "Open Viewer...".
func (t *Tray) OnOpenViewer(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onViewer = fn
}

// OnNewRound sets the callback run by "New Round".
func (t *Tray) OnNewRound(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onNewRound = fn
}

// OnQuit sets the callback run by "Quit" before the tray exits.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run shows the tray and blocks until Quit. It must run on the main thread.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("fingergun")
	systray.SetTooltip("fingergun target practice")

	t.mu.Lock()
	t.menuPause = systray.AddMenuItem(pauseLabel(t.paused), "Pause or resume the round")
	systray.AddSeparator()
	t.menuScore = systray.AddMenuItem(t.score, "Hits and shots this round")
	t.menuScore.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuNewRound := systray.AddMenuItem("New Round", "Finish this round and start another")
	menuViewer := systray.AddMenuItem("Open Viewer...", "Watch the game in the browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit fingergun")

	go func() {
		for {
			select {
			case <-t.menuPause.ClickedCh:
				t.togglePause()
			case <-menuNewRound.ClickedCh:
				t.call(func() func() { return t.onNewRound })
			case <-menuViewer.ClickedCh:
				t.call(func() func() { return t.onViewer })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

// togglePause flips the paused state and runs the pause callback outside
// the lock.
func (t *Tray) togglePause() {
	t.mu.Lock()
	t.paused = !t.paused
	paused := t.paused
	if t.menuPause != nil {
		t.menuPause.SetTitle(pauseLabel(paused))
	}
	callback := t.onPause
	t.mu.Unlock()

	if callback != nil {
		callback(paused)
	}
}

func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	callback := get()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetScore updates the score line.
func (t *Tray) SetScore(hits, shots int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.score = scoreLabel(hits, shots)
	if t.menuScore != nil {
		t.menuScore.SetTitle(t.score)
	}
}

// IsPaused returns the current paused state.
func (t *Tray) IsPaused() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.paused
}

func pauseLabel(paused bool) string {
	if paused {
		return "▶ Resume"
	}
	return "❚❚ Pause"
}

func scoreLabel(hits, shots int) string {
	return fmt.Sprintf("Score: %d / %d", hits, shots)
}
