package tray

import "testing"

func TestTray_TogglePause(t *testing.T) {
	tr := New()

	var got []bool
	tr.OnPause(func(paused bool) { got = append(got, paused) })

	if tr.IsPaused() {
		t.Fatal("new tray should not be paused")
	}

	tr.togglePause()
	tr.togglePause()

	if tr.IsPaused() {
		t.Error("two toggles should resume")
	}
	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("pause callbacks = %v, want [true false]", got)
	}
}

func TestTray_Callbacks(t *testing.T) {
	tr := New()

	// Unset callbacks are ignored
	tr.call(func() func() { return tr.onViewer })

	opened := 0
	tr.OnOpenViewer(func() { opened++ })
	tr.call(func() func() { return tr.onViewer })

	if opened != 1 {
		t.Errorf("viewer callback ran %d times, want 1", opened)
	}
}

func TestTray_SetScore(t *testing.T) {
	tr := New()
	if tr.score != "Score: 0 / 0" {
		t.Errorf("initial score = %q", tr.score)
	}

	// Before the menu exists only the label is kept
	tr.SetScore(3, 7)

	if tr.score != "Score: 3 / 7" {
		t.Errorf("score = %q, want %q", tr.score, "Score: 3 / 7")
	}
}

func TestPauseLabel(t *testing.T) {
	if pauseLabel(false) == pauseLabel(true) {
		t.Error("paused and running labels should differ")
	}
}
