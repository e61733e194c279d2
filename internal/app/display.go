package app

import "gocv.io/x/gocv"

// Keys the game reacts to, as returned by Display.Show.
const (
	KeyNone  = -1
	KeyEnter = 13
	KeyEsc   = 27
)

// Display shows rendered frames and reports key presses.
type Display interface {
	// Show draws frame and returns the key pressed meanwhile, or KeyNone.
	Show(frame gocv.Mat) int
	// IsOpen reports whether the player has not closed the display.
	IsOpen() bool
	Close() error
}

// Window is a Display backed by a HighGUI window. Its methods must be called
// from the main goroutine.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a named window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

func (w *Window) Show(frame gocv.Mat) int {
	w.win.IMShow(frame)
	return w.win.WaitKey(1)
}

func (w *Window) IsOpen() bool {
	return w.win.IsOpen()
}

func (w *Window) Close() error {
	return w.win.Close()
}

func isQuitKey(key int) bool {
	return key == KeyEsc || key == 'q'
}
