package app

import (
	"context"
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingergun/internal/overlay"
)

// HomeBackground is the base color the home screen hue cycles from.
var HomeBackground = overlay.HSV{H: 200, S: 0.55, V: 0.85}

var (
	titleColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	promptColor = color.RGBA{R: 255, G: 230, B: 120, A: 255}
)

// Home shows the animated title screen until the player presses Enter, which
// returns true. Esc, a closed window or a cancelled ctx return false.
func Home(ctx context.Context, display Display, width, height int) bool {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3)
	defer frame.Close()

	start := time.Now()

	for ctx.Err() == nil {
		DrawHome(&frame, time.Since(start))

		switch display.Show(frame) {
		case KeyEnter:
			return true
		case KeyEsc:
			return false
		}
		if !display.IsOpen() {
			return false
		}
	}
	return false
}

// DrawHome renders one home screen frame at elapsed time into dst.
func DrawHome(dst *gocv.Mat, elapsed time.Duration) {
	overlay.DrawBackground(dst, HomeBackground, elapsed)

	mid := image.Pt(dst.Cols()/2, dst.Rows()/2)
	overlay.DrawCenteredText(dst, "FINGER GUN", mid.Sub(image.Pt(0, 100)), 3, titleColor, 6)
	overlay.DrawCenteredText(dst, "press Enter to start", mid.Add(image.Pt(0, 150)), 1.2, promptColor, 2)
}
