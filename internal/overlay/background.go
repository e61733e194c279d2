package overlay

import (
	"image"
	"image/color"
	"math"
	"time"

	"gocv.io/x/gocv"
)

// HSV is a color in hue, saturation, value space.
type HSV struct {
	H float64 // 0 <= H < 360
	S float64 // 0 <= S <= 1
	V float64 // 0 <= V <= 1
}

// RotateHue returns the color with its hue turned by degrees, wrapping into [0, 360).
func (c HSV) RotateHue(degrees float64) HSV {
	h := math.Mod(c.H+degrees, 360)
	if h < 0 {
		h += 360
	}
	c.H = h
	return c
}

// bytes scales the color to OpenCV's 8-bit HSV layout, hue halved to 0..179.
func (c HSV) bytes() [3]uint8 {
	return [3]uint8{
		uint8(int(math.Round(c.H/2)) % 180),
		uint8(math.Round(math.Max(0, math.Min(1, c.S)) * 255)),
		uint8(math.Round(math.Max(0, math.Min(1, c.V)) * 255)),
	}
}

// Background animation parameters.
const (
	// HueSpeed is how many degrees the background hue turns per second.
	HueSpeed = 30.0
	// bands is the number of horizontal gradient bands.
	bands = 24
	// bandSpread is the hue difference between the top and bottom band.
	bandSpread = 60.0
)

// DrawBackground fills dst with a vertical hue gradient derived from base
// that drifts with elapsed time, for the home screen.
func DrawBackground(dst *gocv.Mat, base HSV, elapsed time.Duration) {
	rows, cols := dst.Rows(), dst.Cols()
	if rows == 0 || cols == 0 {
		return
	}

	colors, err := bandColors(base, HueSpeed*elapsed.Seconds())
	if err != nil {
		return
	}

	bandHeight := (rows + bands - 1) / bands
	for i, c := range colors {
		top := i * bandHeight
		rect := image.Rect(0, top, cols, min(rows, top+bandHeight))
		gocv.Rectangle(dst, rect, c, -1)
	}
}

// bandColors returns the BGR fill of every band, top to bottom.
func bandColors(base HSV, drift float64) ([]color.RGBA, error) {
	buf := make([]byte, 0, bands*3)
	for i := 0; i < bands; i++ {
		// Triangle wave so the gradient has no seam at the bottom
		phase := float64(i) / float64(bands-1)
		shift := bandSpread * (1 - math.Abs(2*phase-1))
		b := base.RotateHue(drift + shift).bytes()
		buf = append(buf, b[:]...)
	}

	hsv, err := gocv.NewMatFromBytes(bands, 1, gocv.MatTypeCV8UC3, buf)
	if err != nil {
		return nil, err
	}
	defer hsv.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(hsv, &bgr, gocv.ColorHSVToBGR)

	colors := make([]color.RGBA, bands)
	for i := range colors {
		px := bgr.GetVecbAt(i, 0)
		colors[i] = color.RGBA{R: px[2], G: px[1], B: px[0], A: 255}
	}
	return colors, nil
}
