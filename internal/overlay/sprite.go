// Package overlay draws the game's sprites and debug graphics onto camera
// frames with GoCV.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Sprite asset proportions. Target and bang images are SpriteCanvas pixels
// square with a ring SpriteRing pixels across, so a sprite drawn at
// SpriteSize(r) shows a ring exactly 2r wide: the hit radius.
const (
	SpriteCanvas = 480
	SpriteRing   = 410
)

// SpriteSize returns the square side, in pixels, of a sprite for a target of
// the given hit radius.
func SpriteSize(radius float64) int {
	return int(radius * 2 * SpriteCanvas / SpriteRing)
}

// LoadSprite reads an image file keeping its alpha channel. Images without
// alpha are converted to opaque BGRA. The caller closes the returned Mat.
func LoadSprite(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadUnchanged)
	if img.Empty() {
		img.Close()
		return gocv.NewMat(), fmt.Errorf("load sprite %s: empty or unreadable image", path)
	}

	switch img.Channels() {
	case 4:
		return img, nil
	case 3:
		bgra := gocv.NewMat()
		gocv.CvtColor(img, &bgra, gocv.ColorBGRToBGRA)
		img.Close()
		return bgra, nil
	case 1:
		bgra := gocv.NewMat()
		gocv.CvtColor(img, &bgra, gocv.ColorGrayToBGRA)
		img.Close()
		return bgra, nil
	default:
		channels := img.Channels()
		img.Close()
		return gocv.NewMat(), fmt.Errorf("load sprite %s: unsupported channel count %d", path, channels)
	}
}

// NewRingSprite draws the default target: red and white rings on a
// transparent SpriteCanvas square, outer ring SpriteRing across.
func NewRingSprite() gocv.Mat {
	sprite := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), SpriteCanvas, SpriteCanvas, gocv.MatTypeCV8UC4)
	center := image.Pt(SpriteCanvas/2, SpriteCanvas/2)

	red := color.RGBA{R: 220, G: 30, B: 40, A: 255}
	white := color.RGBA{R: 250, G: 250, B: 250, A: 255}

	step := SpriteRing / 2 / 5
	for i := 0; i < 5; i++ {
		c := red
		if i%2 == 1 {
			c = white
		}
		gocv.Circle(&sprite, center, SpriteRing/2-i*step, c, -1)
	}
	return sprite
}

// NewBangSprite draws the default hit marker: a burst filling the ring with
// "BANG!" across it.
func NewBangSprite() gocv.Mat {
	sprite := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), SpriteCanvas, SpriteCanvas, gocv.MatTypeCV8UC4)
	center := image.Pt(SpriteCanvas/2, SpriteCanvas/2)
	r := SpriteRing / 2

	orange := color.RGBA{R: 255, G: 120, B: 0, A: 255}
	yellow := color.RGBA{R: 255, G: 230, B: 40, A: 255}
	black := color.RGBA{A: 255}

	// Spikes
	const spikes = 12
	for i := 0; i < spikes; i++ {
		tip := polar(center, float64(r), float64(i)*360/spikes)
		left := polar(center, float64(r)*0.55, float64(i)*360/spikes-15)
		right := polar(center, float64(r)*0.55, float64(i)*360/spikes+15)
		pts := gocv.NewPointsVectorFromPoints([][]image.Point{{tip, left, right}})
		gocv.FillPoly(&sprite, pts, orange)
		pts.Close()
	}
	gocv.Circle(&sprite, center, r*6/10, orange, -1)
	gocv.Circle(&sprite, center, r*45/100, yellow, -1)

	text := "BANG!"
	size := gocv.GetTextSize(text, gocv.FontHersheyDuplex, 2.5, 6)
	origin := image.Pt(center.X-size.X/2, center.Y+size.Y/2)
	gocv.PutText(&sprite, text, origin, gocv.FontHersheyDuplex, 2.5, black, 6)

	return sprite
}
