package overlay

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingergun/internal/detector"
	"github.com/ayusman/fingergun/internal/gesture"
)

var (
	aimColor      = color.RGBA{G: 255, A: 255}
	angleColor    = color.RGBA{R: 255, B: 255, A: 255}
	tipColor      = color.RGBA{R: 255, G: 255, A: 255}
	boneColor     = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	jointColor    = color.RGBA{R: 230, G: 30, B: 30, A: 255}
	hudColor      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	hudShadow     = color.RGBA{A: 255}
	debugFont     = gocv.FontHersheyPlain
	debugScale    = 3.0
	debugThick    = 3
	aimLineThick  = 3
	skeletonThick = 2
)

// DrawAimLine draws the aiming ray from the index MCP to the aim point
// projected with range multiplier k. No hand draws nothing.
func DrawAimLine(dst *gocv.Mat, kp gesture.Keypoints, k float64) {
	aim, ok := gesture.AimPoint(kp, k)
	if !ok {
		return
	}
	gocv.Line(dst, pixel(kp.At(detector.IndexMCP)), aim.Image(), aimColor, aimLineThick)
}

// DrawDebug draws every detected hand's skeleton, the pointing angle at the
// index MCP and the relative index tip coordinates at the tip.
func DrawDebug(dst *gocv.Mat, kp gesture.Keypoints, rel gesture.RelativeKeypoints) {
	if !kp.Present() {
		return
	}

	for h := 0; h < kp.Hands(); h++ {
		hand := kp.Hand(h)
		for _, c := range detector.HandConnections {
			gocv.Line(dst, pixel(hand[c[0]]), pixel(hand[c[1]]), boneColor, skeletonThick)
		}
		for _, p := range hand {
			gocv.Circle(dst, pixel(p), 4, jointColor, -1)
		}
	}

	base := pixel(kp.At(detector.IndexMCP))
	gocv.PutText(dst, "// "+formatFloat(gesture.Angle(rel)), base, debugFont, debugScale, angleColor, debugThick)

	t := rel.At(detector.IndexTip)
	label := fmt.Sprintf("[%s, %s, %s]", formatFloat(t.X), formatFloat(t.Y), formatFloat(t.Z))
	gocv.PutText(dst, label, pixel(kp.At(detector.IndexTip)), debugFont, debugScale, tipColor, debugThick)
}

// DrawHUD draws the score line in the top-left corner.
func DrawHUD(dst *gocv.Mat, score, shots int) {
	text := fmt.Sprintf("SCORE %d  SHOTS %d", score, shots)
	origin := image.Pt(20, 40)
	gocv.PutText(dst, text, origin.Add(image.Pt(2, 2)), gocv.FontHersheyDuplex, 1, hudShadow, 3)
	gocv.PutText(dst, text, origin, gocv.FontHersheyDuplex, 1, hudColor, 2)
}

// DrawCenteredText draws text centered horizontally on x, with its baseline
// centered vertically on y.
func DrawCenteredText(dst *gocv.Mat, text string, center image.Point, scale float64, c color.RGBA, thickness int) {
	size := gocv.GetTextSize(text, gocv.FontHersheyDuplex, scale, thickness)
	origin := image.Pt(center.X-size.X/2, center.Y+size.Y/2)
	gocv.PutText(dst, text, origin, gocv.FontHersheyDuplex, scale, c, thickness)
}

// pixel truncates a landmark to integer pixel coordinates.
func pixel(p detector.Point3D) image.Point {
	return image.Pt(int(p.X), int(p.Y))
}

// polar returns the point r pixels from center at deg degrees clockwise from up.
func polar(center image.Point, r, deg float64) image.Point {
	rad := deg * math.Pi / 180
	return image.Pt(center.X+int(math.Round(r*math.Sin(rad))), center.Y-int(math.Round(r*math.Cos(rad))))
}

// formatFloat prints the shortest representation, keeping ".0" on whole
// numbers so labels read as coordinates.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
