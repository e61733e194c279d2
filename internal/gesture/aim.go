package gesture

import (
	"image"
	"math"

	"github.com/ayusman/fingergun/internal/detector"
)

// DefaultRangeMultiplier projects the aim three finger lengths from the
// index MCP.
const DefaultRangeMultiplier = 3

// Point is a pixel-space position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Image truncates p to integer pixel coordinates.
func (p Point) Image() image.Point {
	return image.Point{X: int(p.X), Y: int(p.Y)}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// AimState is one frame's resolved aim. The caller keeps the previous
// frame's state to feed IsShot.
type AimState struct {
	Keypoints Keypoints
	Relative  RelativeKeypoints
	Angle     float64
}

// NoPreviousFrame is the baseline before the first frame: no hand, angle 0.
// It can never satisfy a shot rule.
var NoPreviousFrame = AimState{}

// Resolve runs extraction, the relative transform and the angle for one
// frame of detector output.
func Resolve(hands []detector.HandLandmarks, width, height int) AimState {
	kp := Extract(hands, width, height)
	rel := Relative(kp)
	return AimState{
		Keypoints: kp,
		Relative:  rel,
		Angle:     Angle(rel),
	}
}

// Angle returns the index finger's pointing angle in degrees, 0 straight up
// and increasing toward +X, in [-180, 180], rounded to one decimal. -180
// only appears for a finger pointing almost straight down on the -X side,
// where the raw angle rounds past -179.95.
//
// A vertical finger (X == 0) is treated as slope 0 and takes the X <= 0
// branch, so it reads -90. Shot thresholds are tuned against this curve.
func Angle(rel RelativeKeypoints) float64 {
	if !rel.Present() {
		return 0
	}

	tip := rel.At(detector.IndexTip)
	x, y := tip.X, tip.Y

	var m float64
	if x != 0 {
		m = y / x
	}

	angle := math.Atan(m) * 180 / math.Pi
	if x > 0 {
		angle += 90
	} else {
		angle -= 90
	}

	return round(angle, 1)
}

// AimPoint projects the ray from the index MCP through the index tip k
// finger lengths out. Both joints are truncated to whole pixels first, so
// k = 0 lands on the MCP and k = 1 on the tip. ok is false when no hand is
// present.
func AimPoint(kp Keypoints, k float64) (aim Point, ok bool) {
	if !kp.Present() {
		return Point{}, false
	}

	base := kp.At(detector.IndexMCP)
	tip := kp.At(detector.IndexTip)

	p1x, p1y := float64(int(base.X)), float64(int(base.Y))
	p2x, p2y := float64(int(tip.X)), float64(int(tip.Y))

	return Point{
		X: (p2x-p1x)*k + p1x,
		Y: (p2y-p1y)*k + p1y,
	}, true
}
