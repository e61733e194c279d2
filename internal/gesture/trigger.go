package gesture

import (
	"math"

	"github.com/ayusman/fingergun/internal/detector"
)

// Shot trigger calibration.
const (
	// SnapThreshold is the drop in angle magnitude, in degrees within one
	// frame, that counts as a flick.
	SnapThreshold = 20.0
	// NeutralZone bounds the previous angle magnitude for a press.
	NeutralZone = 10.0
	// PressDistance is how far, in pixels, the relative fingertip must rise
	// within one frame for a press.
	PressDistance = 10.0
)

// IsShot decides whether the transition prev -> cur fires a shot.
//
// A snap fires when |prev.Angle| - |cur.Angle| >= SnapThreshold. Otherwise a
// press fires when |prev.Angle| < NeutralZone and the relative index tip
// moved up by at least PressDistance. A frame without a hand never fires.
func IsShot(prev, cur AimState) bool {
	if !cur.Keypoints.Present() {
		return false
	}

	if math.Abs(prev.Angle)-math.Abs(cur.Angle) >= SnapThreshold {
		return true
	}

	if math.Abs(prev.Angle) < NeutralZone && prev.Relative.Present() && cur.Relative.Present() {
		rise := prev.Relative.At(detector.IndexTip).Y - cur.Relative.At(detector.IndexTip).Y
		return rise >= PressDistance
	}

	return false
}
