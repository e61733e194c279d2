package gesture

// Target is a circular hit box in screen pixels.
type Target struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains reports whether p lies within the target, boundary included.
func (t Target) Contains(p Point) bool {
	return Distance(p, t.Center) <= t.Radius
}

// IsHit projects the aim with range multiplier k and tests it against the
// target. Absent keypoints never hit.
func IsHit(kp Keypoints, k float64, target Target) bool {
	aim, ok := AimPoint(kp, k)
	if !ok {
		return false
	}
	return target.Contains(aim)
}
