// Package gesture turns per-frame hand landmarks into a finger-gun aim, a
// shot trigger and a hit test. Every function here is pure: a frame without
// a hand is the Absent value, never an error.
package gesture

import (
	"strconv"

	"github.com/ayusman/fingergun/internal/detector"
)

// landmarkSet is the flat landmark sequence shared by absolute and relative
// keypoints. Hands are concatenated in detector order, NumLandmarks each.
// A set shorter than one hand is Absent.
type landmarkSet []detector.Point3D

// Present reports whether at least one hand was detected.
func (s landmarkSet) Present() bool {
	return len(s) >= detector.NumLandmarks
}

// Len returns the number of landmarks across all hands.
func (s landmarkSet) Len() int {
	return len(s)
}

// Hands returns the number of hands in the set.
func (s landmarkSet) Hands() int {
	return len(s) / detector.NumLandmarks
}

// At returns landmark i of the flat sequence, or the zero point when i is
// out of range.
func (s landmarkSet) At(i int) detector.Point3D {
	if i < 0 || i >= len(s) {
		return detector.Point3D{}
	}
	return s[i]
}

// Hand returns the landmarks of hand n, or nil.
func (s landmarkSet) Hand(n int) []detector.Point3D {
	start := n * detector.NumLandmarks
	if n < 0 || start+detector.NumLandmarks > len(s) {
		return nil
	}
	return s[start : start+detector.NumLandmarks]
}

// Points returns a copy of the flat landmark sequence.
func (s landmarkSet) Points() []detector.Point3D {
	if len(s) == 0 {
		return nil
	}
	out := make([]detector.Point3D, len(s))
	copy(out, s)
	return out
}

// Keypoints holds a frame's landmarks in absolute pixel space.
type Keypoints struct {
	landmarkSet
}

// RelativeKeypoints holds a frame's landmarks re-based on the index finger
// MCP of the first hand.
type RelativeKeypoints struct {
	landmarkSet
}

// NewKeypoints wraps pixel-space points. Fewer than NumLandmarks points
// yields Absent keypoints.
func NewKeypoints(points []detector.Point3D) Keypoints {
	if len(points) < detector.NumLandmarks {
		return Keypoints{}
	}
	return Keypoints{landmarkSet(append([]detector.Point3D(nil), points...))}
}

// Extract denormalizes detector output into pixel-space keypoints for a
// width x height frame. x and y are rounded to 2 decimals, z to 3.
// No hands gives Absent keypoints.
func Extract(hands []detector.HandLandmarks, width, height int) Keypoints {
	if len(hands) == 0 {
		return Keypoints{}
	}

	w, h := float64(width), float64(height)
	points := make(landmarkSet, 0, len(hands)*detector.NumLandmarks)
	for i := range hands {
		for _, p := range hands[i].Points {
			points = append(points, detector.Point3D{
				X: round(p.X*w, 2),
				Y: round(p.Y*h, 2),
				Z: round(p.Z, 3),
			})
		}
	}
	return Keypoints{points}
}

// Relative subtracts the index finger MCP from every landmark so only the
// finger's articulation remains. Absent stays Absent.
func Relative(kp Keypoints) RelativeKeypoints {
	if !kp.Present() {
		return RelativeKeypoints{}
	}

	origin := kp.At(detector.IndexMCP)
	rel := make(landmarkSet, len(kp.landmarkSet))
	for i, p := range kp.landmarkSet {
		rel[i] = detector.Point3D{
			X: round(p.X-origin.X, 2),
			Y: round(p.Y-origin.Y, 2),
			Z: round(p.Z-origin.Z, 3),
		}
	}
	return RelativeKeypoints{rel}
}

// round rounds v to the nearest decimal with the given number of places,
// resolving only exact binary ties to even.
func round(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
