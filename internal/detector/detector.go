package detector

import (
	"strconv"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks in
	// normalized coordinates. Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	// Only the first hand aims, extra hands are carried but ignored.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ScriptPath overrides the location of the MediaPipe service script.
	ScriptPath string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// withDefaults fills unset limits from DefaultConfig and clamps the
// confidences to [0, 1].
func (c Config) withDefaults() Config {
	if c.MaxHands <= 0 {
		c.MaxHands = 1
	}
	c.MinConfidence = clamp01(c.MinConfidence)
	c.MinTrackingConf = clamp01(c.MinTrackingConf)
	return c
}

// serviceArgs is the command line for the hand service script.
func (c Config) serviceArgs(script string) []string {
	return []string{
		script,
		"--max-hands", strconv.Itoa(c.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(c.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(c.MinTrackingConf, 'f', -1, 64),
	}
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}
