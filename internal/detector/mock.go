package detector

import (
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu       sync.Mutex
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	calls    int
	err      error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
	m.sequence = nil
}

// SetSequence scripts one result per Detect call. Once the sequence is
// exhausted Detect returns no hands.
func (m *MockDetector) SetSequence(seq [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = seq
	m.hands = nil
	m.calls = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	call := m.calls
	m.calls++

	if m.sequence != nil {
		if call >= len(m.sequence) {
			return nil, nil
		}
		return m.sequence[call], nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PointingLandmarks returns a normalized right hand making a finger gun.
// The index MCP sits at pixel (baseX, baseY) of a width x height frame and
// the index tip lies lengthPx pixels away at angleDeg, measured from
// straight up and increasing clockwise toward +X. The other fingers are curled.
func PointingLandmarks(baseX, baseY, angleDeg, lengthPx float64, width, height int) HandLandmarks {
	w, h := float64(width), float64(height)
	rad := angleDeg * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)

	norm := func(x, y, z float64) Point3D {
		return Point3D{X: x / w, Y: y / h, Z: z}
	}

	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Index finger along the pointing direction
	for i, joint := range []int{IndexMCP, IndexPIP, IndexDIP, IndexTip} {
		f := lengthPx * float64(i) / 3
		landmarks.Points[joint] = norm(baseX+dx*f, baseY+dy*f, -0.01*float64(i))
	}

	// Palm behind the MCP, opposite the finger
	landmarks.Points[Wrist] = norm(baseX-dx*lengthPx*1.2, baseY-dy*lengthPx*1.2, 0)

	// Thumb cocked upward beside the index finger
	px, py := -dy, dx // perpendicular
	landmarks.Points[ThumbCMC] = norm(baseX-dx*lengthPx*0.9-px*lengthPx*0.2, baseY-dy*lengthPx*0.9-py*lengthPx*0.2, 0)
	landmarks.Points[ThumbMCP] = norm(baseX-dx*lengthPx*0.6-px*lengthPx*0.35, baseY-dy*lengthPx*0.6-py*lengthPx*0.35, -0.01)
	landmarks.Points[ThumbIP] = norm(baseX-dx*lengthPx*0.3-px*lengthPx*0.45, baseY-dy*lengthPx*0.3-py*lengthPx*0.45, -0.02)
	landmarks.Points[ThumbTip] = norm(baseX-px*lengthPx*0.55, baseY-py*lengthPx*0.55, -0.03)

	// Curled fingers stacked behind the index finger
	fingers := [][4]int{
		{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
		{RingMCP, RingPIP, RingDIP, RingTip},
		{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
	}
	for n, f := range fingers {
		off := lengthPx * 0.25 * float64(n+1)
		mx, my := baseX+px*off, baseY+py*off
		landmarks.Points[f[0]] = norm(mx, my, 0)
		landmarks.Points[f[1]] = norm(mx+dx*lengthPx*0.3, my+dy*lengthPx*0.3, -0.02)
		landmarks.Points[f[2]] = norm(mx+dx*lengthPx*0.15+px*0.1, my+dy*lengthPx*0.15+py*0.1, -0.03)
		landmarks.Points[f[3]] = norm(mx, my, -0.02)
	}

	return landmarks
}
