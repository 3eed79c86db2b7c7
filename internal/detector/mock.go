package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// Reference frame size used by the preset hands.
const (
	PresetWidth  = 640
	PresetHeight = 480
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu       sync.Mutex
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	err      error
	calls    int
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
// exhausted Detect reports no hands.
func (m *MockDetector) SetSequence(frames [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = frames
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

	call := m.calls
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
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

// fromPixels builds a right hand from pixel coordinates in the preset frame.
func fromPixels(px [NumLandmarks][2]float64) HandLandmarks {
	hand := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}
	for i, p := range px {
		hand.Points[i] = Point3D{
			X: p[0] / PresetWidth,
			Y: p[1] / PresetHeight,
		}
	}
	return hand
}

// PointingLandmarks returns a hand with only the index finger extended and
// the thumb tucked: the drawing pose.
func PointingLandmarks() HandLandmarks {
	return fromPixels([NumLandmarks][2]float64{
		{200, 400},
		{240, 380}, {235, 360}, {225, 355}, {215, 360},
		{230, 300}, {232, 260}, {233, 235}, {234, 210},
		{200, 290}, {200, 260}, {200, 275}, {200, 295},
		{170, 300}, {170, 270}, {170, 285}, {170, 305},
		{145, 315}, {140, 290}, {142, 305}, {144, 325},
	})
}

// TwoFingerLandmarks returns a hand with index and middle fingers extended
// side by side.
func TwoFingerLandmarks() HandLandmarks {
	return fromPixels([NumLandmarks][2]float64{
		{200, 400},
		{240, 380}, {235, 360}, {225, 355}, {215, 360},
		{230, 300}, {232, 260}, {233, 235}, {234, 210},
		{200, 290}, {200, 250}, {201, 225}, {202, 200},
		{170, 300}, {170, 270}, {170, 285}, {170, 305},
		{145, 315}, {140, 290}, {142, 305}, {144, 325},
	})
}

// ThreeFingerLandmarks returns a hand with index, middle and ring fingers
// extended together and the pinky curled: the eraser pose.
func ThreeFingerLandmarks() HandLandmarks {
	return fromPixels([NumLandmarks][2]float64{
		{200, 400},
		{240, 380}, {235, 360}, {225, 355}, {215, 360},
		{230, 300}, {232, 260}, {233, 235}, {234, 210},
		{200, 290}, {200, 250}, {201, 225}, {202, 200},
		{170, 300}, {170, 260}, {171, 235}, {172, 210},
		{145, 315}, {140, 290}, {142, 305}, {144, 325},
	})
}

// HornsLandmarks returns a hand with index and pinky extended and the
// middle and ring fingers curled: the move pose.
func HornsLandmarks() HandLandmarks {
	return fromPixels([NumLandmarks][2]float64{
		{200, 400},
		{240, 380}, {235, 360}, {225, 355}, {215, 360},
		{230, 300}, {232, 260}, {233, 235}, {234, 210},
		{200, 290}, {200, 260}, {200, 275}, {200, 295},
		{170, 300}, {170, 270}, {170, 285}, {170, 305},
		{145, 315}, {138, 280}, {133, 258}, {128, 240},
	})
}

// OpenPalmLandmarks returns a hand with all fingers and the thumb extended.
func OpenPalmLandmarks() HandLandmarks {
	return fromPixels([NumLandmarks][2]float64{
		{200, 400},
		{240, 380}, {262, 355}, {280, 330}, {295, 305},
		{230, 300}, {232, 260}, {233, 235}, {234, 210},
		{200, 290}, {200, 250}, {201, 225}, {202, 200},
		{170, 300}, {170, 260}, {171, 235}, {172, 210},
		{145, 315}, {138, 280}, {133, 258}, {128, 240},
	})
}
