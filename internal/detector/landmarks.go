// Package detector provides the hand-landmark boundary: the detector
// interface, the MediaPipe service and a scriptable mock.
package detector

import "github.com/ayusman/airdraw/internal/detector/landmark"

// Landmark types live in the cgo-free landmark package and are re-exported
// here for callers that already work with detectors.
type (
	Point3D       = landmark.Point3D
	HandLandmarks = landmark.HandLandmarks
	Landmark      = landmark.Landmark
	LandmarkSet   = landmark.LandmarkSet
)

// Hand landmark indices following MediaPipe convention.
const (
	Wrist        = landmark.Wrist
	ThumbCMC     = landmark.ThumbCMC
	ThumbMCP     = landmark.ThumbMCP
	ThumbIP      = landmark.ThumbIP
	ThumbTip     = landmark.ThumbTip
	IndexMCP     = landmark.IndexMCP
	IndexPIP     = landmark.IndexPIP
	IndexDIP     = landmark.IndexDIP
	IndexTip     = landmark.IndexTip
	MiddleMCP    = landmark.MiddleMCP
	MiddlePIP    = landmark.MiddlePIP
	MiddleDIP    = landmark.MiddleDIP
	MiddleTip    = landmark.MiddleTip
	RingMCP      = landmark.RingMCP
	RingPIP      = landmark.RingPIP
	RingDIP      = landmark.RingDIP
	RingTip      = landmark.RingTip
	PinkyMCP     = landmark.PinkyMCP
	PinkyPIP     = landmark.PinkyPIP
	PinkyDIP     = landmark.PinkyDIP
	PinkyTip     = landmark.PinkyTip
	NumLandmarks = landmark.NumLandmarks
)

// ToLandmarkSet converts normalized detector output to pixel landmarks.
func ToLandmarkSet(hand *HandLandmarks, width, height int) LandmarkSet {
	return landmark.ToLandmarkSet(hand, width, height)
}
