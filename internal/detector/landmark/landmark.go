// Package landmark holds the MediaPipe-indexed hand landmark types and the
// conversion of normalized detector output into pixel landmarks. It has no
// cgo dependencies so the gesture core builds without OpenCV.
package landmark

import (
	"encoding/json"
	"fmt"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a normalized detector coordinate. X and Y are in [0,1]
// relative to the frame; Z is relative depth and is not used downstream.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Landmark is one keypoint in pixel coordinates.
// It encodes to JSON as the array [index, x, y].
type Landmark struct {
	Index int
	X     int
	Y     int
}

// MarshalJSON implements json.Marshaler.
func (l Landmark) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{l.Index, l.X, l.Y})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Landmark) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) != 3 {
		return fmt.Errorf("landmark: expected [index, x, y], got %d values", len(v))
	}
	l.Index, l.X, l.Y = v[0], v[1], v[2]
	return nil
}

// LandmarkSet is one hand in one frame, ordered by landmark index.
// A complete set has NumLandmarks entries; an empty set means no hand.
type LandmarkSet []Landmark

// Empty reports whether the set signals that no hand was detected.
func (s LandmarkSet) Empty() bool {
	return len(s) == 0
}

// ToLandmarkSet converts normalized detector output to pixel landmarks for a
// frame of the given size. Coordinates are truncated, not rounded.
func ToLandmarkSet(hand *HandLandmarks, width, height int) LandmarkSet {
	if hand == nil {
		return nil
	}

	set := make(LandmarkSet, NumLandmarks)
	for i, p := range hand.Points {
		set[i] = Landmark{
			Index: i,
			X:     int(p.X * float64(width)),
			Y:     int(p.Y * float64(height)),
		}
	}
	return set
}
