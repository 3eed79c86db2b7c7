// Package gesture classifies a single hand pose into an interaction mode and
// tracks the per-hand state needed to enrich each classification.
package gesture

import (
	"errors"
	"fmt"
)

// Gesture is the interaction mode recognised from a hand pose.
type Gesture string

const (
	Draw        Gesture = "DRAW"
	ShapeLaunch Gesture = "SHAPE_LAUNCH"
	Screenshot  Gesture = "SCREENSHOT"
	Hover       Gesture = "HOVER"
	Erase       Gesture = "ERASE"
	Move        Gesture = "MOVE"
	MathLaunch  Gesture = "MATH_LAUNCH"
)

// All returns every gesture in declaration order.
func All() []Gesture {
	return []Gesture{Draw, ShapeLaunch, Screenshot, Hover, Erase, Move, MathLaunch}
}

// Valid reports whether g is one of the known gestures.
func (g Gesture) Valid() bool {
	for _, known := range All() {
		if g == known {
			return true
		}
	}
	return false
}

// Parse converts a label such as "ERASE" into a Gesture.
func Parse(label string) (Gesture, error) {
	g := Gesture(label)
	if !g.Valid() {
		return "", fmt.Errorf("unknown gesture %q", label)
	}
	return g, nil
}

var (
	// ErrInsufficientLandmarks is returned when a set does not hold exactly
	// 21 landmarks.
	ErrInsufficientLandmarks = errors.New("landmark set must contain 21 landmarks")

	// ErrLandmarkOrder is returned when set[i] is not landmark i.
	ErrLandmarkOrder = errors.New("landmarks out of anatomical order")

	// ErrUndefinedAngle is returned by Debug when a vector has zero length.
	ErrUndefinedAngle = errors.New("angle undefined for zero-length vector")
)

// LandmarkError describes a rejected landmark set.
type LandmarkError struct {
	Count    int // number of landmarks received
	Position int // first out-of-order position, or -1
	Err      error
}

func (e *LandmarkError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%v: position %d", e.Err, e.Position)
	}
	return fmt.Sprintf("%v: got %d", e.Err, e.Count)
}

func (e *LandmarkError) Unwrap() error {
	return e.Err
}
