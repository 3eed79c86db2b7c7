package gesture

import (
	"encoding/json"
	"fmt"

	"github.com/ayusman/airdraw/internal/detector/landmark"
)

// Position is a pixel position in image (row, col) order.
type Position struct {
	Row int
	Col int
}

// Shift is the index fingertip displacement since the previous frame, in
// (Δrow, Δcol) order. It encodes to JSON as [row, col].
type Shift struct {
	Row int
	Col int
}

// MarshalJSON implements json.Marshaler.
func (s Shift) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Row, s.Col})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Shift) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) != 2 {
		return fmt.Errorf("shift: expected [row, col], got %d values", len(v))
	}
	s.Row, s.Col = v[0], v[1]
	return nil
}

// Event is the enriched result of one processed frame.
// Optional fields are set only for the gestures that use them:
// Erase carries the middle tip and its radius, Move the pinky tip, its
// radius and the shift.
type Event struct {
	Gesture  Gesture           `json:"gesture"`
	IndexTip landmark.Landmark `json:"idx_fing_tip"`

	MiddleTip         *landmark.Landmark `json:"mid_fing_tip,omitempty"`
	IndexMiddleRadius *float64           `json:"idx_mid_radius,omitempty"`

	PinkyTip         *landmark.Landmark `json:"pinky_fing_tip,omitempty"`
	IndexPinkyRadius *float64           `json:"idx_pinky_radius,omitempty"`
	Shift            *Shift             `json:"shift,omitempty"`
}

// Session classifies successive frames of one hand and remembers the
// previous index fingertip. It is not safe for concurrent use.
type Session struct {
	classifier *Classifier
	previous   *Position
}

// NewSession creates a session. A nil classifier uses DefaultThreshold.
func NewSession(c *Classifier) *Session {
	if c == nil {
		c = NewClassifier(DefaultThreshold)
	}
	return &Session{classifier: c}
}

// Classifier returns the classifier in use.
func (s *Session) Classifier() *Classifier {
	return s.classifier
}

// SetThreshold swaps in a classifier with a new threshold. The previous
// position is kept.
func (s *Session) SetThreshold(threshold float64) {
	s.classifier = NewClassifier(threshold)
}

// Previous returns the last recorded index fingertip, if any.
func (s *Session) Previous() (Position, bool) {
	if s.previous == nil {
		return Position{}, false
	}
	return *s.previous, true
}

// Reset forgets the previous position so the next Move starts from a zero
// shift.
func (s *Session) Reset() {
	s.previous = nil
}

// Process classifies one frame. An empty set means no hand: it returns a
// nil event and leaves the session untouched, so the previous position
// carries over the gap.
func (s *Session) Process(set landmark.LandmarkSet) (*Event, error) {
	if set.Empty() {
		return nil, nil
	}

	g, err := s.classifier.Classify(set)
	if err != nil {
		return nil, err
	}

	index := set[landmark.IndexTip]
	current := Position{Row: index.Y, Col: index.X}

	ev := &Event{
		Gesture:  g,
		IndexTip: index,
	}

	switch g {
	case Erase:
		middle := set[landmark.MiddleTip]
		radius := Distance(index, middle)
		ev.MiddleTip = &middle
		ev.IndexMiddleRadius = &radius

	case Move:
		pinky := set[landmark.PinkyTip]
		radius := Distance(index, pinky)
		ev.PinkyTip = &pinky
		ev.IndexPinkyRadius = &radius

		prev := current
		if s.previous != nil {
			prev = *s.previous
		}
		ev.Shift = &Shift{
			Row: current.Row - prev.Row,
			Col: current.Col - prev.Col,
		}
	}

	s.previous = &current
	return ev, nil
}
