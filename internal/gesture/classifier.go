package gesture

import (
	"github.com/ayusman/airdraw/internal/detector/landmark"
)

const (
	// DefaultThreshold is the extension threshold used while drawing.
	DefaultThreshold = 0.70

	// PreviewThreshold is the stricter threshold used by the preview tool.
	PreviewThreshold = 0.90
)

// FallbackRule is the rule index reported when no rule matched.
const FallbackRule = -1

// Angles holds the cosine similarities the rules are written against.
// Palm* compare a wrist-to-knuckle vector with the matching finger's
// extension vector; Index* compare the index extension with another finger.
type Angles struct {
	PalmIndex  Similarity `json:"palm_index"`
	PalmMiddle Similarity `json:"palm_middle"`
	PalmRing   Similarity `json:"palm_ring"`
	PalmPinky  Similarity `json:"palm_pinky"`
	PalmThumb  Similarity `json:"palm_thumb"`

	IndexMiddle Similarity `json:"index_middle"`
	IndexRing   Similarity `json:"index_ring"`
	IndexPinky  Similarity `json:"index_pinky"`
}

// Measure computes the angles for a validated landmark set.
func Measure(set landmark.LandmarkSet) Angles {
	wrist := set[landmark.Wrist]

	palmIndex := Between(wrist, set[landmark.IndexMCP])
	palmMiddle := Between(wrist, set[landmark.MiddleMCP])
	palmRing := Between(wrist, set[landmark.RingMCP])
	palmPinky := Between(wrist, set[landmark.PinkyMCP])
	palmThumb := Between(wrist, set[landmark.ThumbTip])

	index := Between(set[landmark.IndexPIP], set[landmark.IndexTip])
	middle := Between(set[landmark.MiddlePIP], set[landmark.MiddleTip])
	ring := Between(set[landmark.RingPIP], set[landmark.RingTip])
	pinky := Between(set[landmark.PinkyPIP], set[landmark.PinkyTip])
	thumb := Between(set[landmark.ThumbCMC], set[landmark.ThumbTip])

	return Angles{
		PalmIndex:   Cosine(palmIndex, index),
		PalmMiddle:  Cosine(palmMiddle, middle),
		PalmRing:    Cosine(palmRing, ring),
		PalmPinky:   Cosine(palmPinky, pinky),
		PalmThumb:   Cosine(palmThumb, thumb),
		IndexMiddle: Cosine(index, middle),
		IndexRing:   Cosine(index, ring),
		IndexPinky:  Cosine(index, pinky),
	}
}

// Decision is a classification with the evidence that produced it.
type Decision struct {
	Gesture Gesture `json:"gesture"`
	Rule    int     `json:"rule"` // index into Rules(), or FallbackRule
	Angles  Angles  `json:"angles"`
}

// Classifier labels landmark sets. It holds no per-frame state and is safe
// to share between goroutines.
type Classifier struct {
	threshold float64
}

// NewClassifier creates a classifier using threshold for the finger
// extension checks.
func NewClassifier(threshold float64) *Classifier {
	return &Classifier{threshold: threshold}
}

// Threshold returns the extension threshold.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Classify returns the gesture for a hand.
func (c *Classifier) Classify(set landmark.LandmarkSet) (Gesture, error) {
	d, err := c.Explain(set)
	if err != nil {
		return "", err
	}
	return d.Gesture, nil
}

// Explain classifies a hand and reports which rule matched.
func (c *Classifier) Explain(set landmark.LandmarkSet) (Decision, error) {
	if err := Validate(set); err != nil {
		return Decision{}, err
	}

	angles := Measure(set)
	for i, rule := range rules {
		if rule.Match(angles, c.threshold) {
			return Decision{Gesture: rule.Gesture, Rule: i, Angles: angles}, nil
		}
	}
	return Decision{Gesture: Hover, Rule: FallbackRule, Angles: angles}, nil
}

// Debug returns the similarity between the index finger and its palm
// vector, the quantity compared against the threshold. It is used to tune
// the threshold for a camera setup.
func (c *Classifier) Debug(set landmark.LandmarkSet) (float64, error) {
	if err := Validate(set); err != nil {
		return 0, err
	}

	s := Measure(set).PalmIndex
	if !s.Defined {
		return 0, ErrUndefinedAngle
	}
	return s.Value, nil
}

// Validate checks that set holds exactly 21 landmarks in index order.
func Validate(set landmark.LandmarkSet) error {
	if len(set) != landmark.NumLandmarks {
		return &LandmarkError{Count: len(set), Position: -1, Err: ErrInsufficientLandmarks}
	}
	for i, lm := range set {
		if lm.Index != i {
			return &LandmarkError{Count: len(set), Position: i, Err: ErrLandmarkOrder}
		}
	}
	return nil
}
