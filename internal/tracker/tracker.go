// Package tracker combines a gesture session and a position filter for one
// hand and turns landmark frames into events and a smoothed cursor.
package tracker

import (
	"github.com/ayusman/airdraw/internal/detector/landmark"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/smoothing"
)

// Frame is the output for one video frame. Both fields are nil when no hand
// was seen.
type Frame struct {
	Event  *gesture.Event   `json:"event"`
	Cursor *smoothing.Point `json:"cursor"`
}

// Empty reports whether the frame carries no hand.
func (f Frame) Empty() bool {
	return f.Event == nil && f.Cursor == nil
}

// Config controls a Tracker.
type Config struct {
	Threshold       float64
	Filter          smoothing.Config
	ResetOnHandLoss bool
}

// DefaultConfig returns the settings used for live drawing.
func DefaultConfig() Config {
	return Config{
		Threshold: gesture.DefaultThreshold,
		Filter:    smoothing.DefaultConfig(),
	}
}

// Tracker owns the per-hand state. It is not safe for concurrent use; the
// capture loop is its only caller.
type Tracker struct {
	session         *gesture.Session
	filter          *smoothing.PositionFilter
	resetOnHandLoss bool
}

// New creates a Tracker.
func New(cfg Config) *Tracker {
	return &Tracker{
		session:         gesture.NewSession(gesture.NewClassifier(cfg.Threshold)),
		filter:          smoothing.New(cfg.Filter),
		resetOnHandLoss: cfg.ResetOnHandLoss,
	}
}

// Process handles one frame of landmarks. When the set is empty the filter
// is not updated. When the set is rejected the error is returned and
// neither the session nor the filter changes.
func (t *Tracker) Process(set landmark.LandmarkSet) (Frame, error) {
	if set.Empty() {
		if t.resetOnHandLoss {
			t.session.Reset()
		}
		return Frame{}, nil
	}

	ev, err := t.session.Process(set)
	if err != nil {
		return Frame{}, err
	}

	tip := set[landmark.IndexTip]
	x, y := t.filter.Predict(float64(tip.X), float64(tip.Y))

	return Frame{
		Event:  ev,
		Cursor: &smoothing.Point{X: x, Y: y},
	}, nil
}

// Debug returns the calibration value for a frame.
func (t *Tracker) Debug(set landmark.LandmarkSet) (float64, error) {
	return t.session.Classifier().Debug(set)
}

// Threshold returns the current extension threshold.
func (t *Tracker) Threshold() float64 {
	return t.session.Classifier().Threshold()
}

// SetThreshold changes the extension threshold for subsequent frames.
func (t *Tracker) SetThreshold(threshold float64) {
	t.session.SetThreshold(threshold)
}

// SetResetOnHandLoss controls whether a frame without a hand clears the
// previous fingertip position.
func (t *Tracker) SetResetOnHandLoss(reset bool) {
	t.resetOnHandLoss = reset
}

// ResetOnHandLoss reports the hand-loss policy.
func (t *Tracker) ResetOnHandLoss() bool {
	return t.resetOnHandLoss
}

// Reset clears the session state. The filter keeps its estimate.
func (t *Tracker) Reset() {
	t.session.Reset()
}
