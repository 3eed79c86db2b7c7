package tracker

import (
	"errors"
	"testing"

	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/gesture"
)

func pointingSet() detector.LandmarkSet {
	hand := detector.PointingLandmarks()
	return detector.ToLandmarkSet(&hand, detector.PresetWidth, detector.PresetHeight)
}

func hornsAt(x, y int) detector.LandmarkSet {
	hand := detector.HornsLandmarks()
	set := detector.ToLandmarkSet(&hand, detector.PresetWidth, detector.PresetHeight)
	dx := x - set[detector.IndexTip].X
	dy := y - set[detector.IndexTip].Y
	for i := range set {
		set[i].X += dx
		set[i].Y += dy
	}
	return set
}

func TestTracker_Process(t *testing.T) {
	tr := New(DefaultConfig())

	frame, err := tr.Process(pointingSet())
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if frame.Event == nil || frame.Event.Gesture != gesture.Draw {
		t.Fatalf("expected DRAW event, got %+v", frame.Event)
	}
	if frame.Cursor == nil {
		t.Fatal("expected a cursor")
	}
	if frame.Cursor.X != 0 || frame.Cursor.Y != 0 {
		t.Errorf("first cursor = %+v, want origin", *frame.Cursor)
	}
}

func TestTracker_CursorSettles(t *testing.T) {
	tr := New(DefaultConfig())
	set := pointingSet()
	tip := set[detector.IndexTip]

	var frame Frame
	for i := 0; i < 60; i++ {
		var err error
		frame, err = tr.Process(set)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
	}

	dx := frame.Cursor.X - tip.X
	dy := frame.Cursor.Y - tip.Y
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		t.Errorf("cursor %+v not within 1px of tip (%d, %d)", *frame.Cursor, tip.X, tip.Y)
	}
}

func TestTracker_EmptyFrameSkipsFilter(t *testing.T) {
	tr := New(DefaultConfig())

	tr.Process(pointingSet())
	steps := tr.filter.Steps()

	frame, err := tr.Process(nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !frame.Empty() {
		t.Errorf("expected empty frame, got %+v", frame)
	}
	if tr.filter.Steps() != steps {
		t.Errorf("filter advanced on an empty frame: %d -> %d", steps, tr.filter.Steps())
	}
}

func TestTracker_HandLoss(t *testing.T) {
	tests := []struct {
		name  string
		reset bool
		want  gesture.Shift
	}{
		{"carries previous position over", false, gesture.Shift{Row: 30, Col: 40}},
		{"resets when configured", true, gesture.Shift{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ResetOnHandLoss = tt.reset
			tr := New(cfg)

			if _, err := tr.Process(hornsAt(100, 100)); err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			tr.Process(nil)

			frame, err := tr.Process(hornsAt(140, 130))
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if frame.Event.Gesture != gesture.Move {
				t.Fatalf("gesture = %s, want %s", frame.Event.Gesture, gesture.Move)
			}
			if *frame.Event.Shift != tt.want {
				t.Errorf("shift = %+v, want %+v", *frame.Event.Shift, tt.want)
			}
		})
	}
}

func TestTracker_RejectedFrame(t *testing.T) {
	tr := New(DefaultConfig())

	_, err := tr.Process(pointingSet()[:10])
	if !errors.Is(err, gesture.ErrInsufficientLandmarks) {
		t.Fatalf("expected ErrInsufficientLandmarks, got %v", err)
	}
	if tr.filter.Steps() != 0 {
		t.Error("filter must not advance on a rejected frame")
	}
}

func TestTracker_Threshold(t *testing.T) {
	tr := New(DefaultConfig())

	if tr.Threshold() != gesture.DefaultThreshold {
		t.Errorf("threshold = %f, want %f", tr.Threshold(), gesture.DefaultThreshold)
	}

	tr.SetThreshold(gesture.PreviewThreshold)
	if tr.Threshold() != gesture.PreviewThreshold {
		t.Errorf("threshold = %f, want %f", tr.Threshold(), gesture.PreviewThreshold)
	}

	v, err := tr.Debug(pointingSet())
	if err != nil {
		t.Fatalf("Debug() error = %v", err)
	}
	if v < 0.9 {
		t.Errorf("Debug() = %f, expected a straight index finger", v)
	}
}
