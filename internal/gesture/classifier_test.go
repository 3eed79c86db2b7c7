package gesture

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/airdraw/internal/detector/landmark"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name     string
		set      landmark.LandmarkSet
		expected Gesture
		rule     int
	}{
		{"index pointing", drawHand(), Draw, 0},
		{"index pointing with thumb out", buildHand(thumbOut, indexUp, middleCurled, ringCurled, pinkyCurled), Draw, 0},
		{"index middle and thumb", shapeHand(), ShapeLaunch, 1},
		{"index and middle together", screenshotHand(), Screenshot, 2},
		{"index and middle spread", hoverHand(), Hover, 3},
		{"three fingers", eraseHand(), Erase, 4},
		{"index and pinky", moveHand(), Move, 5},
		{"middle sideways", mathHand(), MathLaunch, 6},
		{"open palm falls through", openPalm(), Hover, FallbackRule},
		{"fist falls through", fist(), Hover, FallbackRule},
	}

	c := NewClassifier(DefaultThreshold)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := c.Explain(tt.set)
			if err != nil {
				t.Fatalf("Explain() error = %v", err)
			}
			if d.Gesture != tt.expected {
				t.Errorf("gesture = %s, want %s", d.Gesture, tt.expected)
			}
			if d.Rule != tt.rule {
				t.Errorf("rule = %d, want %d", d.Rule, tt.rule)
			}

			g, err := c.Classify(tt.set)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if g != d.Gesture {
				t.Errorf("Classify() = %s, Explain() = %s", g, d.Gesture)
			}
		})
	}
}

func TestClassifier_DrawWithFingersAntiParallel(t *testing.T) {
	// Index straight up, every other finger folded straight down.
	set := buildHand(thumbTucked,
		fingerPose{{230, 270}, {230, 250}, {230, 230}},
		fingerPose{{200, 270}, {200, 290}, {200, 310}},
		fingerPose{{170, 280}, {170, 300}, {170, 320}},
		fingerPose{{145, 295}, {145, 315}, {145, 335}},
	)

	got, err := NewClassifier(DefaultThreshold).Classify(set)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != Draw {
		t.Errorf("got %s, want %s", got, Draw)
	}
}

func TestClassifier_ThresholdSensitivity(t *testing.T) {
	set := buildHand(thumbTucked, indexTilted, middleCurled, ringCurled, pinkyCurled)

	loose, err := NewClassifier(DefaultThreshold).Classify(set)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	strict, err := NewClassifier(PreviewThreshold).Classify(set)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if loose != Draw {
		t.Errorf("at %.2f got %s, want %s", DefaultThreshold, loose, Draw)
	}
	if strict != Hover {
		t.Errorf("at %.2f got %s, want %s", PreviewThreshold, strict, Hover)
	}
}

func TestClassifier_ResultIsKnownAndIdempotent(t *testing.T) {
	c := NewClassifier(DefaultThreshold)
	hands := []landmark.LandmarkSet{
		drawHand(), shapeHand(), screenshotHand(), hoverHand(),
		eraseHand(), moveHand(), mathHand(), openPalm(), fist(),
		translate(moveHand(), 10, 10),
	}

	for i, set := range hands {
		first, err := c.Classify(set)
		if err != nil {
			t.Fatalf("hand %d: Classify() error = %v", i, err)
		}
		if !first.Valid() {
			t.Errorf("hand %d: %q is not a known gesture", i, first)
		}
		for n := 0; n < 3; n++ {
			again, _ := c.Classify(set)
			if again != first {
				t.Errorf("hand %d: run %d returned %s, first run %s", i, n, again, first)
			}
		}
	}
}

func TestClassifier_TranslationInvariant(t *testing.T) {
	c := NewClassifier(DefaultThreshold)

	for _, set := range []landmark.LandmarkSet{drawHand(), eraseHand(), moveHand()} {
		want, _ := c.Classify(set)
		got, _ := c.Classify(translate(set, 50, 50))
		if got != want {
			t.Errorf("translated hand classified as %s, want %s", got, want)
		}
	}
}

func TestClassifier_ZeroLengthVector(t *testing.T) {
	set := drawHand()
	set[landmark.IndexTip].X = set[landmark.IndexPIP].X
	set[landmark.IndexTip].Y = set[landmark.IndexPIP].Y

	c := NewClassifier(DefaultThreshold)

	t.Run("falls through to hover", func(t *testing.T) {
		d, err := c.Explain(set)
		if err != nil {
			t.Fatalf("Explain() error = %v", err)
		}
		if d.Gesture != Hover || d.Rule != FallbackRule {
			t.Errorf("got %s via rule %d, want fallback %s", d.Gesture, d.Rule, Hover)
		}
		if d.Angles.PalmIndex.Defined {
			t.Error("palm-index similarity should be undefined")
		}
	})

	t.Run("debug reports undefined angle", func(t *testing.T) {
		_, err := c.Debug(set)
		if !errors.Is(err, ErrUndefinedAngle) {
			t.Errorf("Debug() error = %v, want %v", err, ErrUndefinedAngle)
		}
	})
}

func TestClassifier_Debug(t *testing.T) {
	c := NewClassifier(DefaultThreshold)

	got, err := c.Debug(drawHand())
	if err != nil {
		t.Fatalf("Debug() error = %v", err)
	}

	// index (2,-50) against palm (30,-100)
	want := (2.0*30 + 50*100) / (math.Hypot(2, 50) * math.Hypot(30, 100))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Debug() = %f, want %f", got, want)
	}
	if got < 0.96 || got > 0.98 {
		t.Errorf("Debug() = %f, expected about 0.969", got)
	}
}

func TestValidate(t *testing.T) {
	t.Run("too few landmarks", func(t *testing.T) {
		set := drawHand()[:20]

		_, err := NewClassifier(DefaultThreshold).Classify(set)
		if !errors.Is(err, ErrInsufficientLandmarks) {
			t.Fatalf("expected ErrInsufficientLandmarks, got %v", err)
		}

		var lerr *LandmarkError
		if !errors.As(err, &lerr) {
			t.Fatalf("expected *LandmarkError, got %T", err)
		}
		if lerr.Count != 20 {
			t.Errorf("Count = %d, want 20", lerr.Count)
		}
	})

	t.Run("too many landmarks", func(t *testing.T) {
		set := append(drawHand(), landmark.Landmark{Index: 21})
		if err := Validate(set); !errors.Is(err, ErrInsufficientLandmarks) {
			t.Errorf("expected ErrInsufficientLandmarks, got %v", err)
		}
	})

	t.Run("out of order", func(t *testing.T) {
		set := drawHand()
		set[3], set[4] = set[4], set[3]

		_, err := NewClassifier(DefaultThreshold).Debug(set)
		if !errors.Is(err, ErrLandmarkOrder) {
			t.Fatalf("expected ErrLandmarkOrder, got %v", err)
		}

		var lerr *LandmarkError
		if errors.As(err, &lerr) && lerr.Position != 3 {
			t.Errorf("Position = %d, want 3", lerr.Position)
		}
	})

	t.Run("valid", func(t *testing.T) {
		if err := Validate(drawHand()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name    string
		u, v    Vector
		value   float64
		defined bool
	}{
		{"parallel", Vector{0, -10}, Vector{0, -3}, 1, true},
		{"anti-parallel", Vector{1, 0}, Vector{-4, 0}, -1, true},
		{"orthogonal", Vector{1, 0}, Vector{0, 5}, 0, true},
		{"zero operand", Vector{0, 0}, Vector{1, 1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Cosine(tt.u, tt.v)
			if s.Defined != tt.defined {
				t.Fatalf("Defined = %v, want %v", s.Defined, tt.defined)
			}
			if math.Abs(s.Value-tt.value) > 1e-9 {
				t.Errorf("Value = %f, want %f", s.Value, tt.value)
			}
		})
	}
}

func TestSimilarity_UndefinedComparesFalse(t *testing.T) {
	var s Similarity
	if s.Above(-2) || s.Below(2) {
		t.Error("undefined similarity must fail every comparison")
	}

	data, err := s.MarshalJSON()
	if err != nil || string(data) != "null" {
		t.Errorf("MarshalJSON() = %s, %v; want null", data, err)
	}
}

func TestParse(t *testing.T) {
	for _, g := range All() {
		got, err := Parse(string(g))
		if err != nil || got != g {
			t.Errorf("Parse(%q) = %q, %v", g, got, err)
		}
	}
	if _, err := Parse("draw"); err == nil {
		t.Error("expected error for lowercase label")
	}
}

func TestRules_OrderAndCopy(t *testing.T) {
	want := []Gesture{Draw, ShapeLaunch, Screenshot, Hover, Erase, Move, MathLaunch}

	got := Rules()
	if len(got) != len(want) {
		t.Fatalf("got %d rules, want %d", len(got), len(want))
	}
	for i, r := range got {
		if r.Gesture != want[i] {
			t.Errorf("rule %d = %s, want %s", i, r.Gesture, want[i])
		}
	}

	// Changing the returned slice must not change classification.
	got[0] = Rule{Gesture: Erase, Match: func(Angles, float64) bool { return true }}
	got[1], got[2] = got[2], got[1]

	d, err := NewClassifier(DefaultThreshold).Explain(drawHand())
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if d.Gesture != Draw || d.Rule != 0 {
		t.Errorf("decision = %s rule %d, want DRAW rule 0", d.Gesture, d.Rule)
	}
	if len(Rules()) != len(want) {
		t.Errorf("rule table length changed to %d", len(Rules()))
	}
}
