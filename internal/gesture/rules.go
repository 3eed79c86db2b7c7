package gesture

import "slices"

// Rule maps a condition over the hand angles to a gesture.
type Rule struct {
	Gesture Gesture
	Match   func(a Angles, threshold float64) bool
}

// rules is evaluated in order and the first match wins. A hand matching
// none of them is classified as Hover.
//
// Several rules overlap; the order decides. Hover appears both as rule 4
// and as the fallback.
var rules = []Rule{
	{
		Gesture: Draw,
		Match: func(a Angles, t float64) bool {
			return a.PalmIndex.Above(t) &&
				a.IndexMiddle.Below(0) &&
				a.IndexRing.Below(0) &&
				a.IndexPinky.Below(0)
		},
	},
	{
		Gesture: ShapeLaunch,
		Match: func(a Angles, t float64) bool {
			return a.PalmIndex.Above(t) &&
				a.PalmThumb.Above(t) &&
				a.PalmMiddle.Above(t) &&
				a.PalmRing.Below(0) &&
				a.PalmPinky.Below(0)
		},
	},
	{
		Gesture: Screenshot,
		Match: func(a Angles, t float64) bool {
			return a.PalmIndex.Above(t) &&
				a.IndexMiddle.Above(0.80) &&
				a.IndexRing.Below(0) &&
				a.IndexPinky.Below(0)
		},
	},
	{
		Gesture: Hover,
		Match: func(a Angles, t float64) bool {
			return a.PalmIndex.Above(t) &&
				a.PalmMiddle.Above(t) &&
				a.IndexRing.Below(0) &&
				a.IndexPinky.Below(0)
		},
	},
	{
		Gesture: Erase,
		Match: func(a Angles, t float64) bool {
			return a.PalmIndex.Above(t) &&
				a.IndexMiddle.Above(0.90) &&
				a.IndexRing.Above(0.90) &&
				a.PalmPinky.Below(0)
		},
	},
	{
		Gesture: Move,
		Match: func(a Angles, t float64) bool {
			return a.PalmIndex.Above(t) &&
				a.PalmPinky.Above(t) &&
				a.IndexMiddle.Below(0) &&
				a.IndexRing.Below(0)
		},
	},
	{
		Gesture: MathLaunch,
		Match: func(a Angles, t float64) bool {
			return a.PalmIndex.Above(t) &&
				a.IndexMiddle.Above(0) &&
				a.IndexRing.Below(0) &&
				a.IndexPinky.Below(0)
		},
	},
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []Rule {
	return slices.Clone(rules)
}
