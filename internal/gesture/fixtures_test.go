package gesture

import (
	"github.com/ayusman/airdraw/internal/detector/landmark"
)

// Pixel hands in a 640x480 frame, wrist at the bottom, fingers pointing up.
// Each finger pose lists its PIP, DIP and tip; the MCP knuckles are fixed.

type point [2]int

type fingerPose [3]point

var (
	wrist = point{200, 400}

	knuckles = map[int]point{
		landmark.IndexMCP:  {230, 300},
		landmark.MiddleMCP: {200, 290},
		landmark.RingMCP:   {170, 300},
		landmark.PinkyMCP:  {145, 315},
	}

	thumbOut    = [4]point{{240, 380}, {262, 355}, {280, 330}, {295, 305}}
	thumbTucked = [4]point{{240, 380}, {235, 360}, {225, 355}, {215, 360}}

	indexUp        = fingerPose{{232, 260}, {233, 235}, {234, 210}}
	indexCurled    = fingerPose{{232, 270}, {230, 290}, {228, 310}}
	indexLeanRight = fingerPose{{240, 262}, {250, 240}, {260, 217}}
	indexTilted    = fingerPose{{235, 262}, {255, 247}, {275, 232}}

	middleUp       = fingerPose{{200, 250}, {201, 225}, {202, 200}}
	middleCurled   = fingerPose{{200, 260}, {200, 275}, {200, 295}}
	middleLeanLeft = fingerPose{{195, 250}, {185, 228}, {175, 205}}
	middleSideways = fingerPose{{190, 258}, {170, 255}, {150, 248}}

	ringUp     = fingerPose{{170, 260}, {171, 235}, {172, 210}}
	ringCurled = fingerPose{{170, 270}, {170, 285}, {170, 305}}

	pinkyUp     = fingerPose{{138, 280}, {133, 258}, {128, 240}}
	pinkyCurled = fingerPose{{140, 290}, {142, 305}, {144, 325}}
)

func buildHand(thumb [4]point, index, middle, ring, pinky fingerPose) landmark.LandmarkSet {
	pts := make([]point, landmark.NumLandmarks)
	pts[landmark.Wrist] = wrist
	copy(pts[landmark.ThumbCMC:], thumb[:])

	for mcp, pose := range map[int]fingerPose{
		landmark.IndexMCP:  index,
		landmark.MiddleMCP: middle,
		landmark.RingMCP:   ring,
		landmark.PinkyMCP:  pinky,
	} {
		pts[mcp] = knuckles[mcp]
		copy(pts[mcp+1:], pose[:])
	}

	set := make(landmark.LandmarkSet, landmark.NumLandmarks)
	for i, p := range pts {
		set[i] = landmark.Landmark{Index: i, X: p[0], Y: p[1]}
	}
	return set
}

// translate moves a whole hand so that its index tip lands on (x, y).
func translate(set landmark.LandmarkSet, x, y int) landmark.LandmarkSet {
	dx := x - set[landmark.IndexTip].X
	dy := y - set[landmark.IndexTip].Y

	out := make(landmark.LandmarkSet, len(set))
	for i, lm := range set {
		out[i] = landmark.Landmark{Index: lm.Index, X: lm.X + dx, Y: lm.Y + dy}
	}
	return out
}

func drawHand() landmark.LandmarkSet {
	return buildHand(thumbTucked, indexUp, middleCurled, ringCurled, pinkyCurled)
}

func shapeHand() landmark.LandmarkSet {
	return buildHand(thumbOut, indexUp, middleUp, ringCurled, pinkyCurled)
}

func screenshotHand() landmark.LandmarkSet {
	return buildHand(thumbTucked, indexUp, middleUp, ringCurled, pinkyCurled)
}

func hoverHand() landmark.LandmarkSet {
	return buildHand(thumbTucked, indexLeanRight, middleLeanLeft, ringCurled, pinkyCurled)
}

func eraseHand() landmark.LandmarkSet {
	return buildHand(thumbTucked, indexUp, middleUp, ringUp, pinkyCurled)
}

func moveHand() landmark.LandmarkSet {
	return buildHand(thumbTucked, indexUp, middleCurled, ringCurled, pinkyUp)
}

func mathHand() landmark.LandmarkSet {
	return buildHand(thumbTucked, indexUp, middleSideways, ringCurled, pinkyCurled)
}

func openPalm() landmark.LandmarkSet {
	return buildHand(thumbOut, indexUp, middleUp, ringUp, pinkyUp)
}

func fist() landmark.LandmarkSet {
	return buildHand(thumbTucked, indexCurled, middleCurled, ringCurled, pinkyCurled)
}
