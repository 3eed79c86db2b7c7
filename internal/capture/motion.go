package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	motionBlurSize      = 21
	motionDiffThreshold = 25
)

// DefaultMotionPercent is the share of changed pixels, in percent, that
// counts as movement in front of the camera.
const DefaultMotionPercent = 1.0

// MotionGate decides whether anything moved between consecutive frames.
// The pipeline uses it to drop to a low frame rate while nobody is in
// front of the camera, so the landmark service is not fed empty scenes.
type MotionGate struct {
	percent     float64
	prev        gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionGate creates a gate that opens when more than percent of the
// pixels change. Non-positive values use DefaultMotionPercent.
func NewMotionGate(percent float64) *MotionGate {
	if percent <= 0 {
		percent = DefaultMotionPercent
	}
	return &MotionGate{
		percent: percent,
		prev:    gocv.NewMat(),
	}
}

// Percent returns the trigger level.
func (g *MotionGate) Percent() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.percent
}

// Changed returns the percentage of pixels that differ from the previous
// frame after grayscale conversion and blurring. The first frame only sets
// the baseline and reports 0.
func (g *MotionGate) Changed(frame *gocv.Mat) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: motionBlurSize, Y: motionBlurSize}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prev)
		g.initialized = true
		return 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prev, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, motionDiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100

	blurred.CopyTo(&g.prev)
	return changed
}

// Open reports whether frame differs enough from the previous one.
func (g *MotionGate) Open(frame *gocv.Mat) bool {
	changed := g.Changed(frame)
	return changed > g.Percent()
}

// Reset drops the baseline frame.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.release()
}

// Close releases the baseline frame.
func (g *MotionGate) Close() {
	g.Reset()
}

func (g *MotionGate) release() {
	if !g.prev.Empty() {
		g.prev.Close()
		g.prev = gocv.NewMat()
	}
	g.initialized = false
}
