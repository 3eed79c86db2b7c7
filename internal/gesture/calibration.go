package gesture

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Calibration sample labels.
const (
	LabelExtended = "extended"
	LabelCurled   = "curled"
)

// MinCalibrationSamples is the number of samples needed per label.
const MinCalibrationSamples = 2

// ErrInseparable is returned when extended samples do not score above
// curled ones on average.
var ErrInseparable = errors.New("extended and curled samples are not separable")

// ErrTooFewSamples is returned when a label has fewer than
// MinCalibrationSamples samples.
var ErrTooFewSamples = errors.New("too few calibration samples")

// SampleSummary describes the Debug values recorded for one label.
type SampleSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Calibration is a threshold recommendation.
type Calibration struct {
	Threshold float64       `json:"threshold"`
	Extended  SampleSummary `json:"extended"`
	Curled    SampleSummary `json:"curled"`
}

// Calibrate recommends a threshold from Debug values recorded with the
// index finger extended and curled. The threshold sits halfway between
// two standard deviations below the extended mean and two above the
// curled mean, clamped to [0, 0.99].
func Calibrate(extended, curled []float64) (Calibration, error) {
	if len(extended) < MinCalibrationSamples {
		return Calibration{}, fmt.Errorf("%w: need %d %s, got %d", ErrTooFewSamples, MinCalibrationSamples, LabelExtended, len(extended))
	}
	if len(curled) < MinCalibrationSamples {
		return Calibration{}, fmt.Errorf("%w: need %d %s, got %d", ErrTooFewSamples, MinCalibrationSamples, LabelCurled, len(curled))
	}

	e := summarize(extended)
	c := summarize(curled)
	if e.Mean <= c.Mean {
		return Calibration{}, ErrInseparable
	}

	t := ((e.Mean - 2*e.StdDev) + (c.Mean + 2*c.StdDev)) / 2
	switch {
	case t < 0:
		t = 0
	case t > 0.99:
		t = 0.99
	}

	return Calibration{Threshold: t, Extended: e, Curled: c}, nil
}

func summarize(values []float64) SampleSummary {
	mean, std := stat.MeanStdDev(values, nil)
	return SampleSummary{Count: len(values), Mean: mean, StdDev: std}
}
