// Package smoothing stabilizes a noisy stream of 2D points with a
// constant-velocity Kalman filter.
package smoothing

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

const (
	stateDim       = 4 // x, y, vx, vy
	measurementDim = 2 // x, y
)

// Config holds the filter noise parameters.
type Config struct {
	// ProcessNoise is the diagonal of the process noise covariance Q.
	ProcessNoise float64 `json:"process_noise"`

	// MeasurementNoise is the diagonal of the measurement noise covariance R.
	MeasurementNoise float64 `json:"measurement_noise"`
}

// DefaultConfig returns the tuning used for fingertip tracking.
func DefaultConfig() Config {
	return Config{
		ProcessNoise:     0.03,
		MeasurementNoise: 1,
	}
}

// Validate checks that both noise terms are usable.
func (c Config) Validate() error {
	if c.ProcessNoise < 0 {
		return errors.New("process noise must not be negative")
	}
	if c.MeasurementNoise <= 0 {
		return errors.New("measurement noise must be positive")
	}
	return nil
}

// Point is a smoothed pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PositionFilter is a linear Kalman filter over the state (x, y, vx, vy)
// with a constant-velocity transition and a position-only measurement.
//
// State and covariances start at zero, so the first output is (0, 0) and
// the estimate settles over the following frames. A PositionFilter is not
// safe for concurrent use; give every tracked point its own instance.
type PositionFilter struct {
	config Config

	transition       *mat.Dense // F
	measurement      *mat.Dense // H
	processNoise     *mat.Dense // Q
	measurementNoise *mat.Dense // R

	statePre  *mat.VecDense // predicted state x'(k)
	statePost *mat.VecDense // corrected state x(k)
	covPre    *mat.Dense    // predicted error covariance P'(k)
	covPost   *mat.Dense    // corrected error covariance P(k)

	steps int
}

// New creates a PositionFilter. It falls back to DefaultConfig when cfg
// does not validate.
func New(cfg Config) *PositionFilter {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}

	f := &PositionFilter{
		config: cfg,
		transition: mat.NewDense(stateDim, stateDim, []float64{
			1, 0, 1, 0,
			0, 1, 0, 1,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}),
		measurement: mat.NewDense(measurementDim, stateDim, []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
		}),
		processNoise:     scaledIdentity(stateDim, cfg.ProcessNoise),
		measurementNoise: scaledIdentity(measurementDim, cfg.MeasurementNoise),
		statePre:         mat.NewVecDense(stateDim, nil),
		statePost:        mat.NewVecDense(stateDim, nil),
		covPre:           mat.NewDense(stateDim, stateDim, nil),
		covPost:          mat.NewDense(stateDim, stateDim, nil),
	}
	return f
}

// Config returns the noise parameters the filter was built with.
func (f *PositionFilter) Config() Config {
	return f.config
}

// Steps returns how many measurements the filter has consumed.
func (f *PositionFilter) Steps() int {
	return f.steps
}

// Predict corrects the filter with the raw measurement (x, y), advances it
// one step and returns the predicted position truncated to integers.
func (f *PositionFilter) Predict(x, y float64) (int, int) {
	f.correct(x, y)
	f.predict()
	f.steps++
	return int(f.statePre.AtVec(0)), int(f.statePre.AtVec(1))
}

// Velocity returns the current predicted velocity in pixels per frame.
func (f *PositionFilter) Velocity() (vx, vy float64) {
	return f.statePre.AtVec(2), f.statePre.AtVec(3)
}

// correct fuses a measurement into the predicted state:
//
//	S = H·P'·Hᵀ + R
//	K = P'·Hᵀ·S⁻¹
//	x = x' + K·(z − H·x')
//	P = P' − K·H·P'
func (f *PositionFilter) correct(x, y float64) {
	var hp mat.Dense
	hp.Mul(f.measurement, f.covPre)

	var s mat.Dense
	s.Mul(&hp, f.measurement.T())
	s.Add(&s, f.measurementNoise)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		// R is positive definite, so S is invertible; keep the prediction
		// if the inverse is numerically unusable.
		f.statePost.CopyVec(f.statePre)
		f.covPost.Copy(f.covPre)
		return
	}

	var pht mat.Dense
	pht.Mul(f.covPre, f.measurement.T())

	var gain mat.Dense
	gain.Mul(&pht, &sInv)

	var hx mat.VecDense
	hx.MulVec(f.measurement, f.statePre)

	residual := mat.NewVecDense(measurementDim, []float64{x, y})
	residual.SubVec(residual, &hx)

	var delta mat.VecDense
	delta.MulVec(&gain, residual)
	f.statePost.AddVec(f.statePre, &delta)

	var khp mat.Dense
	khp.Mul(&gain, &hp)
	f.covPost.Sub(f.covPre, &khp)
}

// predict advances the corrected state one frame:
//
//	x' = F·x
//	P' = F·P·Fᵀ + Q
func (f *PositionFilter) predict() {
	f.statePre.MulVec(f.transition, f.statePost)

	var fp mat.Dense
	fp.Mul(f.transition, f.covPost)
	f.covPre.Mul(&fp, f.transition.T())
	f.covPre.Add(f.covPre, f.processNoise)
}

func scaledIdentity(n int, v float64) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, v)
	}
	return m
}
