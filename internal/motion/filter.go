// Package motion turns consecutive frame samples into bounded motion deltas
// and debounces discrete tap events.
package motion

import (
	"math"

	"github.com/ayusman/leapointer/internal/frame"
	"github.com/golang/geo/r3"
)

// Epsilon is the minimum elapsed time between two samples, in seconds.
// Duplicate timestamps use it instead of dividing by zero.
const Epsilon = 1e-6

// Length scales applied to sensor millimeters.
const (
	ScaleMillimeters = 1.0
	ScaleMeters      = 0.001
)

// Reason explains the outcome of an evaluation.
type Reason int

const (
	// Accepted means the motion passed every check.
	Accepted Reason = iota
	// MissingData means the current sample has no hand or no fingertips.
	MissingData
	// NoReference means there is no usable previous sample to diff against.
	NoReference
	// StaleData means too much time passed since the previous sample.
	StaleData
	// TooFast means the velocity exceeded the configured bound.
	TooFast
	// TooAbrupt means the acceleration exceeded the configured bound.
	TooAbrupt
)

func (r Reason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case MissingData:
		return "missing data"
	case NoReference:
		return "no reference"
	case StaleData:
		return "stale data"
	case TooFast:
		return "velocity too high"
	case TooAbrupt:
		return "acceleration too high"
	default:
		return "unknown"
	}
}

// FilterConfig bounds the motion the filter accepts. Velocity and
// acceleration are expressed in Scale units per second (per second squared).
type FilterConfig struct {
	Timeout         float64 // seconds; longer gaps reset the reference
	MaxVelocity     float64
	MaxAcceleration float64
	Scale           float64 // multiplier from millimeters to working units
}

// DefaultFilterConfig returns the bounds in millimeters.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		Timeout:         1.0,
		MaxVelocity:     2000,
		MaxAcceleration: 100000,
		Scale:           ScaleMillimeters,
	}
}

// Result holds the values computed for one evaluated sample.
type Result struct {
	Delta        r3.Vector // fingertip displacement in Scale units
	Velocity     float64
	Acceleration float64
	Elapsed      float64 // seconds
}

// Filter computes inter-sample deltas and gates them on staleness, velocity
// and acceleration. The zero value is not usable; use NewFilter.
//
// Filter is owned by a single pointer mode and is not safe for concurrent use.
type Filter struct {
	cfg          FilterConfig
	prev         frame.Sample
	hasPrev      bool
	prevVelocity float64
}

// NewFilter creates a Filter. A zero Scale means millimeters.
func NewFilter(cfg FilterConfig) *Filter {
	if cfg.Scale == 0 {
		cfg.Scale = ScaleMillimeters
	}
	return &Filter{cfg: cfg}
}

// Evaluate compares cur against the previous sample. The result is only
// meaningful for motion when the reason is Accepted; Velocity and
// Acceleration are also filled for TooFast and TooAbrupt.
//
// Every call replaces the previous sample with cur, whatever the outcome,
// so a usable sample that follows an unusable one is itself rejected.
// Velocity carried into the next acceleration check is zero after a
// missing or unreferenced sample, and the gap-averaged speed after a stale one.
func (f *Filter) Evaluate(cur frame.Sample) (Result, Reason) {
	prev, hadPrev := f.prev, f.hasPrev
	f.prev, f.hasPrev = cur, true

	curRef, ok := cur.ReferencePoint()
	if !ok {
		f.prevVelocity = 0
		return Result{}, MissingData
	}
	if !hadPrev {
		f.prevVelocity = 0
		return Result{}, NoReference
	}
	prevRef, ok := prev.ReferencePoint()
	if !ok {
		f.prevVelocity = 0
		return Result{}, NoReference
	}

	elapsed := math.Max(Epsilon, cur.Timestamp-prev.Timestamp)
	delta := curRef.Sub(prevRef).Mul(f.cfg.Scale)
	velocity := delta.Norm() / elapsed
	if elapsed > f.cfg.Timeout {
		// Averaged over the gap, so near zero after a long pause.
		f.prevVelocity = velocity
		return Result{Elapsed: elapsed}, StaleData
	}

	acceleration := (velocity - f.prevVelocity) / elapsed
	f.prevVelocity = velocity

	res := Result{
		Delta:        delta,
		Velocity:     velocity,
		Acceleration: acceleration,
		Elapsed:      elapsed,
	}

	if velocity > f.cfg.MaxVelocity {
		return res, TooFast
	}
	if math.Abs(acceleration) > f.cfg.MaxAcceleration {
		return res, TooAbrupt
	}
	return res, Accepted
}

// Reset forgets the previous sample and velocity.
func (f *Filter) Reset() {
	f.prev = frame.Sample{}
	f.hasPrev = false
	f.prevVelocity = 0
}
