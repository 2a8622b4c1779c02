// Package scale defines the bounded numeric range used for scores and weights.
package scale

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultMin is the lower bound of the default scale.
	DefaultMin = 1.0
	// DefaultMax is the upper bound of the default scale.
	DefaultMax = 10.0

	sigmaSpan = 3.0
)

// MaxRangeLen caps the number of integers Range will produce.
const MaxRangeLen = 1 << 20

var (
	// ErrInvalidBounds is returned when a scale cannot be built from its bounds.
	ErrInvalidBounds = errors.New("invalid scale bounds")
	// ErrRangeTooLarge is returned by Range when the scale spans more than
	// MaxRangeLen integers.
	ErrRangeTooLarge = errors.New("scale range too large")
)

// Scale is a closed range [Min, Max] with a derived mean and sigma unit.
// Three sigmas span the distance from the mean to either bound.
type Scale struct {
	min   float64
	max   float64
	mean  float64
	sigma float64
}

// New builds a scale from its bounds. min must be strictly less than max.
func New(min, max float64) (Scale, error) {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return Scale{}, fmt.Errorf("%w: bounds must be finite", ErrInvalidBounds)
	}
	if min >= max {
		return Scale{}, fmt.Errorf("%w: min %g must be less than max %g", ErrInvalidBounds, min, max)
	}
	mean := (min + max) / 2
	return Scale{
		min:   min,
		max:   max,
		mean:  mean,
		sigma: (max - mean) / sigmaSpan,
	}, nil
}

// Default returns the 1..10 scale.
func Default() Scale {
	s, _ := New(DefaultMin, DefaultMax)
	return s
}

// Min returns the lower bound.
func (s Scale) Min() float64 { return s.min }

// Max returns the upper bound.
func (s Scale) Max() float64 { return s.max }

// Mean returns the midpoint of the range.
func (s Scale) Mean() float64 { return s.mean }

// Sigma returns one standard-deviation unit of the range.
func (s Scale) Sigma() float64 { return s.sigma }

// Range returns every integer inside the scale, inclusive of integral bounds.
// Each call allocates a new slice.
func (s Scale) Range() ([]int, error) {
	lo, hi := math.Ceil(s.min), math.Floor(s.max)
	if hi < lo {
		return nil, nil
	}
	if hi-lo+1 > MaxRangeLen || lo < math.MinInt32 || hi > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %s holds more than %d integers or exceeds int32", ErrRangeTooLarge, s, MaxRangeLen)
	}
	out := make([]int, 0, int(hi-lo)+1)
	for v := int(lo); v <= int(hi); v++ {
		out = append(out, v)
	}
	return out, nil
}

// ToValue maps a z-score onto the scale and clamps it into [Min, Max].
func (s Scale) ToValue(z float64) float64 {
	if math.IsNaN(z) {
		return s.mean
	}
	return s.Clamp(z*s.sigma + s.mean)
}

// ZScore is the inverse of ToValue for values inside the range. It does not clamp.
func (s Scale) ZScore(value float64) float64 {
	return (value - s.mean) / s.sigma
}

// Clamp limits value to [Min, Max].
func (s Scale) Clamp(value float64) float64 {
	return math.Max(math.Min(value, s.max), s.min)
}

// Contains reports whether value lies inside the closed range.
func (s Scale) Contains(value float64) bool {
	return value >= s.min && value <= s.max
}

// String formats the scale for logs and reports.
func (s Scale) String() string {
	return fmt.Sprintf("[%g, %g] mean=%g sigma=%.3f", s.min, s.max, s.mean, s.sigma)
}
