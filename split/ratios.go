// Package split partitions labeled tables into disjoint train/validation/test
// subsets, preserving label proportions via pluggable stratifier strategies.
package split

import (
	"fmt"
	"math"
)

// ratioTolerance is the numerical slack allowed when checking that the three
// ratios sum to one.
const ratioTolerance = 1e-6

// Ratios holds the target fractions of the three output subsets. The three
// values must each lie in [0, 1] and sum to 1.0 within tolerance.
type Ratios struct {
	Train float64
	Val   float64
	Test  float64
}

// DefaultRatios returns the conventional 80/10/10 split.
func DefaultRatios() Ratios {
	return Ratios{Train: 0.8, Val: 0.1, Test: 0.1}
}

// Validate checks the ratio constraints, naming the violated constraint in
// the returned error.
func (r Ratios) Validate() error {
	sum := r.Train + r.Val + r.Test
	if math.Abs(sum-1.0) > ratioTolerance {
		return fmt.Errorf("train + val + test ratios must equal 1.0, got %g", sum)
	}
	for _, v := range []float64{r.Train, r.Val, r.Test} {
		if v < 0 || v > 1 {
			return fmt.Errorf("split ratio %g must be between 0 and 1", v)
		}
	}
	return nil
}
