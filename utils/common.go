package utils

import "math"

const (
	NODETOL = 1.e-12
)

// IsClose reports whether a and b agree to within NODETOL. Sampled points are
// placed exactly on domain faces, so an absolute tolerance is enough to absorb
// float noise when classifying them.
func IsClose(a, b float64) bool {
	return math.Abs(a-b) < NODETOL
}

// Index is a list of positions into a vector or the columns of a batch.
type Index []int
