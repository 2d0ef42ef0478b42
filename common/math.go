package common

import "math"

// floorEpsilon absorbs float error when a value lands a hair below an
// integer boundary, so boundary points keep resolving to the higher cell.
const floorEpsilon = 1e-9

// FloorInt floors v to the nearest lower integer.
func FloorInt(v float64) int {
	return int(math.Floor(v + floorEpsilon))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
