package metrics

import "math"

// floatBits and floatFromBits let Counter/Gauge store a float64 inside an
// atomic.Uint64 for lock-free updates, mirroring the CAS-retry-loop pattern
// used throughout this module for concurrent numeric state.
func floatBits(v float64) uint64    { return math.Float64bits(v) }
func floatFromBits(b uint64) float64 { return math.Float64frombits(b) }
