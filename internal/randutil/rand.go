// Package randutil centralises how seeded random sources are built so that
// deals, exploration and baselines are reproducible from a single int64.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// ResolveSeed returns seed unless it is zero, in which case a time-based seed
// is returned. Callers should log the resolved value so runs can be replayed.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// Derive returns a child seed for an independent stream (e.g. the baseline
// population of an evaluation) so streams never share a sequence.
func Derive(seed int64, stream uint64) int64 {
	return int64(mix(uint64(seed) + stream*goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
