// Package rng implements the counter-based, reproducible per-sample PRNG
// scheme called for by the simulator: a single master seed expands to an
// independent sub-stream per (seed, unit id, hour, trial) tuple.
package rng

import "math/rand/v2"

// StreamFor derives a deterministic PCG-seeded generator for one
// (seed, unitID, hour, trial) coordinate. Two calls with identical
// arguments always draw the same sequence; different coordinates draw
// independent sequences.
func StreamFor(seed int64, unitID, hour, trial int) *rand.Rand {
	hi, lo := mix(seed, unitID, hour, trial)
	return rand.New(rand.NewPCG(hi, lo))
}

// mix folds the four coordinates into a 128-bit PCG key using the
// splitmix64 finalizer, the standard way to seed counter-based generators
// from a small integer tuple.
func mix(seed int64, unitID, hour, trial int) (hi, lo uint64) {
	// Fold the tuple into two 64-bit accumulators, then run each through
	// the splitmix64 finalizer so nearby coordinates don't produce
	// correlated seeds.
	a := uint64(seed)*0x9E3779B97F4A7C15 + uint64(uint32(unitID))
	b := uint64(hour)*0xBF58476D1CE4E5B9 + uint64(uint32(trial))
	return splitmix64(a ^ rotl(b, 32)), splitmix64(b ^ rotl(a, 17))
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

func rotl(x uint64, k uint) uint64 {
	return (x << k) | (x >> (64 - k))
}
