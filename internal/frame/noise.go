package frame

import "math/rand"

// Noise supplies the per-pixel jitter. Float64 must return values in [0, 1).
// *rand.Rand satisfies it.
type Noise interface {
	Float64() float64
}

// NewNoise returns a seeded noise source; equal seeds reproduce equal frames.
func NewNoise(seed int64) Noise {
	return rand.New(rand.NewSource(seed))
}

// Fill draws len(dst) samples from n in order. Backends that evaluate pixels
// out of order use it to keep the row-major noise stream intact.
func Fill(dst []float32, n Noise) {
	for i := range dst {
		dst[i] = float32(n.Float64())
	}
}
