// Package randutil derives the seedable random sources used by decks,
// policies and hand identifiers.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG words are derived from the one seed so that a table, a simulation
// and a test can all be replayed from a single number.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewTimeSeeded returns a generator seeded from the wall clock along with the
// seed it used, so callers can log it and reproduce the run.
func NewTimeSeeded() (*rand.Rand, int64) {
	seed := time.Now().UnixNano()
	return New(seed), seed
}

// Child derives an independent generator from a parent. Each worker of a
// parallel job gets its own child so that no *rand.Rand is shared between
// goroutines.
func Child(parent *rand.Rand) *rand.Rand {
	return rand.New(rand.NewPCG(parent.Uint64(), parent.Uint64()))
}

// Reader adapts a generator to io.Reader. The bytes are not cryptographically
// secure; use it only where reproducibility matters more than secrecy.
func Reader(rng *rand.Rand) *ByteReader {
	return &ByteReader{rng: rng}
}

// ByteReader is an io.Reader backed by a *rand.Rand
type ByteReader struct {
	rng *rand.Rand
}

// Read fills p with pseudo-random bytes. It never fails.
func (r *ByteReader) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := r.rng.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
