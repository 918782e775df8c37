package interp

import (
	"math/rand"
	"time"
)

// rng is the interpreter's single random stream. RANDOMIZE and a negative
// RND argument reseed it.
type rng struct {
	r *rand.Rand
}

func newRNG() *rng {
	return &rng{r: rand.New(rand.NewSource(1))}
}

// seed reseeds the stream.
func (g *rng) seed(n int64) {
	g.r = rand.New(rand.NewSource(n))
}

// clockBase anchors the monotonic clock readings used by seedFromClock.
var clockBase = time.Now()

// seedFromClock reseeds from a monotonic clock sample.
func (g *rng) seedFromClock() {
	g.seed(time.Since(clockBase).Nanoseconds())
}

// float returns a random float in [0, 1).
func (g *rng) float() float64 {
	return g.r.Float64()
}

// intRange returns a random integer in [lo, hi], inclusive.
func (g *rng) intRange(lo, hi int64) int64 {
	return lo + g.r.Int63n(hi-lo+1)
}
