package noise

import (
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// Gaussian draws normally distributed samples from a pluggable random source.
// A nil source falls back to the process-global generator, which is unseeded.
// Safe for concurrent use.
type Gaussian struct {
	src rand.Source
}

// New returns a Gaussian backed by src. Pass nil for unseeded, process-global randomness;
// tests pass a fixed rand.NewPCG to get reproducible output.
func New(src rand.Source) *Gaussian {
	g := &Gaussian{}
	if src != nil {
		g.src = &lockedSource{src: src}
	}
	return g
}

// Sample returns one draw from N(mu, sigma²).
func (g *Gaussian) Sample(mu, sigma float64) float64 {
	n := distuv.Normal{Mu: mu, Sigma: sigma}
	if g != nil && g.src != nil {
		n.Src = g.src
	}
	return n.Rand()
}

// lockedSource serializes access to a source shared by concurrent requests.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}
