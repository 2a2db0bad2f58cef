package noise

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGaussian_SeededSourceIsReproducible(t *testing.T) {
	a := New(rand.NewPCG(7, 11))
	b := New(rand.NewPCG(7, 11))

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Sample(20, 1), b.Sample(20, 1), "draw %d", i)
	}
}

func TestGaussian_ZeroSigmaReturnsMean(t *testing.T) {
	g := New(rand.NewPCG(1, 2))
	assert.Equal(t, 3.5, g.Sample(3.5, 0))
}

func TestGaussian_SampleMeanNearMu(t *testing.T) {
	g := New(rand.NewPCG(42, 42))
	const n = 20000
	var sum float64
	for i := 0; i < n; i++ {
		sum += g.Sample(10, 0.5)
	}
	assert.InDelta(t, 10, sum/n, 0.05)
}

func TestGaussian_NilSourceUsesGlobalGenerator(t *testing.T) {
	var g *Gaussian
	v := g.Sample(0, 1)
	assert.False(t, math.IsNaN(v))

	v = New(nil).Sample(0, 1)
	assert.False(t, math.IsNaN(v))
}

func TestGaussian_ConcurrentUse(t *testing.T) {
	g := New(rand.NewPCG(3, 4))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				_ = g.Sample(0, 1)
			}
		}()
	}
	wg.Wait()
}
