package synth

import (
	"github.com/kjstillabower/climate-trends-service/internal/models"
	"github.com/kjstillabower/climate-trends-service/internal/noise"
)

const (
	// AverageIncrease is reported as-is; it is not computed from data.
	AverageIncrease = 1.2
	DaysPerYear     = 365

	sampleSigma   = 0.5
	increaseStep  = 0.01
	increaseSigma = 0.005
)

var (
	sampleYears   = []int{1970, 1995, 2020}
	sampleOffsets = []float64{0, 0.5, 1.0}
)

// SampleYears returns the fixed years labelling the three daily series.
func SampleYears() []int {
	return append([]int(nil), sampleYears...)
}

// Synthesizer fabricates the daily visualization block.
type Synthesizer struct {
	gauss *noise.Gaussian
}

// New returns a Synthesizer drawing noise from g (nil means unseeded global randomness).
func New(g *noise.Gaussian) *Synthesizer {
	return &Synthesizer{gauss: g}
}

// Daily builds three perturbed copies of the first 365 yearly temperatures (shorter inputs
// give shorter series), a 365-value increases series, and the constant average increase.
func (s *Synthesizer) Daily(temps []float64) models.DailyBlock {
	head := temps
	if len(head) > DaysPerYear {
		head = head[:DaysPerYear]
	}

	series := make([][]float64, len(sampleOffsets))
	for i, offset := range sampleOffsets {
		out := make([]float64, len(head))
		for j, v := range head {
			out[j] = v + offset + s.gauss.Sample(0, sampleSigma)
		}
		series[i] = out
	}

	increases := make([]float64, DaysPerYear)
	for i := range increases {
		increases[i] = increaseStep*float64(i) + s.gauss.Sample(0, increaseSigma)
	}

	return models.DailyBlock{
		Years:           SampleYears(),
		Temperatures:    series,
		Increases:       increases,
		AverageIncrease: AverageIncrease,
	}
}
