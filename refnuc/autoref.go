package refnuc

import (
	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/nuc"
)

// Autoref wraps another Engine and overrides its reference with the
// observed majority nucleotide wherever coverage and frequency clear the
// configured thresholds, per spec.md §4.6.
type Autoref struct {
	inner         Engine
	minCoverage   uint32
	minFreq       float64
	skipIfUnknown bool
}

// NewAutoref builds an Autoref layered on top of inner.
func NewAutoref(inner Engine, minCoverage uint32, minFreq float64, skipIfUnknown bool) *Autoref {
	return &Autoref{inner: inner, minCoverage: minCoverage, minFreq: minFreq, skipIfUnknown: skipIfUnknown}
}

func (a *Autoref) Run(iv genomics.Interval, seqnuc []nuc.Counts) (Result, error) {
	base, err := a.inner.Run(iv, seqnuc)
	if err != nil {
		return Result{}, err
	}

	predicted := make([]nuc.Nucleotide, len(base.Reference))
	copy(predicted, base.Reference)

	for i, counts := range seqnuc {
		if i >= len(predicted) {
			break
		}
		if predicted[i] == nuc.Unknown && a.skipIfUnknown {
			continue
		}
		coverage := counts.Coverage()
		if coverage < a.minCoverage {
			continue
		}
		best, bestCount := counts.MostFreq()
		if float64(bestCount)/float64(coverage) >= a.minFreq {
			predicted[i] = best
		}
	}

	return Result{Reference: base.Reference, Predicted: predicted}, nil
}
