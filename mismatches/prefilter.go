package mismatches

// AndRetainers accepts an ROI record iff every retainer does, short-
// circuiting on the first rejection. A nil/empty list accepts everything.
type AndRetainers []ROIRetainer

func (a AndRetainers) Accept(r ROIRecord) bool {
	for _, retainer := range a {
		if !retainer.Accept(r) {
			return false
		}
	}
	return true
}

// ByMismatches accepts an ROI record iff its coverage, mismatch count, and
// mismatch frequency all clear the configured thresholds (spec.md §4.8).
type ByMismatches struct {
	MinCoverage   uint32
	MinMismatches uint64
	MinFreq       float64
}

func (f ByMismatches) Accept(r ROIRecord) bool {
	if r.Coverage < f.MinCoverage {
		return false
	}
	mismatches := r.Mismatches.Mismatches()
	if mismatches < f.MinMismatches {
		return false
	}
	if r.Coverage == 0 {
		return false
	}
	return float64(mismatches)/float64(r.Coverage) >= f.MinFreq
}
