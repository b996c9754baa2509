// Package refnuc supplies the reference nucleotide sequence a mismatch
// batch is built against, either read verbatim from a FASTA or corrected
// toward observed coverage (autoref).
package refnuc

import (
	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/nuc"
)

// Result is a reference engine's output for one range: the reference as
// read, and the (possibly corrected) nucleotide to build mismatches
// against. Both slices have length range.Len().
type Result struct {
	Reference []nuc.Nucleotide
	Predicted []nuc.Nucleotide
}

// Engine supplies reference/predicted nucleotides for an absolute genomic
// interval. seqnuc holds the observed per-position counts over the same
// interval, consulted by data-driven engines such as Autoref.
type Engine interface {
	Run(iv genomics.Interval, seqnuc []nuc.Counts) (Result, error)
}
