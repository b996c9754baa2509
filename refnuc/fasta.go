package refnuc

import (
	"github.com/pkg/errors"

	"github.com/biomancy/reat/encoding/fasta"
	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/nuc"
)

// FastaEngine reads the reference verbatim from an indexed FASTA. Predicted
// always equals Reference.
type FastaEngine struct {
	fa fasta.Fasta
}

// NewFastaEngine wraps fa for use as a reference engine.
func NewFastaEngine(fa fasta.Fasta) *FastaEngine {
	return &FastaEngine{fa: fa}
}

func (e *FastaEngine) Run(iv genomics.Interval, _ []nuc.Counts) (Result, error) {
	seq, err := e.fa.Get(iv.Contig, iv.Start, iv.End)
	if err != nil {
		return Result{}, errors.Wrapf(err, "refnuc: fetching %s", iv)
	}

	decoded := make([]nuc.Nucleotide, len(seq))
	for i, b := range seq {
		decoded[i] = nuc.FromASCIIByte(b)
	}
	return Result{Reference: decoded, Predicted: decoded}, nil
}
