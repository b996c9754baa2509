package counting

import (
	"github.com/biogo/hts/sam"

	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/nuc"
	"github.com/biomancy/reat/readfilter"
)

// Counter walks a filtered read's CIGAR match blocks and credits bases into
// a Buffer, clipped to a fixed interval. One Counter is reused across every
// read in a workload; ResetInterval must be called once per interval before
// the first Process call.
type Counter struct {
	filter       readfilter.ReadFilter
	buffer       Buffer
	interval     genomics.Interval
	readsCounted uint64
}

// NewCounter builds a Counter crediting bases that pass filter into buffer.
func NewCounter(filter readfilter.ReadFilter, buffer Buffer) *Counter {
	return &Counter{filter: filter, buffer: buffer}
}

// ResetInterval resizes the underlying buffer and clears the reads_counted
// tally for a new interval.
func (c *Counter) ResetInterval(iv genomics.Interval) {
	c.interval = iv
	c.buffer.Reset(iv)
	c.readsCounted = 0
}

// ReadsCounted returns the number of reads that had at least one CIGAR
// block intersect the interval since the last ResetInterval.
func (c *Counter) ReadsCounted() uint64 {
	return c.readsCounted
}

// Buffer exposes the underlying counts buffer.
func (c *Counter) Buffer() Buffer {
	return c.buffer
}

// Process advances the counter with one alignment record. It is a no-op if
// the record fails the read filter or never overlaps the interval.
func (c *Counter) Process(r *sam.Record) {
	if !c.filter.ReadOk(r) {
		return
	}

	ivStart := int(c.interval.Start)
	ivEnd := int(c.interval.End)
	credit := c.buffer.BufferFor(r)

	posInRef := r.Pos
	posInRead := 0
	counted := false

	for _, co := range r.Cigar {
		n := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			blockStart := posInRef
			blockEnd := posInRef + n
			clipStart := max(blockStart, ivStart)
			clipEnd := min(blockEnd, ivEnd)
			if clipStart < clipEnd {
				counted = true
			}
			for p := clipStart; p < clipEnd; p++ {
				readIdx := posInRead + (p - blockStart)
				qual := byte(0)
				if readIdx < len(r.Qual) {
					qual = r.Qual[readIdx]
				}
				if !c.filter.BaseOk(r, qual) {
					continue
				}
				base := baseAt(r.Seq, readIdx)
				credit[p-ivStart].Add(base)
			}
			posInRef += n
			posInRead += n
		case sam.CigarInsertion, sam.CigarSoftClipped:
			posInRead += n
		case sam.CigarDeletion, sam.CigarSkipped:
			posInRef += n
		case sam.CigarHardClipped, sam.CigarPadded, sam.CigarBack:
			// consumes neither reference nor query
		}
	}

	if counted {
		c.readsCounted++
	}
}

// baseAt decodes the nucleotide at query offset i from a SAM-packed
// sequence (two 4-bit bases per byte, high nibble first).
func baseAt(seq sam.Seq, i int) nuc.Nucleotide {
	if i < 0 || i >= seq.Length {
		return nuc.Unknown
	}
	b := byte(seq.Seq[i/2])
	if i%2 == 0 {
		b >>= 4
	}
	return nuc.FromPacked(b)
}
