// Package counting accumulates per-base nucleotide counts from filtered
// alignment records into interval-scoped buffers.
package counting

import (
	"github.com/biogo/hts/sam"

	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/nuc"
	"github.com/biomancy/reat/strandutil"
)

// Buffer is a range-scoped nucleotide-count accumulator, stranded or
// unstranded. Reset must be called before the first use and again whenever
// the interval changes; the buffer is reused thread-locally across
// workloads to avoid per-interval allocation.
type Buffer interface {
	// Reset zeroes and resizes the buffer to iv.Len() positions.
	Reset(iv genomics.Interval)
	// BufferFor returns the slice a base from r should be credited into.
	BufferFor(r *sam.Record) []nuc.Counts
	// Content exposes the buffer's current slices: exactly one of
	// Unstranded or (Forward and Reverse) is non-nil.
	Content() Content
	// Len returns the interval length the buffer is sized for.
	Len() int
}

// Content is the set of slices a Buffer currently holds. Unstranded is
// non-nil for an Unstranded buffer; Forward/Reverse are non-nil for a
// Stranded buffer.
type Content struct {
	Unstranded []nuc.Counts
	Forward    []nuc.Counts
	Reverse    []nuc.Counts
}

// UnstrandedBuffer credits every read to a single vector, regardless of its
// orientation.
type UnstrandedBuffer struct {
	counts []nuc.Counts
}

// NewUnstrandedBuffer builds an empty UnstrandedBuffer.
func NewUnstrandedBuffer() *UnstrandedBuffer {
	return &UnstrandedBuffer{}
}

func (b *UnstrandedBuffer) Reset(iv genomics.Interval) {
	b.counts = resize(b.counts, int(iv.Len()))
}

func (b *UnstrandedBuffer) BufferFor(*sam.Record) []nuc.Counts {
	return b.counts
}

func (b *UnstrandedBuffer) Content() Content {
	return Content{Unstranded: b.counts}
}

func (b *UnstrandedBuffer) Len() int {
	return len(b.counts)
}

// StrandedBuffer credits each read to its deducer-selected strand vector.
type StrandedBuffer struct {
	deducer strandutil.Deducer
	forward []nuc.Counts
	reverse []nuc.Counts
}

// NewStrandedBuffer builds an empty StrandedBuffer that deduces each read's
// strand with deducer.
func NewStrandedBuffer(deducer strandutil.Deducer) *StrandedBuffer {
	return &StrandedBuffer{deducer: deducer}
}

func (b *StrandedBuffer) Reset(iv genomics.Interval) {
	n := int(iv.Len())
	b.forward = resize(b.forward, n)
	b.reverse = resize(b.reverse, n)
}

func (b *StrandedBuffer) BufferFor(r *sam.Record) []nuc.Counts {
	if b.deducer.Deduce(r) == nuc.Reverse {
		return b.reverse
	}
	return b.forward
}

func (b *StrandedBuffer) Content() Content {
	return Content{Forward: b.forward, Reverse: b.reverse}
}

func (b *StrandedBuffer) Len() int {
	return len(b.forward)
}

// resize returns s truncated/extended to length n, zeroing every element.
// Reusing the backing array when it is large enough avoids per-interval
// allocation in the hot path.
func resize(s []nuc.Counts, n int) []nuc.Counts {
	if cap(s) < n {
		s = make([]nuc.Counts, n)
	} else {
		s = s[:n]
		for i := range s {
			s[i] = nuc.Counts{}
		}
	}
	return s
}
