// Package readfilter admits or rejects alignment records (and, within an
// admitted record, individual aligned bases) before they reach the counts
// buffer.
package readfilter

import "github.com/biogo/hts/sam"

// ReadFilter decides whether a record, and individual bases within it,
// contribute to the pileup. ReadOk runs once per record; BaseOk runs once
// per aligned (CIGAR match/=/X) base and receives the base's phred quality.
type ReadFilter interface {
	ReadOk(r *sam.Record) bool
	BaseOk(r *sam.Record, qual byte) bool
}

// And combines filters with short-circuiting conjunction: a record/base
// must pass every filter in order.
type And struct {
	filters []ReadFilter
}

// NewAnd builds an And filter from its components.
func NewAnd(filters ...ReadFilter) *And {
	return &And{filters: filters}
}

func (a *And) ReadOk(r *sam.Record) bool {
	for _, f := range a.filters {
		if !f.ReadOk(r) {
			return false
		}
	}
	return true
}

func (a *And) BaseOk(r *sam.Record, qual byte) bool {
	for _, f := range a.filters {
		if !f.BaseOk(r, qual) {
			return false
		}
	}
	return true
}
