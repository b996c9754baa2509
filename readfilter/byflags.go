package readfilter

import "github.com/biogo/hts/sam"

// ByFlags passes a record iff every Include flag is set and no Exclude flag
// is set. BaseOk always passes; flags are a per-record property.
type ByFlags struct {
	Include sam.Flags
	Exclude sam.Flags
}

func (f ByFlags) ReadOk(r *sam.Record) bool {
	return r.Flags&f.Include == f.Include && r.Flags&f.Exclude == 0
}

func (f ByFlags) BaseOk(*sam.Record, byte) bool {
	return true
}
