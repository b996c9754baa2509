package mismatches

import "github.com/biomancy/reat/nuc"

// SiteRecord is one row of a SiteBatch.
type SiteRecord struct {
	Contig    string
	Position  uint64
	Strand    nuc.Strand
	RefNuc    nuc.Nucleotide
	PredNuc   nuc.Nucleotide
	Sequenced nuc.Counts
}

// SiteBatch holds every site mismatch record sharing one contig,
// struct-of-arrays style. Positions are strictly increasing within the
// batch, per spec.md §3.
type SiteBatch struct {
	Contig    string
	Positions []uint64
	Strands   []nuc.Strand
	RefNuc    []nuc.Nucleotide
	PredNuc   []nuc.Nucleotide
	Sequenced []nuc.Counts
}

// Len returns the number of records in the batch.
func (b SiteBatch) Len() int {
	return len(b.Positions)
}

// Append adds one record to the batch.
func (b *SiteBatch) Append(r SiteRecord) {
	b.Positions = append(b.Positions, r.Position)
	b.Strands = append(b.Strands, r.Strand)
	b.RefNuc = append(b.RefNuc, r.RefNuc)
	b.PredNuc = append(b.PredNuc, r.PredNuc)
	b.Sequenced = append(b.Sequenced, r.Sequenced)
}

// At returns the i'th record as a value.
func (b SiteBatch) At(i int) SiteRecord {
	return SiteRecord{
		Contig:    b.Contig,
		Position:  b.Positions[i],
		Strand:    b.Strands[i],
		RefNuc:    b.RefNuc[i],
		PredNuc:   b.PredNuc[i],
		Sequenced: b.Sequenced[i],
	}
}

// Filter retains indices where mask[i] is true, preserving relative order.
func (b SiteBatch) Filter(mask []bool) SiteBatch {
	out := SiteBatch{Contig: b.Contig}
	for i, keep := range mask {
		if keep {
			out.Append(b.At(i))
		}
	}
	return out
}

// Restrand partitions the batch into three new batches by the given
// per-element strand assignment.
func (b SiteBatch) Restrand(strands []nuc.Strand) (forward, reverse, unknown SiteBatch) {
	forward.Contig, reverse.Contig, unknown.Contig = b.Contig, b.Contig, b.Contig
	for i, s := range strands {
		rec := b.At(i)
		rec.Strand = s
		switch s {
		case nuc.Forward:
			forward.Append(rec)
		case nuc.Reverse:
			reverse.Append(rec)
		default:
			unknown.Append(rec)
		}
	}
	return forward, reverse, unknown
}

// Flatten converts the batch to row-wise records for emission.
func (b SiteBatch) Flatten() []SiteRecord {
	records := make([]SiteRecord, b.Len())
	for i := range records {
		records[i] = b.At(i)
	}
	return records
}

// MatrixAt folds record i's predicted/sequenced pair into a single-row
// nuc.Matrix, letting stranding and hooks algorithms written against the
// ROI matrix shape (stranding.ByEditing, hooks.ByEditing) reuse the same
// classification logic one site at a time.
func (b SiteBatch) MatrixAt(i int) nuc.Matrix {
	var m nuc.Matrix
	m.AddCounts(b.PredNuc[i], b.Sequenced[i])
	return m
}
