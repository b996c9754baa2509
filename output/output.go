// Package output writes the two TSV table shapes spec.md §6 describes:
// per-site "loci" rows and per-ROI "regions" rows carrying the full 16-way
// editing table. Both writers follow pileup/snp/output.go's tsv.Writer
// idiom (WriteString/WriteUint32/WriteInt64/WriteByte/EndLine), opened
// through grailbio/base/file the way the teacher opens its own TSV sinks.
package output

import (
	"context"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"

	"github.com/biomancy/reat/mismatches"
	"github.com/biomancy/reat/nuc"
	"github.com/biomancy/reat/rerr"
)

// WriteLoci writes one row per site record to path, in loci mode: chr,
// position (1-based), strand, reference, then the four channel counts.
func WriteLoci(ctx context.Context, path string, records []mismatches.SiteRecord) (err error) {
	dst, err := file.Create(ctx, path)
	if err != nil {
		return rerr.Wrapf(err, rerr.IoError, "output: creating %s", path)
	}
	defer func() {
		if cerr := dst.Close(ctx); cerr != nil && err == nil {
			err = rerr.Wrapf(cerr, rerr.IoError, "output: closing %s", path)
		}
	}()

	w := tsv.NewWriter(dst.Writer(ctx))
	w.WriteString("chr")
	w.WriteString("position")
	w.WriteString("strand")
	w.WriteString("reference")
	w.WriteString("#A")
	w.WriteString("#C")
	w.WriteString("#G")
	w.WriteString("#T")
	if err = w.EndLine(); err != nil {
		return rerr.Wrapf(err, rerr.IoError, "output: writing %s header", path)
	}

	for _, r := range records {
		w.WriteString(r.Contig)
		w.WriteInt64(int64(r.Position + 1))
		w.WriteByte(r.Strand.ASCII())
		w.WriteString(r.RefNuc.String())
		w.WriteUint32(r.Sequenced.A)
		w.WriteUint32(r.Sequenced.C)
		w.WriteUint32(r.Sequenced.G)
		w.WriteUint32(r.Sequenced.T)
		if err = w.EndLine(); err != nil {
			return rerr.Wrapf(err, rerr.IoError, "output: writing %s row", path)
		}
	}
	return w.Flush()
}

var refObsPairs = [nuc.NBase * nuc.NBase][2]nuc.Nucleotide{
	{nuc.A, nuc.A}, {nuc.A, nuc.C}, {nuc.A, nuc.G}, {nuc.A, nuc.T},
	{nuc.C, nuc.A}, {nuc.C, nuc.C}, {nuc.C, nuc.G}, {nuc.C, nuc.T},
	{nuc.G, nuc.A}, {nuc.G, nuc.C}, {nuc.G, nuc.G}, {nuc.G, nuc.T},
	{nuc.T, nuc.A}, {nuc.T, nuc.C}, {nuc.T, nuc.G}, {nuc.T, nuc.T},
}

// WriteRegions writes one row per ROI record to path, in regions mode:
// chr, start, end, strand, name, then all 16 reference->observed columns,
// in X,Y = A,C,G,T order. ROIs whose coverage is below coverageThreshold
// are skipped (B2).
func WriteRegions(ctx context.Context, path string, records []mismatches.ROIRecord, coverageThreshold uint32) (err error) {
	dst, err := file.Create(ctx, path)
	if err != nil {
		return rerr.Wrapf(err, rerr.IoError, "output: creating %s", path)
	}
	defer func() {
		if cerr := dst.Close(ctx); cerr != nil && err == nil {
			err = rerr.Wrapf(cerr, rerr.IoError, "output: closing %s", path)
		}
	}()

	w := tsv.NewWriter(dst.Writer(ctx))
	w.WriteString("chr")
	w.WriteString("start")
	w.WriteString("end")
	w.WriteString("strand")
	w.WriteString("name")
	for _, p := range refObsPairs {
		w.WriteString(p[0].String() + "->" + p[1].String())
	}
	if err = w.EndLine(); err != nil {
		return rerr.Wrapf(err, rerr.IoError, "output: writing %s header", path)
	}

	for _, r := range records {
		if r.Coverage < coverageThreshold {
			continue
		}
		w.WriteString(r.ROI.Interval.Contig)
		w.WriteInt64(int64(r.ROI.Interval.Start))
		w.WriteInt64(int64(r.ROI.Interval.End))
		w.WriteByte(r.Strand.ASCII())
		w.WriteString(r.ROI.Name)
		for _, p := range refObsPairs {
			w.WriteUint32(r.Mismatches[p[0]][p[1]])
		}
		if err = w.EndLine(); err != nil {
			return rerr.Wrapf(err, rerr.IoError, "output: writing %s row", path)
		}
	}
	return w.Flush()
}
