// Package stranding assigns a strand to mismatch batch entries that
// weren't already resolved by the pileup's own strand deduction, via an
// ordered pipeline of stranding algorithms.
package stranding

import (
	"github.com/biomancy/reat/mismatches"
	"github.com/biomancy/reat/nuc"
)

// Context holds the three strand partitions a stranding pipeline operates
// over. Algorithms may move entries out of Unknown into Forward/Reverse;
// they never touch already-classified entries.
type Context struct {
	Unknown mismatches.ROIBatch
	Forward mismatches.ROIBatch
	Reverse mismatches.ROIBatch
}

// Algorithm inspects the Unknown partition and returns a per-entry strand
// decision; entries it can't classify should be returned as
// nuc.StrandUnknown. Every algorithm must classify both ROI batches and
// site batches, since spec.md §4.9 describes the stranding pipeline
// generically over "entries" rather than ROI mode specifically.
type Algorithm interface {
	Classify(batch mismatches.ROIBatch) []nuc.Strand
	ClassifySites(batch mismatches.SiteBatch) []nuc.Strand
}

// Engine runs a fixed ordered list of algorithms against a Context,
// stopping early once Unknown is empty.
type Engine struct {
	algorithms []Algorithm
}

// NewEngine builds an Engine running algorithms in the given order.
func NewEngine(algorithms ...Algorithm) *Engine {
	return &Engine{algorithms: algorithms}
}

// Run applies every algorithm in order to ctx.Unknown, reclassifying
// entries into ctx.Forward/ctx.Reverse as algorithms succeed.
func (e *Engine) Run(ctx *Context) {
	for _, algo := range e.algorithms {
		if ctx.Unknown.Len() == 0 {
			return
		}
		strands := algo.Classify(ctx.Unknown)
		forward, reverse, unknown := ctx.Unknown.Restrand(strands)
		ctx.Forward = appendROIBatch(ctx.Forward, forward)
		ctx.Reverse = appendROIBatch(ctx.Reverse, reverse)
		ctx.Unknown = unknown
	}
}

// Concat returns the final strand() view per spec.md §4.9: unknown entries
// first, then forward, then reverse.
func (ctx Context) Concat() []mismatches.ROIRecord {
	out := make([]mismatches.ROIRecord, 0, ctx.Unknown.Len()+ctx.Forward.Len()+ctx.Reverse.Len())
	out = append(out, ctx.Unknown.Flatten()...)
	out = append(out, ctx.Forward.Flatten()...)
	out = append(out, ctx.Reverse.Flatten()...)
	return out
}

func appendROIBatch(dst, src mismatches.ROIBatch) mismatches.ROIBatch {
	if dst.Contig == "" {
		dst.Contig = src.Contig
	}
	for _, r := range src.Flatten() {
		dst.Append(r)
	}
	return dst
}

// SiteContext is Context's site-mode counterpart: the same three-way
// strand partition, over SiteBatch instead of ROIBatch.
type SiteContext struct {
	Unknown mismatches.SiteBatch
	Forward mismatches.SiteBatch
	Reverse mismatches.SiteBatch
}

// RunSites applies every algorithm in order to ctx.Unknown, mirroring Run
// but over site batches, so loci-mode output goes through the same
// stranding pipeline as regions mode (spec.md §4.9).
func (e *Engine) RunSites(ctx *SiteContext) {
	for _, algo := range e.algorithms {
		if ctx.Unknown.Len() == 0 {
			return
		}
		strands := algo.ClassifySites(ctx.Unknown)
		forward, reverse, unknown := ctx.Unknown.Restrand(strands)
		ctx.Forward = appendSiteBatch(ctx.Forward, forward)
		ctx.Reverse = appendSiteBatch(ctx.Reverse, reverse)
		ctx.Unknown = unknown
	}
}

// Concat returns the final strand() view over sites, unknown first, then
// forward, then reverse, matching Context.Concat's ordering.
func (ctx SiteContext) Concat() []mismatches.SiteRecord {
	out := make([]mismatches.SiteRecord, 0, ctx.Unknown.Len()+ctx.Forward.Len()+ctx.Reverse.Len())
	out = append(out, ctx.Unknown.Flatten()...)
	out = append(out, ctx.Forward.Flatten()...)
	out = append(out, ctx.Reverse.Flatten()...)
	return out
}

func appendSiteBatch(dst, src mismatches.SiteBatch) mismatches.SiteBatch {
	if dst.Contig == "" {
		dst.Contig = src.Contig
	}
	for _, r := range src.Flatten() {
		dst.Append(r)
	}
	return dst
}
