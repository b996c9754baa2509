// Package hooks runs post-stranding filters and statistics over a
// finished strand partition: a final filtration pass plus run-wide editing
// statistics.
package hooks

import "github.com/biomancy/reat/mismatches"

// FilterHook builds a retention mask for a batch; a batch stays alive iff
// at least one entry is retained. Every filter hook must mask both ROI and
// site batches, since spec.md §4.10 describes on_finish generically over
// "batch" rather than ROI mode specifically.
type FilterHook interface {
	Mask(batch mismatches.ROIBatch) []bool
	MaskSites(batch mismatches.SiteBatch) []bool
}

// StatHook observes every batch that reaches OnFinish, accumulating
// whatever statistic it reports. Name identifies the hook instance for
// later lookup (e.g. by the run summary writer).
type StatHook interface {
	Name() string
	Observe(batch mismatches.ROIBatch)
	ObserveSites(batch mismatches.SiteBatch)
}

// Engine runs filter hooks (in order, mutating the batch) then notifies
// every stat hook with the filtered batch, per spec.md §4.10.
type Engine struct {
	filters []FilterHook
	stats   []StatHook
}

// NewEngine builds an Engine from its filter and stat hooks.
func NewEngine(filters []FilterHook, stats []StatHook) *Engine {
	return &Engine{filters: filters, stats: stats}
}

// OnFinish applies every filter hook to batch, then every stat hook to the
// result, returning the final batch.
func (e *Engine) OnFinish(batch mismatches.ROIBatch) mismatches.ROIBatch {
	for _, f := range e.filters {
		mask := f.Mask(batch)
		batch = batch.Filter(mask)
	}
	for _, s := range e.stats {
		s.Observe(batch)
	}
	return batch
}

// OnFinishSites is OnFinish's site-mode counterpart: the same filter-then-
// observe pipeline, over a SiteBatch.
func (e *Engine) OnFinishSites(batch mismatches.SiteBatch) mismatches.SiteBatch {
	for _, f := range e.filters {
		mask := f.MaskSites(batch)
		batch = batch.Filter(mask)
	}
	for _, s := range e.stats {
		s.ObserveSites(batch)
	}
	return batch
}

// Stat looks up a stat hook by name, preserving the identity of multiple
// hook instances (spec.md §4.10's downcast()).
func (e *Engine) Stat(name string) (StatHook, bool) {
	for _, s := range e.stats {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}
