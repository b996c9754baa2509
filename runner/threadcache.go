package runner

import (
	"context"
	"sync"

	"github.com/biogo/hts/sam"

	"github.com/biomancy/reat/config"
	"github.com/biomancy/reat/counting"
	"github.com/biomancy/reat/encoding/fasta"
	"github.com/biomancy/reat/mismatches"
	"github.com/biomancy/reat/readfilter"
	"github.com/biomancy/reat/refnuc"
	"github.com/biomancy/reat/rerr"
	"github.com/biomancy/reat/rpileup"
	"github.com/biomancy/reat/strandutil"
)

// perThread bundles the components spec.md §4.12 describes as needing a
// per-worker clone: each owns its own indexed BAM readers, so two workers
// are never driving the same reader concurrently.
type perThread struct {
	bams         *rpileup.BAMSet
	engine       *rpileup.PileupEngine
	refEng       refnuc.Engine
	builder      *mismatches.Builder
	siteRetainer *mismatches.RetainSitesFromIntervals
}

// ThreadCache lazily builds one perThread value per worker index the
// first time that index is seen, guarded by a single mutex. Every Get call
// takes the mutex; Run calls Get once per job, and the job then uses the
// returned perThread without further synchronization (spec.md §9).
type ThreadCache struct {
	mu           sync.Mutex
	cfg          config.Config
	fa           fasta.Fasta
	retainer     mismatches.ROIRetainer
	siteRetainer *mismatches.RetainSitesFromIntervals
	slots        map[int]*perThread
}

// NewThreadCache builds an empty cache. fa is the shared (thread-safe)
// FASTA reader; retainer is the immutable combined pre-filter every
// thread's builder applies. siteRetainer is loci mode's counterpart,
// consulted directly by runOne since RetainSitesFromIntervals answers
// "which sub-ranges overlap" rather than "accept or reject one record"; it
// may be nil, which retains every site.
func NewThreadCache(cfg config.Config, fa fasta.Fasta, retainer mismatches.ROIRetainer, siteRetainer *mismatches.RetainSitesFromIntervals) *ThreadCache {
	return &ThreadCache{cfg: cfg, fa: fa, retainer: retainer, siteRetainer: siteRetainer, slots: make(map[int]*perThread)}
}

// Get returns worker jobIdx's perThread bundle, building it on first call.
func (c *ThreadCache) Get(ctx context.Context, jobIdx int) (*perThread, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.slots[jobIdx]; ok {
		return t, nil
	}

	bams, err := rpileup.OpenBAMSet(ctx, c.cfg.BAMPaths)
	if err != nil {
		return nil, rerr.Wrap(err, rerr.IoError, "runner: opening BAM set")
	}

	buffer := bufferFor(c.cfg)
	counter := counting.NewCounter(filterFor(c.cfg), buffer)
	engine := rpileup.NewPileupEngine(bams, counter)

	var refEng refnuc.Engine = refnuc.NewFastaEngine(c.fa)
	if c.cfg.Autoref.Enabled {
		refEng = refnuc.NewAutoref(refEng, c.cfg.Autoref.MinCoverage, c.cfg.Autoref.MinFreq, c.cfg.Autoref.SkipOnUnknownRef)
	}

	t := &perThread{
		bams:         bams,
		engine:       engine,
		refEng:       refEng,
		builder:      mismatches.NewBuilder(c.retainer),
		siteRetainer: c.siteRetainer,
	}
	c.slots[jobIdx] = t
	return t, nil
}

// Close releases every populated slot's BAM handles.
func (c *ThreadCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var first error
	for _, t := range c.slots {
		if err := t.bams.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func filterFor(cfg config.Config) readfilter.ReadFilter {
	return readfilter.NewAnd(
		readfilter.ByFlags{Include: sam.Flags(cfg.IncludeFlags), Exclude: sam.Flags(cfg.ExcludeFlags)},
		readfilter.ByQuality{MinMapQ: cfg.MapQ, MinBase: cfg.Phred},
	)
}

func bufferFor(cfg config.Config) counting.Buffer {
	if cfg.Stranding.Unstranded {
		return counting.NewUnstrandedBuffer()
	}
	return counting.NewStrandedBuffer(strandutil.NewDeducer(cfg.Stranding.Design))
}
