/*
reat quantifies RNA editing from aligned reads: it piles up one or more
BAMs over a set of regions of interest, predicts each position's reference
nucleotide from a FASTA (optionally overridden by observed majority via
-autoref), strands the resulting mismatch batches, and emits a per-ROI or
per-site TSV table.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/guptarohit/asciigraph"

	"github.com/biomancy/reat/config"
	"github.com/biomancy/reat/encoding/fasta"
	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/hooks"
	"github.com/biomancy/reat/mismatches"
	"github.com/biomancy/reat/output"
	"github.com/biomancy/reat/rerr"
	"github.com/biomancy/reat/rpileup"
	"github.com/biomancy/reat/runner"
	"github.com/biomancy/reat/stranding"
	"github.com/biomancy/reat/workload"
)

// bamList collects repeated -bam flags into an ordered path list.
type bamList []string

func (b *bamList) String() string { return strings.Join(*b, ",") }
func (b *bamList) Set(v string) error {
	*b = append(*b, v)
	return nil
}

var (
	bamPaths          bamList
	fastaPath         = flag.String("fasta", "", "Reference FASTA path; requires a colocated .fai")
	bedPath           = flag.String("bed", "", "ROI BED path (required)")
	annotation        = flag.String("annotation", "", "GFF3 annotation path; enables the ByFeatures stranding algorithm")
	retain            = flag.String("retain", "", "BED-like path restricting output: exact ROI list in regions mode, overlapping interval set in loci mode")
	strandingFlag     = flag.String("stranding", "u", "Library design: u|unstranded, s, f, s/f, f/s")
	mapq              = flag.Int("mapq", 0, "Minimum read mapping quality")
	phred             = flag.Int("phred", 0, "Minimum per-base quality")
	includeFlags      = flag.Int("include-flags", 0, "Reads must carry every bit in this SAM flag mask")
	excludeFlags      = flag.Int("exclude-flags", 0xf00, "Reads carrying any bit in this SAM flag mask are dropped")
	binSize           = flag.Int("bin-size", 1 << 20, "Workload partitioner bin size, in bases")
	minIntervalSize   = flag.Int("min-interval-size", 0, "Minimum fetch window width per workload")
	autorefEnabled    = flag.Bool("autoref", false, "Override the reference nucleotide with the observed majority where it clears min-coverage/min-freq")
	autorefMinCov     = flag.Int("autoref-min-coverage", 10, "Autoref minimum coverage")
	autorefMinFreq    = flag.Float64("autoref-min-freq", 0.9, "Autoref minimum majority frequency")
	autorefSkipUnk    = flag.Bool("autoref-skip-on-unknown-ref", true, "Leave Unknown reference positions alone instead of pulling from data")
	editingMinMM      = flag.Uint("editing-min-mismatches", 0, "Minimum A->G/T->C mismatches for ByEditing stranding/filtering")
	editingMinFreq    = flag.Float64("editing-min-freq", 0, "Minimum A->G/T->C mismatch frequency for ByEditing stranding/filtering")
	featureThreshold  = flag.Float64("feature-threshold", 0.5, "Minimum single-strand coverage fraction for ByFeatures stranding")
	coverageThreshold = flag.Uint("coverage-threshold", 0, "Minimum ROI coverage required to emit a row (regions mode only)")
	outputMode        = flag.String("mode", "regions", "Output mode: loci or regions")
	outPath           = flag.String("out", "", "Output TSV path (required)")
	threads           = flag.Int("threads", 1, "Worker count")
	summary           = flag.Bool("summary", false, "Print a per-run coverage sparkline to stderr after finishing")
)

func init() {
	flag.Var(&bamPaths, "bam", "Input BAM path; repeatable for multi-sample runs")
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -bam f1.bam [-bam f2.bam ...] -fasta ref.fa -bed rois.bed -out out.tsv [options]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if err := run(vcontext.Background()); err != nil {
		log.Error.Printf("%v", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if rerr.Is(err, rerr.ConfigError) {
		return 2
	}
	return 1
}

func run(ctx context.Context) error {
	strandCfg, err := config.ParseStranding(*strandingFlag)
	if err != nil {
		return err
	}

	cfg := config.Config{
		BAMPaths:   bamPaths,
		FastaPath:  *fastaPath,
		BEDPath:    *bedPath,
		Annotation: *annotation,
		Retain:     *retain,

		Stranding: strandCfg,

		MapQ:  byte(*mapq),
		Phred: byte(*phred),

		IncludeFlags: uint16(*includeFlags),
		ExcludeFlags: uint16(*excludeFlags),

		BinSize:         uint64(*binSize),
		MinIntervalSize: uint64(*minIntervalSize),

		Autoref: config.AutorefConfig{
			Enabled:          *autorefEnabled,
			MinCoverage:      uint32(*autorefMinCov),
			MinFreq:          *autorefMinFreq,
			SkipOnUnknownRef: *autorefSkipUnk,
		},
		EditingThreshold: config.EditingThreshold{
			MinMismatches: uint32(*editingMinMM),
			MinFreq:       *editingMinFreq,
		},
		FeatureThreshold:  *featureThreshold,
		CoverageThreshold: uint32(*coverageThreshold),

		Out:     *outPath,
		Threads: *threads,
	}

	siteMode, err := parseOutputMode(*outputMode, &cfg)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := rpileup.CheckHeadersAgree(ctx, cfg.BAMPaths); err != nil {
		return rerr.Wrap(err, rerr.IndexMismatch, "reat: BAM header check")
	}

	rois, err := readBED(ctx, cfg.BEDPath)
	if err != nil {
		return err
	}
	for _, roi := range rois {
		if err := roi.Validate(); err != nil {
			return rerr.Wrap(err, rerr.DataError, "reat: invalid ROI")
		}
	}

	fa, err := openFasta(ctx, cfg.FastaPath)
	if err != nil {
		return err
	}

	retainers := mismatches.AndRetainers{mismatches.ByMismatches{
		MinMismatches: uint64(cfg.EditingThreshold.MinMismatches),
		MinFreq:       cfg.EditingThreshold.MinFreq,
	}}
	var siteRetainer *mismatches.RetainSitesFromIntervals
	if cfg.Retain != "" {
		retainList, err := readBED(ctx, cfg.Retain)
		if err != nil {
			return err
		}
		retainers = append(retainers, mismatches.NewRetainROIFromList(retainList))

		intervals := make([]genomics.Interval, len(retainList))
		for i, r := range retainList {
			intervals[i] = r.Interval
		}
		siteRetainer = mismatches.NewRetainSitesFromIntervals(intervals)
	}
	var retainer mismatches.ROIRetainer = retainers

	strandingEngine, err := buildStrandingEngine(ctx, cfg)
	if err != nil {
		return err
	}
	hooksEngine := buildHooksEngine(cfg)

	workloads := workload.Partition(rois, cfg.BinSize, cfg.MinIntervalSize)
	log.Printf("reat: %d ROIs partitioned into %d workloads", len(rois), len(workloads))

	result, err := runner.Run(ctx, cfg, workloads, fa, retainer, siteRetainer, strandingEngine, hooksEngine, siteMode)
	if err != nil {
		return err
	}
	log.Printf("reat: %d ROI rows, %d site rows retained", len(result.ROIs), len(result.Sites))

	if siteMode {
		if err := output.WriteLoci(ctx, cfg.Out, result.Sites); err != nil {
			return rerr.Wrap(err, rerr.IoError, "reat: writing loci output")
		}
	} else {
		if err := output.WriteRegions(ctx, cfg.Out, result.ROIs, cfg.CoverageThreshold); err != nil {
			return rerr.Wrap(err, rerr.IoError, "reat: writing regions output")
		}
	}

	if *summary {
		printSummary(result.Hooks)
	}
	return nil
}

func parseOutputMode(s string, cfg *config.Config) (siteMode bool, err error) {
	switch s {
	case "loci":
		cfg.Output = config.OutputLoci
		return true, nil
	case "regions":
		cfg.Output = config.OutputRegions
		return false, nil
	default:
		return false, rerr.Newf(rerr.ConfigError, "reat: unknown -mode %q (want loci or regions)", s)
	}
}

func readBED(ctx context.Context, path string) ([]genomics.ROI, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, rerr.Wrapf(err, rerr.IoError, "reat: opening %s", path)
	}
	defer f.Close(ctx)
	rois, err := genomics.ParseBED(f.Reader(ctx))
	if err != nil {
		return nil, rerr.Wrapf(err, rerr.DataError, "reat: parsing %s", path)
	}
	genomics.SortROIs(rois)
	return rois, nil
}

func openFasta(ctx context.Context, path string) (fasta.Fasta, error) {
	faFile, err := file.Open(ctx, path)
	if err != nil {
		return nil, rerr.Wrapf(err, rerr.IoError, "reat: opening %s", path)
	}
	idxFile, err := file.Open(ctx, path+".fai")
	if err != nil {
		return nil, rerr.Wrapf(err, rerr.IoError, "reat: opening %s.fai", path)
	}
	defer idxFile.Close(ctx)

	fa, err := fasta.NewIndexed(faFile.Reader(ctx), idxFile.Reader(ctx))
	if err != nil {
		return nil, rerr.Wrapf(err, rerr.DataError, "reat: indexing %s", path)
	}
	return fa, nil
}

func readGFF3(ctx context.Context, path string) ([]genomics.Feature, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, rerr.Wrapf(err, rerr.IoError, "reat: opening %s", path)
	}
	defer f.Close(ctx)
	features, err := genomics.ParseGFF3(f.Reader(ctx))
	if err != nil {
		return nil, rerr.Wrapf(err, rerr.DataError, "reat: parsing %s", path)
	}
	return features, nil
}

func buildStrandingEngine(ctx context.Context, cfg config.Config) (*stranding.Engine, error) {
	var algorithms []stranding.Algorithm
	if cfg.Annotation != "" {
		features, err := readGFF3(ctx, cfg.Annotation)
		if err != nil {
			return nil, err
		}
		algorithms = append(algorithms, stranding.NewByFeatures(features, cfg.FeatureThreshold))
	}
	algorithms = append(algorithms, stranding.ByEditing{
		MinMismatches: cfg.EditingThreshold.MinMismatches,
		MinFreq:       cfg.EditingThreshold.MinFreq,
	})
	return stranding.NewEngine(algorithms...), nil
}

func buildHooksEngine(cfg config.Config) *hooks.Engine {
	filters := []hooks.FilterHook{
		hooks.ByEditing{
			MinMismatches: cfg.EditingThreshold.MinMismatches,
			MinFreq:       cfg.EditingThreshold.MinFreq,
		},
	}
	stats := []hooks.StatHook{
		hooks.NewROIEditingIndex(),
		hooks.NewRunSummary(),
	}
	return hooks.NewEngine(filters, stats)
}

func printSummary(engine *hooks.Engine) {
	stat, ok := engine.Stat("run_summary")
	if !ok {
		return
	}
	summaryHook, ok := stat.(*hooks.RunSummary)
	if !ok {
		return
	}
	mean, stddev, quantiles := summaryHook.CoverageStats()
	fmt.Fprintf(os.Stderr, "coverage: mean=%.1f stddev=%.1f p50=%.1f p90=%.1f p99=%.1f\n",
		mean, stddev, quantiles[0], quantiles[1], quantiles[2])
	fmt.Fprintln(os.Stderr, asciigraph.Plot([]float64{mean, quantiles[0], quantiles[1], quantiles[2]},
		asciigraph.Height(5), asciigraph.Precision(1)))
}
