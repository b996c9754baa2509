// Package config holds the single immutable configuration struct built
// once in cmd/reat from parsed flags and threaded into every component
// constructor, mirroring the teacher's pileup/snp.Opts/DefaultOpts shape.
package config

import (
	"github.com/biomancy/reat/rerr"
	"github.com/biomancy/reat/strandutil"
)

// Stranding names the §6 "stranding" enumeration: either unstranded (the
// pileup credits a single buffer and relies entirely on the stranding
// engine) or one of the four library designs strandutil knows how to
// deduce from read orientation.
type Stranding struct {
	Unstranded bool
	Design     strandutil.LibraryDesign
}

// ParseStranding parses the five CLI spellings from spec.md §6.
func ParseStranding(s string) (Stranding, error) {
	if s == "u" || s == "unstranded" {
		return Stranding{Unstranded: true}, nil
	}
	design, err := strandutil.ParseLibraryDesign(s)
	if err != nil {
		return Stranding{}, rerr.Wrapf(err, rerr.ConfigError, "config: stranding %q", s)
	}
	return Stranding{Design: design}, nil
}

// AutorefConfig holds the §6 "autoref" option group. Enabled gates whether
// the reference engine is wrapped in refnuc.Autoref at all; when false the
// FASTA reference passes through unmodified regardless of the other
// fields' zero values.
type AutorefConfig struct {
	Enabled          bool
	MinCoverage      uint32
	MinFreq          float64
	SkipOnUnknownRef bool
}

// EditingThreshold holds the §6 "editing-threshold" option group, shared
// by the ByEditing stranding algorithm and the hooks-engine post-filter.
type EditingThreshold struct {
	MinMismatches uint32
	MinFreq       float64
}

// OutputMode selects the TSV shape §6 describes: per-site "loci" rows or
// per-ROI "regions" rows with the 16-column editing table.
type OutputMode int

const (
	// OutputLoci emits one row per mismatching site.
	OutputLoci OutputMode = iota
	// OutputRegions emits one row per retained ROI.
	OutputRegions
)

// Config is the run's complete, immutable configuration, built once in
// cmd/reat and passed by value/pointer into every component constructor.
// No field is ever mutated after construction, per spec.md §9's "no global
// mutable state" design note.
type Config struct {
	BAMPaths   []string
	FastaPath  string
	BEDPath    string
	Annotation string // path to GFF3; empty disables ByFeatures.
	Retain     string // path to a BED-like retention list; empty disables it.

	Stranding Stranding

	MapQ  byte
	Phred byte

	IncludeFlags uint16
	ExcludeFlags uint16

	BinSize         uint64
	MinIntervalSize uint64

	Autoref          AutorefConfig
	EditingThreshold EditingThreshold
	FeatureThreshold float64

	CoverageThreshold uint32

	Output OutputMode
	Out    string

	Threads int
}

// Validate runs the cross-flag checks the original implementation's
// src/cli/validate.rs performs (spec.md §7's "surfaced before any work
// starts" ConfigError policy): contradictory or missing options are caught
// here rather than mid-run.
func (c Config) Validate() error {
	if len(c.BAMPaths) == 0 {
		return rerr.New(rerr.ConfigError, "config: at least one BAM path is required")
	}
	if c.FastaPath == "" {
		return rerr.New(rerr.ConfigError, "config: a FASTA reference path is required")
	}
	if c.Annotation != "" && c.Stranding.Unstranded {
		return rerr.New(rerr.ConfigError, "config: -annotation has no effect without a stranding declaration")
	}
	if c.Autoref.MinFreq < 0 || c.Autoref.MinFreq > 1 {
		return rerr.New(rerr.ConfigError, "config: autoref min-freq must be in [0,1]")
	}
	if c.EditingThreshold.MinFreq < 0 || c.EditingThreshold.MinFreq > 1 {
		return rerr.New(rerr.ConfigError, "config: editing-threshold min-freq must be in [0,1]")
	}
	if c.FeatureThreshold < 0 || c.FeatureThreshold > 1 {
		return rerr.New(rerr.ConfigError, "config: feature-threshold must be in [0,1]")
	}
	if c.BinSize == 0 {
		return rerr.New(rerr.ConfigError, "config: bin-size must be positive")
	}
	if c.Threads <= 0 {
		return rerr.New(rerr.ConfigError, "config: threads must be positive")
	}
	if c.Out == "" {
		return rerr.New(rerr.ConfigError, "config: an output path is required")
	}
	return nil
}
