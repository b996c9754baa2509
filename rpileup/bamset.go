package rpileup

import (
	"context"
	"fmt"
	"io"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/bgzf/index"
	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/biomancy/reat/genomics"
)

// refByName finds a sam.Reference by name, the way bamprovider.RefByName
// does.
func refByName(h *sam.Header, name string) *sam.Reference {
	for _, ref := range h.Refs() {
		if ref.Name() == name {
			return ref
		}
	}
	return nil
}

// bamSource is one indexed BAM file opened for this thread: a Reader
// pinned to its own file handle plus the index used to compute fetch
// chunks. Not safe for concurrent use; a ThreadCache hands out one per
// worker.
type bamSource struct {
	path   string
	reader *bam.Reader
	index  *bam.Index
	closer io.Closer
}

// openBAM opens path and its ".bai" sibling for indexed, per-thread
// reading.
func openBAM(ctx context.Context, path string) (*bamSource, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "rpileup: opening %s", path)
	}
	reader, err := bam.NewReader(f.Reader(ctx), 1)
	if err != nil {
		_ = f.Close(ctx)
		return nil, errors.Wrapf(err, "rpileup: reading BAM header of %s", path)
	}

	idxFile, err := file.Open(ctx, path+".bai")
	if err != nil {
		_ = f.Close(ctx)
		return nil, errors.Wrapf(err, "rpileup: opening index for %s", path)
	}
	defer idxFile.Close(ctx)
	idx, err := bam.ReadIndex(idxFile.Reader(ctx))
	if err != nil {
		_ = f.Close(ctx)
		return nil, errors.Wrapf(err, "rpileup: reading index for %s", path)
	}

	return &bamSource{path: path, reader: reader, index: idx, closer: closeFunc(func() error {
		return f.Close(ctx)
	})}, nil
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

// Fetch implements ReadSource: it issues an index lookup for iv and walks
// every overlapping record through visit, the canonical
// Index.Chunks→bam.NewIterator flow.
func (s *bamSource) Fetch(iv genomics.Interval, visit func(rec *sam.Record) error) error {
	ref := refByName(s.reader.Header(), iv.Contig)
	if ref == nil {
		return nil
	}
	chunks, err := s.index.Chunks(ref, int(iv.Start), int(iv.End))
	if err == index.ErrInvalid || len(chunks) == 0 {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "rpileup: chunks for %s in %s", iv, s.path)
	}

	it, err := bam.NewIterator(s.reader, chunks)
	if err != nil {
		return errors.Wrapf(err, "rpileup: iterator for %s in %s", iv, s.path)
	}
	defer it.Close()

	for it.Next() {
		rec := it.Record()
		if rec.Pos >= int(iv.End) {
			break
		}
		if err := visit(rec); err != nil {
			return err
		}
	}
	return it.Error()
}

func (s *bamSource) Close() error {
	return s.closer.Close()
}

// BAMSet groups the BAM files one pileup run reads from. Fetch visits
// records from every file in order.
type BAMSet struct {
	sources []*bamSource
}

// Close releases every underlying file handle.
func (s *BAMSet) Close() error {
	var first error
	for _, src := range s.sources {
		if err := src.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Fetch implements ReadSource across every BAM in the set.
func (s *BAMSet) Fetch(iv genomics.Interval, visit func(rec *sam.Record) error) error {
	for _, src := range s.sources {
		if err := src.Fetch(iv, visit); err != nil {
			return err
		}
	}
	return nil
}

// OpenBAMSet opens every path for this worker thread.
func OpenBAMSet(ctx context.Context, paths []string) (*BAMSet, error) {
	set := &BAMSet{sources: make([]*bamSource, 0, len(paths))}
	for _, p := range paths {
		src, err := openBAM(ctx, p)
		if err != nil {
			_ = set.Close()
			return nil, err
		}
		set.sources = append(set.sources, src)
	}
	return set, nil
}

// CheckHeadersAgree opens every BAM's header exactly once and verifies all
// files share the same set of contigs and lengths, failing fast before any
// worker is started. Headers are fetched concurrently since each is an
// independent, possibly-remote read.
func CheckHeadersAgree(ctx context.Context, paths []string) error {
	if len(paths) < 2 {
		return nil
	}
	headers := make([]*sam.Header, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			f, err := file.Open(gctx, p)
			if err != nil {
				return errors.Wrapf(err, "rpileup: opening %s", p)
			}
			defer f.Close(gctx)
			r, err := bam.NewReader(f.Reader(gctx), 1)
			if err != nil {
				return errors.Wrapf(err, "rpileup: reading BAM header of %s", p)
			}
			headers[i] = r.Header()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	ref0 := headers[0].Refs()
	for i := 1; i < len(headers); i++ {
		refs := headers[i].Refs()
		if len(refs) != len(ref0) {
			return fmt.Errorf("rpileup: %s and %s disagree on reference count (%d vs %d)",
				paths[0], paths[i], len(ref0), len(refs))
		}
		for j, ref := range refs {
			if ref.Name() != ref0[j].Name() || ref.Len() != ref0[j].Len() {
				return fmt.Errorf("rpileup: %s and %s disagree on reference %q", paths[0], paths[i], ref.Name())
			}
		}
	}
	return nil
}
