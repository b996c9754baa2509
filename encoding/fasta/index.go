package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// faiRecord is one row of a samtools-faidx-compatible index: a sequence
// name, its total base count, the byte offset of its first base, and the
// line-wrapping geometry NewIndexed needs to skip over newlines during
// random access (http://www.htslib.org/doc/faidx.html).
type faiRecord struct {
	name                 string
	bases, offset        int64
	lineBases, lineWidth int64
}

func (r faiRecord) writeTo(w *tsv.Writer) error {
	w.WriteString(r.name)
	w.WriteInt64(r.bases)
	w.WriteInt64(r.offset)
	w.WriteInt64(r.lineBases)
	w.WriteInt64(r.lineWidth)
	return w.EndLine()
}

// faiBuilder accumulates faiRecords one FASTA line at a time.
type faiBuilder struct {
	cur faiRecord
	out []faiRecord
}

// startSequence closes out the in-progress record (if it ever saw a
// sequence line) and opens a new one at byte offset off.
func (b *faiBuilder) startSequence(name string, off int64) error {
	if b.cur.lineWidth != 0 {
		if b.cur.name == "" {
			return errors.New("malformed FASTA file")
		}
		b.out = append(b.out, b.cur)
	}
	b.cur = faiRecord{name: name, offset: off}
	return nil
}

// addLine folds one sequence line into the in-progress record. rawLen
// includes the line's terminator; line does not.
func (b *faiBuilder) addLine(line []byte, rawLen int) {
	if b.cur.lineWidth == 0 {
		b.cur.lineWidth = int64(rawLen)
		b.cur.lineBases = int64(len(line))
	}
	b.cur.bases += int64(len(line))
}

func (b *faiBuilder) finish() []faiRecord {
	return append(b.out, b.cur)
}

// GenerateIndex writes a samtools-faidx-compatible index for in's FASTA
// content to out; NewIndexed consumes the same format for random access.
func GenerateIndex(out io.Writer, in io.Reader) error {
	r := bufio.NewReader(in)
	var builder faiBuilder
	var cumBytes int64

	for {
		rawLine, readErr := r.ReadBytes('\n')
		cumBytes += int64(len(rawLine))
		line := bytes.TrimRight(rawLine, "\r\n")

		switch {
		case len(line) == 0:
		case line[0] == '>':
			name := strings.Split(string(line[1:]), " ")[0]
			if err := builder.startSequence(name, cumBytes); err != nil {
				return err
			}
		default:
			builder.addLine(line, len(rawLine))
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return errors.Wrap(readErr, "reading FASTA input")
		}
	}
	if cumBytes == 0 {
		return errors.New("empty FASTA file")
	}

	w := tsv.NewWriter(out)
	for _, rec := range builder.finish() {
		if err := rec.writeTo(w); err != nil {
			return errors.Wrap(err, "writing index line")
		}
	}
	return errors.Wrap(w.Flush(), "flushing index")
}
