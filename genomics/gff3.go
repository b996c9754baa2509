package genomics

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/biomancy/reat/nuc"
)

// maxGFF3Columns is seqid, source, type, start, end, score, strand, phase,
// attributes.
const maxGFF3Columns = 9

// Feature is one strand-bearing GFF3 record, 0-based half-open to match
// Interval (GFF3 itself is 1-based closed on disk).
type Feature struct {
	Interval Interval
	Strand   nuc.Strand
}

// ParseGFF3 reads a GFF3 annotation and returns its Forward/Reverse
// features, per spec.md §6: only Forward/Reverse strands are retained,
// unstranded ('.') and unknown ('?') features are dropped.
func ParseGFF3(r io.Reader) ([]Feature, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<20)

	var features []Feature
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var tokens [maxGFF3Columns][]byte
		n := getTokens(tokens[:], line)
		if n < 7 {
			return nil, errors.Errorf("gff3:%d: expected at least 7 columns, got %d", lineNo, n)
		}

		var strand nuc.Strand
		switch string(tokens[6]) {
		case "+":
			strand = nuc.Forward
		case "-":
			strand = nuc.Reverse
		default:
			continue
		}

		// GFF3 coordinates are 1-based, both ends inclusive.
		start, err := strconv.ParseUint(string(tokens[3]), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "gff3:%d: invalid start", lineNo)
		}
		end, err := strconv.ParseUint(string(tokens[4]), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "gff3:%d: invalid end", lineNo)
		}
		if start == 0 || end < start {
			return nil, errors.Errorf("gff3:%d: invalid coordinates %d-%d", lineNo, start, end)
		}

		iv := Interval{Contig: string(tokens[0]), Start: start - 1, End: end}
		features = append(features, Feature{Interval: iv, Strand: strand})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "gff3: read error")
	}
	return features, nil
}
