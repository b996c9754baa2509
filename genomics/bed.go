package genomics

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// getTokens splits curLine on runs of whitespace, writing up to len(tokens)
// fields into tokens and returning how many were found. Any byte <= ' ' is
// treated as a delimiter, matching BED/GFF3's tab-or-space tolerant column
// layout.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// maxBEDColumns is chrom, start, end, name, score, strand, thickStart,
// thickEnd, itemRgb, blockCount, blockSizes, blockStarts.
const maxBEDColumns = 12

// ParseBED reads a whitespace-separated BED-like file per spec.md §6:
// required columns chrom/start/end, optional name/score/strand/thick*/
// itemRgb/block*. When block columns are present, ROI.Blocks are derived
// from blockStarts[i]..blockStarts[i]+blockSizes[i].
func ParseBED(r io.Reader) ([]ROI, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<20)

	var rois []ROI
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		var tokens [maxBEDColumns][]byte
		n := getTokens(tokens[:], line)
		if n < 3 {
			return nil, errors.Errorf("bed:%d: expected at least 3 columns (chrom, start, end), got %d", lineNo, n)
		}

		start, err := strconv.ParseUint(string(tokens[1]), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bed:%d: invalid start", lineNo)
		}
		end, err := strconv.ParseUint(string(tokens[2]), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bed:%d: invalid end", lineNo)
		}

		roi := ROI{Interval: Interval{Contig: string(tokens[0]), Start: start, End: end}}
		if err := roi.Interval.Validate(); err != nil {
			return nil, errors.Wrapf(err, "bed:%d", lineNo)
		}

		if n >= 4 {
			roi.Name = string(tokens[3])
		} else {
			roi.Name = strconv.Itoa(lineNo)
		}

		if n >= 12 {
			blocks, err := parseBlocks(tokens[9], tokens[10], tokens[11])
			if err != nil {
				return nil, errors.Wrapf(err, "bed:%d: invalid block columns", lineNo)
			}
			roi.Blocks = blocks
		}
		if err := roi.Validate(); err != nil {
			return nil, errors.Wrapf(err, "bed:%d", lineNo)
		}
		rois = append(rois, roi)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "bed: read error")
	}
	return rois, nil
}

func parseBlocks(blockCountTok, sizesTok, startsTok []byte) ([]Range, error) {
	count, err := strconv.Atoi(string(blockCountTok))
	if err != nil {
		return nil, errors.Wrap(err, "blockCount")
	}
	sizes := strings.Split(strings.TrimRight(string(sizesTok), ","), ",")
	starts := strings.Split(strings.TrimRight(string(startsTok), ","), ",")
	if len(sizes) < count || len(starts) < count {
		return nil, errors.Errorf("blockSizes/blockStarts shorter than blockCount=%d", count)
	}
	blocks := make([]Range, count)
	for i := 0; i < count; i++ {
		size, err := strconv.ParseUint(sizes[i], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "blockSizes[%d]", i)
		}
		off, err := strconv.ParseUint(starts[i], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "blockStarts[%d]", i)
		}
		blocks[i] = Range{Start: off, End: off + size}
	}
	sortRanges(blocks)
	return blocks, nil
}

func sortRanges(rs []Range) {
	for i := 1; i < len(rs); i++ {
		for j := i; j > 0 && rs[j].Start < rs[j-1].Start; j-- {
			rs[j], rs[j-1] = rs[j-1], rs[j]
		}
	}
}
