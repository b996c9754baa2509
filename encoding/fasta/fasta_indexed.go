package fasta

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// faiEntry is one parsed row of a samtools .fai index: everything Get
// needs to map a (seqName, start, end) query onto the byte range of the
// underlying FASTA file, skipping the newlines that wrap each sequence's
// lines. See http://www.htslib.org/doc/faidx.html for the five-column
// format.
type faiEntry struct {
	length    uint64
	offset    uint64
	lineBases uint64
	lineWidth uint64
}

// byteSpan computes the raw byte range (including interleaved newlines)
// covering bases [start, end) of an entry at the given offset/geometry.
func (e faiEntry) byteSpan(start, end uint64) (off int64, n int) {
	charsPerNewline := e.lineWidth - e.lineBases
	byteOff := e.offset + start + charsPerNewline*(start/e.lineBases)

	firstLineBases := e.lineBases - (start % e.lineBases)
	var newlines uint64
	if end-start > firstLineBases {
		newlines = 1 + (end-start-firstLineBases)/e.lineBases
	}
	return int64(byteOff), int(end - start + newlines*charsPerNewline)
}

// parseFaiLine splits one whitespace-separated .fai row into a sequence
// name and its entry.
func parseFaiLine(line string) (string, faiEntry, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return "", faiEntry{}, errors.Errorf("malformed index line: %q", line)
	}
	nums := make([]uint64, 4)
	for i, f := range fields[1:] {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return "", faiEntry{}, errors.Wrapf(err, "malformed index line: %q", line)
		}
		nums[i] = n
	}
	return fields[0], faiEntry{length: nums[0], offset: nums[1], lineBases: nums[2], lineWidth: nums[3]}, nil
}

// readWindow caches the most recently read byte range of a ReadSeeker, so
// a run of nearby Get calls against the same region of the file can avoid
// reseeking.
type readWindow struct {
	off int64
	buf []byte
}

func (w *readWindow) read(r io.ReadSeeker, off int64, n int) ([]byte, error) {
	limit := off + int64(n)
	if off < w.off || limit > w.off+int64(len(w.buf)) {
		if pos, err := r.Seek(off, io.SeekStart); err != nil || pos != off {
			return nil, errors.Errorf("failed to seek to offset %d: %d, %v", off, pos, err)
		}
		size := 8192
		if size < n {
			size = n
		}
		if cap(w.buf) < size {
			w.buf = make([]byte, size)
		} else {
			w.buf = w.buf[:size]
		}
		read, err := r.Read(w.buf)
		if read < n {
			return nil, errors.New("encountered unexpected end of file (bad index? file doesn't end in newline?)")
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		w.off = off
		w.buf = w.buf[:read]
		if off < w.off || limit > w.off+int64(len(w.buf)) {
			return nil, errors.Errorf("internal error: failed to buffer offset %d", off)
		}
	}
	return w.buf[off-w.off : limit-w.off], nil
}

// deinterleave copies raw's non-newline bytes into dst, tracking position
// within a fixed lineWidth-wide cycle starting at byteOff.
func deinterleave(dst, raw []byte, entry faiEntry, byteOff int64) []byte {
	linePos := (uint64(byteOff) - entry.offset) % entry.lineWidth
	for _, b := range raw {
		if linePos < entry.lineBases {
			dst = append(dst, b)
		}
		linePos++
		if linePos == entry.lineWidth {
			linePos = 0
		}
	}
	return dst
}

// faidxFasta is a Fasta backed by a samtools .fai index: it seeks
// directly to a sequence's byte range on each Get instead of holding the
// whole file in memory.
type faidxFasta struct {
	entries map[string]faiEntry
	order   []string // SeqNames(), sorted by index offset
	reader  io.ReadSeeker

	mu       sync.Mutex
	window   readWindow
	assembly []byte // reused scratch buffer for de-interleaved output
}

// NewIndexed creates a new Fasta that can perform efficient random lookups
// using the provided index, without reading the data into memory.
func NewIndexed(fastaR io.ReadSeeker, index io.Reader) (Fasta, error) {
	f := &faidxFasta{entries: make(map[string]faiEntry), reader: fastaR}
	scanner := bufio.NewScanner(index)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		name, entry, err := parseFaiLine(line)
		if err != nil {
			return nil, err
		}
		f.entries[name] = entry
		f.order = append(f.order, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading fasta index")
	}
	sort.SliceStable(f.order, func(i, j int) bool {
		return f.entries[f.order[i]].offset < f.entries[f.order[j]].offset
	})
	return f, nil
}

// FaiToReferenceLengths reads a .fai index and returns a map of sequence
// name to sequence length, without reading the FASTA file it indexes.
func FaiToReferenceLengths(index io.Reader) (map[string]uint64, error) {
	f, err := NewIndexed(nil, index)
	if err != nil {
		return nil, err
	}
	lengths := make(map[string]uint64, len(f.SeqNames()))
	for _, name := range f.SeqNames() {
		length, err := f.Len(name)
		if err != nil {
			return nil, err
		}
		lengths[name] = length
	}
	return lengths, nil
}

// Len implements Fasta.Len().
func (f *faidxFasta) Len(seqName string) (uint64, error) {
	entry, ok := f.entries[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found in index: %s", seqName)
	}
	return entry.length, nil
}

// SeqNames implements Fasta.SeqNames().
func (f *faidxFasta) SeqNames() []string {
	return f.order
}

// Get implements Fasta.Get(): it reads the byte span covering [start,end)
// plus its interleaved newlines, then strips them out.
func (f *faidxFasta) Get(seqName string, start, end uint64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if end <= start {
		return "", errors.New("start must be less than end")
	}
	entry, ok := f.entries[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found in index: %s", seqName)
	}
	if end > entry.length {
		return "", errors.Errorf("end is past end of sequence %s: %d", seqName, entry.length)
	}

	byteOff, n := entry.byteSpan(start, end)
	raw, err := f.window.read(f.reader, byteOff, n)
	if err != nil {
		return "", err
	}

	f.assembly = deinterleave(f.assembly[:0], raw, entry, byteOff)
	return string(f.assembly), nil
}
