// Package nuc implements the four-channel nucleotide arithmetic shared by
// every later stage of the mismatch pipeline: decoding bases from FASTA/SAM
// bytes, accumulating per-position channel counts, and folding observed
// counts against a reference into a mismatch matrix.
package nuc

// Nucleotide is one of A, C, G, T or Unknown, decoded case-insensitively
// from FASTA bytes or from a SAM record's packed sequence.
type Nucleotide byte

const (
	// A represents an adenine base.
	A Nucleotide = iota
	// C represents a cytosine base.
	C
	// G represents a guanine base.
	G
	// T represents a thymine/uracil base.
	T
	// Unknown covers ambiguity codes (N and friends) and gaps.
	Unknown
)

// NBase is the number of non-ambiguous nucleotides.
const NBase = 4

// ASCIITable maps a Nucleotide to its canonical upper-case ASCII byte.
var ASCIITable = [...]byte{A: 'A', C: 'C', G: 'G', T: 'T', Unknown: 'N'}

// String implements fmt.Stringer.
func (n Nucleotide) String() string {
	if n > Unknown {
		return "N"
	}
	return string(ASCIITable[n])
}

// fromASCII maps every byte value to its Nucleotide, built once at package
// init so FromASCIIByte is a single array lookup.
var fromASCII [256]Nucleotide

func init() {
	for i := range fromASCII {
		fromASCII[i] = Unknown
	}
	fromASCII['A'], fromASCII['a'] = A, A
	fromASCII['C'], fromASCII['c'] = C, C
	fromASCII['G'], fromASCII['g'] = G, G
	fromASCII['T'], fromASCII['t'] = T, T
	fromASCII['U'], fromASCII['u'] = T, T
}

// FromASCIIByte decodes a single FASTA/read byte case-insensitively.
// Ambiguity codes (N, R, Y, ...) and anything else decode to Unknown.
func FromASCIIByte(b byte) Nucleotide {
	return fromASCII[b]
}

// seq8ToEnumTable maps a BAM record's 4-bit packed base code (sam.Seq
// nibble, as defined by the SAM spec: 1=A, 2=C, 4=G, 8=T, 15=N, ...) to a
// Nucleotide. Everything other than the four unambiguous single-bit codes
// maps to Unknown.
var seq8ToEnumTable = [...]Nucleotide{
	0:  Unknown,
	1:  A,
	2:  C,
	3:  Unknown,
	4:  G,
	5:  Unknown,
	6:  Unknown,
	7:  Unknown,
	8:  T,
	9:  Unknown,
	10: Unknown,
	11: Unknown,
	12: Unknown,
	13: Unknown,
	14: Unknown,
	15: Unknown,
}

// FromPacked decodes a BAM-packed 4-bit base nibble (as returned by
// sam.Seq.Base or biogo/hts's Seq byte layout) into a Nucleotide.
func FromPacked(nibble byte) Nucleotide {
	return seq8ToEnumTable[nibble&0xf]
}
