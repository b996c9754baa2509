package nuc

// Matrix is a 4x4 reference-nucleotide x observed-nucleotide count matrix.
// Matrix[r][o] counts positions/bases where the reference (or predicted
// reference) was r and the observed base was o. The diagonal holds matches;
// off-diagonal cells hold mismatches.
type Matrix [NBase][NBase]uint32

// Add credits one observation of obs against reference ref.
func (m *Matrix) Add(ref, obs Nucleotide) {
	if ref > T || obs > T {
		return
	}
	m[ref][obs]++
}

// AddN credits n observations of obs against reference ref.
func (m *Matrix) AddN(ref, obs Nucleotide, n uint32) {
	if ref > T || obs > T {
		return
	}
	m[ref][obs] += n
}

// AddCounts folds an observed Counts vector into row ref.
func (m *Matrix) AddCounts(ref Nucleotide, obs Counts) {
	if ref > T {
		return
	}
	m[ref][A] += obs.A
	m[ref][C] += obs.C
	m[ref][G] += obs.G
	m[ref][T] += obs.T
}

// Merge adds other into m, cell-wise.
func (m *Matrix) Merge(other Matrix) {
	for r := Nucleotide(0); r < NBase; r++ {
		for o := Nucleotide(0); o < NBase; o++ {
			m[r][o] += other[r][o]
		}
	}
}

// Coverage is the sum of every row, i.e. every base counted against a known
// reference nucleotide.
func (m Matrix) Coverage() uint64 {
	var total uint64
	for r := Nucleotide(0); r < NBase; r++ {
		for o := Nucleotide(0); o < NBase; o++ {
			total += uint64(m[r][o])
		}
	}
	return total
}

// Matches is the sum of the diagonal.
func (m Matrix) Matches() uint64 {
	var total uint64
	for r := Nucleotide(0); r < NBase; r++ {
		total += uint64(m[r][r])
	}
	return total
}

// Mismatches is Coverage - Matches.
func (m Matrix) Mismatches() uint64 {
	return m.Coverage() - m.Matches()
}

// RowCounts returns row ref as a Counts value.
func (m Matrix) RowCounts(ref Nucleotide) Counts {
	if ref > T {
		return Counts{}
	}
	return Counts{A: m[ref][A], C: m[ref][C], G: m[ref][G], T: m[ref][T]}
}
