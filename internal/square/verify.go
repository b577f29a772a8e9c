package square

import "fmt"

// Sums reports every line total of a square.
type Sums struct {
	Rows     []int `yaml:"rows" json:"rows"`
	Columns  []int `yaml:"columns" json:"columns"`
	Diagonal int   `yaml:"diagonal" json:"diagonal"`
	Anti     int   `yaml:"anti_diagonal" json:"antiDiagonal"`
}

// Sums computes the row, column and diagonal totals of s.
func (s Square) Sums() Sums {
	sums := Sums{
		Rows:    make([]int, s.n),
		Columns: make([]int, s.n),
	}
	for r := 0; r < s.n; r++ {
		for c := 0; c < s.n; c++ {
			v := s.cells[r*s.n+c]
			sums.Rows[r] += v
			sums.Columns[c] += v
			if r == c {
				sums.Diagonal += v
			}
			if r+c == s.n-1 {
				sums.Anti += v
			}
		}
	}
	return sums
}

// Verify checks that s holds each of 1..n² once and that every row, column
// and both diagonals add up to the magic sum. The returned error wraps
// ErrNotMagic and names the first failing line.
func Verify(s Square) error {
	if s.IsZero() {
		return fmt.Errorf("%w: empty square", ErrNotMagic)
	}
	if len(s.cells) != s.n*s.n {
		return fmt.Errorf("%w: %d cells for order %d", ErrNotMagic, len(s.cells), s.n)
	}
	seen := make([]bool, s.n*s.n+1)
	for i, v := range s.cells {
		if v < 1 || v > s.n*s.n {
			return fmt.Errorf("%w: value %d at (%d, %d) out of range", ErrNotMagic, v, i/s.n, i%s.n)
		}
		if seen[v] {
			return fmt.Errorf("%w: value %d appears more than once", ErrNotMagic, v)
		}
		seen[v] = true
	}

	want := s.MagicSum()
	sums := s.Sums()
	for r, got := range sums.Rows {
		if got != want {
			return fmt.Errorf("%w: row %d sums to %d, want %d", ErrNotMagic, r, got, want)
		}
	}
	for c, got := range sums.Columns {
		if got != want {
			return fmt.Errorf("%w: column %d sums to %d, want %d", ErrNotMagic, c, got, want)
		}
	}
	if sums.Diagonal != want {
		return fmt.Errorf("%w: main diagonal sums to %d, want %d", ErrNotMagic, sums.Diagonal, want)
	}
	if sums.Anti != want {
		return fmt.Errorf("%w: anti-diagonal sums to %d, want %d", ErrNotMagic, sums.Anti, want)
	}
	return nil
}

// Snapshot is the serialisable form of a square used by the print command.
type Snapshot struct {
	Size     int     `yaml:"size" json:"size"`
	MagicSum int     `yaml:"magic_sum" json:"magicSum"`
	Rows     [][]int `yaml:"rows,flow" json:"rows"`
}

// Snapshot captures s for encoding.
func (s Square) Snapshot() Snapshot {
	return Snapshot{Size: s.n, MagicSum: s.MagicSum(), Rows: s.Rows()}
}

// MarshalYAML encodes s as its Snapshot.
func (s Square) MarshalYAML() (interface{}, error) {
	return s.Snapshot(), nil
}
