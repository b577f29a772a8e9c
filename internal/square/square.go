// internal/square/square.go
//
// This package builds odd-order magic squares with the Siamese method.
// Every other package in magicsquare only presents what Construct returns.

package square

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidSize is returned when the requested order is even or not positive.
	ErrInvalidSize = errors.New("square: size must be a positive odd integer")

	// ErrTooLarge is returned when the requested order exceeds MaxSize.
	ErrTooLarge = errors.New("square: size too large")

	// ErrNotMagic is returned by Verify when a square breaks the magic property.
	ErrNotMagic = errors.New("square: not a magic square")
)

// MaxSize is the largest order Construct will build. The grid for MaxSize
// holds about 16.7 million cells.
const MaxSize = 4095

// empty marks a cell that has not been assigned yet.
const empty = 0

// Square is a finished n×n magic square. Row 0 is the top row and column 0 is
// the left column. The zero value is an empty square of size 0.
type Square struct {
	n     int
	cells []int
}

// MagicSum returns the common line sum n·(n²+1)/2 for a square of order n.
func MagicSum(n int) int {
	return n * (n*n + 1) / 2
}

// Construct places 1..n² with the Siamese method: start in the middle of the
// top row, step up and to the right with wraparound, and drop one row below
// the previous placement whenever the diagonal cell is already taken.
func Construct(n int) (Square, error) {
	if n <= 0 || n%2 == 0 {
		return Square{}, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}
	if n > MaxSize {
		return Square{}, fmt.Errorf("%w: got %d, max %d", ErrTooLarge, n, MaxSize)
	}

	cells := make([]int, n*n)
	row, col := 0, n/2
	for num := 1; num <= n*n; num++ {
		cells[row*n+col] = num

		prevRow, prevCol := row, col
		row = wrap(row-1, n)
		col = wrap(col+1, n)
		if cells[row*n+col] != empty {
			row = wrap(prevRow+1, n)
			col = prevCol
		}
	}
	return Square{n: n, cells: cells}, nil
}

// wrap folds i into [0, n), including negative values.
func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// Size returns the order n of the square.
func (s Square) Size() int {
	return s.n
}

// IsZero reports whether s was never constructed.
func (s Square) IsZero() bool {
	return s.n == 0
}

// At returns the value at (row, col). It panics when the position is outside
// the square, like indexing a slice would.
func (s Square) At(row, col int) int {
	if row < 0 || row >= s.n || col < 0 || col >= s.n {
		panic(fmt.Sprintf("square: position (%d, %d) outside %dx%d square", row, col, s.n, s.n))
	}
	return s.cells[row*s.n+col]
}

// Rows returns a copy of the grid, one slice per row.
func (s Square) Rows() [][]int {
	rows := make([][]int, s.n)
	for r := range rows {
		rows[r] = make([]int, s.n)
		copy(rows[r], s.cells[r*s.n:(r+1)*s.n])
	}
	return rows
}

// Values returns the cells in row-major order.
func (s Square) Values() []int {
	out := make([]int, len(s.cells))
	copy(out, s.cells)
	return out
}

// MagicSum returns the line sum every row, column and diagonal shares.
func (s Square) MagicSum() int {
	return MagicSum(s.n)
}

// String renders the square as right-aligned, space separated rows.
func (s Square) String() string {
	width := len(strconv.Itoa(s.n * s.n))
	var b strings.Builder
	for r := 0; r < s.n; r++ {
		for c := 0; c < s.n; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%*d", width, s.cells[r*s.n+c])
		}
		if r < s.n-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
