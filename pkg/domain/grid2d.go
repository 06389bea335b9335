package domain

import "fmt"

// Grid2D is a dense row-major 2-D array. Wrapped phase images, unwrapped
// phase images and residue fields are all carried in this type.
//
// The zero value is not usable; construct with NewGrid2D or FromRows.
type Grid2D[T any] struct {
	rows int
	cols int
	data []T
}

// NewGrid2D creates a zero-initialized rows x cols grid.
func NewGrid2D[T any](rows, cols int) *Grid2D[T] {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("domain: negative grid shape %dx%d", rows, cols))
	}
	return &Grid2D[T]{
		rows: rows,
		cols: cols,
		data: make([]T, rows*cols),
	}
}

// FromRows creates a grid from a slice of equal-length rows.
// Returns an error if the rows are empty or ragged.
func FromRows[T any](rows [][]T) (*Grid2D[T], error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("domain: empty grid")
	}
	g := NewGrid2D[T](len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != g.cols {
			return nil, fmt.Errorf("domain: ragged grid: row %d has %d columns, want %d", i, len(row), g.cols)
		}
		copy(g.data[i*g.cols:(i+1)*g.cols], row)
	}
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid2D[T]) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid2D[T]) Cols() int { return g.cols }

// Size returns the total number of elements.
func (g *Grid2D[T]) Size() int { return len(g.data) }

// At returns the element at (i, j).
func (g *Grid2D[T]) At(i, j int) T {
	return g.data[g.index(i, j)]
}

// Set stores v at (i, j).
func (g *Grid2D[T]) Set(i, j int, v T) {
	g.data[g.index(i, j)] = v
}

// Data returns the backing row-major slice. The caller must not resize it.
func (g *Grid2D[T]) Data() []T { return g.data }

// ToRows copies the grid into a slice of rows.
func (g *Grid2D[T]) ToRows() [][]T {
	out := make([][]T, g.rows)
	for i := range out {
		row := make([]T, g.cols)
		copy(row, g.data[i*g.cols:(i+1)*g.cols])
		out[i] = row
	}
	return out
}

func (g *Grid2D[T]) index(i, j int) int {
	if i < 0 || i >= g.rows || j < 0 || j >= g.cols {
		panic(fmt.Sprintf("domain: index (%d,%d) out of range for %dx%d grid", i, j, g.rows, g.cols))
	}
	return i*g.cols + j
}
