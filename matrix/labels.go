// SPDX-License-Identifier: MIT

package matrix

import "fmt"

// Undefined marks a label cell that was never assigned.
const Undefined = "<undefined>"

// Labels is a row-major string table parallel to a score Dense:
// Labels.At(h, d) is the relation selected for the arc h→d.
type Labels struct {
	r, c int
	data []string
}

// NewLabels allocates an r×c table with every cell set to Undefined.
func NewLabels(rows, cols int) (*Labels, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	data := make([]string, rows*cols)
	for i := range data {
		data[i] = Undefined
	}

	return &Labels{r: rows, c: cols, data: data}, nil
}

// Rows returns the row count.
func (l *Labels) Rows() int { return l.r }

// Cols returns the column count.
func (l *Labels) Cols() int { return l.c }

// At returns the label stored for (row, col).
func (l *Labels) At(row, col int) (string, error) {
	if row < 0 || row >= l.r || col < 0 || col >= l.c {
		return Undefined, fmt.Errorf("Labels.At(%d,%d): %w", row, col, ErrOutOfRange)
	}

	return l.data[row*l.c+col], nil
}

// Set stores label at (row, col).
func (l *Labels) Set(row, col int, label string) error {
	if row < 0 || row >= l.r || col < 0 || col >= l.c {
		return fmt.Errorf("Labels.Set(%d,%d): %w", row, col, ErrOutOfRange)
	}
	l.data[row*l.c+col] = label

	return nil
}
