package flagging

import "fmt"

// Flag codes. Values above Flagged are reserved for richer per-product
// codes.
const (
	Clean   byte = 0
	Flagged byte = 1
)

// Matrix is a rows x cols byte matrix marking RFI-suspected cells. It has
// the same shape and row-major layout as the spectrogram it was flagged
// from.
type Matrix struct {
	data []byte
	rows int
	cols int
}

// NewMatrix allocates an owned, zeroed flag matrix.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadSize, rows, cols)
	}
	return &Matrix{data: make([]byte, rows*cols), rows: rows, cols: cols}, nil
}

// Wrap binds a flag matrix view over the caller's buffer, which must hold
// at least rows*cols bytes. The buffer is borrowed, not copied, so flags
// written through the view are visible to the caller directly.
func Wrap(buf []byte, rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadSize, rows, cols)
	}
	if n := rows * cols; len(buf) < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrBadSize, n, len(buf))
	}
	return &Matrix{data: buf, rows: rows, cols: cols}, nil
}

// Rows returns the number of time rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of frequency channels.
func (m *Matrix) Cols() int { return m.cols }

// At returns the flag code at (r, c).
func (m *Matrix) At(r, c int) byte { return m.data[r*m.cols+c] }

// Set stores a flag code at (r, c).
func (m *Matrix) Set(r, c int, v byte) { m.data[r*m.cols+c] = v }

// Row returns the r-th row as a subslice of the backing buffer.
func (m *Matrix) Row(r int) []byte {
	off := r * m.cols
	return m.data[off : off+m.cols]
}

// Reset sets every cell back to Clean.
func (m *Matrix) Reset() {
	for i := range m.data {
		m.data[i] = Clean
	}
}

// Count returns the number of cells not equal to Clean.
func (m *Matrix) Count() int {
	n := 0
	for _, v := range m.data {
		if v != Clean {
			n++
		}
	}
	return n
}

// Data exposes the backing buffer.
func (m *Matrix) Data() []byte { return m.data }
