package spectrogram

import (
	"errors"
	"fmt"
)

var (
	// ErrNilData indicates a nil buffer for a non-empty shape.
	ErrNilData = errors.New("spectrogram: nil data buffer")

	// ErrBadShape indicates negative dimensions or a buffer shorter than
	// rows*cols.
	ErrBadShape = errors.New("spectrogram: invalid shape")
)

// Spectrogram is a borrowed row-major view of rows x cols power samples.
// Rows are time samples, columns are frequency channels. The sample at
// (r, c) lives at offset r*cols + c.
type Spectrogram struct {
	data []float64
	rows int
	cols int
}

// New binds a view over the caller's row-major buffer.
//
// The buffer is borrowed, not copied. data may be nil only for an empty
// shape. len(data) must be at least rows*cols.
func New(data []float64, rows, cols int) (*Spectrogram, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, rows, cols)
	}

	n := rows * cols
	if n > 0 && data == nil {
		return nil, ErrNilData
	}

	if len(data) < n {
		return nil, fmt.Errorf("%w: need %d samples, have %d", ErrBadShape, n, len(data))
	}

	return &Spectrogram{data: data, rows: rows, cols: cols}, nil
}

// Rows returns the number of time rows.
func (s *Spectrogram) Rows() int { return s.rows }

// Cols returns the number of frequency channels.
func (s *Spectrogram) Cols() int { return s.cols }

// Len returns the total sample count rows*cols.
func (s *Spectrogram) Len() int { return s.rows * s.cols }

// At returns the sample at time row r and channel c. Bounds are not
// checked beyond the slice access itself.
func (s *Spectrogram) At(r, c int) float64 {
	return s.data[r*s.cols+c]
}

// Row returns the r-th time row as a subslice of the underlying buffer.
func (s *Spectrogram) Row(r int) []float64 {
	off := r * s.cols
	return s.data[off : off+s.cols]
}

// Column gathers channel c across all time rows into dst, which is grown
// if needed, and returns it. This is the access pattern of the per-channel
// detectors; rows are strided in memory so a copy is unavoidable.
func (s *Spectrogram) Column(dst []float64, c int) []float64 {
	if cap(dst) < s.rows {
		dst = make([]float64, s.rows)
	}
	dst = dst[:s.rows]
	for r := 0; r < s.rows; r++ {
		dst[r] = s.data[r*s.cols+c]
	}
	return dst
}

// Data exposes the borrowed backing buffer.
func (s *Spectrogram) Data() []float64 { return s.data }
