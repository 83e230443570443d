package spectrogram

import (
	"github.com/tphakala/urbansound-go/internal/errors"
)

// Matrix is a 2-D magnitude array ready for display. Row 0 is drawn at the
// bottom, so the first axis rises upward.
type Matrix struct {
	Rows int
	Cols int
	Data []float32 // row-major, len Rows*Cols
}

// At returns the value at row r, column c
func (m *Matrix) At(r, c int) float32 {
	return m.Data[r*m.Cols+c]
}

// Range returns the smallest and largest values
func (m *Matrix) Range() (lo, hi float32) {
	if len(m.Data) == 0 {
		return 0, 0
	}
	lo, hi = m.Data[0], m.Data[0]
	for _, v := range m.Data[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// PrepareForDisplay squeezes the channel dimension out of a raw (unbatched)
// spectrogram. Values are passed through unscaled.
func PrepareForDisplay(raw *Array) (*Matrix, error) {
	switch {
	case raw.Rank() == 2:
	case raw.Rank() == 3 && raw.Shape[2] == 1:
	default:
		return nil, errors.Newf("cannot display array of shape %s, want (rows, cols) or (rows, cols, 1)", raw.String()).
			Component("spectrogram").
			Category(errors.CategoryValidation).
			Context("shape", raw.String()).
			Build()
	}

	if len(raw.Data) != raw.Shape[0]*raw.Shape[1] {
		return nil, errors.Newf("array holds %d values, shape %s needs %d", len(raw.Data), raw.String(), raw.Len()).
			Component("spectrogram").
			Category(errors.CategoryValidation).
			Build()
	}

	return &Matrix{Rows: raw.Shape[0], Cols: raw.Shape[1], Data: raw.Data}, nil
}
