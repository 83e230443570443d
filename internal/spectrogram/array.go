// Package spectrogram loads stored mel spectrograms (.npy), shapes them for
// the classifier and prepares them for display.
package spectrogram

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Array is a dense float32 tensor in row-major order
type Array struct {
	Shape []int
	Data  []float32
}

// Rank returns the number of dimensions
func (a *Array) Rank() int {
	return len(a.Shape)
}

// Len returns the element count implied by the shape
func (a *Array) Len() int {
	return shapeLen(a.Shape)
}

// String renders the shape, e.g. (64, 128, 1)
func (a *Array) String() string {
	return formatShape(a.Shape)
}

// Batch prepends a batch dimension of size 1. The result shares Data with a;
// a itself is left untouched.
func Batch(a *Array) *Array {
	return &Array{
		Shape: append([]int{1}, a.Shape...),
		Data:  a.Data,
	}
}

// Resolve returns the path of a spectrogram file inside the store directory
func Resolve(dir, specFilename string) string {
	return filepath.Join(dir, specFilename)
}

func shapeLen(shape []int) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func formatShape(shape []int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, d := range shape {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(d))
	}
	if len(shape) == 1 {
		b.WriteByte(',')
	}
	b.WriteByte(')')
	return b.String()
}

// fortranToC reorders column-major data of the given shape into row-major
func fortranToC(data []float32, shape []int) []float32 {
	if len(shape) < 2 {
		return data
	}
	out := make([]float32, len(data))
	idx := make([]int, len(shape))

	// Walk C order, compute the Fortran offset of each element
	for c := range out {
		f, stride := 0, 1
		for d := range shape {
			f += idx[d] * stride
			stride *= shape[d]
		}
		out[c] = data[f]

		for d := len(shape) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out
}

// shapeWith returns a copy of shape with extra dims appended
func shapeWith(shape []int, extra ...int) []int {
	return append(slices.Clone(shape), extra...)
}
