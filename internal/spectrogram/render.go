package spectrogram

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tphakala/urbansound-go/internal/errors"
)

// Output size presets, in pixels of image width
const (
	sizeSmallPx      = 400
	sizeMediumPx     = 800
	sizeLargePx      = 1000
	sizeExtraLargePx = 1200

	// heightRatio is the divisor for image height from width
	heightRatio = 2

	outputDirPermissions = 0o755
)

// validSizes maps size strings to pixel widths
var validSizes = map[string]int{
	"sm": sizeSmallPx,
	"md": sizeMediumPx,
	"lg": sizeLargePx,
	"xl": sizeExtraLargePx,
}

// SizeToPixels converts a size string to pixel width.
//
// Valid sizes: sm (400px), md (800px), lg (1000px), xl (1200px)
func SizeToPixels(size string) (int, error) {
	width, ok := validSizes[size]
	if !ok {
		return 0, errors.Newf("invalid size (valid sizes: %s)", strings.Join(GetValidSizes(), ", ")).
			Component("spectrogram").
			Category(errors.CategoryValidation).
			Context("operation", "size_to_pixels").
			Context("size", size).
			Build()
	}
	return width, nil
}

// GetValidSizes returns the size strings in sorted order
func GetValidSizes() []string {
	sizes := slices.Collect(maps.Keys(validSizes))
	slices.Sort(sizes)
	return sizes
}

// BuildImagePath replaces the extension of a spectrogram or audio file name
// with .png.
//
//	"espectrogramas/100032-3-0-0.npy" -> "espectrogramas/100032-3-0-0.png"
func BuildImagePath(name string) (string, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", errors.Newf("file name has no extension").
			Component("spectrogram").
			Category(errors.CategoryValidation).
			Context("operation", "build_image_path").
			Context("name", name).
			Build()
	}
	return strings.TrimSuffix(name, ext) + ".png", nil
}

// RenderOptions controls WritePNG
type RenderOptions struct {
	// Width of the image in pixels, 0 renders one pixel per column.
	// Height follows as Width/2.
	Width int
}

// Render maps m onto an image. Colors scale linearly between the matrix
// minimum and maximum. Row 0 lands on the bottom pixel row.
func Render(m *Matrix, opts RenderOptions) (*image.RGBA, error) {
	if m.Rows == 0 || m.Cols == 0 {
		return nil, errors.Newf("cannot render empty matrix").
			Component("spectrogram").
			Category(errors.CategoryValidation).
			Build()
	}

	width, height := m.Cols, m.Rows
	if opts.Width > 0 {
		width = opts.Width
		height = max(1, opts.Width/heightRatio)
	}

	lo, hi := m.Range()
	span := hi - lo

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		// Nearest row, flipped so low rows sit at the bottom
		row := (height - 1 - y) * m.Rows / height
		for x := range width {
			col := x * m.Cols / width
			t := float32(0)
			if span > 0 {
				t = (m.At(row, col) - lo) / span
			}
			img.SetRGBA(x, y, colormap(t))
		}
	}
	return img, nil
}

// WritePNG renders m and encodes it as PNG to w
func WritePNG(w io.Writer, m *Matrix, opts RenderOptions) error {
	img, err := Render(m, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return errors.New(fmt.Errorf("failed to encode png: %w", err)).
			Component("spectrogram").
			Category(errors.CategoryFileIO).
			Build()
	}
	return nil
}

// WritePNGFile renders m to a PNG file, creating its directory when needed
func WritePNGFile(path string, m *Matrix, opts RenderOptions) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), outputDirPermissions); err != nil {
		return errors.New(err).
			Component("spectrogram").
			Category(errors.CategoryFileIO).
			Context("operation", "ensure_output_directory").
			Context("output_path", path).
			Build()
	}

	f, err := os.Create(path) //nolint:gosec // output path chosen by the user
	if err != nil {
		return errors.New(err).
			Component("spectrogram").
			Category(errors.CategoryFileIO).
			Context("output_path", path).
			Build()
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return WritePNG(f, m, opts)
}

// colorStops approximate the magma colormap from black through purple and
// orange to pale yellow
var colorStops = [...]color.RGBA{
	{0, 0, 4, 255},
	{59, 15, 112, 255},
	{140, 41, 129, 255},
	{222, 73, 104, 255},
	{254, 159, 109, 255},
	{252, 253, 191, 255},
}

// colormap maps t in [0, 1] to a color
func colormap(t float32) color.RGBA {
	t = min(max(t, 0), 1)
	pos := t * float32(len(colorStops)-1)
	i := int(pos)
	if i >= len(colorStops)-1 {
		return colorStops[len(colorStops)-1]
	}
	f := pos - float32(i)
	a, b := colorStops[i], colorStops[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*f + 0.5)
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}
