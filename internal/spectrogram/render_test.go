package spectrogram

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/urbansound-go/internal/errors"
)

func TestPrepareForDisplaySqueezes(t *testing.T) {
	t.Parallel()

	m, err := PrepareForDisplay(&Array{Shape: []int{2, 3, 1}, Data: seq(6)})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rows)
	assert.Equal(t, 3, m.Cols)
	assert.InDelta(t, 5, m.At(1, 2), 0)

	m, err = PrepareForDisplay(&Array{Shape: []int{2, 3}, Data: seq(6)})
	require.NoError(t, err)
	lo, hi := m.Range()
	assert.InDelta(t, 0, lo, 0)
	assert.InDelta(t, 5, hi, 0)
}

func TestPrepareForDisplayRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    *Array
	}{
		{"batched", &Array{Shape: []int{1, 2, 3, 1}, Data: seq(6)}},
		{"multi channel", &Array{Shape: []int{2, 3, 2}, Data: seq(12)}},
		{"rank 1", &Array{Shape: []int{6}, Data: seq(6)}},
		{"short data", &Array{Shape: []int{2, 3}, Data: seq(5)}},
	}
	for _, tt := range tests {
		_, err := PrepareForDisplay(tt.a)
		require.Error(t, err, tt.name)
		assert.True(t, errors.IsCategory(err, errors.CategoryValidation), tt.name)
	}
}

func TestRenderRowZeroAtBottom(t *testing.T) {
	t.Parallel()

	// Row 0 hot, the rest cold
	m := &Matrix{Rows: 4, Cols: 2, Data: []float32{9, 9, 0, 0, 0, 0, 0, 0}}

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, m, RenderOptions{}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())

	hot := colorStops[len(colorStops)-1]
	cold := colorStops[0]

	r, g, b, _ := img.At(0, 3).RGBA()
	assert.Equal(t, [3]uint8{hot.R, hot.G, hot.B}, [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})
	r, g, b, _ = img.At(1, 0).RGBA()
	assert.Equal(t, [3]uint8{cold.R, cold.G, cold.B}, [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})
}

func TestRenderWidthPreset(t *testing.T) {
	t.Parallel()

	width, err := SizeToPixels("sm")
	require.NoError(t, err)

	img, err := Render(&Matrix{Rows: 64, Cols: 128, Data: seq(64 * 128)}, RenderOptions{Width: width})
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	_, err = SizeToPixels("huge")
	require.Error(t, err)
	assert.Equal(t, []string{"lg", "md", "sm", "xl"}, GetValidSizes())
}

func TestRenderFlatMatrix(t *testing.T) {
	t.Parallel()

	img, err := Render(&Matrix{Rows: 1, Cols: 1, Data: []float32{3}}, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, colorStops[0], img.RGBAAt(0, 0))

	_, err = Render(&Matrix{}, RenderOptions{})
	require.Error(t, err)
}

func TestWritePNGFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "dog.png")
	require.NoError(t, WritePNGFile(path, &Matrix{Rows: 2, Cols: 2, Data: seq(4)}, RenderOptions{}))
	assert.FileExists(t, path)
}

func TestBuildImagePath(t *testing.T) {
	t.Parallel()

	p, err := BuildImagePath("espectrogramas/100032-3-0-0.npy")
	require.NoError(t, err)
	assert.Equal(t, "espectrogramas/100032-3-0-0.png", p)

	_, err = BuildImagePath("noext")
	require.Error(t, err)
}

func TestColormapEndpoints(t *testing.T) {
	t.Parallel()

	assert.Equal(t, colorStops[0], colormap(-1))
	assert.Equal(t, colorStops[0], colormap(0))
	assert.Equal(t, colorStops[len(colorStops)-1], colormap(1))
	assert.Equal(t, colorStops[len(colorStops)-1], colormap(2))
}
