package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/urbansound-go/internal/errors"
)

const sampleCSV = `slice_file_name,fold,classID,spectrogram
100032-3-0-0.wav,5,3,espectrogramas/100032-3-0-0.npy
100263-2-0-117.wav,5,2,espectrogramas\100263-2-0-117.npy
7061-6-0-0.wav,1,6,C:\data\mel\7061-6-0-0.npy
odd.npy.wav,1,6,specs/odd.npy.npy
noext,2,1,specs/noext
`

func TestParseDerivesFilenames(t *testing.T) {
	t.Parallel()

	c, err := Parse(strings.NewReader(sampleCSV), Options{})
	require.NoError(t, err)
	require.Equal(t, 5, c.Len())

	tests := []struct {
		spec, audio string
	}{
		{"100032-3-0-0.npy", "100032-3-0-0.wav"},
		{"100263-2-0-117.npy", "100263-2-0-117.wav"},
		{"7061-6-0-0.npy", "7061-6-0-0.wav"},
		{"odd.npy.npy", "odd.npy.wav"},
		{"noext", "noext.wav"},
	}

	records := c.Records()
	for i, tt := range tests {
		assert.Equal(t, tt.spec, records[i].SpecFilename)
		assert.Equal(t, tt.audio, records[i].AudioFilename)
		assert.Equal(t, records[i].AudioFilename, records[i].DisplayName)
		assert.True(t, strings.HasSuffix(records[i].AudioFilename, ".wav"))
		assert.False(t, strings.HasSuffix(records[i].AudioFilename, ".npy"))
	}
	assert.Equal(t, `espectrogramas\100263-2-0-117.npy`, records[1].SpectrogramPath)
}

func TestFindByDisplayNameRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := Parse(strings.NewReader(sampleCSV), Options{})
	require.NoError(t, err)

	for _, r := range c.Records() {
		got, err := c.FindByDisplayName(r.DisplayName)
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
}

func TestFindByDisplayNameNotFound(t *testing.T) {
	t.Parallel()

	c, err := Parse(strings.NewReader(sampleCSV), Options{})
	require.NoError(t, err)

	_, err = c.FindByDisplayName("missing.wav")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.False(t, errors.IsFatal(err))
}

func TestDuplicatesFirstMatch(t *testing.T) {
	t.Parallel()

	data := "spectrogram\na/x.npy\nb/x.npy\nc/y.npy\nd/x.npy\n"
	c, err := Parse(strings.NewReader(data), Options{})
	require.NoError(t, err)

	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []string{"x.wav"}, c.Duplicates())
	assert.Equal(t, []string{"x.wav", "x.wav", "y.wav", "x.wav"}, c.DisplayNames())

	r, err := c.FindByDisplayName("x.wav")
	require.NoError(t, err)
	assert.Equal(t, "a/x.npy", r.SpectrogramPath)
}

func TestDuplicatesReject(t *testing.T) {
	t.Parallel()

	data := "spectrogram\na/x.npy\nb/x.npy\n"
	_, err := Parse(strings.NewReader(data), Options{Duplicates: DuplicatesReject})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x.wav"`)
	assert.Contains(t, err.Error(), "line 3")
}

func TestCustomColumnAndExtension(t *testing.T) {
	t.Parallel()

	data := "\ufeffmel_path,label\nspecs/a.npy,1\n"
	c, err := Parse(strings.NewReader(data), Options{Column: "mel_path", AudioExt: ".flac"})
	require.NoError(t, err)

	r, err := c.FindByDisplayName("a.flac")
	require.NoError(t, err)
	assert.Equal(t, "a.npy", r.SpecFilename)
}

func TestParseFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"missing column", "path,fold\na.npy,1\n"},
		{"ragged rows", "spectrogram,fold\na.npy,1\nb.npy\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(tt.data), Options{})
			require.Error(t, err)
		})
	}
}

func TestLoadFailuresAreFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.csv"), Options{})
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("name\nx\n"), 0o600))
	_, err = Load(bad, Options{})
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mel_metadata.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	c, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
	assert.Empty(t, c.Duplicates())
}
