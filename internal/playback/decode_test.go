package playback

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/urbansound-go/internal/errors"
)

func writeWAV(t *testing.T, path string, sampleRate, bitDepth, channels int, samples []int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Data:           samples,
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		SourceBitDepth: bitDepth,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

func s16(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[2*i:])) //nolint:gosec // test helper
	}
	return out
}

func TestDecodeWAV16(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "100032-3-0-0.wav")
	samples := []int{0, 1000, -1000, 32767, -32768, 5, -5, 0}
	writeWAV(t, path, 22050, 16, 2, samples)

	pcm, err := DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 22050, pcm.SampleRate)
	assert.Equal(t, 2, pcm.Channels)
	assert.Equal(t, 4, pcm.Frames())
	assert.Equal(t, []int16{0, 1000, -1000, 32767, -32768, 5, -5, 0}, s16(pcm.Data))
}

func TestDecodeWAV24ScalesTo16(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clip.wav")
	writeWAV(t, path, 48000, 24, 1, []int{256, -256, 8388607})

	pcm, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, []int16{1, -1, 32767}, s16(pcm.Data))
}

func TestDecodeMissingFile(t *testing.T) {
	t.Parallel()

	_, err := DecodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAudioNotFound)
	assert.True(t, errors.IsNotFound(err))
}

func TestDecodeRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name string
		file string
	}{
		{"garbage wav", "bad.wav"},
		{"garbage flac", "bad.flac"},
		{"unknown extension", "clip.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte("not audio at all"), 0o600))

			_, err := DecodeFile(path)
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, errors.CategoryAudio))
		})
	}
}

func TestPCMDuration(t *testing.T) {
	t.Parallel()

	pcm := &PCM{SampleRate: 100, Channels: 2, Data: make([]byte, 2*2*50)}
	assert.Equal(t, 50, pcm.Frames())
	assert.Equal(t, 500*time.Millisecond, pcm.Duration())

	assert.Zero(t, (&PCM{}).Duration())
}
