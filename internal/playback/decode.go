package playback

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/flac"

	"github.com/tphakala/urbansound-go/internal/errors"
)

// PCM is decoded audio as interleaved signed 16-bit little-endian samples
type PCM struct {
	SampleRate int
	Channels   int
	Data       []byte
}

// Frames returns the number of sample frames
func (p *PCM) Frames() int {
	if p.Channels == 0 {
		return 0
	}
	return len(p.Data) / (2 * p.Channels)
}

// Duration returns the playing time
func (p *PCM) Duration() time.Duration {
	if p.SampleRate == 0 {
		return 0
	}
	return time.Duration(p.Frames()) * time.Second / time.Duration(p.SampleRate)
}

// DecodeFile decodes a WAV or FLAC file, chosen by extension
func DecodeFile(path string) (*PCM, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(fmt.Errorf("%w: %s", ErrAudioNotFound, path)).
				Component("playback").
				Category(errors.CategoryNotFound).
				Build()
		}
		return nil, errors.New(err).
			Component("playback").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer func() { _ = file.Close() }()

	var pcm *PCM
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		pcm, err = decodeWAV(file)
	case ".flac":
		pcm, err = decodeFLAC(file)
	default:
		err = fmt.Errorf("unsupported audio format %q", ext)
	}
	if err != nil {
		return nil, errors.New(err).
			Component("playback").
			Category(errors.CategoryAudio).
			Context("path", path).
			Build()
	}
	return pcm, nil
}

func decodeWAV(r io.ReadSeeker) (*PCM, error) {
	decoder := wav.NewDecoder(r)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file format")
	}

	bitDepth := int(decoder.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV data: %w", err)
	}

	return &PCM{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		Data:       intBufferToS16(buf, bitDepth),
	}, nil
}

// intBufferToS16 scales integer samples of any supported depth to 16 bits.
// 8-bit WAV samples are unsigned.
func intBufferToS16(buf *audio.IntBuffer, bitDepth int) []byte {
	out := make([]byte, 2*len(buf.Data))
	for i, v := range buf.Data {
		var s int16
		switch bitDepth {
		case 8:
			s = int16((v - 128) << 8) //nolint:gosec // G115: 8-bit range
		case 16:
			s = int16(v) //nolint:gosec // G115: 16-bit range
		default:
			s = int16(v >> (bitDepth - 16)) //nolint:gosec // G115: shifted into 16-bit range
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s)) //nolint:gosec // G115: two's complement reinterpretation
	}
	return out
}

func decodeFLAC(r io.Reader) (*PCM, error) {
	decoder, err := flac.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("invalid FLAC stream: %w", err)
	}

	bytesPerSample := decoder.BitsPerSample / 8
	switch decoder.BitsPerSample {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d", decoder.BitsPerSample)
	}

	pcm := &PCM{SampleRate: decoder.SampleRate, Channels: decoder.NChannels}
	if decoder.TotalSamples > 0 {
		pcm.Data = make([]byte, 0, int(decoder.TotalSamples)*decoder.NChannels*2)
	}

	for {
		frame, err := decoder.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode FLAC frame: %w", err)
		}

		for i := 0; i+bytesPerSample <= len(frame); i += bytesPerSample {
			var s int16
			switch decoder.BitsPerSample {
			case 16:
				s = int16(binary.LittleEndian.Uint16(frame[i:])) //nolint:gosec // G115: reinterpretation
			case 24:
				// Upper 16 bits of the 24-bit sample
				s = int16(uint16(frame[i+1]) | uint16(frame[i+2])<<8) //nolint:gosec // G115: reinterpretation
			case 32:
				s = int16(binary.LittleEndian.Uint32(frame[i:]) >> 16) //nolint:gosec // G115: upper half
			}
			pcm.Data = binary.LittleEndian.AppendUint16(pcm.Data, uint16(s)) //nolint:gosec // G115: reinterpretation
		}
	}

	return pcm, nil
}
