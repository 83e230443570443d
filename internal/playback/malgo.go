package playback

import (
	"runtime"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/smallnest/ringbuffer"

	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/logger"
)

const (
	// bufferDuration is how much audio is queued ahead of the device
	bufferDuration = 250 * time.Millisecond
	feedInterval   = 20 * time.Millisecond
)

// MalgoEngine plays clips on the default output device
type MalgoEngine struct {
	ctx *malgo.AllocatedContext
}

// NewMalgoEngine initializes the audio backend for the current platform
func NewMalgoEngine() (*MalgoEngine, error) {
	var backends []malgo.Backend
	switch runtime.GOOS {
	case "linux":
		backends = []malgo.Backend{malgo.BackendAlsa}
	case "windows":
		backends = []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		backends = []malgo.Backend{malgo.BackendCoreaudio}
	}

	ctx, err := malgo.InitContext(backends, malgo.ContextConfig{}, func(message string) {
		GetLogger().Trace("malgo", logger.String("message", message))
	})
	if err != nil {
		return nil, errors.New(err).
			Component("playback").
			Category(errors.CategoryAudio).
			Context("operation", "context_init").
			Build()
	}
	return &MalgoEngine{ctx: ctx}, nil
}

// Load decodes path and opens a playback device matching its format
func (e *MalgoEngine) Load(path string) (Stream, error) {
	pcm, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}

	GetLogger().Debug("Decoded clip",
		logger.String("path", path),
		logger.Int("sample_rate", pcm.SampleRate),
		logger.Int("channels", pcm.Channels),
		logger.Int64("bytes", int64(len(pcm.Data))),
		logger.Duration("duration", pcm.Duration()))

	return newMalgoStream(e.ctx.Context, pcm)
}

// Close releases the audio backend
func (e *MalgoEngine) Close() error {
	if e.ctx == nil {
		return nil
	}
	err := e.ctx.Uninit()
	e.ctx.Free()
	e.ctx = nil
	return err
}

type malgoStream struct {
	device *malgo.Device
	buffer *ringbuffer.RingBuffer
	pcm    []byte
	offset int

	stopCh   chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
	doneOnce sync.Once
}

func newMalgoStream(ctx malgo.Context, pcm *PCM) (*malgoStream, error) {
	bytesPerSecond := pcm.SampleRate * pcm.Channels * 2
	capacity := max(4096, int(time.Duration(bytesPerSecond)*bufferDuration/time.Second))

	s := &malgoStream{
		buffer: ringbuffer.New(capacity),
		pcm:    pcm.Data,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(pcm.Channels) //nolint:gosec // G115: channel count from file header
	deviceConfig.SampleRate = uint32(pcm.SampleRate)      //nolint:gosec // G115: sample rate from file header
	deviceConfig.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(ctx, deviceConfig, malgo.DeviceCallbacks{
		Data: s.onSendFrames,
	})
	if err != nil {
		return nil, errors.New(err).
			Component("playback").
			Category(errors.CategoryAudio).
			Context("operation", "device_init").
			Context("sample_rate", pcm.SampleRate).
			Context("channels", pcm.Channels).
			Build()
	}
	s.device = device
	return s, nil
}

// onSendFrames fills the device buffer, padding with silence on underrun
func (s *malgoStream) onSendFrames(pOutput, _ []byte, _ uint32) {
	n, _ := s.buffer.Read(pOutput)
	clear(pOutput[n:])
}

// feed writes as much PCM as fits into the ring buffer
func (s *malgoStream) feed() {
	if s.offset >= len(s.pcm) {
		return
	}
	free := s.buffer.Free()
	if free == 0 {
		return
	}
	end := min(s.offset+free, len(s.pcm))
	n, _ := s.buffer.Write(s.pcm[s.offset:end])
	s.offset += n
}

func (s *malgoStream) Start() error {
	s.feed()
	if err := s.device.Start(); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.feedLoop()
	return nil
}

func (s *malgoStream) feedLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(feedInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.feed()
			if s.offset >= len(s.pcm) && s.buffer.Length() == 0 {
				s.finish()
				return
			}
		}
	}
}

func (s *malgoStream) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Stop halts the device and releases it. Stop is idempotent.
func (s *malgoStream) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		if s.device != nil {
			err = s.device.Stop()
			s.device.Uninit()
		}
		s.buffer.Reset()
		s.finish()
	})
	return err
}

func (s *malgoStream) Done() <-chan struct{} {
	return s.done
}

var (
	_ Engine = (*MalgoEngine)(nil)
	_ Stream = (*malgoStream)(nil)
)
