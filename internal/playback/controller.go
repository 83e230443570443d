// Package playback controls audio output for the selected clip. At most one
// clip plays at a time: starting a new clip stops the previous one.
package playback

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/logger"
	"github.com/tphakala/urbansound-go/internal/observability/metrics"
)

// State is the playback state
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText renders the state name in JSON and YAML output
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrAudioNotFound is returned when there is no audio file to play
var ErrAudioNotFound = fmt.Errorf("audio not found: %w", errors.ErrNotFound)

// Stream is one loaded clip on an output device
type Stream interface {
	Start() error
	Stop() error
	// Done is closed when the clip has been fully played or stopped
	Done() <-chan struct{}
}

// Engine loads audio files into streams
type Engine interface {
	Load(path string) (Stream, error)
}

type playingRecorder interface {
	SetPlaying(playing bool)
}

// Controller is the single owner of the active stream. It is safe for
// concurrent use.
type Controller struct {
	mu       sync.Mutex
	engine   Engine
	recorder metrics.Recorder
	state    State
	stream   Stream
	current  string
}

// NewController returns an idle controller. A nil recorder discards metrics.
func NewController(engine Engine, recorder metrics.Recorder) *Controller {
	if recorder == nil {
		recorder = metrics.NoOpRecorder{}
	}
	return &Controller{engine: engine, recorder: recorder}
}

// Play stops any active clip and starts path. An empty path means the clip
// could not be resolved: ErrAudioNotFound is returned and the state is left
// untouched. When loading or starting fails the previous clip has already
// been stopped and the controller is idle.
func (c *Controller) Play(path string) error {
	if path == "" {
		c.recorder.RecordError(metrics.OpPlay, metrics.ErrorTypeNotFound)
		return errors.New(ErrAudioNotFound).
			Component("playback").
			Category(errors.CategoryNotFound).
			Build()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	log := GetLogger()
	if c.stream != nil {
		log.Debug("Preempting active clip", logger.String("path", c.current))
		if err := c.stopLocked(); err != nil {
			log.Warn("Failed to stop preempted clip", logger.Error(err))
		}
		c.recorder.RecordOperation(metrics.OpPreempt, metrics.StatusSuccess)
	}

	start := time.Now()
	stream, err := c.engine.Load(path)
	if err != nil {
		c.recordPlayFailure(err)
		return fmt.Errorf("load %s: %w", path, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Stop()
		err = errors.New(err).
			Component("playback").
			Category(errors.CategoryAudio).
			Context("path", path).
			Build()
		c.recordPlayFailure(err)
		return err
	}

	c.stream = stream
	c.current = path
	c.setState(Playing)
	c.recorder.RecordOperation(metrics.OpPlay, metrics.StatusSuccess)
	c.recorder.RecordDuration(metrics.OpPlay, time.Since(start).Seconds())

	log.Info("Playback started", logger.String("path", path))
	return nil
}

func (c *Controller) recordPlayFailure(err error) {
	c.recorder.RecordOperation(metrics.OpPlay, metrics.StatusError)
	c.recorder.RecordError(metrics.OpPlay, metrics.CategorizeError(err))
}

// Stop halts the active clip. Stopping an idle controller is a no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream == nil {
		return nil
	}
	err := c.stopLocked()
	if err != nil {
		c.recorder.RecordOperation(metrics.OpStop, metrics.StatusError)
		c.recorder.RecordError(metrics.OpStop, metrics.ErrorTypeAudio)
		return err
	}
	c.recorder.RecordOperation(metrics.OpStop, metrics.StatusSuccess)
	return nil
}

// stopLocked always leaves the controller idle
func (c *Controller) stopLocked() error {
	stream, path := c.stream, c.current
	c.stream = nil
	c.current = ""
	c.setState(Idle)

	if err := stream.Stop(); err != nil {
		return errors.New(err).
			Component("playback").
			Category(errors.CategoryAudio).
			Context("path", path).
			Build()
	}
	GetLogger().Debug("Playback stopped", logger.String("path", path))
	return nil
}

func (c *Controller) setState(s State) {
	c.state = s
	if r, ok := c.recorder.(playingRecorder); ok {
		r.SetPlaying(s == Playing)
	}
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the path of the active clip, empty when idle
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Done returns a channel closed when the active clip ends. When idle the
// returned channel is already closed. The state stays Playing after the
// clip ends until Stop or the next Play.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return closedChan
	}
	return c.stream.Done()
}

// Close stops playback and releases the engine when it holds resources
func (c *Controller) Close() error {
	err := c.Stop()
	if closer, ok := c.engine.(io.Closer); ok {
		err = errors.Join(err, closer.Close())
	}
	return err
}
