// Package session ties the dataset, locator, classifier and playback
// controller together around a single selected sample.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tphakala/urbansound-go/internal/catalog"
	"github.com/tphakala/urbansound-go/internal/classes"
	"github.com/tphakala/urbansound-go/internal/classifier"
	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/locator"
	"github.com/tphakala/urbansound-go/internal/logger"
	"github.com/tphakala/urbansound-go/internal/playback"
	"github.com/tphakala/urbansound-go/internal/spectrogram"
)

var (
	// ErrNoSelection is returned by operations that need a selected sample
	ErrNoSelection = errors.NewStd("no sample selected")
	// ErrBusy is returned by ClassifyAsync while a classification is running
	ErrBusy = errors.NewStd("classification already in progress")
	// ErrUnavailable is returned when the session was built without the
	// component an operation needs
	ErrUnavailable = errors.NewStd("component not configured")
)

// Classifier runs a batched spectrogram through the model
type Classifier interface {
	Classify(ctx context.Context, batched *spectrogram.Array) ([]float32, error)
	Labels() *classes.Catalog
}

// Player is the playback side of a session
type Player interface {
	Play(path string) error
	Stop() error
	State() playback.State
	Done() <-chan struct{}
}

// Config holds the collaborators of a Session
type Config struct {
	Catalog        *catalog.Catalog
	Locator        locator.Locator
	SpectrogramDir string
	Classifier     Classifier
	Player         Player
	TopK           int
	// OnResult is called with every successful classification
	OnResult func(classifier.Result)
}

// Outcome is delivered to ClassifyAsync callbacks
type Outcome struct {
	Name     string
	Result   classifier.Result
	Err      error
	Duration time.Duration
}

// Status is a snapshot of the session
type Status struct {
	Selected    string         `json:"selected" yaml:"selected"`
	Playback    playback.State `json:"playback" yaml:"playback"`
	Classifying bool           `json:"classifying" yaml:"classifying"`
}

// Session is safe for concurrent use
type Session struct {
	cfg Config

	mu       sync.RWMutex
	selected *catalog.Record

	busy atomic.Bool
	wg   sync.WaitGroup
}

// New returns a session with nothing selected
func New(cfg Config) *Session {
	return &Session{cfg: cfg}
}

// Select makes the sample with display name current. An unknown name is a
// NotFound error and leaves the previous selection in place.
func (s *Session) Select(name string) error {
	rec, err := s.cfg.Catalog.FindByDisplayName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.selected = &rec
	s.mu.Unlock()

	GetLogger().Debug("Sample selected",
		logger.String("display_name", rec.DisplayName),
		logger.String("spec_filename", rec.SpecFilename))
	return nil
}

// Selected returns the current record
func (s *Session) Selected() (catalog.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return catalog.Record{}, false
	}
	return *s.selected, true
}

func unavailable(what string) error {
	return errors.New(fmt.Errorf("%s: %w", what, ErrUnavailable)).
		Component("session").
		Category(errors.CategoryState).
		Build()
}

func (s *Session) current() (catalog.Record, error) {
	rec, ok := s.Selected()
	if !ok {
		return catalog.Record{}, errors.New(ErrNoSelection).
			Component("session").
			Category(errors.CategoryState).
			Build()
	}
	return rec, nil
}

// Play resolves the audio file of the selected sample and starts it. When
// no shard holds the file, or the audio root is gone, the player reports
// AudioNotFound and keeps its state.
func (s *Session) Play(ctx context.Context) error {
	if s.cfg.Player == nil {
		return unavailable("playback")
	}
	rec, err := s.current()
	if err != nil {
		return err
	}

	path, found, err := s.cfg.Locator.Locate(ctx, rec.AudioFilename)
	switch {
	case errors.IsNotFound(err):
		GetLogger().Info("Audio root not found",
			logger.String("audio_filename", rec.AudioFilename),
			logger.Error(err))
		path = ""
	case err != nil:
		return fmt.Errorf("locate %s: %w", rec.AudioFilename, err)
	case !found:
		GetLogger().Info("Audio not found", logger.String("audio_filename", rec.AudioFilename))
		path = ""
	}

	if err := s.cfg.Player.Play(path); err != nil {
		return fmt.Errorf("%s: %w", rec.AudioFilename, err)
	}
	return nil
}

// Stop halts playback
func (s *Session) Stop() error {
	if s.cfg.Player == nil {
		return nil
	}
	return s.cfg.Player.Stop()
}

// PlaybackDone returns a channel closed when the playing clip ends
func (s *Session) PlaybackDone() <-chan struct{} {
	if s.cfg.Player == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.cfg.Player.Done()
}

// Classify runs the selected sample through the classifier and returns the
// top TopK classes. A missing spectrogram file is a NotFound error.
func (s *Session) Classify(ctx context.Context) (classifier.Result, error) {
	rec, err := s.current()
	if err != nil {
		return nil, err
	}
	return s.classifyRecord(ctx, rec)
}

func (s *Session) classifyRecord(ctx context.Context, rec catalog.Record) (classifier.Result, error) {
	if s.cfg.Classifier == nil {
		return nil, unavailable("classifier")
	}
	raw, err := spectrogram.Load(spectrogram.Resolve(s.cfg.SpectrogramDir, rec.SpecFilename))
	if err != nil {
		return nil, err
	}

	probs, err := s.cfg.Classifier.Classify(ctx, spectrogram.Batch(raw))
	if err != nil {
		return nil, err
	}

	result, err := classifier.Rank(probs, s.cfg.TopK, s.cfg.Classifier.Labels())
	if err != nil {
		return nil, err
	}

	if top, ok := result.Top(); ok {
		GetLogger().Info("Sample classified",
			logger.String("display_name", rec.DisplayName),
			logger.String("label", top.Label.Name),
			logger.Float32("probability", top.Probability))
	}
	if s.cfg.OnResult != nil {
		s.cfg.OnResult(result)
	}
	return result, nil
}

// ClassifyAsync classifies the selected sample on a worker goroutine and
// hands the outcome to callback. Only one classification runs at a time:
// a request made while one is in flight is refused with ErrBusy, nothing is
// queued. The selection is captured when the request is made.
func (s *Session) ClassifyAsync(ctx context.Context, callback func(Outcome)) error {
	rec, err := s.current()
	if err != nil {
		return err
	}

	if !s.busy.CompareAndSwap(false, true) {
		return errors.New(ErrBusy).
			Component("session").
			Category(errors.CategoryState).
			Build()
	}

	s.wg.Go(func() {
		defer s.busy.Store(false)

		start := time.Now()
		result, err := s.classifyRecord(ctx, rec)
		outcome := Outcome{
			Name:     rec.DisplayName,
			Result:   result,
			Err:      err,
			Duration: time.Since(start),
		}
		if err != nil {
			GetLogger().WithContext(ctx).Warn("Classification failed",
				logger.String("display_name", rec.DisplayName),
				logger.Error(err))
		}
		if callback != nil {
			callback(outcome)
		}
	})
	return nil
}

// Busy reports whether a classification is in flight
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Wait blocks until the in-flight classification, if any, has delivered
// its outcome
func (s *Session) Wait() {
	s.wg.Wait()
}

// Spectrogram loads the selected sample's spectrogram as a display matrix
func (s *Session) Spectrogram() (*spectrogram.Matrix, error) {
	rec, err := s.current()
	if err != nil {
		return nil, err
	}
	raw, err := spectrogram.Load(spectrogram.Resolve(s.cfg.SpectrogramDir, rec.SpecFilename))
	if err != nil {
		return nil, err
	}
	return spectrogram.PrepareForDisplay(raw)
}

// Status returns a snapshot of the session
func (s *Session) Status() Status {
	st := Status{Classifying: s.busy.Load()}
	if s.cfg.Player != nil {
		st.Playback = s.cfg.Player.State()
	}
	if rec, ok := s.Selected(); ok {
		st.Selected = rec.DisplayName
	}
	return st
}

// Close waits for classification and stops playback
func (s *Session) Close() error {
	s.Wait()
	return s.Stop()
}
