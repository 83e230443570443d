package classifier

import (
	"context"
	"fmt"
	"time"

	"github.com/tphakala/urbansound-go/internal/classes"
	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/logger"
	"github.com/tphakala/urbansound-go/internal/observability/metrics"
	"github.com/tphakala/urbansound-go/internal/spectrogram"
)

// Engine runs batched spectrograms through a Model and checks the output
// against the class catalog.
type Engine struct {
	model    Model
	labels   *classes.Catalog
	recorder metrics.Recorder
}

// NewEngine wraps model. A nil recorder discards metrics.
func NewEngine(model Model, labels *classes.Catalog, recorder metrics.Recorder) *Engine {
	if recorder == nil {
		recorder = metrics.NoOpRecorder{}
	}
	return &Engine{model: model, labels: labels, recorder: recorder}
}

// Labels returns the class catalog the engine validates against
func (e *Engine) Labels() *classes.Catalog {
	return e.labels
}

// ModelName returns the name of the wrapped model
func (e *Engine) ModelName() string {
	return e.model.Name()
}

// Classify runs one prediction. batched must carry the leading batch
// dimension. The returned vector has exactly Labels().Size() entries; any
// other length is a fatal contract violation and is not retried.
func (e *Engine) Classify(ctx context.Context, batched *spectrogram.Array) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.New(err).
			Component("classifier").
			Category(errors.CategoryCancellation).
			Build()
	}

	if batched == nil || batched.Rank() == 0 || batched.Shape[0] != 1 {
		shape := "<nil>"
		if batched != nil {
			shape = batched.String()
		}
		err := errors.Newf("classifier input must be batched with batch size 1, got shape %s", shape).
			Component("classifier").
			Category(errors.CategoryValidation).
			Build()
		e.recordFailure(err)
		return nil, err
	}

	start := time.Now()
	probs, err := e.model.Predict(batched)
	elapsed := time.Since(start)
	if err != nil {
		e.recordFailure(err)
		return nil, fmt.Errorf("predict %s: %w", batched.String(), err)
	}

	if len(probs) != e.labels.Size() {
		err := errors.Newf("model %s returned %d probabilities, class catalog holds %d",
			e.model.Name(), len(probs), e.labels.Size()).
			Component("classifier").
			Category(errors.CategoryContract).
			Fatal().
			Context("output_length", len(probs)).
			Context("class_count", e.labels.Size()).
			Build()
		e.recordFailure(err)
		return nil, err
	}

	e.recorder.RecordOperation(metrics.OpPrediction, metrics.StatusSuccess)
	e.recorder.RecordDuration(metrics.OpPrediction, elapsed.Seconds())

	GetLogger().Debug("Prediction complete",
		logger.String("model", e.model.Name()),
		logger.String("input_shape", batched.String()),
		logger.Duration("elapsed", elapsed))

	return probs, nil
}

func (e *Engine) recordFailure(err error) {
	e.recorder.RecordOperation(metrics.OpPrediction, metrics.StatusError)
	e.recorder.RecordError(metrics.OpPrediction, metrics.CategorizeError(err))
}

// Close releases the model
func (e *Engine) Close() error {
	return e.model.Close()
}
