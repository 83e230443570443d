package classifier

import (
	"sync/atomic"

	"github.com/tphakala/urbansound-go/internal/spectrogram"
)

type fakeModel struct {
	probs  []float32
	err    error
	calls  atomic.Int32
	closed atomic.Bool
	last   *spectrogram.Array
}

func (f *fakeModel) Predict(input *spectrogram.Array) ([]float32, error) {
	f.calls.Add(1)
	f.last = input
	if f.err != nil {
		return nil, f.err
	}
	return append([]float32(nil), f.probs...), nil
}

func (f *fakeModel) Name() string { return "fake" }

func (f *fakeModel) Close() error {
	f.closed.Store(true)
	return nil
}

type countingRecorder struct {
	ops       map[string]int
	errors    map[string]int
	durations int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{ops: map[string]int{}, errors: map[string]int{}}
}

func (r *countingRecorder) RecordOperation(operation, status string) {
	r.ops[operation+"/"+status]++
}

func (r *countingRecorder) RecordDuration(string, float64) { r.durations++ }

func (r *countingRecorder) RecordError(operation, errorType string) {
	r.errors[operation+"/"+errorType]++
}
