// Package classifier runs spectrograms through the urban sound model and
// ranks the resulting class probabilities.
package classifier

import (
	"github.com/tphakala/urbansound-go/internal/spectrogram"
)

// Model is a loaded classifier. Predict takes a batched input of shape
// (1, time, frequency, channel) and returns one probability per class.
type Model interface {
	Predict(input *spectrogram.Array) ([]float32, error)
	Name() string
	Close() error
}
