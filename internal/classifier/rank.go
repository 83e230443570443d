package classifier

import (
	"fmt"
	"slices"

	"github.com/tphakala/urbansound-go/internal/classes"
	"github.com/tphakala/urbansound-go/internal/errors"
)

// Prediction is one ranked class
type Prediction struct {
	Label       classes.Label `json:"label" yaml:"label"`
	Probability float32       `json:"probability" yaml:"probability"`
}

// Percent formats the probability as a percentage with two decimals
func (p Prediction) Percent() string {
	return fmt.Sprintf("%.2f%%", p.Probability*100)
}

// Result is an ordered list of predictions, best first
type Result []Prediction

// Top returns the best prediction. ok is false for an empty result.
func (r Result) Top() (Prediction, bool) {
	if len(r) == 0 {
		return Prediction{}, false
	}
	return r[0], true
}

// Rank orders class indices by probability, highest first, with ties going
// to the lower class index, and keeps the first k. k <= 0 or k larger than
// the number of classes keeps all of them. Probabilities are passed through
// as produced by the model.
func Rank(probs []float32, k int, labels *classes.Catalog) (Result, error) {
	if len(probs) != labels.Size() {
		return nil, errors.Newf("cannot rank %d probabilities against %d classes", len(probs), labels.Size()).
			Component("classifier").
			Category(errors.CategoryContract).
			Fatal().
			Build()
	}

	indices := make([]int, len(probs))
	for i := range indices {
		indices[i] = i
	}
	slices.SortStableFunc(indices, func(a, b int) int {
		switch {
		case probs[a] > probs[b]:
			return -1
		case probs[a] < probs[b]:
			return 1
		default:
			return a - b
		}
	})

	if k <= 0 || k > len(indices) {
		k = len(indices)
	}

	result := make(Result, k)
	for i, idx := range indices[:k] {
		label, _ := labels.Lookup(idx)
		result[i] = Prediction{Label: label, Probability: probs[idx]}
	}
	return result, nil
}
