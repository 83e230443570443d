package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/urbansound-go/internal/classes"
	"github.com/tphakala/urbansound-go/internal/errors"
)

var sampleProbs = []float32{0.05, 0.02, 0.03, 0.60, 0.01, 0.02, 0.01, 0.02, 0.20, 0.04}

func indicesOf(r Result) []int {
	out := make([]int, len(r))
	for i, p := range r {
		out[i] = p.Label.Index
	}
	return out
}

func TestRank(t *testing.T) {
	t.Parallel()

	labels := classes.Default()

	tests := []struct {
		name  string
		probs []float32
		k     int
		want  []int
	}{
		{"top three", sampleProbs, 3, []int{3, 8, 0}},
		{"top one", sampleProbs, 1, []int{3}},
		{"tie goes to lower index", []float32{0.1, 0.1, 0.3, 0.1, 0.1, 0.3, 0, 0, 0, 0}, 1, []int{2}},
		{"tie order preserved", []float32{0.1, 0.1, 0.3, 0.1, 0.1, 0.3, 0, 0, 0, 0}, 4, []int{2, 5, 0, 1}},
		{"k zero keeps all", sampleProbs, 0, []int{3, 8, 0, 9, 2, 1, 5, 7, 4, 6}},
		{"k above size clamps", sampleProbs, 50, []int{3, 8, 0, 9, 2, 1, 5, 7, 4, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Rank(tt.probs, tt.k, labels)
			require.NoError(t, err)
			assert.Equal(t, tt.want, indicesOf(got))
		})
	}
}

func TestRankAttachesLabelsAndProbabilities(t *testing.T) {
	t.Parallel()

	got, err := Rank(sampleProbs, 3, classes.Default())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Dog bark", got[0].Label.Name)
	assert.InDelta(t, 0.60, got[0].Probability, 1e-6)
	assert.Equal(t, "Siren", got[1].Label.Name)
	assert.Equal(t, "Air conditioner", got[2].Label.Name)

	top, ok := got.Top()
	require.True(t, ok)
	assert.Equal(t, "60.00%", top.Percent())
}

func TestRankDoesNotRenormalize(t *testing.T) {
	t.Parallel()

	probs := []float32{2, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	got, err := Rank(probs, 1, classes.Default())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got[0].Probability, 1e-6)
}

func TestRankLengthMismatch(t *testing.T) {
	t.Parallel()

	_, err := Rank([]float32{1, 2, 3}, 1, classes.Default())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryContract))
	assert.True(t, errors.IsFatal(err))
}

func TestEmptyResultTop(t *testing.T) {
	t.Parallel()

	_, ok := Result(nil).Top()
	assert.False(t, ok)
}
