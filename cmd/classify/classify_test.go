package classify

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/urbansound-go/internal/classes"
	"github.com/tphakala/urbansound-go/internal/classifier"
	"github.com/tphakala/urbansound-go/internal/output"
)

func sampleResult(t *testing.T) classifier.Result {
	t.Helper()

	probs := []float32{0.05, 0.02, 0.03, 0.60, 0.01, 0.02, 0.01, 0.02, 0.20, 0.04}
	result, err := classifier.Rank(probs, 2, classes.Default())
	require.NoError(t, err)
	return result
}

func TestReportRows(t *testing.T) {
	t.Parallel()

	r := Report{Sample: "7061-6-0-0.wav", Predictions: sampleResult(t)}
	assert.Equal(t, []string{"#", "Class", "Confidence"}, r.Headers())
	assert.Equal(t, [][]string{
		{"1", "Dog bark", "60.00%"},
		{"2", "Siren", "20.00%"},
	}, r.Rows())
}

func TestPrint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		format    string
		wantTop   bool
		checkBody func(t *testing.T, out []byte)
	}{
		{"table", output.FormatTable, true, func(t *testing.T, out []byte) {
			t.Helper()
			assert.Contains(t, string(out), "Siren")
		}},
		{"json", output.FormatJSON, false, func(t *testing.T, out []byte) {
			t.Helper()
			var got Report
			require.NoError(t, json.Unmarshal(out, &got))
			assert.Equal(t, "a.wav", got.Sample)
			require.Len(t, got.Predictions, 2)
			assert.Equal(t, 3, got.Predictions[0].Label.Index)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&buf)

			require.NoError(t, Print(cmd, tt.format, "a.wav", sampleResult(t)))
			assert.Equal(t, tt.wantTop, bytes.HasPrefix(buf.Bytes(), []byte("Predicted class: Dog bark (60.00%)\n")))
			tt.checkBody(t, buf.Bytes())
		})
	}
}
