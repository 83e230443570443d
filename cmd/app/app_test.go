package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNeeds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  Needs
	}{
		{"", 0},
		{"model", NeedModel},
		{"playback", NeedPlayback},
		{"model, playback", NeedModel | NeedPlayback},
		{"model,unknown,", NeedModel},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseNeeds(tt.value))
		})
	}
}
