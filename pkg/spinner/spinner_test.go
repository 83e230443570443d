package spinner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerCyclesFrames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSpinner(&buf)

	for range len(s.frames) {
		s.Update(" playing")
	}
	assert.Zero(t, s.index)
	assert.Equal(t, len(s.frames), strings.Count(buf.String(), " playing"))
	assert.Contains(t, buf.String(), s.frames[0])

	buf.Reset()
	s.Cleanup()
	assert.Equal(t, "\r\033[K\033[?25h", buf.String())
}
