package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelHelpers(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	AssertNotClosed(t, done, "fresh channel")
	close(done)
	WaitForChannel(t, done, ShortTestTimeout, "closed channel")

	values := make(chan int, 1)
	values <- 42
	assert.Equal(t, 42, Receive(t, values, ShortTestTimeout))
}
