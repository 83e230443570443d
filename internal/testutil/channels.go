// Package testutil provides shared test helpers for channel based
// synchronization.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Common test timeouts
const (
	// DefaultTestTimeout is the standard timeout for async test operations
	DefaultTestTimeout = 5 * time.Second

	// ShortTestTimeout is for operations expected to complete quickly
	ShortTestTimeout = 1 * time.Second
)

// WaitForChannel waits for ch to be closed or to deliver, failing the test
// after timeout
func WaitForChannel(t *testing.T, ch <-chan struct{}, timeout time.Duration, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		require.Fail(t, msg)
	}
}

// Receive returns the next value from ch, failing the test after timeout
func Receive[T any](t *testing.T, ch <-chan T, timeout time.Duration) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(timeout):
		require.Fail(t, "timed out waiting for value")
	}
	var zero T
	return zero
}

// AssertNotClosed fails when ch is already closed or readable
func AssertNotClosed(t *testing.T, ch <-chan struct{}, msg string) {
	t.Helper()
	select {
	case <-ch:
		require.Fail(t, msg)
	default:
	}
}
