package buildinfo

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	Set("1.2.0", "2026-10-01T12:00:00Z")
	t.Cleanup(func() { Set("", "") })

	info := Get()
	assert.Equal(t, "1.2.0", info.Version)
	assert.Equal(t, "2026-10-01T12:00:00Z", info.BuildDate)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.NotEmpty(t, info.Commit)
	assert.Len(t, info.Rows(), 5)
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"short revision", shortRevision("0123456789abcdef0123"), "0123456789ab"},
		{"short revision already short", shortRevision("abc"), "abc"},
		{"unknown fallback", orUnknown(""), UnknownValue},
		{"value kept", orUnknown("v1"), "v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
