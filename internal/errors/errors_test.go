package errors

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastPathNoHooks(t *testing.T) {
	ClearErrorHooks()

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
}

func TestBuilderCarriesContext(t *testing.T) {
	t.Parallel()

	ee := Newf("bad shape %d", 4).
		Component("spectrogram").
		Category(CategoryValidation).
		Context("rank", 4).
		FileContext("espectrogramas/100032-3-0-0.npy", 2048).
		Build()

	assert.Equal(t, "spectrogram", ee.GetComponent())
	assert.Equal(t, CategoryValidation, ee.Category)

	ctx := ee.GetContext()
	assert.Equal(t, 4, ctx["rank"])
	assert.Equal(t, "npy", ctx["file_extension"])
	assert.Equal(t, "small", ctx["file_size_category"])

	// The returned map is a copy
	ctx["rank"] = 5
	assert.Equal(t, 4, ee.GetContext()["rank"])
}

func TestNotFoundWrapsSentinel(t *testing.T) {
	t.Parallel()

	err := NotFound("spectrogram %q", "a.npy").Build()

	assert.True(t, IsNotFound(err))
	assert.True(t, Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), `spectrogram "a.npy"`)

	wrapped := fmt.Errorf("classify: %w", err)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(fmt.Errorf("other")))
}

func TestFileError(t *testing.T) {
	t.Parallel()

	ee := FileError(fmt.Errorf("failed to open metadata file: permission denied"), "/data/mel_metadata.csv", 0).
		Component("catalog").
		Fatal().
		Build()

	assert.Equal(t, "catalog", ee.GetComponent())
	assert.Equal(t, CategoryFileIO, ee.Category)
	assert.True(t, IsFatal(ee))
	assert.Equal(t, "/data/mel_metadata.csv", ee.GetContext()["file_path"])
	assert.Equal(t, "csv", ee.GetContext()["file_extension"])
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	fatal := Newf("model missing").Category(CategoryModelLoad).Fatal().Build()
	assert.True(t, IsFatal(fatal))
	assert.True(t, IsFatal(fmt.Errorf("startup: %w", fatal)))

	// A non-critical wrapper around a critical error is still fatal
	outer := New(fatal).Category(CategoryModelInit).Build()
	assert.True(t, IsFatal(outer))

	assert.False(t, IsFatal(Newf("transient").Build()))
	assert.False(t, IsFatal(fmt.Errorf("plain")))
	assert.False(t, IsFatal(nil))
}

func TestPriorityFallback(t *testing.T) {
	t.Parallel()

	ee := Newf("x").Priority("urgent").Build()
	assert.Equal(t, PriorityMedium, ee.GetPriority())

	ee = Newf("x").Priority("").Build()
	assert.Empty(t, ee.GetPriority())
}

func TestDetectCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"not found sentinel", fmt.Errorf("x: %w", ErrNotFound), CategoryNotFound},
		{"model load", fmt.Errorf("failed to load model"), CategoryModelLoad},
		{"label", fmt.Errorf("bad label count"), CategoryLabelLoad},
		{"file", fmt.Errorf("cannot open file"), CategoryFileIO},
		{"mismatch", fmt.Errorf("length mismatch"), CategoryValidation},
		{"generic", fmt.Errorf("boom"), CategoryGeneric},
		{"nested enhanced", fmt.Errorf("wrap: %w", Newf("x").Category(CategoryContract).Build()), CategoryContract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, detectCategory(tt.err, ""))
		})
	}
}

func TestErrorHooks(t *testing.T) {
	var calls atomic.Int32
	var lastCategory atomic.Value

	AddErrorHook(func(ee *EnhancedError) {
		calls.Add(1)
		lastCategory.Store(ee.Category)
	})
	t.Cleanup(ClearErrorHooks)

	ee := Newf("output length mismatch").Category(CategoryContract).Build()
	require.NotNil(t, ee)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, CategoryContract, lastCategory.Load())

	ClearErrorHooks()
	Newf("after clear").Build()
	assert.Equal(t, int32(1), calls.Load())
}

func TestEnhancedErrorIsMatchesCategory(t *testing.T) {
	t.Parallel()

	a := Newf("a").Category(CategoryState).Build()
	b := Newf("b").Category(CategoryState).Build()
	c := Newf("c").Category(CategoryAudio).Build()

	assert.True(t, Is(a, b))
	assert.False(t, Is(a, c))
}
