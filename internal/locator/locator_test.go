package locator

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tphakala/urbansound-go/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// makeTree creates root/<shard>/<file> for every entry
func makeTree(t *testing.T, files map[string][]string) string {
	t.Helper()
	root := t.TempDir()
	for shard, names := range files {
		dir := filepath.Join(root, shard)
		require.NoError(t, os.MkdirAll(dir, 0o750))
		for _, name := range names {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("RIFF"), 0o600))
		}
	}
	return root
}

func TestResolve(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string][]string{
		"fold1": {"a.wav"},
		"fold2": {"b.wav", "dup.wav"},
		"fold3": {"dup.wav"},
	})
	// A loose file at the root is not a shard
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.wav"), nil, 0o600))
	// A directory named like the target never matches
	require.NoError(t, os.MkdirAll(filepath.Join(root, "fold1", "d.wav"), 0o750))

	tests := []struct {
		name  string
		file  string
		want  string
		found bool
	}{
		{"first shard", "a.wav", filepath.Join("fold1", "a.wav"), true},
		{"second shard", "b.wav", filepath.Join("fold2", "b.wav"), true},
		{"collision takes first shard", "dup.wav", filepath.Join("fold2", "dup.wav"), true},
		{"absent", "zzz.wav", "", false},
		{"root file ignored", "c.wav", "", false},
		{"directory ignored", "d.wav", "", false},
		{"relative path refused", "fold1/a.wav", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok, err := Resolve(root, tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.found, ok)
			if !tt.found {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, filepath.Join(root, tt.want), got)
			assert.True(t, filepath.IsAbs(got))
			_, statErr := os.Stat(got)
			assert.NoError(t, statErr)
		})
	}
}

func TestResolveMissingRoot(t *testing.T) {
	t.Parallel()

	_, ok, err := Resolve(filepath.Join(t.TempDir(), "nope"), "a.wav")
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.IsNotFound(err))
}

func TestBuildIndex(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string][]string{
		"fold1":  {"a.wav", "x.wav"},
		"fold10": {"x.wav"},
		"fold2":  {"b.wav", "x.wav"},
		"empty":  nil,
	})

	idx, err := BuildIndex(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 4, idx.Shards())
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, root, idx.Root())

	p, ok := idx.Lookup("x.wav")
	require.True(t, ok)
	want, _, err := Resolve(root, "x.wav")
	require.NoError(t, err)
	assert.Equal(t, want, p, "index and probe agree on collisions")

	assert.Equal(t, []string{"x.wav"}, idx.CollisionNames())
	assert.Equal(t, []string{
		filepath.Join(root, "fold1", "x.wav"),
		filepath.Join(root, "fold10", "x.wav"),
		filepath.Join(root, "fold2", "x.wav"),
	}, idx.Collisions("x.wav"))

	_, ok = idx.Lookup("missing.wav")
	assert.False(t, ok)
}

func TestBuildIndexCanceled(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string][]string{"fold1": {"a.wav"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildIndex(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestIndexedLocatorCachesIndex(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string][]string{"fold1": {"a.wav"}, "fold2": {"b.wav"}})

	var builds atomic.Int32
	l, err := NewIndexedLocator(root, IndexOptions{OnBuild: func(*Index) { builds.Add(1) }})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	ctx := context.Background()
	for range 3 {
		p, ok, err := l.Locate(ctx, "b.wav")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "fold2", "b.wav"), p)
	}
	assert.Equal(t, int32(1), builds.Load())

	l.Invalidate()
	_, ok, err := l.Locate(ctx, "a.wav")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(2), builds.Load())
}

func TestIndexedLocatorRebuildsOnVanishedFile(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string][]string{"fold1": {"a.wav"}, "fold2": {"a.wav"}})

	l, err := NewIndexedLocator(root, IndexOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	ctx := context.Background()
	p, ok, err := l.Locate(ctx, "a.wav")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "fold1", "a.wav"), p)

	require.NoError(t, os.Remove(p))

	p, ok, err = l.Locate(ctx, "a.wav")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "fold2", "a.wav"), p)

	require.NoError(t, os.Remove(p))
	_, ok, err = l.Locate(ctx, "a.wav")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIndexedLocatorTTL(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string][]string{"fold1": {"a.wav"}})

	var builds atomic.Int32
	l, err := NewIndexedLocator(root, IndexOptions{
		TTL:     20 * time.Millisecond,
		OnBuild: func(*Index) { builds.Add(1) },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	ctx := context.Background()
	_, _, err = l.Locate(ctx, "a.wav")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	_, _, err = l.Locate(ctx, "a.wav")
	require.NoError(t, err)
	assert.Equal(t, int32(2), builds.Load())
}

func TestIndexedLocatorWatchInvalidates(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string][]string{"fold1": {"a.wav"}})

	l, err := NewIndexedLocator(root, IndexOptions{Watch: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	ctx := context.Background()
	_, ok, err := l.Locate(ctx, "new.wav")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(root, "fold1", "new.wav"), nil, 0o600))

	assert.Eventually(t, func() bool {
		_, ok, err := l.Locate(ctx, "new.wav")
		return err == nil && ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestIndexedLocatorMissingRoot(t *testing.T) {
	t.Parallel()

	l, err := NewIndexedLocator(filepath.Join(t.TempDir(), "missing"), IndexOptions{})
	require.NoError(t, err)

	_, _, err = l.Locate(context.Background(), "a.wav")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	_, err = NewIndexedLocator(filepath.Join(t.TempDir(), "missing"), IndexOptions{Watch: true})
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string][]string{"fold1": {"a.wav"}})

	for _, mode := range []string{ModeProbe, ModeIndex} {
		l, err := New(root, Options{Mode: mode})
		require.NoError(t, err)
		p, ok, err := l.Locate(context.Background(), "a.wav")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(root, "fold1", "a.wav"), p)
		require.NoError(t, l.Close())
	}

	_, err := New(root, Options{Mode: "walk"})
	require.Error(t, err)
}
