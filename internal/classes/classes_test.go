package classes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/urbansound-go/internal/errors"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	c := Default()
	require.Equal(t, NumClasses, c.Size())

	tests := []struct {
		index int
		name  string
	}{
		{0, "Air conditioner"},
		{3, "Dog bark"},
		{6, "Gun shot"},
		{8, "Siren"},
		{9, "Street music"},
	}
	for _, tt := range tests {
		l, ok := c.Lookup(tt.index)
		require.True(t, ok)
		assert.Equal(t, tt.name, l.Name)
		assert.Equal(t, tt.index, l.Index)
	}

	_, ok := c.Lookup(-1)
	assert.False(t, ok)
	_, ok = c.Lookup(NumClasses)
	assert.False(t, ok)
}

func TestLabelsReturnsCopy(t *testing.T) {
	t.Parallel()

	c := Default()
	labels := c.Labels()
	labels[0].Name = "changed"

	l, _ := c.Lookup(0)
	assert.Equal(t, "Air conditioner", l.Name)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	names := []string{"ac", "horn", "kids", "dog", "drill", "engine", "gun", "jack", "siren", "music"}
	path := filepath.Join(dir, "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(names, "\n")+"\n\n"), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, NumClasses, c.Size())
	l, _ := c.Lookup(7)
	assert.Equal(t, "jack", l.Name)
}

func TestLoadFileWrongCount(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.True(t, errors.IsCategory(err, errors.CategoryLabelLoad))
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}
