package locator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tphakala/urbansound-go/internal/errors"
)

// Resolve returns the path of filename in the first shard under root that
// holds it. Shards are visited in name order. Only regular files directly
// inside a shard match; filename is a base name, never a relative path.
func Resolve(root, filename string) (string, bool, error) {
	if !validBaseName(filename) {
		return "", false, nil
	}

	shards, err := listShards(root)
	if err != nil {
		return "", false, err
	}

	for _, shard := range shards {
		candidate := filepath.Join(shard, filename)
		if isRegularFile(candidate) {
			return candidate, true, nil
		}
	}

	return "", false, nil
}

// listShards returns absolute paths of the immediate subdirectories of root
// in name order. Symlinked shards are followed.
func listShards(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to resolve audio root: %w", err)).
			Component("locator").
			Category(errors.CategoryFileIO).
			Context("root", root).
			Build()
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("audio root %s", absRoot).
				Component("locator").
				Context("root", absRoot).
				Build()
		}
		return nil, errors.New(fmt.Errorf("failed to list audio root: %w", err)).
			Component("locator").
			Category(errors.CategoryFileIO).
			Context("root", absRoot).
			Build()
	}

	shards := make([]string, 0, len(entries))
	for _, e := range entries {
		shard := filepath.Join(absRoot, e.Name())
		if e.IsDir() {
			shards = append(shards, shard)
			continue
		}
		if e.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(shard); err == nil && info.IsDir() {
				shards = append(shards, shard)
			}
		}
	}
	return shards, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func validBaseName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
