package locator

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/urbansound-go/internal/logger"
)

// Index maps audio file names to paths, built by one scan of every shard
type Index struct {
	root       string
	paths      map[string]string
	collisions map[string][]string
	shards     int
	builtAt    time.Time
	elapsed    time.Duration
}

// BuildIndex scans all shards under root in parallel. When a file name
// occurs in several shards the shard first in name order wins, matching
// Resolve, and the clash is recorded.
func BuildIndex(ctx context.Context, root string) (*Index, error) {
	start := time.Now()

	shards, err := listShards(root)
	if err != nil {
		return nil, err
	}

	listings := make([][]string, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, shard := range shards {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			names, err := listFiles(shard)
			if err != nil {
				return err
			}
			listings[i] = names
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := &Index{
		root:       root,
		paths:      make(map[string]string),
		collisions: make(map[string][]string),
		shards:     len(shards),
	}

	for i, names := range listings {
		for _, name := range names {
			path := filepath.Join(shards[i], name)
			first, exists := idx.paths[name]
			if !exists {
				idx.paths[name] = path
				continue
			}
			if len(idx.collisions[name]) == 0 {
				idx.collisions[name] = []string{first}
			}
			idx.collisions[name] = append(idx.collisions[name], path)
		}
	}

	idx.builtAt = time.Now()
	idx.elapsed = idx.builtAt.Sub(start)

	log := GetLogger()
	log.Debug("Audio index built",
		logger.String("root", root),
		logger.Int("shards", idx.shards),
		logger.Int("files", len(idx.paths)),
		logger.Duration("elapsed", idx.elapsed),
		logger.Time("built_at", idx.builtAt))
	if len(idx.collisions) > 0 {
		log.Warn("Audio file names present in more than one shard, first shard wins",
			logger.Int("count", len(idx.collisions)),
			logger.Strings("names", idx.CollisionNames()))
	}

	return idx, nil
}

// listFiles returns names of regular files in dir. A shard that vanished
// mid-scan counts as empty.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
			continue
		}
		if e.Type()&os.ModeSymlink != 0 && isRegularFile(filepath.Join(dir, e.Name())) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Lookup returns the indexed path of filename
func (idx *Index) Lookup(filename string) (string, bool) {
	p, ok := idx.paths[filename]
	return p, ok
}

// Len returns the number of distinct file names
func (idx *Index) Len() int {
	return len(idx.paths)
}

// Shards returns the number of shard directories scanned
func (idx *Index) Shards() int {
	return idx.shards
}

// BuiltAt returns when the scan finished
func (idx *Index) BuiltAt() time.Time {
	return idx.builtAt
}

// Elapsed returns how long the scan took
func (idx *Index) Elapsed() time.Duration {
	return idx.elapsed
}

// Collisions returns every path of a file name found in more than one
// shard, winner first
func (idx *Index) Collisions(filename string) []string {
	return slices.Clone(idx.collisions[filename])
}

// CollisionNames returns the sorted file names found in more than one shard
func (idx *Index) CollisionNames() []string {
	names := make([]string, 0, len(idx.collisions))
	for name := range idx.collisions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Root returns the scanned audio root
func (idx *Index) Root() string {
	return idx.root
}
