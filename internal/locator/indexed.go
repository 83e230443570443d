package locator

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/patrickmn/go-cache"

	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/logger"
)

const indexKey = "index"

// IndexOptions configures an IndexedLocator
type IndexOptions struct {
	TTL     time.Duration // 0 keeps the index until invalidated
	Watch   bool
	OnBuild func(*Index)
}

// IndexedLocator answers lookups from a cached Index. The index is built on
// first use and rebuilt after it expires, is invalidated, or points at a
// file that no longer exists.
type IndexedLocator struct {
	root    string
	cache   *cache.Cache
	onBuild func(*Index)

	buildMu sync.Mutex // serializes rebuilds

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

// NewIndexedLocator creates a locator for root. With Watch set, root and
// its shards are watched and any change drops the cached index.
func NewIndexedLocator(root string, opts IndexOptions) (*IndexedLocator, error) {
	l := &IndexedLocator{
		root: root,
		// No janitor: there is a single entry and Get honors expiry
		cache:   cache.New(opts.TTL, 0),
		onBuild: opts.OnBuild,
	}

	if opts.Watch {
		if err := l.startWatcher(); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Locate implements Locator
func (l *IndexedLocator) Locate(ctx context.Context, filename string) (string, bool, error) {
	if !validBaseName(filename) {
		return "", false, nil
	}

	idx, err := l.index(ctx)
	if err != nil {
		return "", false, err
	}

	path, ok := idx.Lookup(filename)
	if !ok {
		return "", false, nil
	}
	if isRegularFile(path) {
		return path, true, nil
	}

	// Stale entry, rescan once
	GetLogger().Debug("Indexed audio file vanished, rebuilding index",
		logger.String("file", filename),
		logger.String("path", path))
	l.Invalidate()

	idx, err = l.index(ctx)
	if err != nil {
		return "", false, err
	}
	path, ok = idx.Lookup(filename)
	if !ok || !isRegularFile(path) {
		return "", false, nil
	}
	return path, true, nil
}

// Index returns the current index, building it when needed
func (l *IndexedLocator) Index(ctx context.Context) (*Index, error) {
	return l.index(ctx)
}

func (l *IndexedLocator) index(ctx context.Context) (*Index, error) {
	if v, found := l.cache.Get(indexKey); found {
		if idx, ok := v.(*Index); ok {
			return idx, nil
		}
	}

	l.buildMu.Lock()
	defer l.buildMu.Unlock()

	// Another caller may have finished a build while we waited
	if v, found := l.cache.Get(indexKey); found {
		if idx, ok := v.(*Index); ok {
			return idx, nil
		}
	}

	idx, err := BuildIndex(ctx, l.root)
	if err != nil {
		return nil, err
	}
	l.cache.Set(indexKey, idx, cache.DefaultExpiration)

	if l.onBuild != nil {
		l.onBuild(idx)
	}
	return idx, nil
}

// Invalidate drops the cached index
func (l *IndexedLocator) Invalidate() {
	l.cache.Delete(indexKey)
}

// Close stops the watcher, if any
func (l *IndexedLocator) Close() error {
	if l.watcher == nil {
		return nil
	}
	err := l.watcher.Close()
	l.wg.Wait()
	return err
}

func (l *IndexedLocator) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.New(fmt.Errorf("failed to create watcher: %w", err)).
			Component("locator").
			Category(errors.CategoryFileIO).
			Build()
	}

	dirs, err := listShards(l.root)
	if err != nil {
		_ = watcher.Close()
		return err
	}
	for _, dir := range append([]string{l.root}, dirs...) {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return errors.New(fmt.Errorf("failed to watch %s: %w", dir, err)).
				Component("locator").
				Category(errors.CategoryFileIO).
				Context("dir", dir).
				Build()
		}
	}

	l.watcher = watcher
	l.wg.Add(1)
	go l.watchLoop()

	return nil
}

func (l *IndexedLocator) watchLoop() {
	defer l.wg.Done()
	log := GetLogger()

	for {
		select {
		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			l.Invalidate()

			// New shard directories need their own watch
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := l.watcher.Add(event.Name); err != nil {
						log.Warn("Failed to watch new shard",
							logger.String("dir", event.Name),
							logger.Error(err))
					}
				}
			}
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("Audio tree watcher error", logger.Error(err))
		}
	}
}
