// Package locator finds audio clips by file name inside a tree of fold
// shards: root/fold1/a.wav, root/fold2/b.wav, ...
package locator

import (
	"context"
	"fmt"
	"time"
)

// Locator resolves an audio file name to an absolute path. A false result
// with a nil error means no shard holds the file.
type Locator interface {
	Locate(ctx context.Context, filename string) (string, bool, error)
	Close() error
}

// Lookup modes
const (
	ModeIndex = "index"
	ModeProbe = "probe"
)

// Options selects and configures a Locator
type Options struct {
	Mode     string        // ModeIndex or ModeProbe
	IndexTTL time.Duration // index lifetime, 0 keeps it until invalidated
	Watch    bool          // drop the index when the tree changes
	OnBuild  func(*Index)  // called after every index build
}

// New returns the Locator selected by opts.Mode
func New(root string, opts Options) (Locator, error) {
	switch opts.Mode {
	case ModeProbe:
		return &ProbeLocator{Root: root}, nil
	case ModeIndex, "":
		return NewIndexedLocator(root, IndexOptions{
			TTL:     opts.IndexTTL,
			Watch:   opts.Watch,
			OnBuild: opts.OnBuild,
		})
	default:
		return nil, fmt.Errorf("unknown locator mode %q", opts.Mode)
	}
}

// ProbeLocator enumerates the shard directories on every call
type ProbeLocator struct {
	Root string
}

// Locate implements Locator
func (p *ProbeLocator) Locate(ctx context.Context, filename string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return Resolve(p.Root, filename)
}

// Close implements Locator
func (p *ProbeLocator) Close() error {
	return nil
}
