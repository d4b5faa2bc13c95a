// Package fsbackend contains an implementation of the backend.Backend
// interface for the filesystem
package fsbackend

import (
	"fmt"
	"path/filepath"

	"github.com/Nivl/gini/backend"
	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/ginternals/config"
	"github.com/Nivl/gini/internal/cache"
	"github.com/Nivl/gini/internal/gitpath"
	"github.com/Nivl/gini/internal/syncutil"
	"github.com/spf13/afero"
)

// we make sure the struct implements the interface
var _ backend.Backend = (*Backend)(nil)

const (
	// cacheSize is the number of objects kept in memory
	cacheSize = 1000
	// cacheMaxObjectSize is the size over which an object is never
	// kept in memory: 1 MiB
	cacheMaxObjectSize = 1 << 20
	// objectMutexes is the number of mutexes used to guard the writes
	// of objects. Using a prime number offers a better distribution
	objectMutexes = 101
)

// Backend is a Backend implementation that uses the filesystem to store data
type Backend struct {
	fs     afero.Fs
	config *config.Config

	objectMu *syncutil.NamedMutex
	cache    *cache.LRU
}

// New returns a new Backend object
func New(cfg *config.Config) (*Backend, error) {
	c, err := cache.NewLRU(cacheSize, cacheMaxObjectSize)
	if err != nil {
		return nil, fmt.Errorf("could not create the object cache: %w", err)
	}
	return &Backend{
		fs:       cfg.FS,
		config:   cfg,
		objectMu: syncutil.NewNamedMutex(objectMutexes),
		cache:    c,
	}, nil
}

// Path returns the path of the .gini directory
func (b *Backend) Path() string {
	return b.config.GiniDirPath
}

// Close frees the resources used by the Backend
// This method cannot be called concurrently with other methods
func (b *Backend) Close() error {
	b.cache.Clear()
	return nil
}

// Init initializes a repository:
// - creates .gini/objects, .gini/refs/heads, and .gini/backups
// - creates .gini/HEAD targeting refs/heads/main. The branch itself
//   is only created by the first checkpoint
// - persists the default configuration
//
// Calling Init on an existing repository fails with ErrRefExists and
// leaves it untouched
func (b *Backend) Init() error {
	if _, err := b.Reference(ginternals.Head); err == nil {
		return fmt.Errorf("%s: %w", ginternals.Head, ginternals.ErrRefExists)
	}

	dirs := []string{
		b.config.ObjectDirPath,
		b.config.BackupDirPath,
		filepath.Join(b.Path(), filepath.FromSlash(gitpath.RefsHeadsPath)),
	}
	for _, d := range dirs {
		if err := b.fs.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("could not create directory %s: %w", d, err)
		}
	}

	ref := ginternals.NewSymbolicReference(ginternals.Head, ginternals.LocalBranchFullName(ginternals.Main))
	if err := b.WriteReferenceSafe(ref); err != nil {
		return fmt.Errorf("could not write HEAD: %w", err)
	}

	if err := config.WriteDefault(b.config); err != nil {
		return fmt.Errorf("could not set the default config: %w", err)
	}
	if err := b.config.Reload(); err != nil {
		return fmt.Errorf("could not reload the config: %w", err)
	}
	return nil
}
