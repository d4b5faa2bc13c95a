// Package gini contains methods and objects to work with gini
// repositories: local checkpoints of a directory
package gini

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Nivl/gini/backend"
	"github.com/Nivl/gini/backend/fsbackend"
	"github.com/Nivl/gini/env"
	"github.com/Nivl/gini/ginternals"
	"github.com/Nivl/gini/ginternals/config"
	"github.com/Nivl/gini/ginternals/object"
	"github.com/Nivl/gini/internal/gitpath"
	"github.com/Nivl/gini/internal/pathutil"
	"github.com/spf13/afero"
)

// List of errors returned by the Repository struct
var (
	ErrRepositoryNotExist           = errors.New("repository does not exist")
	ErrRepositoryUnsupportedVersion = errors.New("repository not supported")
	ErrRepositoryExists             = errors.New("repository already exists")
	ErrRepositoryCorrupt            = errors.New("repository is corrupted")
	ErrOperationInProgress          = errors.New("another operation is in progress")
)

// supportedFormatVersion is the only version of the repository format
// we know how to read
const supportedFormatVersion = 0

// Repository represent a gini repository.
// A repository is the .gini/ folder inside a project. It contains
// every checkpoint ever made of the project
type Repository struct {
	Config *config.Config

	dotGini backend.Backend
	wt      afero.Fs
	logger  *slog.Logger
	now     func() time.Time

	stateMu sync.Mutex
	state   State

	shouldCleanBackend bool
}

// Options contains all the optional data used to initialize or
// open a repository
type Options struct {
	// FS represents the file system implementation to use.
	// Defaults to the regular filesystem.
	// Ignored if Config is set
	FS afero.Fs
	// Config represents the configuration of the repository.
	// Defaults to a config loaded from the environment, targeting
	// the provided path
	Config *config.Config
	// GiniBackend represents the underlying backend to use to init the
	// repository and interact with the odb.
	// By default the filesystem will be used
	GiniBackend backend.Backend
	// Logger is used to report what the repository is doing.
	// By default nothing is logged
	Logger *slog.Logger
	// Now returns the current time. It's used to sign the checkpoints
	// and to name the backups.
	// Defaults to time.Now
	Now func() time.Time
}

// InitRepository initialize a new gini repository by creating the .gini
// directory in the given path, which is where everything gini stores
// is located.
func InitRepository(workTreePath string) (*Repository, error) {
	return InitRepositoryWithOptions(workTreePath, Options{})
}

// InitRepositoryWithOptions initialize a new gini repository by
// creating the .gini directory in the given path.
//
// ErrRepositoryExists is returned if the directory already contains a
// repository. Repositories located in a parent directory are ignored,
// nested repositories are allowed
func InitRepositoryWithOptions(workTreePath string, opts Options) (repo *Repository, err error) {
	r, err := newRepository(workTreePath, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			r.Close() //nolint:errcheck // it already failed
		}
	}()

	_, err = r.wt.Stat(r.Config.GiniDirPath)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", r.Config.GiniDirPath, ErrRepositoryExists)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not check %s: %w", r.Config.GiniDirPath, err)
	}
	if err = r.wt.MkdirAll(r.Config.WorkTreePath, 0o755); err != nil {
		return nil, fmt.Errorf("could not create %s: %w", r.Config.WorkTreePath, err)
	}

	if err = r.dotGini.Init(); err != nil {
		if errors.Is(err, ginternals.ErrRefExists) {
			return nil, fmt.Errorf("%s: %w", r.Config.GiniDirPath, ErrRepositoryExists)
		}
		return nil, fmt.Errorf("could not initialize the repository: %w", err)
	}
	r.logger.Info("repository initialized", slog.String("path", r.Config.GiniDirPath))
	return r, nil
}

// OpenRepository loads an existing gini repository by reading its
// config file, and returns a Repository instance
func OpenRepository(workTreePath string) (*Repository, error) {
	return OpenRepositoryWithOptions(workTreePath, Options{})
}

// OpenRepositoryWithOptions loads an existing gini repository by
// reading its config file, and returns a Repository instance
func OpenRepositoryWithOptions(workTreePath string, opts Options) (repo *Repository, err error) {
	r, err := newRepository(workTreePath, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			r.Close() //nolint:errcheck // it already failed
		}
	}()

	info, err := r.wt.Stat(r.Config.GiniDirPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", r.Config.GiniDirPath, ErrRepositoryNotExist)
	}

	// HEAD should always be there, if it's not then the repo is broken
	if _, err = r.dotGini.Reference(ginternals.Head); err != nil {
		return nil, fmt.Errorf("could not read HEAD: %w: %w", ErrRepositoryCorrupt, err)
	}

	if v, ok := r.Config.RepoFormatVersion(); ok && v != supportedFormatVersion {
		return nil, fmt.Errorf("version %d: %w", v, ErrRepositoryUnsupportedVersion)
	}
	return r, nil
}

// newRepository returns a Repository with all its dependencies set
func newRepository(workTreePath string, opts Options) (*Repository, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.LoadConfig(env.NewFromOs(), config.LoadConfigOptions{
			FS:                opts.FS,
			WorkTreePath:      workTreePath,
			SkipGiniDirLookUp: true,
		})
		if err != nil {
			return nil, fmt.Errorf("could not load the config: %w", err)
		}
	}

	r := &Repository{
		Config:  cfg,
		dotGini: opts.GiniBackend,
		wt:      cfg.FS,
		logger:  opts.Logger,
		now:     opts.Now,
		state:   StateIdle,
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.dotGini == nil {
		b, err := fsbackend.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("could not create the backend: %w", err)
		}
		r.dotGini = b
		r.shouldCleanBackend = true
	}
	return r, nil
}

// ResolveRoot returns the work tree of the repository containing
// start, by looking for a .gini directory in start and its parents.
// The look up is bounded, ErrRepositoryNotExist is returned if no
// repository could be found
func ResolveRoot(fs afero.Fs, start string) (string, error) {
	p, err := pathutil.WorkingTreeFromPath(fs, start, gitpath.DotGiniPath)
	if err != nil {
		if errors.Is(err, pathutil.ErrNoRepo) {
			return "", fmt.Errorf("%s: %w: %w", start, ErrRepositoryNotExist, err)
		}
		return "", err
	}
	return p, nil
}

// Close frees the resources used by the repository
func (r *Repository) Close() error {
	if r.shouldCleanBackend {
		return r.dotGini.Close()
	}
	return nil
}

// WorkTreePath returns the path of the directory being checkpointed
func (r *Repository) WorkTreePath() string {
	return r.Config.WorkTreePath
}

// Object returns the raw object matching the given ID
func (r *Repository) Object(oid ginternals.Oid) (*object.Object, error) {
	return r.dotGini.Object(oid, object.TypeBlob)
}

// HasObject returns whether an object exists in the odb
func (r *Repository) HasObject(oid ginternals.Oid) (bool, error) {
	return r.dotGini.HasObject(oid)
}

// NewBlob creates, stores, and returns a new Blob object
func (r *Repository) NewBlob(data []byte) (*object.Blob, error) {
	b := object.NewBlobFromContent(data)
	if _, err := r.dotGini.WriteObject(b.ToObject()); err != nil {
		return nil, fmt.Errorf("could not write the object to the odb: %w", err)
	}
	return b, nil
}

// isRootMetadata returns whether the entry name of the root of the
// work tree belongs to the repository and should be left alone
func (r *Repository) isRootMetadata(name string) bool {
	if gitpath.IsMetadata(name) {
		return true
	}
	return filepath.Join(r.Config.WorkTreePath, name) == filepath.Clean(r.Config.GiniDirPath)
}
