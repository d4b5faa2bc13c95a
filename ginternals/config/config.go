// Package config contains structs to interact with gini configuration
// as well as to configure the library
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nivl/gini/env"
	"github.com/Nivl/gini/internal/gitpath"
	"github.com/Nivl/gini/internal/pathutil"
	"github.com/spf13/afero"
)

// Default values used when nothing is set by the user
const (
	DefaultAuthorName  = "Unknown"
	DefaultAuthorEmail = "unknown@example.com"
	// DefaultMaxObjectSize is the maximum size of an object and of
	// a file being snapshotted: 100 MiB
	DefaultMaxObjectSize int64 = 100 * 1024 * 1024
	// DefaultDotGiniDirName is the name of the directory containing
	// the repository
	DefaultDotGiniDirName = gitpath.DotGiniPath
)

// Environment variables used to configure gini
const (
	EnvAuthorName     = "GINI_AUTHOR_NAME"
	EnvAuthorEmail    = "GINI_AUTHOR_EMAIL"
	EnvDir            = "GINI_DIR"
	EnvConfigNoGlobal = "GINI_CONFIG_NOGLOBAL"
)

// Config represents the config of a repository, whether it's from
// the various config files or from the options that can be set using
// the env.
//
// If you decide to create a Config by yourself, make sure to set correct
// values everywhere
type Config struct {
	// FS represents the file system implementation to use to look for
	// files and directories.
	// Defaults to the regular filesystem.
	FS afero.Fs

	// env contains the environment the config was loaded from
	env *env.Env

	// fromFiles contains a reference to the config values held in
	// files
	fromFiles *FileAggregate

	// GiniDirPath represents the path to the .gini directory
	// Maps to $GINI_DIR if set
	// Defaults to finding a ".gini" folder in the current directory,
	// going up in the tree
	GiniDirPath string
	// WorkTreePath represents the path to the directory being
	// snapshotted.
	// Defaults to the parent directory of GiniDirPath
	WorkTreePath string
	// ObjectDirPath represents the path to the .gini/objects directory
	ObjectDirPath string
	// BackupDirPath represents the path to the .gini/backups directory
	BackupDirPath string
	// LocalConfig represents the config file of the repository
	LocalConfig string
	// SkipGlobalConfig states whether we should use the global
	// config files or not
	// Maps to $GINI_CONFIG_NOGLOBAL
	// Defaults to false
	SkipGlobalConfig bool
}

// LoadConfigOptions represents all the params used to set the default
// values of a Config object
type LoadConfigOptions struct {
	// FS represents the file system implementation to use to look for
	// files and directories.
	// Defaults to the regular filesystem.
	FS afero.Fs
	// WorkingDirectory represents the current working directory
	// Defaults to the current working directory
	WorkingDirectory string
	// WorkTreePath corresponds to the directory that should contain
	// the .gini.
	WorkTreePath string
	// GiniDirPath corresponds to the .gini directory
	// Set this value to change the default behavior and overwrite
	// $GINI_DIR.
	GiniDirPath string
	// SkipGiniDirLookUp will disable automatic lookup of the .gini
	// directory.
	// Defaults to false which means that if no path is provided
	// to $GiniDirPath or $GINI_DIR, the method will look for a .gini dir
	// in $WorkingDirectory and will go up the tree until it finds one.
	//
	// You should only set this value to true if you want to initialize a
	// new repository.
	SkipGiniDirLookUp bool
}

// LoadConfig returns a new Config that fetches the data from the
// env
func LoadConfig(e *env.Env, p LoadConfigOptions) (*Config, error) {
	skipGlobalConfig := false
	switch strings.ToLower(e.Get(EnvConfigNoGlobal)) {
	case "yes", "1", "true":
		skipGlobalConfig = true
	}

	opts := &Config{
		env:              e,
		GiniDirPath:      e.Get(EnvDir),
		SkipGlobalConfig: skipGlobalConfig,
	}

	if err := setConfig(e, opts, p); err != nil {
		return nil, err
	}
	return opts, nil
}

// LoadConfigSkipEnv returns a new Config that skips the env
// and uses the default values
func LoadConfigSkipEnv(opts LoadConfigOptions) (*Config, error) {
	return LoadConfig(env.NewFromKVList([]string{}), opts)
}

func setConfig(e *env.Env, p *Config, opts LoadConfigOptions) (err error) {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	p.FS = opts.FS

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not get the current directory: %w", err)
	}
	if opts.WorkingDirectory == "" {
		opts.WorkingDirectory = wd
	}
	if !filepath.IsAbs(opts.WorkingDirectory) {
		opts.WorkingDirectory = filepath.Join(wd, opts.WorkingDirectory)
	}

	// GiniDir rules:
	// - p.GiniDirPath contains either nothing or $GINI_DIR
	// - opts.GiniDirPath contains either nothing or a value used to
	//   override p.GiniDirPath.
	// - opts.WorkTreePath is used to guess the GiniDirPath when
	//   nothing else is set
	// - If nothing set, a .gini directory will looked for by walking up
	//   the current directory.
	// - If relative, the path will be appended to the current working
	//   directory.
	if opts.GiniDirPath != "" {
		p.GiniDirPath = opts.GiniDirPath
	}
	if p.GiniDirPath == "" && opts.WorkTreePath != "" {
		p.GiniDirPath = filepath.Join(opts.WorkTreePath, DefaultDotGiniDirName)
	}
	guessedWorkingTree := opts.WorkingDirectory
	switch p.GiniDirPath {
	default:
		if !filepath.IsAbs(p.GiniDirPath) {
			p.GiniDirPath = filepath.Join(opts.WorkingDirectory, p.GiniDirPath)
		}
		guessedWorkingTree = filepath.Dir(p.GiniDirPath)
	case "":
		if !opts.SkipGiniDirLookUp {
			guessedWorkingTree, err = pathutil.WorkingTreeFromPath(p.FS, opts.WorkingDirectory, DefaultDotGiniDirName)
			if err != nil {
				return fmt.Errorf("could not find working tree: %w", err)
			}
		}
		p.GiniDirPath = filepath.Join(guessedWorkingTree, DefaultDotGiniDirName)
	}

	// Worktree rules:
	// - opts.WorkTreePath contains either nothing or a path to the
	//   working tree.
	// - Fallback on the directory containing the .gini directory
	p.WorkTreePath = opts.WorkTreePath
	if p.WorkTreePath == "" {
		p.WorkTreePath = guessedWorkingTree
	}
	if !filepath.IsAbs(p.WorkTreePath) {
		p.WorkTreePath = filepath.Join(opts.WorkingDirectory, p.WorkTreePath)
	}

	p.LocalConfig = filepath.Join(p.GiniDirPath, gitpath.ConfigPath)
	p.ObjectDirPath = filepath.Join(p.GiniDirPath, gitpath.ObjectsPath)
	p.BackupDirPath = filepath.Join(p.GiniDirPath, gitpath.BackupsPath)

	p.fromFiles, err = NewFileAggregate(e, p)
	if err != nil {
		return fmt.Errorf("could not load config files: %w", err)
	}
	return nil
}

// Reload reloads the config files. This is needed after the local
// config file has been created or changed
func (cfg *Config) Reload() (err error) {
	e := cfg.env
	if e == nil {
		e = env.NewFromKVList([]string{})
	}
	cfg.fromFiles, err = NewFileAggregate(e, cfg)
	if err != nil {
		return fmt.Errorf("could not load config files: %w", err)
	}
	return nil
}

// RepoFormatVersion returns the version of the format of the repo
func (cfg *Config) RepoFormatVersion() (version int, ok bool) {
	if cfg.fromFiles == nil {
		return 0, false
	}
	return cfg.fromFiles.RepoFormatVersion()
}

// Author returns the identity to use when creating checkpoints.
// The environment takes precedence over the config files
func (cfg *Config) Author() (name, email string) {
	name, email = DefaultAuthorName, DefaultAuthorEmail
	if cfg.fromFiles != nil {
		if v, ok := cfg.fromFiles.UserName(); ok {
			name = v
		}
		if v, ok := cfg.fromFiles.UserEmail(); ok {
			email = v
		}
	}
	if cfg.env != nil {
		if v := cfg.env.Get(EnvAuthorName); v != "" {
			name = v
		}
		if v := cfg.env.Get(EnvAuthorEmail); v != "" {
			email = v
		}
	}
	return name, email
}

// MaxObjectSize returns the maximum size of an object, in bytes
func (cfg *Config) MaxObjectSize() int64 {
	if cfg.fromFiles != nil {
		if v, ok := cfg.fromFiles.MaxObjectSize(); ok {
			return v
		}
	}
	return DefaultMaxObjectSize
}

// Excludes returns the names of the directories and files that should
// never be part of a snapshot, on top of the repository metadata
func (cfg *Config) Excludes() []string {
	if cfg.fromFiles != nil {
		if v, ok := cfg.fromFiles.Excludes(); ok {
			return v
		}
	}
	out := make([]string, len(gitpath.DefaultExcludes))
	copy(out, gitpath.DefaultExcludes)
	return out
}
