package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Nivl/gini/env"
	"github.com/Nivl/gini/internal/fsutil"
	"gopkg.in/ini.v1"
)

// Config file sections and keys
const (
	CfgCore              = "core"
	CfgCoreFormatVersion = "repositoryformatversion"
	CfgCoreMaxObjectSize = "maxobjectsize"
	CfgCoreExcludes      = "excludes"
	CfgUser              = "user"
	CfgUserName          = "name"
	CfgUserEmail         = "email"
)

// defaultLoadOption contains the params used to load the config files
//
//nolint:gochecknoglobals // It's a global because we
// don't want to have to redefine it all the time.
// Treat this as a const, don't ever change it from a method, even for
// testing.
var defaultLoadOption = ini.LoadOptions{
	SkipUnrecognizableLines: true,
}

// FileAggregate represents the aggregate of all the config files
// impacting a repository
type FileAggregate struct {
	cfg *Config
	agg *ini.File
}

// RepoFormatVersion returns the version of the format of the repo
func (cfg *FileAggregate) RepoFormatVersion() (version int, ok bool) {
	v, err := cfg.agg.Section(CfgCore).Key(CfgCoreFormatVersion).Int()
	if err != nil {
		return 0, false
	}
	return v, true
}

// MaxObjectSize returns the maximum size of an object, in bytes
func (cfg *FileAggregate) MaxObjectSize() (size int64, ok bool) {
	v, err := cfg.agg.Section(CfgCore).Key(CfgCoreMaxObjectSize).Int64()
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// Excludes returns the list of names that should not be part of a
// snapshot. An empty value means nothing is excluded
func (cfg *FileAggregate) Excludes() (names []string, ok bool) {
	core := cfg.agg.Section(CfgCore)
	if !core.HasKey(CfgCoreExcludes) {
		return nil, false
	}
	names = []string{}
	for _, n := range core.Key(CfgCoreExcludes).Strings(",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names, true
}

// UserName returns the name of the user
func (cfg *FileAggregate) UserName() (name string, ok bool) {
	v := cfg.agg.Section(CfgUser).Key(CfgUserName).String()
	return v, v != ""
}

// UserEmail returns the email of the user
func (cfg *FileAggregate) UserEmail() (email string, ok bool) {
	v := cfg.agg.Section(CfgUser).Key(CfgUserEmail).String()
	return v, v != ""
}

// NewFileAggregate loads all the available config files and returns an object
// with accessor
func NewFileAggregate(e *env.Env, cfg *Config) (confFile *FileAggregate, err error) {
	confFile = &FileAggregate{
		cfg: cfg,
	}
	configPaths := getPaths(e, cfg)

	// Because we want to use afero instead of the file system, we cannot
	// just provide the the file paths to ini.Load. Instead we need to open
	// all the files ourselves, provide the files to ini, and close everything.
	// We use []interface{} because "ini.Load" wants a slice of interfaces
	files := make([]interface{}, 0, len(configPaths))
	for _, p := range configPaths {
		_, sErr := cfg.FS.Stat(p)
		if sErr != nil {
			// not every config files are expected to exists on disk
			// so we skip all the one that doesn't
			if errors.Is(sErr, os.ErrNotExist) {
				continue
			}
			err = fmt.Errorf("could not check file %s: %w", p, sErr)
			break
		}

		f, fErr := cfg.FS.Open(p)
		if fErr != nil {
			err = fmt.Errorf("could not open file %s: %w", p, fErr)
			break
		}
		files = append(files, f)
	}
	defer func() {
		// we need to cleanup the file descriptors to avoid a leak
		for _, f := range files {
			//nolint:errcheck // it's expected to fail as the files are already closed.
			// go-ini already closes the files for us. This code is
			// only here to prevent a FD leak in case go-ini updates the
			// behavior and we don't see it / remember about it
			f.(io.ReadCloser).Close()
		}
	}()
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		confFile.agg = ini.Empty(defaultLoadOption)
		return confFile, nil
	}

	// ini.Load wants the config file separated over 2 args, the second args
	// being a spreadable.
	src := files[0]
	others := files[1:]
	confFile.agg, err = ini.LoadSources(defaultLoadOption, src, others...)
	if err != nil {
		return nil, fmt.Errorf("could not load config file: %w", err)
	}
	return confFile, nil
}

func appendIfValid(array *[]string, envVar string, p ...string) {
	if envVar != "" {
		*array = append(*array, filepath.Join(envVar, filepath.Join(p...)))
	}
}

// getPaths returns the list of config files, from the less specific
// to the most specific. Values of a file override the values of the
// previous ones
func getPaths(e *env.Env, cfg *Config) []string {
	configPaths := []string{}

	if !cfg.SkipGlobalConfig {
		switch runtime.GOOS {
		case "windows":
			appendIfValid(&configPaths, e.Get("APPDATA"), "gini", "config")
			appendIfValid(&configPaths, e.Get("USERPROFILE"), ".giniconfig")
		default:
			if e.Get("XDG_CONFIG_HOME") != "" {
				configPaths = append(configPaths, filepath.Join(e.Get("XDG_CONFIG_HOME"), "gini", "config"))
			} else {
				appendIfValid(&configPaths, e.Get("HOME"), ".config", "gini", "config")
			}
			appendIfValid(&configPaths, e.Get("HOME"), ".giniconfig")
		}
	}
	// local
	configPaths = append(configPaths, cfg.LocalConfig)
	return configPaths
}

// WriteDefault persists the default configuration of a new
// repository in cfg.LocalConfig
func WriteDefault(cfg *Config) error {
	f := ini.Empty()

	core, err := f.NewSection(CfgCore)
	if err != nil {
		return fmt.Errorf("could not create core section: %w", err)
	}
	coreCfg := []struct{ k, v string }{
		{CfgCoreFormatVersion, "0"},
		{CfgCoreExcludes, strings.Join(cfg.Excludes(), ",")},
	}
	for _, kv := range coreCfg {
		if _, err := core.NewKey(kv.k, kv.v); err != nil {
			return fmt.Errorf("could not set %s: %w", kv.k, err)
		}
	}

	buf := new(bytes.Buffer)
	if _, err := f.WriteTo(buf); err != nil {
		return fmt.Errorf("could not encode the config: %w", err)
	}
	if err := fsutil.SafeWrite(cfg.FS, cfg.LocalConfig, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", cfg.LocalConfig, err)
	}
	return nil
}
