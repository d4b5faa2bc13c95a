package main

import (
	"errors"
	"fmt"

	"github.com/Nivl/gini"
	"github.com/Nivl/gini/ginternals/config"
	"github.com/Nivl/gini/ginternals/object"
	"github.com/Nivl/gini/internal/pathutil"
)

// loadConfig returns the config of the repository containing the
// directory provided with -C
func loadConfig(cfg *globalFlags, skipLookUp bool) (*config.Config, error) {
	c, err := config.LoadConfig(cfg.env, config.LoadConfigOptions{
		WorkingDirectory:  cfg.C.String(),
		SkipGiniDirLookUp: skipLookUp,
	})
	if err != nil {
		if errors.Is(err, pathutil.ErrNoRepo) {
			return nil, fmt.Errorf("no .gini project found in %s, run `gini init` first: %w", cfg.C.String(), gini.ErrRepositoryNotExist)
		}
		return nil, err
	}
	return c, nil
}

func loadRepository(cfg *globalFlags) (*gini.Repository, error) {
	c, err := loadConfig(cfg, false)
	if err != nil {
		return nil, err
	}
	return gini.OpenRepositoryWithOptions(c.WorkTreePath, gini.Options{
		Config: c,
		Logger: cfg.logger,
	})
}

// author returns the identity used to sign the checkpoints.
// The time is left empty so the repository sets it
func author(r *gini.Repository) object.Signature {
	name, email := r.Config.Author()
	return object.Signature{
		Name:  name,
		Email: email,
	}
}
