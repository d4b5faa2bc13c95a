// Package confutil contains helpers and function to generate basic
// configuration
package confutil

import (
	"testing"

	"github.com/Nivl/gini/ginternals/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// NewCommonConfig returns a config for a repository (existing or not)
// located at workingTreePath, ignoring the environment and the
// global config files
func NewCommonConfig(t *testing.T, fs afero.Fs, workingTreePath string) *config.Config {
	t.Helper()

	cfg, err := config.LoadConfigSkipEnv(config.LoadConfigOptions{
		FS:                fs,
		WorkingDirectory:  workingTreePath,
		WorkTreePath:      workingTreePath,
		SkipGiniDirLookUp: true,
	})
	require.NoError(t, err)
	return cfg
}
