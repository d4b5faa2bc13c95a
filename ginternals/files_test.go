package ginternals_test

import (
	"fmt"
	"testing"

	"github.com/Nivl/gini/ginternals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBranchName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "refs/heads/my-branch/nested", ginternals.LocalBranchFullName("my-branch/nested"))
	require.Equal(t, "my-branch/nested", ginternals.LocalBranchShortName("refs/heads/my-branch/nested"))
	require.Equal(t, ginternals.Main, ginternals.LocalBranchShortName(ginternals.LocalBranchFullName(ginternals.Main)))
}

func TestIsLocalBranch(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc     string
		name     string
		expected bool
	}{
		{desc: "main", name: "refs/heads/main", expected: true},
		{desc: "nested", name: "refs/heads/feat/x", expected: true},
		{desc: "no prefix", name: "main", expected: false},
		{desc: "not a branch", name: "refs/tags/v1", expected: false},
		{desc: "empty branch name", name: "refs/heads/", expected: false},
		{desc: "invalid name", name: "refs/heads/a..b", expected: false},
	}
	for i, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, ginternals.IsLocalBranch(tc.name))
		})
	}
}
