package ginternals

import (
	"path"
	"strings"
)

// Refs paths are always stored using slashes. The backend converts
// them to the current system when needed
const (
	refsDirName      = "refs"
	refsHeadsRelPath = refsDirName + "/heads"
)

// LocalBranchFullName returns the full name of branch
// ex. for `main` returns `refs/heads/main`
func LocalBranchFullName(shortName string) string {
	return path.Join(refsHeadsRelPath, shortName)
}

// LocalBranchShortName returns the short name of a branch
// ex. for `refs/heads/main` returns `main`
func LocalBranchShortName(fullName string) string {
	return strings.TrimPrefix(fullName, refsHeadsRelPath+"/")
}

// IsLocalBranch returns whether fullName is the full name of a
// branch. HEAD can only target a branch
func IsLocalBranch(fullName string) bool {
	short := LocalBranchShortName(fullName)
	return short != fullName && short != "" && IsRefNameValid(fullName)
}
