// Package gitpath contains consts and methods to work with path inside
// the .gini directory
package gitpath

// .gini/ Files and directories
const (
	DotGiniPath   = ".gini"
	ConfigPath    = "config"
	HEADPath      = "HEAD"
	ObjectsPath   = "objects"
	BackupsPath   = "backups"
	RefsPath      = "refs"
	RefsHeadsPath = RefsPath + "/heads"
)

// BackupPrefix is the prefix of every backup directory name
const BackupPrefix = "backup_"

// Directories that are part of the metadata of a project. They are never
// part of a snapshot, never backed up, and never removed from the
// working tree
const (
	DotGitPath = ".git"
)

// DefaultExcludes contains the directories that are skipped when
// taking a snapshot, unless configured otherwise
var DefaultExcludes = []string{"target"} //nolint:gochecknoglobals // treat as const

// IsMetadata returns whether the given entry name of the root of the
// working tree is repository metadata
func IsMetadata(name string) bool {
	return name == DotGiniPath || name == DotGitPath
}
