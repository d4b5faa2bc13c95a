package gini

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Nivl/gini/internal/fsutil"
	"github.com/Nivl/gini/internal/gitpath"
	"github.com/spf13/afero"
)

// List of errors returned when working with backups
var (
	// ErrBackupFailed is returned when the work tree could not be
	// backed up. The work tree is left untouched
	ErrBackupFailed = errors.New("backup failed")
	// ErrBackupNotFound is returned when a backup doesn't exist
	ErrBackupNotFound = errors.New("backup not found")
)

// maxBackupNameAttempts is the maximum number of suffixes we try
// to get a unique backup name
const maxBackupNameAttempts = 1000

// Backup represents a copy of the work tree, made before it got
// overwritten by a restore
type Backup struct {
	// Name is the name of the directory of the backup
	// ex. backup_1566115917
	Name string
	// Path is the absolute path of the backup
	Path string
	// CreatedAt is when the backup was made
	CreatedAt time.Time
}

// backupTime returns the time encoded in the name of a backup.
// ok is false if name is not the name of a backup
func backupTime(name string) (t time.Time, ok bool) {
	if !strings.HasPrefix(name, gitpath.BackupPrefix) {
		return time.Time{}, false
	}
	ts := strings.TrimPrefix(name, gitpath.BackupPrefix)
	// unique names have a _n suffix
	if i := strings.IndexByte(ts, '_'); i >= 0 {
		if _, err := strconv.Atoi(ts[i+1:]); err != nil {
			return time.Time{}, false
		}
		ts = ts[:i]
	}
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}

// ListBackups returns all the backups of the repository, newest first
func (r *Repository) ListBackups() ([]Backup, error) {
	infos, err := afero.ReadDir(r.wt, r.Config.BackupDirPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Backup{}, nil
		}
		return nil, fmt.Errorf("could not read %s: %w", r.Config.BackupDirPath, err)
	}

	backups := make([]Backup, 0, len(infos))
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		createdAt, ok := backupTime(info.Name())
		if !ok {
			continue
		}
		backups = append(backups, Backup{
			Name:      info.Name(),
			Path:      filepath.Join(r.Config.BackupDirPath, info.Name()),
			CreatedAt: createdAt,
		})
	}
	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backupSuffix(backups[i].Name) > backupSuffix(backups[j].Name)
		}
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// backupSuffix returns the _n suffix of a backup name, 0 if it has none
func backupSuffix(name string) int {
	ts := strings.TrimPrefix(name, gitpath.BackupPrefix)
	i := strings.IndexByte(ts, '_')
	if i < 0 {
		return 0
	}
	n, _ := strconv.Atoi(ts[i+1:]) //nolint:errcheck // the name has been validated by backupTime
	return n
}

// Backup returns the backup with the given name
func (r *Repository) Backup(name string) (*Backup, error) {
	if _, ok := backupTime(name); !ok || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%q: %w", name, ErrBackupNotFound)
	}
	backups, err := r.ListBackups()
	if err != nil {
		return nil, err
	}
	for _, b := range backups {
		if b.Name == name {
			return &b, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrBackupNotFound)
}

// createBackup copies the work tree, without the repository metadata,
// into a new backup directory.
// A partial backup is removed and ErrBackupFailed returned if
// anything goes wrong
func (r *Repository) createBackup() (backup *Backup, err error) {
	if err = r.wt.MkdirAll(r.Config.BackupDirPath, 0o755); err != nil {
		return nil, fmt.Errorf("could not create %s: %w: %w", r.Config.BackupDirPath, ErrBackupFailed, err)
	}

	createdAt := r.now()
	base := fmt.Sprintf("%s%d", gitpath.BackupPrefix, createdAt.Unix())
	name := base
	for i := 1; ; i++ {
		exists, err := afero.Exists(r.wt, filepath.Join(r.Config.BackupDirPath, name))
		if err != nil {
			return nil, fmt.Errorf("could not check %s: %w: %w", name, ErrBackupFailed, err)
		}
		if !exists {
			break
		}
		if i > maxBackupNameAttempts {
			return nil, fmt.Errorf("could not find a free name for %s: %w", base, ErrBackupFailed)
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}

	b := &Backup{
		Name:      name,
		Path:      filepath.Join(r.Config.BackupDirPath, name),
		CreatedAt: time.Unix(createdAt.Unix(), 0),
	}
	if err = r.wt.Mkdir(b.Path, 0o755); err != nil {
		return nil, fmt.Errorf("could not create %s: %w: %w", b.Path, ErrBackupFailed, err)
	}
	defer func() {
		if err != nil {
			if e := r.wt.RemoveAll(b.Path); e != nil {
				r.logger.Warn("could not remove partial backup", slog.String("path", b.Path), slog.String("error", e.Error()))
			}
		}
	}()

	err = fsutil.CopyDir(r.wt, r.Config.WorkTreePath, b.Path, fsutil.CopyOptions{
		Skip: func(relPath string, _ os.FileInfo) bool {
			return relPath == filepath.Base(relPath) && r.isRootMetadata(relPath)
		},
		OnUnsupported: r.warnUnsupported,
	})
	if err != nil {
		return nil, fmt.Errorf("could not copy the work tree: %w: %w", ErrBackupFailed, err)
	}
	r.logger.Info("work tree backed up", slog.String("backup", b.Name))
	return b, nil
}

func (r *Repository) warnUnsupported(relPath string, info os.FileInfo) {
	r.logger.Warn("skipping unsupported file type",
		slog.String("path", relPath),
		slog.String("mode", info.Mode().String()))
}

// wipeWorkTree removes everything from the work tree but the
// repository metadata
func (r *Repository) wipeWorkTree() error {
	if err := fsutil.Wipe(r.wt, r.Config.WorkTreePath, r.isRootMetadata); err != nil {
		return fmt.Errorf("could not clean the work tree: %w", err)
	}
	return nil
}

// RestoreFromBackup replaces the content of the work tree by the
// content of the given backup.
// HEAD and the odb are left untouched
func (r *Repository) RestoreFromBackup(name string) error {
	b, err := r.Backup(name)
	if err != nil {
		return err
	}

	if err = r.begin(StateRestoringBackup); err != nil {
		return err
	}
	defer r.end()

	if err = r.wipeWorkTree(); err != nil {
		return err
	}
	err = fsutil.CopyDir(r.wt, b.Path, r.Config.WorkTreePath, fsutil.CopyOptions{
		Skip: func(relPath string, _ os.FileInfo) bool {
			return relPath == filepath.Base(relPath) && r.isRootMetadata(relPath)
		},
		OnUnsupported: r.warnUnsupported,
	})
	if err != nil {
		return fmt.Errorf("could not copy backup %s: %w", b.Name, err)
	}
	r.logger.Info("backup restored", slog.String("backup", b.Name))
	return nil
}
