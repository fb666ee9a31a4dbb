package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manav03panchal/plantcare/internal/errors"
)

const mb = 1024 * 1024

// MinFreeSpace is the free space a write needs. The runtime config overrides it.
var MinFreeSpace uint64 = 10 * mb

// DiskSpaceInfo describes the filesystem holding a path.
type DiskSpaceInfo struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
}

// UsedBytes returns the space in use.
func (d *DiskSpaceInfo) UsedBytes() uint64 {
	return d.TotalBytes - d.FreeBytes
}

// existingAncestor walks up from path until it finds something that exists.
func existingAncestor(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}

// CheckDiskSpace fails with ErrDiskFull when the filesystem holding path has
// less than MinFreeSpace available. An unreadable filesystem passes.
func CheckDiskSpace(path string) error {
	info, err := GetDiskSpace(path)
	if err != nil {
		return nil
	}

	if info.FreeBytes < MinFreeSpace {
		return errors.NewSystemError(
			fmt.Sprintf("insufficient disk space: %d MB free, need at least %d MB",
				info.FreeBytes/mb, MinFreeSpace/mb),
			errors.ErrDiskFull,
		)
	}
	return nil
}

// writeError turns a disk-full failure into ErrDiskFull and wraps the rest.
func writeError(op string, err error) error {
	if isDiskFullError(err) {
		return errors.NewSystemErrorWithOp(op, "disk full", errors.ErrDiskFull)
	}
	return errors.NewSystemErrorWithOp(op, err.Error(), err)
}

// SafeWrite replaces path with data atomically: the bytes go to a synced temp
// file in the same directory which is then renamed over the target.
func SafeWrite(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := CheckDiskSpace(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".plantcare-*.tmp")
	if err != nil {
		return writeError("create temp file", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return writeError("write", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return writeError("sync", err)
	}
	if err := tmp.Close(); err != nil {
		return writeError("close", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return writeError("chmod", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return writeError("rename", err)
	}
	return nil
}

// EnsureDirectory creates a private directory if it doesn't exist.
func EnsureDirectory(path string) error {
	if err := CheckDiskSpace(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0o700); err != nil {
		return writeError("mkdir", err)
	}
	return nil
}
