package platform

import (
	"os"
	"runtime"
)

// ExecutableMode is the mode given to an installed binary: read, write and
// execute for owner, group and other.
const ExecutableMode os.FileMode = 0777

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// IsExecutable reports whether any execute bit is set on path. On Windows
// every regular file counts.
func IsExecutable(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}
	if runtime.GOOS == "windows" {
		return true, nil
	}
	return info.Mode().Perm()&0111 != 0, nil
}
