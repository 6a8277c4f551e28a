package installer

import (
	"errors"
	"fmt"
)

// ErrNoArtifactsFound is returned when the latest-artifact query is empty.
var ErrNoArtifactsFound = errors.New("no artifacts found")

// ErrChecksumMismatch is returned when a downloaded archive does not match
// the digest reported by the store.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ArchiveError reports an archive that cannot be unpacked into exactly one
// top-level file.
type ArchiveError struct {
	Archive string
	Err     error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Archive, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// InstallError reports a local filesystem failure during install.
type InstallError struct {
	Op   string
	Path string
	Err  error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }
