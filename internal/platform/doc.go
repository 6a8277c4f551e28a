// Package platform provides the filesystem operations the installer needs:
// permission changes that are no-ops on Windows and a copy that preserves
// executable bits.
package platform
