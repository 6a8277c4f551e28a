// Package artifact maps artifact coordinates (name, version, architecture,
// distribution) to store URLs. Everything here is pure string work: no I/O.
package artifact
