// Package installer fetches the newest published artifact of a package,
// unpacks the single binary it carries, installs it into a target
// directory and puts that directory on PATH. Temporary files live in the
// working directory and are removed on every exit path.
package installer
