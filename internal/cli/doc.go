// Package cli defines the Cobra command tree for the poppup CLI. The root
// command keeps the flag-driven surface used by CI jobs (--push,
// --install-latest); each other file registers one subcommand. Commands
// only resolve settings, parse flags and print results; the work happens in
// the publish and installer packages.
package cli
