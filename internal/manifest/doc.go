// Package manifest reads the project manifest (Cargo.toml style) and
// extracts the declared package version. The document is decoded as TOML,
// checked against an embedded JSON schema, and the version must be valid
// semver before it is used to build an artifact coordinate.
package manifest
