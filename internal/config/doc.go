// Package config manages user-level settings stored at ~/.poppup/config.yaml.
// Values resolve from command-line flags, POPPUP_* environment variables,
// the config file, and branding defaults, in that order. Store credentials
// are only ever read from these sources, never compiled in.
package config
