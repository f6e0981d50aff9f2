// Package file provides a TOML-backed implementation of the SettingsStore
// port. Configuration lives at ~/.doclens/config.toml; a missing file is a
// valid state and yields defaults, including an unconfigured provider
// (degraded mode).
package file
