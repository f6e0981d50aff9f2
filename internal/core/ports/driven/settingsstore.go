package driven

import "github.com/doclens/doclens-cli/internal/core/domain"

// SettingsStore persists operator configuration.
// Backed by a TOML file in the doclens config directory.
type SettingsStore interface {
	// Load returns the stored settings with defaults applied for
	// missing fields. A missing file yields pure defaults.
	Load() (domain.Settings, error)

	// Save writes the settings back to disk.
	Save(settings domain.Settings) error
}
