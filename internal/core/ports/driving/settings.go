package driving

// SettingsService reads and writes configuration values by key.
type SettingsService interface {
	// Get returns the current value of a key, falling back to defaults.
	Get(key string) (any, bool)

	// Set validates and stores a value given as text.
	Set(key, value string) error

	// Keys lists the known configuration keys.
	Keys() []string

	// Path returns the configuration file location.
	Path() string
}
