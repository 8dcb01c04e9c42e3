package driven

// ConfigStore provides read access to file-based configuration.
// Nested tables are addressed with dot-notation keys such as "server.base_url".
// Values are returned in their string form so they can be layered under
// environment variables.
type ConfigStore interface {
	// Lookup returns the value for key and whether it was set.
	// Arrays are joined with commas.
	Lookup(key string) (string, bool)

	// Load reads configuration from storage. A missing file is not an error.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
