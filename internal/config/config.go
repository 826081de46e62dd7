// Package config loads tool configuration from the environment.
package config

// Config is the root tool configuration. Every setting can come from the
// environment; the CLI's flags override the database path.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Label    LabelConfig
}

// DatabaseConfig selects the SQLite database file.
type DatabaseConfig struct {
	// Path is the database file. Relative paths without an existing file
	// resolve under the XDG data directory for the tool.
	Path string `env:"MBT_DB_PATH"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"MBT_LOG_LEVEL"  env-default:"info"`
	Format string `env:"MBT_LOG_FORMAT" env-default:"text"`
}

// LabelConfig holds settings consumed by the label rendering layer.
type LabelConfig struct {
	PageSize string `env:"MBT_PAGE_SIZE" env-default:"Letter"`
}
