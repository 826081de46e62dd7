package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

const appDirName = "moveboxtracker"

// Load reads configuration from the environment, falling back to the
// env-default tags.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	return &cfg, nil
}

// ResolveDBPath turns a user-supplied database filename into an absolute
// path. Absolute paths and existing files are used as given; bare filenames
// land in the XDG data directory, which is created on first use.
func ResolveDBPath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("config: no database file given (flag --db or MBT_DB_PATH)")
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return filepath.Abs(name)
	}
	home, err := dataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, name), nil
}

// dataHome returns $XDG_DATA_HOME/moveboxtracker (or the ~/.local/share
// fallback), creating it if needed.
func dataHome() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(base, appDirName)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("config: create data directory %s: %w", dir, err)
	}
	return dir, nil
}
