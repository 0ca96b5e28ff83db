package configs

import (
	"os"
	"path/filepath"
)

// Settings holds per-user locations. They do not depend on the working
// directory, so they are computed once at startup.
type Settings struct {
	ConfigDir string
	DataDir   string
}

var UserSettings *Settings

func init() {
	UserSettings = DefaultSettings()
}

// DefaultSettings resolves the XDG config and data directories for stowaway.
func DefaultSettings() *Settings {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.TempDir()
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return &Settings{
		ConfigDir: filepath.Join(configDir, "stowaway"),
		DataDir:   filepath.Join(dataDir, "stowaway"),
	}
}
