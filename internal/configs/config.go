package configs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
)

// Config holds everything the dispatch workflow needs to know about the
// execution environment.
type Config struct {
	EnvironmentID         string   `toml:"environment_id" json:"environment_id" yaml:"environment_id"`
	Runtime               string   `toml:"runtime" json:"runtime" yaml:"runtime"`
	StagingDir            string   `toml:"staging_dir" json:"staging_dir" yaml:"staging_dir"`
	ManifestPath          string   `toml:"manifest_path" json:"manifest_path" yaml:"manifest_path"`
	TransformCommand      string   `toml:"transform_command" json:"transform_command" yaml:"transform_command"`
	ClearCommand          []string `toml:"clear_command" json:"clear_command,omitempty" yaml:"clear_command,omitempty"`
	EncryptedExt          string   `toml:"encrypted_ext" json:"encrypted_ext" yaml:"encrypted_ext"`
	DeleteEncryptedSource bool     `toml:"delete_encrypted_source" json:"delete_encrypted_source" yaml:"delete_encrypted_source"`
	ExecTimeout           string   `toml:"exec_timeout" json:"exec_timeout,omitempty" yaml:"exec_timeout,omitempty"`
}

// Default returns the built-in configuration. EnvironmentID is left empty
// because the environment is always provisioned by the operator.
func Default() Config {
	return Config{
		Runtime:               "docker",
		StagingDir:            "/home/pman/data/files",
		ManifestPath:          "/home/pman/data/outputs.txt",
		TransformCommand:      "/home/pman/build/src/pman",
		EncryptedExt:          "enc",
		DeleteEncryptedSource: true,
	}
}

// Validate reports ErrInvalidConfig for missing or malformed fields.
func (c Config) Validate() error {
	required := []struct{ key, value string }{
		{"environment_id", c.EnvironmentID},
		{"runtime", c.Runtime},
		{"staging_dir", c.StagingDir},
		{"manifest_path", c.ManifestPath},
		{"transform_command", c.TransformCommand},
		{"encrypted_ext", c.EncryptedExt},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%w: %s is not set", kerrors.ErrInvalidConfig, field.key)
		}
	}

	if !path.IsAbs(c.StagingDir) {
		return fmt.Errorf("%w: staging_dir must be an absolute container path, got %q", kerrors.ErrInvalidConfig, c.StagingDir)
	}
	if !path.IsAbs(c.ManifestPath) {
		return fmt.Errorf("%w: manifest_path must be an absolute container path, got %q", kerrors.ErrInvalidConfig, c.ManifestPath)
	}
	if path.Base(c.ManifestPath) == "/" || path.Base(c.ManifestPath) == "." {
		return fmt.Errorf("%w: manifest_path must name a file, got %q", kerrors.ErrInvalidConfig, c.ManifestPath)
	}

	if strings.ContainsAny(c.EncryptedExt, "./") {
		return fmt.Errorf("%w: encrypted_ext must be a bare extension without dots, got %q", kerrors.ErrInvalidConfig, c.EncryptedExt)
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}

	return nil
}

// Timeout parses ExecTimeout. Zero means the transformation may run indefinitely.
func (c Config) Timeout() (time.Duration, error) {
	if c.ExecTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.ExecTimeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: exec_timeout %q is not a valid duration", kerrors.ErrInvalidConfig, c.ExecTimeout)
	}
	return d, nil
}

// ManifestFileName is the name the manifest copy takes in the host working directory.
func (c Config) ManifestFileName() string {
	return path.Base(c.ManifestPath)
}

// ConfigPath returns the path of the user's config file.
func ConfigPath() string {
	return filepath.Join(UserSettings.ConfigDir, "config.toml")
}

// LoadFile reads the config file at configPath on top of the defaults.
// A missing file yields the defaults.
func LoadFile(configPath string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	if err := LoadTOML(configPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveFile writes cfg to configPath.
func SaveFile(configPath string, cfg Config) error {
	if err := SaveTOML(configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config %s: %w", configPath, err)
	}
	return nil
}
