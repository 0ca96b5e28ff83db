package configs

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override config fields.
const EnvPrefix = "STOWAWAY"

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"container": "environment_id",
	"runtime":   "runtime",
}

// NewViper returns a viper instance reading STOWAWAY_* variables and the
// override flags present in flags. flags may be nil.
func NewViper(flags *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for flagName, key := range flagKeys {
			if f := flags.Lookup(flagName); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	return v
}

// ApplyOverrides overlays every non-empty value found in v onto cfg.
func ApplyOverrides(cfg *Config, v *viper.Viper) {
	if s := v.GetString("environment_id"); s != "" {
		cfg.EnvironmentID = s
	}
	if s := v.GetString("runtime"); s != "" {
		cfg.Runtime = s
	}
	if s := v.GetString("staging_dir"); s != "" {
		cfg.StagingDir = s
	}
	if s := v.GetString("manifest_path"); s != "" {
		cfg.ManifestPath = s
	}
	if s := v.GetString("transform_command"); s != "" {
		cfg.TransformCommand = s
	}
	if s := v.GetString("clear_command"); s != "" {
		cfg.ClearCommand = strings.Fields(s)
	}
	if s := v.GetString("encrypted_ext"); s != "" {
		cfg.EncryptedExt = s
	}
	if s := v.GetString("delete_encrypted_source"); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			cfg.DeleteEncryptedSource = b
		}
	}
	if s := v.GetString("exec_timeout"); s != "" {
		cfg.ExecTimeout = s
	}
}

// Load assembles the effective configuration: defaults, then the file at
// configPath, then the overrides in v. It does not validate.
func Load(configPath string, v *viper.Viper) (Config, error) {
	cfg, err := LoadFile(configPath)
	if err != nil {
		return Config{}, err
	}
	if v != nil {
		ApplyOverrides(&cfg, v)
	}
	return cfg, nil
}
