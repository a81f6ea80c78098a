// Package config resolves the engine's own configuration surface: the
// {genesisPath, bootstrapPath, thesaurusPath} triple spec.md section 6
// names as "Configuration recognized by the core", plus the service
// identity/telemetry settings collaborator layers (cmd/ontograph) read.
// Everything else (ports, LLM keys, hosts) belongs to those collaborators
// and is out of scope for this package.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Config is the core's configuration surface plus the ambient settings
// cmd/ontograph wires telemetry and the file watcher from.
type Config struct {
	GenesisPath   string `mapstructure:"genesisPath" toml:"genesisPath"`
	BootstrapPath string `mapstructure:"bootstrapPath" toml:"bootstrapPath"`
	ThesaurusPath string `mapstructure:"thesaurusPath" toml:"thesaurusPath"`

	ServiceName string   `mapstructure:"serviceName" toml:"serviceName"`
	WatchPaths  []string `mapstructure:"watchPaths" toml:"watchPaths"`
}

// Defaults returns the zero-configuration values: embedded genesis/
// bootstrap/thesaurus data (internal/genesis) needs no paths at all, so
// an empty Config is valid — these defaults only name the engine for
// telemetry purposes.
func Defaults() Config {
	return Config{ServiceName: "ontograph"}
}

// Load resolves configuration the way the teacher's `bd config` surface
// does (cmd/bd/doctor/config_values.go): a scoped viper instance reads a
// single YAML or TOML file (format chosen by its extension) when present,
// and is otherwise left at its defaults.
// path may be empty, in which case Load returns Defaults().
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}

// WriteTOML persists cfg as TOML at path, the format the teacher's own
// formula/recipe files use (internal/formula, internal/recipes); the file it writes can be
// edited and handed back to Load.
func WriteTOML(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory for %s: %w", path, err)
	}
	f, err := os.Create(path) // #nosec G304 -- path is operator-supplied, not user input from a request
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
