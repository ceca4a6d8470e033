package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// LocalConfigFile is the project-local developer config filename.
const LocalConfigFile = "srcfetch.local.toml"

// Consent is the three-valued file-edit permission: whether srcfetch may
// modify project files (AGENTS.md, .gitignore). Unset means "ask".
type Consent int

const (
	ConsentUnset Consent = iota
	ConsentAllow
	ConsentDeny
)

// DevConfig holds developer-specific configuration that is NOT committed
// to version control. It is resolved with Viper precedence:
// CLI flags > srcfetch.local.toml (project-local) > ~/.srcfetch/config.toml (global).
type DevConfig struct {
	// EditFiles is nil when no config layer has decided; the CLI then
	// prompts and optionally persists the answer.
	EditFiles *bool  `toml:"edit_files,omitempty" mapstructure:"edit_files"`
	Registry  string `toml:"registry,omitempty" mapstructure:"registry"`
}

// EditConsent maps the optional EditFiles field onto the three-valued
// consent used by the CLI.
func (c *DevConfig) EditConsent() Consent {
	switch {
	case c.EditFiles == nil:
		return ConsentUnset
	case *c.EditFiles:
		return ConsentAllow
	default:
		return ConsentDeny
	}
}

// LoadDevConfig resolves developer configuration using Viper's merge
// semantics. flagEditFiles and flagRegistry take highest precedence when
// set (via --edit-files/--no-edit-files and --registry).
func LoadDevConfig(flagEditFiles *bool, flagRegistry string) (*DevConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determining home directory: %w", err)
	}
	globalPath := filepath.Join(home, ".srcfetch", "config.toml")
	return loadDevConfig(flagEditFiles, flagRegistry, globalPath, LocalConfigFile)
}

// loadDevConfig is the internal implementation that accepts explicit paths,
// making it testable without touching the real home directory.
func loadDevConfig(flagEditFiles *bool, flagRegistry, globalPath, localPath string) (*DevConfig, error) {
	v := viper.New()
	v.SetConfigType("toml")

	// Lowest priority: global config; ignore if missing.
	v.SetConfigFile(globalPath)
	_ = v.ReadInConfig()

	// Higher priority: project-local config.
	if _, err := os.Stat(localPath); err == nil {
		v.SetConfigFile(localPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", localPath, err)
		}
	}

	// Highest priority: CLI flags.
	if flagEditFiles != nil {
		v.Set("edit_files", *flagEditFiles)
	}
	if flagRegistry != "" {
		v.Set("registry", flagRegistry)
	}

	cfg := &DevConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling dev config: %w", err)
	}

	return cfg, nil
}

// GlobalConfigDir returns the path to ~/.srcfetch, creating it if necessary.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	dir := filepath.Join(home, ".srcfetch")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	return dir, nil
}

// WriteLocalDevConfig persists developer config to srcfetch.local.toml in
// the given project directory.
func WriteLocalDevConfig(projectDir string, cfg *DevConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling dev config: %w", err)
	}

	path := filepath.Join(projectDir, LocalConfigFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// WriteGlobalDevConfig persists developer config to ~/.srcfetch/config.toml.
func WriteGlobalDevConfig(cfg *DevConfig) error {
	dir, err := GlobalConfigDir()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling dev config: %w", err)
	}

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
