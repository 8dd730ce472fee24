package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up when none is given.
const FileName = "scene-builder.yaml"

// Load loads configuration with priority: defaults < file < flags. The file
// comes from the --config flag when set, otherwise from the standard
// locations. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	configPath := ""
	if flags != nil {
		configPath, _ = flags.GetString(FlagConfig)
	}
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("%w: loading config from %s: %v", ErrConfig, configPath, err)
		}
	}

	if flags != nil {
		if err := applyFlags(cfg, flags); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "SceneBuilder")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "SceneBuilder")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "scene-builder")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "scene-builder")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Unknown keys are rejected. An empty file leaves cfg unchanged.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
