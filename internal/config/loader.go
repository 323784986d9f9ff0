package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load loads the game configuration. Values missing from the file keep
// their default.
// Search order: customPath -> ~/.tui-rpg/configs/rpg.{yaml,toml} -> ./configs/rpg.{yaml,toml} -> embedded default
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		if err := decodeFile(customPath, &cfg); err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}

	var candidates []string
	for _, name := range []string{"rpg.yaml", "rpg.toml"} {
		// Try user config directory
		if p := userConfigPath(name); p != "" {
			candidates = append(candidates, p)
		}
	}
	// Try local configs directory
	candidates = append(candidates, filepath.Join("configs", "rpg.yaml"), filepath.Join("configs", "rpg.toml"))

	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		loaded := Default()
		if err := decodeFile(p, &loaded); err == nil {
			return loaded, loaded.Validate()
		}
	}

	// Use embedded default YAML
	return cfg, nil
}

// Decode parses data as TOML when format is "toml" and as YAML otherwise.
func Decode(data []byte, format string, cfg *Config) error {
	if strings.EqualFold(format, "toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func decodeFile(path string, cfg *Config) error {
	path = ExpandHome(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if err := Decode(data, format, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tui-rpg", "configs", filename)
}
