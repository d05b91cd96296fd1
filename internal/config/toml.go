// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Capture  CaptureConfig  `toml:"capture"`
	Classify ClassifyConfig `toml:"classify"`
	Log      LogConfig      `toml:"log"`
}

// CaptureConfig maps capture-related settings.
type CaptureConfig struct {
	IdleSeconds *int `toml:"idle-seconds"`
}

// ClassifyConfig maps classification settings.
type ClassifyConfig struct {
	Source  *string `toml:"source"`
	Format  *string `toml:"format"`
	Lexicon *string `toml:"lexicon"`
	Limit   *int    `toml:"limit"`
}

// LogConfig maps diagnostic logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
