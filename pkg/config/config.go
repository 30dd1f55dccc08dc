/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
// Package config loads and saves pstructctl's on-disk configuration: the
// simulated media image to open, the wear-level count, the journal
// sidecar, and the diagnostics API.
//
// Grounded on the teacher's pkg/config/config.go shape (YAML via
// gopkg.in/yaml.v3, DefaultConfig/LoadConfig/SaveConfig/
// GetDefaultConfigPath/ConfigExists), retargeted from server config to
// device/journal/logging/API config per SPEC_FULL.md Expansion A.1.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is pstructctl's top-level configuration.
type Config struct {
	Device  Device  `yaml:"device"`
	Journal Journal `yaml:"journal"`
	Logging Logging `yaml:"logging"`
	API     API     `yaml:"api"`
}

// Device describes the simulated media image the persist engine programs.
type Device struct {
	Path       string `yaml:"path"`
	PageSize   uint32 `yaml:"page_size"`
	WearLevels uint32 `yaml:"wear_levels"`
	SizeBytes  uint32 `yaml:"size_bytes"`
}

// Journal describes the attempt-history sidecar.
type Journal struct {
	Enabled bool   `yaml:"enabled"`
	DataDir string `yaml:"data_dir"`
}

// Logging configures log verbosity.
type Logging struct {
	Level string `yaml:"level"`
}

// API configures the diagnostics HTTP server.
type API struct {
	Port int    `yaml:"port"`
	Bind string `yaml:"bind"`
}

// DefaultConfig returns pstructctl's default configuration.
func DefaultConfig() *Config {
	return &Config{
		Device: Device{
			Path:       "./data/nvimage.bin",
			PageSize:   1024,
			WearLevels: 5,
			SizeBytes:  1024 * 5,
		},
		Journal: Journal{
			Enabled: true,
			DataDir: "./data/journal",
		},
		Logging: Logging{
			Level: "info",
		},
		API: API{
			Port: 9201,
			Bind: "127.0.0.1",
		},
	}
}

// LoadConfig loads configuration from the specified path.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure
// permissions.
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes a default configuration to configPath, replacing
// any file already there, overriding the device image path when
// devicePath is non-empty. It is the config half of `pstructctl init`;
// the media-image half is the caller's job (media.NewFileMedia creates
// the virgin image lazily on first open).
func BootstrapConfig(configPath string, devicePath string) (*Config, error) {
	config := DefaultConfig()
	if devicePath != "" {
		config.Device.Path = devicePath
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the
// current platform: ~/.config/pstructctl/config.yaml.
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./pstructctl.yaml"
	}

	configDir := filepath.Join(homeDir, ".config", "pstructctl")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
