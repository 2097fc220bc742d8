package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"termcast/log"
)

const ConfigFileName = "config.json"

// GetConfigDir returns the path to the application's configuration directory
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".termcast"), nil
}

// Config represents the application configuration
type Config struct {
	// Shell is the program spawned on the pty when recording.
	Shell string `json:"shell"`
	// MinFrameDuration is the grouping merge threshold in milliseconds:
	// output chunks closer together than this render as one frame.
	MinFrameDuration int `json:"min_frame_duration_ms"`
	// MaxFrameDuration caps any single frame's display time, in
	// milliseconds.
	MaxFrameDuration int `json:"max_frame_duration_ms"`
	// LastFrameDuration is how long the final frame stays on screen, in
	// milliseconds.
	LastFrameDuration int `json:"last_frame_duration_ms"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return &Config{
		Shell:             shell,
		MinFrameDuration:  1,
		MaxFrameDuration:  2000,
		LastFrameDuration: 1000,
	}
}

// LoadConfig loads the configuration from disk. If it can't be done, we
// return the default configuration.
func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}
	configPath := filepath.Join(configDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			defaultCfg := DefaultConfig()
			if saveErr := SaveConfig(defaultCfg); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			return defaultCfg
		}
		log.WarningLog.Printf("failed to read config file: %v", err)
		return DefaultConfig()
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		log.ErrorLog.Printf("failed to parse config file: %v", err)
		return DefaultConfig()
	}
	if config.MinFrameDuration > config.MaxFrameDuration {
		log.WarningLog.Printf("min frame duration %dms exceeds max %dms; using defaults",
			config.MinFrameDuration, config.MaxFrameDuration)
		return DefaultConfig()
	}
	return &config
}

// SaveConfig saves the configuration to disk
func SaveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(filepath.Join(configDir, ConfigFileName), data, 0o644)
}
