package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFileName is the base name viper searches for (config.yaml).
const ConfigFileName = "config"

// GetGlobalConfigDir returns the path to the global configuration directory (~/.taskcal).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskcal"), nil
}

// GlobalConfigFile returns ~/.taskcal/config.yaml.
func GlobalConfigFile() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+".yaml"), nil
}

// GetDataDir returns the directory holding task data, crash logs and telemetry consent.
// Resolution order (first match wins):
// 1. Explicit config via "data.dir" (Viper/env/flag)
// 2. XDG_DATA_HOME/taskcal (if XDG_DATA_HOME is set)
// 3. Global fallback: ~/.taskcal
func GetDataDir() string {
	if dir := viper.GetString("data.dir"); dir != "" {
		return dir
	}
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "taskcal")
	}
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return ".taskcal"
	}
	return dir
}
