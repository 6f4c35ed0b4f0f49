package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultFilePattern  = `.*\.c$`
	defaultFilterPolicy = "strict"
)

type Config struct {
	config *viper.Viper
}

func Load() (*Config, error) {

	env := os.Getenv(keyEnv)
	if len(env) == 0 {
		env = envLocal
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	viperConfig.SetDefault("features.file_pattern", defaultFilePattern)
	viperConfig.SetDefault("features.filter_policy", defaultFilterPolicy)
	viperConfig.SetDefault("features.strip_comments", true)
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func (c *Config) GetPort() string {
	return c.getString("PORT", "server.port")
}

func (c *Config) GetKVDBPath() string {
	return c.getString("KVDB_PATH", "database.kvdb_path")
}

func (c *Config) GetIndexPath() string {
	return c.getString("INDEX_PATH", "database.index_path")
}

func (c *Config) GetStoragePath() string {
	return c.getString("STORAGE_PATH", "database.storage_path")
}

// GetCheckpointPath is relative to the storage path. Empty disables corpus checkpoints.
func (c *Config) GetCheckpointPath() string {
	return c.getString("CHECKPOINT_PATH", "features.checkpoint_path")
}

func (c *Config) GetFilePattern() string {
	return c.getString("FILE_PATTERN", "features.file_pattern")
}

func (c *Config) GetFilterPolicy() string {
	return c.getString("FILTER_POLICY", "features.filter_policy")
}

func (c *Config) GetStripComments() bool {
	if c.config.IsSet("STRIP_COMMENTS") {
		return c.config.GetBool("STRIP_COMMENTS")
	}
	return c.config.GetBool("features.strip_comments")
}

// getString prefers the environment variable over the config file key.
func (c *Config) getString(envKey string, fileKey string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(fileKey)
	}

	return value
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
