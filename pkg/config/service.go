package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigService handles configuration paths and directories
type ConfigService struct {
	dataPath string
}

// NewConfigService creates a new ConfigService instance
func NewConfigService(dataPath string) *ConfigService {
	return &ConfigService{
		dataPath: dataPath,
	}
}

func (s *ConfigService) GetDataPath() string {
	return s.dataPath
}

// GetArtifactsPath returns the directory node configuration artifacts are
// written to, creating it if needed.
func (s *ConfigService) GetArtifactsPath() (string, error) {
	path := filepath.Join(s.dataPath, "artifacts")
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("failed to create artifacts directory: %w", err)
	}
	return path, nil
}

// GetDatabasePath returns the sqlite database location under the data path.
func (s *ConfigService) GetDatabasePath() (string, error) {
	if err := os.MkdirAll(s.dataPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return filepath.Join(s.dataPath, "rolluplaunch.db"), nil
}

// DefaultDataPath resolves the data directory, honoring XDG_CONFIG_HOME the
// same way the rest of the tooling does.
func DefaultDataPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "rolluplaunch"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	return filepath.Join(home, ".rolluplaunch"), nil
}
