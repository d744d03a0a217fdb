package utils

import (
	"fmt"
	"os"
	"path"
)

// ConfigDir returns the path to the recommender configuration directory.
// The directory is located inside the user's configuration directory
// as <UserConfigDir>/.recommender, unless overridden by
// RECOMMENDER_CONFIG_HOME.
func ConfigDir() (string, error) {
	if configHome := os.Getenv("RECOMMENDER_CONFIG_HOME"); configHome != "" {
		return configHome, nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return path.Join(cfg, ".recommender"), nil
}
