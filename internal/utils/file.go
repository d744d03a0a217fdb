package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// CreateFile writes toCreate as indented JSON at path, creating the file.
func CreateFile[T any](path string, toCreate *T) error {
	b, err := json.MarshalIndent(toCreate, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal file: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadAndUnmarshal reads the JSON file at filePath into config.
func ReadAndUnmarshal[T any](filePath string, config *T) error {
	b, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to find file: %w", err)
		}
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := json.Unmarshal(b, config); err != nil {
		return fmt.Errorf("failed to unmarshal file: %w", err)
	}
	return nil
}
