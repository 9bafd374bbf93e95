package helpers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func ContainsStr(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}

// ValueForPrefix returns the remainder of the first element starting with prefix.
func ValueForPrefix(s []string, prefix string) (string, bool) {
	for _, a := range s {
		if strings.HasPrefix(a, prefix) {
			return strings.TrimPrefix(a, prefix), true
		}
	}
	return "", false
}

func ExtractKeyFromMap(key string, m map[string]json.RawMessage, receiver interface{}) error {
	value, ok := m[key]
	if !ok {
		return fmt.Errorf("key '%s' not found in the map", key)
	}

	err := json.Unmarshal(value, receiver)
	if err != nil {
		return fmt.Errorf("failed to unmarshal value for key '%s': %w", key, err)
	}

	return nil
}

// CreateDirAndFileIfNoExist makes sure path exists, creating parent directories and an empty
// JSON object file if needed.
func CreateDirAndFileIfNoExist(path string) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	_, err = os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	return os.WriteFile(path, []byte("{}"), 0644)
}

func GetProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(cwd, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			break
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			return "", fmt.Errorf("go.mod not found in any parent directory")
		}
		cwd = parent
	}

	return cwd, nil
}
