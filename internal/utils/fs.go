package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// SaveTOMLFile encodes data into a fresh TOML file at filePath.
func SaveTOMLFile(data any, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(data)
}

// GetAbsolutePath returns path made absolute, or "unknown" for an empty path.
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// ResolveConfigDir picks the first writable directory for appName's config:
//  1. $HOME/.config/<appName>
//  2. $HOME/Library/Application Support/<appName> (macOS)
//  3. the directory of the running executable
//
// Missing directories are created on the way.
func ResolveConfigDir(appName string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return executableDir()
	}
	candidates := []string{
		filepath.Join(homeDir, ".config", appName),
		filepath.Join(homeDir, "Library", "Application Support", appName),
	}
	for _, dir := range candidates {
		if writableDir(dir) {
			return dir, nil
		}
		log.Debugf("Config dir candidate not writable: %s", dir)
	}
	dir, err := executableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return dir, nil
}

func executableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// writableDir creates dirPath if needed and writes a scratch file into it.
func writableDir(dirPath string) bool {
	if err := EnsureDir(dirPath); err != nil {
		log.Warnf("Cannot create directory %s: %v", dirPath, err)
		return false
	}
	scratch := filepath.Join(dirPath, ".write_test")
	if err := os.WriteFile(scratch, nil, 0644); err != nil {
		log.Warnf("Cannot write to directory %s: %v", dirPath, err)
		return false
	}
	os.Remove(scratch)
	return true
}
