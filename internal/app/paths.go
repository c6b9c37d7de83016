package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName     = "optilife"
	dbFileName     = "optilife.db"
	configFileName = "config.yaml"
)

func DefaultDBPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, dbFileName), nil
}

func DefaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, configFileName), nil
}

// DefaultBackupURL places backups next to the database file.
func DefaultBackupURL(dbPath string) string {
	dir := filepath.Join(filepath.Dir(dbPath), "backups")
	abs, err := filepath.Abs(dir)
	if err == nil {
		dir = abs
	}
	return "file://" + filepath.ToSlash(dir) + "?create_dir=true"
}

func EnsureDBDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}
