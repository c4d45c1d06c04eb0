package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName   = "muro"
	documentName = "muro.json"
)

// DataDir resolves the application data directory. MURO_DATA_DIR wins when
// set (with ~ and environment variable expansion), otherwise the document
// lives under the platform config directory, e.g. ~/.config/muro.
func DataDir() (string, error) {
	dir := os.Getenv("MURO_DATA_DIR")
	if dir != "" {
		// Expansion can leave nothing behind, e.g. a reference to an
		// unset variable; treat that the same as an unset override
		dir = os.ExpandEnv(dir)
		if dir != "" && dir[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("expand %q: %w", dir, err)
			}
			dir = filepath.Join(home, dir[1:])
		}
		if dir != "" {
			return dir, nil
		}
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// DocumentPath is the persisted state document inside the data directory
func DocumentPath(dataDir string) string {
	return filepath.Join(dataDir, documentName)
}

// CacheDir holds the downloaded wallpaper files
func CacheDir(dataDir string) string {
	return filepath.Join(dataDir, "wallpapers")
}

// LogDir holds the daemon log files
func LogDir(dataDir string) string {
	return filepath.Join(dataDir, "logs")
}
