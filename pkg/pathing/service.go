package pathing

import (
	"os"
	"path/filepath"
)

const defaultConfigDir = "/etc/raven_usb"

// GetConfigDir can be moved with RAVEN_CONFIG_DIR, handy when not running as root.
func GetConfigDir() string {
	if dir := os.Getenv("RAVEN_CONFIG_DIR"); dir != "" {
		return dir
	}
	return defaultConfigDir
}

func GetConfigPath(name string) string {
	return filepath.Join(GetConfigDir(), name)
}

// EnsureDir creates the directory holding path if it doesn't exist yet.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
