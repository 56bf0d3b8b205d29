package store

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appDirName = "todo"
	dbFileName = "todo.db"
)

// DefaultPath returns the platform data location for the task database,
// falling back to the working directory when no home can be resolved.
func DefaultPath() string {
	dir, err := dataDir()
	if err != nil || dir == "" {
		return dbFileName
	}
	return filepath.Join(dir, appDirName, dbFileName)
}

func dataDir() (string, error) {
	switch runtime.GOOS {
	case "darwin", "windows", "ios", "plan9":
		return os.UserConfigDir()
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); filepath.IsAbs(xdg) {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}
