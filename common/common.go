package common

import (
	"os"
	"path/filepath"
	"strings"
)

// Expands a leading "~/" to the current user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Returns the value of the first set environment variable among keys, or "".
func FirstEnv(keys ...string) string {
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok && v != "" {
			return v
		}
	}
	return ""
}
