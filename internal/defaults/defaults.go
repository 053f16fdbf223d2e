// Package defaults resolves the on-disk locations used by arc-devtools-mcp.
//
// Layout:
//
//	~/.cache/arc-devtools-mcp/                  cache root
//	~/.cache/arc-devtools-mcp/arc-profile       stable channel browser profile
//	~/.cache/arc-devtools-mcp/arc-profile-beta  per-channel browser profiles
//	~/.cache/arc-devtools-mcp/config.yaml       optional config file
//
// Override the cache root with the ARC_DEVTOOLS_CACHE_DIR environment variable.
package defaults

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName names the cache directory.
	AppName = "arc-devtools-mcp"

	// CacheDirEnv overrides the cache root when set.
	CacheDirEnv = "ARC_DEVTOOLS_CACHE_DIR"

	// ConfigFileName is the config file looked up inside the cache root.
	ConfigFileName = "config.yaml"
)

// CacheDir returns the cache root for the current user.
//
// Set ARC_DEVTOOLS_CACHE_DIR to override.
func CacheDir() (string, error) {
	if dir := os.Getenv(CacheDirEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return CacheDirFor(home), nil
}

// CacheDirFor returns the cache root below an explicit home directory.
// The environment override still wins.
func CacheDirFor(home string) string {
	if dir := os.Getenv(CacheDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(home, ".cache", AppName)
}

// ConfigPath returns the default config file location.
func ConfigPath() (string, error) {
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}
