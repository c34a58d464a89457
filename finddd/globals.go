package internal

import (
	"log"
	"os"
	"path/filepath"
)

var (
	DefaultAppName          = "finddd"
	DefaultAppCMDShortCut   = "finddd"
	DefaultConfigPath       = ConfigDir()
	DefaultGlobalConfigFile = filepath.Join(DefaultConfigPath, "config.yaml")

	// Environment variables are read as FINDDD_SEARCH_HIDDEN etc.
	DefaultEnvPrefix = "FINDDD"
)

// ConfigDir returns the per-user configuration directory, honouring
// XDG_CONFIG_HOME at call time
func ConfigDir() string {
	return filepath.Join(getConfigHome(), DefaultAppName)
}

func getConfigHome() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return filepath.Join(homeDir, ".config")
}
