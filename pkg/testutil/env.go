// Package testutil provides helpers shared by integration tests: .env
// loading for SAP bridge credentials and a scriptable fake automation
// engine.
package testutil

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var (
	envOnce   sync.Once
	envLoaded bool
)

// LoadEnv loads a .env file into the environment, searching the current
// directory and up to 5 parent directories. Variables already set take
// precedence. Safe to call multiple times; only loads once.
func LoadEnv() {
	envOnce.Do(func() {
		dir, err := os.Getwd()
		if err != nil {
			return
		}
		for range 6 {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				if godotenv.Load(envPath) == nil {
					envLoaded = true
					return
				}
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	})
}

// EnvLoaded reports whether a .env file was successfully loaded.
func EnvLoaded() bool {
	return envLoaded
}

// BridgeURL returns the bridge endpoint for integration tests, or "" when
// not configured. Tests should skip when empty.
func BridgeURL() string {
	LoadEnv()
	return os.Getenv("SAPIENT_BRIDGE_URL")
}
