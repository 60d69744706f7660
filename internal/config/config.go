// Package config wires workspace settings from three sources, strongest
// first: environment variables (KB_* short names or KODEBASE_* prefixed),
// the workspace .kodebase/config.yml, and built-in defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DirName is the workspace marker directory.
const DirName = ".kodebase"

// EnvDir overrides workspace discovery entirely.
const EnvDir = "KB_DIR"

var v *viper.Viper

// Initialize builds the package's viper instance. Safe to call again to
// pick up environment changes; commands call it once from the root
// command's PersistentPreRun.
func Initialize() error {
	nv := viper.New()

	nv.SetDefault("actor", "")
	nv.SetDefault("json", false)
	nv.SetDefault("no-emoji", false)
	nv.SetDefault("otel-enabled", false)
	nv.SetDefault("lock-timeout", 10*time.Second)
	nv.SetDefault("default-priority", 2)
	nv.SetDefault("default-owner", "")

	// KODEBASE_LOCK_TIMEOUT style works for every key; the common ones
	// also get short KB_ names.
	nv.SetEnvPrefix("KODEBASE")
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	nv.AutomaticEnv()
	_ = nv.BindEnv("actor", "KB_ACTOR", "KODEBASE_ACTOR")
	_ = nv.BindEnv("json", "KB_JSON", "KODEBASE_JSON")
	_ = nv.BindEnv("no-emoji", "KB_NO_EMOJI", "KODEBASE_NO_EMOJI")
	_ = nv.BindEnv("otel-enabled", "KB_OTEL_ENABLED", "KODEBASE_OTEL_ENABLED")

	nv.SetConfigName("config")
	nv.SetConfigType("yaml")
	if dir := FindDir(); dir != "" {
		nv.AddConfigPath(dir)
	}
	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	v = nv
	return nil
}

// FindDir locates the .kodebase directory: KB_DIR when set and valid,
// otherwise the nearest .kodebase walking up from the working directory.
// Returns "" when no workspace is found.
func FindDir() string {
	if dir := os.Getenv(EnvDir); dir != "" {
		abs, err := filepath.Abs(dir)
		if err == nil {
			if info, err := os.Stat(abs); err == nil && info.IsDir() {
				return abs
			}
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for dir := cwd; dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		kodebaseDir := filepath.Join(dir, DirName)
		if info, err := os.Stat(kodebaseDir); err == nil && info.IsDir() {
			return kodebaseDir
		}
	}
	return ""
}

// GetString returns a config value as a string.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool returns a config value as a bool.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt returns a config value as an int.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration returns a config value as a duration.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// UnmarshalKey decodes a config subtree into out.
func UnmarshalKey(key string, out any) error {
	if v == nil {
		return errors.New("config not initialized")
	}
	return v.UnmarshalKey(key, out)
}
