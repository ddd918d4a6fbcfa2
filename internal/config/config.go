package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sharedcfg-labs/sharedcfg/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyResource     = "resource"
	KeyLockedMode   = "mode.locked"
	KeyUnlockedMode = "mode.unlocked"
	KeyLockTimeout  = "lock.timeout"
)

// Defaults applied before the config file and environment are read.
const (
	DefaultResource     = "shared/config.json"
	DefaultLockedMode   = "0444"
	DefaultUnlockedMode = "0644"
	DefaultLockTimeout  = "5s"
)

// envKeyReplacer maps nested keys to env names: mode.locked → SHAREDCFG_MODE_LOCKED.
var envKeyReplacer = strings.NewReplacer(".", "_")

// Dir returns the path to the config directory. It checks the SHAREDCFG_HOME
// environment variable first, then falls back to ~/.sharedcfg/.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.sharedcfg/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetDefault(KeyResource, DefaultResource)
	viper.SetDefault(KeyLockedMode, DefaultLockedMode)
	viper.SetDefault(KeyUnlockedMode, DefaultUnlockedMode)
	viper.SetDefault(KeyLockTimeout, DefaultLockTimeout)

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file. Only the
// keys already in the file plus key are written; flag values, environment
// overrides and defaults stay out of it.
func Set(key, value string) error {
	if err := validate(key, value); err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()
	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)
	if _, err := os.Stat(configFile); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	file.Set(key, value)
	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}

// Keys lists every setting in display order.
var Keys = []string{KeyResource, KeyLockedMode, KeyUnlockedMode, KeyLockTimeout}

// Setting sources reported by Lookup.
const (
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// Lookup returns the effective value of key and where it came from. Values
// set on the command line show up with their own source in the caller.
func Lookup(key string) (value, source string) {
	value = viper.GetString(key)
	if _, ok := os.LookupEnv(EnvName(key)); ok {
		return value, SourceEnv
	}

	file := viper.New()
	file.SetConfigFile(FilePath())
	file.SetConfigType(fileType)
	if err := file.ReadInConfig(); err == nil && file.IsSet(key) {
		return value, SourceFile
	}
	return value, SourceDefault
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return branding.EnvVar(envKeyReplacer.Replace(key))
}

// Resource returns the configured path of the shared resource.
func Resource() string {
	return viper.GetString(KeyResource)
}

// LockedMode returns the permission mode a resource rests in between updates.
func LockedMode() os.FileMode {
	return modeOrDefault(viper.GetString(KeyLockedMode), DefaultLockedMode)
}

// UnlockedMode returns the permission mode held while an update is in progress.
func UnlockedMode() os.FileMode {
	return modeOrDefault(viper.GetString(KeyUnlockedMode), DefaultUnlockedMode)
}

// LockTimeout returns how long an update waits for the resource lock.
func LockTimeout() time.Duration {
	d, err := time.ParseDuration(viper.GetString(KeyLockTimeout))
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultLockTimeout)
	}
	return d
}

// ParseMode parses an octal permission string such as "0444" or "644".
func ParseMode(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid permission mode %q: %w", s, err)
	}
	if v > 0777 {
		return 0, fmt.Errorf("invalid permission mode %q: only permission bits are allowed", s)
	}
	return os.FileMode(v), nil
}

func modeOrDefault(s, def string) os.FileMode {
	m, err := ParseMode(s)
	if err != nil {
		m, _ = ParseMode(def)
	}
	return m
}

func validate(key, value string) error {
	switch key {
	case KeyLockedMode, KeyUnlockedMode:
		if _, err := ParseMode(value); err != nil {
			return err
		}
	case KeyLockTimeout:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
	}
	return nil
}
