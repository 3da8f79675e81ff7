package config

import (
	"os"
	"path/filepath"
	"time"
)

// PIN backends
const (
	PinBackendDB      = "db"
	PinBackendKeyring = "keyring"
)

// Config holds dreamlock runtime settings.
//
// Sources, highest priority first: environment variables, the JSON file named
// by DREAMLOCK_CONFIG, built-in defaults.
type Config struct {
	// DataDir is the directory holding the journal database and log file.
	// Env: DREAMLOCK_DIR
	DataDir string `env:"DIR"`

	// DBFile is the journal database file name, relative to DataDir.
	// Env: DREAMLOCK_DB_FILE
	DBFile string `env:"DB_FILE"`

	// Log holds log output settings.
	Log Log `envPrefix:"LOG_"`

	// Security holds PIN and recovery settings.
	Security Security `envPrefix:"SECURITY_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: DREAMLOCK_CONFIG
	JSONFilePath string `env:"CONFIG"`
}

// Log holds logger settings.
type Log struct {
	// File is the log file name, relative to DataDir unless absolute.
	// Env: DREAMLOCK_LOG_FILE
	File string `env:"FILE"`
	// Level is a zerolog level name (debug, info, warn, error).
	// Env: DREAMLOCK_LOG_LEVEL
	Level string `env:"LEVEL"`
}

// Security holds PIN storage and recovery settings.
type Security struct {
	// PinBackend selects where the PIN record lives: "db" or "keyring".
	// Env: DREAMLOCK_SECURITY_PIN_BACKEND
	PinBackend string `env:"PIN_BACKEND"`
	// ResetAfter is the delay of timer-based PIN recovery.
	// Env: DREAMLOCK_SECURITY_RESET_AFTER
	ResetAfter time.Duration `env:"RESET_AFTER"`
	// RecoveryPromptAfter is the number of failed attempts after which
	// recovery options are offered.
	// Env: DREAMLOCK_SECURITY_RECOVERY_PROMPT_AFTER
	RecoveryPromptAfter int `env:"RECOVERY_PROMPT_AFTER"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	dataDir := ".dreamlock"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".dreamlock")
	}

	return &Config{
		DataDir: dataDir,
		DBFile:  "journal.db",
		Log: Log{
			File:  "dreamlock.log",
			Level: "info",
		},
		Security: Security{
			PinBackend:          PinBackendDB,
			ResetAfter:          72 * time.Hour,
			RecoveryPromptAfter: 3,
		},
	}
}

// DBPath returns the absolute database location.
func (c *Config) DBPath() string {
	if filepath.IsAbs(c.DBFile) {
		return c.DBFile
	}
	return filepath.Join(c.DataDir, c.DBFile)
}

// LogPath returns the log file location.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, c.Log.File)
}

// Load assembles the configuration from env, JSON file and defaults.
func Load() (*Config, error) {
	return newConfigBuilder().
		withEnv().
		withJSON().
		withDefaults().
		build()
}
