// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for vaultsync.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, an optional JSON file and
// built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds session and logging settings.
	App App `envPrefix:"APP_"`

	// Adapter holds the remote API endpoint and HTTP client behaviour.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local SQLite store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds the background sync schedule.
	Workers Workers `envPrefix:"WORKERS_"`

	// Autofill holds the platform credential store settings.
	Autofill Autofill `envPrefix:"AUTOFILL_"`

	// Keyring holds the secure device storage settings.
	Keyring Keyring `envPrefix:"KEYRING_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration: the session and logging.
type App struct {
	// Token is the bearer session token sent to the remote API.
	// Env: APP_TOKEN
	Token string `env:"TOKEN"`

	// UserKeysPath points to a JSON file with the user's locked keys.
	// Env: APP_USER_KEYS_PATH
	UserKeysPath string `env:"USER_KEYS_PATH"`

	// KeyPassphrase unlocks the user keys.
	// Env: APP_KEY_PASSPHRASE
	KeyPassphrase string `env:"KEY_PASSPHRASE"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// LogPath is the directory for log files; empty logs to stdout.
	// Env: APP_LOG_PATH
	LogPath string `env:"LOG_PATH"`
}

// Adapter holds configuration for the remote API client.
type Adapter struct {
	// BaseURL is the API root (e.g. "https://pass.example.com/api").
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds a single HTTP request including retries.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RetryCount is the number of retries on 429, 5xx and transport errors.
	// Env: ADAPTER_RETRY_COUNT
	RetryCount int `env:"RETRY_COUNT"`

	// RetryWaitTime and RetryMaxWaitTime bound the retry backoff.
	// Env: ADAPTER_RETRY_WAIT_TIME, ADAPTER_RETRY_MAX_WAIT_TIME
	RetryWaitTime    time.Duration `env:"RETRY_WAIT_TIME"`
	RetryMaxWaitTime time.Duration `env:"RETRY_MAX_WAIT_TIME"`
}

// Storage holds the local database settings.
type Storage struct {
	// DSN is the SQLite data source (a file path).
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`

	// MaxOpenConns caps the connection pool; zero keeps the driver default.
	// Env: STORAGE_MAX_OPEN_CONNS
	MaxOpenConns int `env:"MAX_OPEN_CONNS"`
}

// Workers holds configuration for the background sync loop.
type Workers struct {
	// SyncInterval is the period between two sync runs.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// SyncConcurrency limits how many shares sync in parallel.
	// Env: WORKERS_SYNC_CONCURRENCY
	SyncConcurrency int `env:"SYNC_CONCURRENCY"`

	// BackoffBase and BackoffMax bound the per-share retry backoff after a
	// failed sync.
	// Env: WORKERS_BACKOFF_BASE, WORKERS_BACKOFF_MAX
	BackoffBase time.Duration `env:"BACKOFF_BASE"`
	BackoffMax  time.Duration `env:"BACKOFF_MAX"`
}

// Autofill holds the credential store settings.
type Autofill struct {
	// Disabled turns credential projection off.
	// Env: AUTOFILL_DISABLED
	Disabled bool `env:"DISABLED"`

	// FullReplace makes the store behave as a non-incremental platform
	// store that only accepts whole replacements.
	// Env: AUTOFILL_FULL_REPLACE
	FullReplace bool `env:"FULL_REPLACE"`

	// StorePath is the JSON file backing the credential store.
	// Env: AUTOFILL_STORE_PATH
	StorePath string `env:"STORE_PATH"`
}

// Keyring holds the secure device storage settings.
type Keyring struct {
	// ServiceName namespaces the entries in the OS keychain.
	// Env: KEYRING_SERVICE_NAME
	ServiceName string `env:"SERVICE_NAME"`

	// Backend forces a keyring backend ("file", "keychain", "secret-service",
	// ...). Empty lets the library pick.
	// Env: KEYRING_BACKEND
	Backend string `env:"BACKEND"`

	// FileDir and Password configure the encrypted file backend.
	// Env: KEYRING_FILE_DIR, KEYRING_PASSWORD
	FileDir  string `env:"FILE_DIR"`
	Password string `env:"PASSWORD"`
}

// defaults returns the lowest-priority configuration source.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogLevel: "info",
		},
		Adapter: Adapter{
			RequestTimeout:   30 * time.Second,
			RetryCount:       3,
			RetryWaitTime:    500 * time.Millisecond,
			RetryMaxWaitTime: 5 * time.Second,
		},
		Storage: Storage{
			DSN: "vaultsync.db",
		},
		Workers: Workers{
			SyncInterval:    time.Minute,
			SyncConcurrency: 4,
			BackoffBase:     2 * time.Second,
			BackoffMax:      5 * time.Minute,
		},
		Autofill: Autofill{
			StorePath: "credentials.json",
		},
		Keyring: Keyring{
			ServiceName: "vaultsync",
			Backend:     "file",
			FileDir:     "keyring",
		},
	}
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (the first source that sets a field wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults().
		build()
}
