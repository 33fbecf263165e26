// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// ParseFlags parses all configuration flags from args (without the program
// name).
//
// Flags:
//
//	-c/-config json file path with configs
//	-u base url of the remote API
//	-token bearer session token
//	-user-keys path to the user keys file
//	-d database DSN
//	-sync-interval period between syncs (e.g. "1m")
//	-concurrency shares synced in parallel
//	-request-timeout request timeout (e.g. "30s")
//	-log-level log level
//	-log-path log directory
//	-keyring-backend keyring backend
//	-keyring-dir file keyring directory
//	-autofill-path credential store file
//	-autofill-disabled disable credential projection
func ParseFlags(args []string) (*StructuredConfig, error) {
	var (
		jsonConfigPath   string
		baseURL          string
		token            string
		userKeysPath     string
		databaseDSN      string
		syncInterval     time.Duration
		concurrency      int
		requestTimeout   time.Duration
		logLevel         string
		logPath          string
		keyringBackend   string
		keyringDir       string
		autofillPath     string
		autofillDisabled bool
	)

	fs := flag.NewFlagSet("vaultsyncd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&baseURL, "u", "", "Remote API base URL")
	fs.StringVar(&token, "token", "", "Session token")
	fs.StringVar(&userKeysPath, "user-keys", "", "User keys file path")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Sync interval (e.g., 1m)")
	fs.IntVar(&concurrency, "concurrency", 0, "Shares synced in parallel")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&logPath, "log-path", "", "Log directory")
	fs.StringVar(&keyringBackend, "keyring-backend", "", "Keyring backend")
	fs.StringVar(&keyringDir, "keyring-dir", "", "File keyring directory")
	fs.StringVar(&autofillPath, "autofill-path", "", "Credential store file")
	fs.BoolVar(&autofillDisabled, "autofill-disabled", false, "Disable credential projection")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			Token:        token,
			UserKeysPath: userKeysPath,
			LogLevel:     logLevel,
			LogPath:      logPath,
		},
		Adapter: Adapter{
			BaseURL:        baseURL,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DSN: databaseDSN,
		},
		Workers: Workers{
			SyncInterval:    syncInterval,
			SyncConcurrency: concurrency,
		},
		Autofill: Autofill{
			Disabled:  autofillDisabled,
			StorePath: autofillPath,
		},
		Keyring: Keyring{
			Backend: keyringBackend,
			FileDir: keyringDir,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
