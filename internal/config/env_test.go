// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_TOKEN":          "session-token",
		"APP_USER_KEYS_PATH": "/etc/vaultsync/keys.json",
		"APP_KEY_PASSPHRASE": "passphrase",
		"APP_LOG_LEVEL":      "debug",
		"APP_LOG_PATH":       "/var/log/vaultsync",

		"ADAPTER_BASE_URL":            "https://pass.example.com/api",
		"ADAPTER_REQUEST_TIMEOUT":     "15s",
		"ADAPTER_RETRY_COUNT":         "5",
		"ADAPTER_RETRY_WAIT_TIME":     "100ms",
		"ADAPTER_RETRY_MAX_WAIT_TIME": "2s",

		"STORAGE_DSN":            "/var/lib/vaultsync/vault.db",
		"STORAGE_MAX_OPEN_CONNS": "2",

		"WORKERS_SYNC_INTERVAL":    "30s",
		"WORKERS_SYNC_CONCURRENCY": "8",
		"WORKERS_BACKOFF_BASE":     "1s",
		"WORKERS_BACKOFF_MAX":      "1m",

		"AUTOFILL_DISABLED":     "true",
		"AUTOFILL_FULL_REPLACE": "true",
		"AUTOFILL_STORE_PATH":   "/var/lib/vaultsync/credentials.json",

		"KEYRING_SERVICE_NAME": "vaultsync-test",
		"KEYRING_BACKEND":      "file",
		"KEYRING_FILE_DIR":     "/var/lib/vaultsync/keyring",
		"KEYRING_PASSWORD":     "keyring-password",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "session-token", cfg.App.Token)
	assert.Equal(t, "/etc/vaultsync/keys.json", cfg.App.UserKeysPath)
	assert.Equal(t, "passphrase", cfg.App.KeyPassphrase)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "/var/log/vaultsync", cfg.App.LogPath)

	assert.Equal(t, "https://pass.example.com/api", cfg.Adapter.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 5, cfg.Adapter.RetryCount)
	assert.Equal(t, 100*time.Millisecond, cfg.Adapter.RetryWaitTime)
	assert.Equal(t, 2*time.Second, cfg.Adapter.RetryMaxWaitTime)

	assert.Equal(t, "/var/lib/vaultsync/vault.db", cfg.Storage.DSN)
	assert.Equal(t, 2, cfg.Storage.MaxOpenConns)

	assert.Equal(t, 30*time.Second, cfg.Workers.SyncInterval)
	assert.Equal(t, 8, cfg.Workers.SyncConcurrency)
	assert.Equal(t, time.Second, cfg.Workers.BackoffBase)
	assert.Equal(t, time.Minute, cfg.Workers.BackoffMax)

	assert.True(t, cfg.Autofill.Disabled)
	assert.True(t, cfg.Autofill.FullReplace)
	assert.Equal(t, "/var/lib/vaultsync/credentials.json", cfg.Autofill.StorePath)

	assert.Equal(t, "vaultsync-test", cfg.Keyring.ServiceName)
	assert.Equal(t, "file", cfg.Keyring.Backend)
	assert.Equal(t, "/var/lib/vaultsync/keyring", cfg.Keyring.FileDir)
	assert.Equal(t, "keyring-password", cfg.Keyring.Password)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	setEnvVars(t, map[string]string{})

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{"WORKERS_SYNC_INTERVAL": "soon"})

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}

func TestParseEnv_InvalidInt(t *testing.T) {
	setEnvVars(t, map[string]string{"ADAPTER_RETRY_COUNT": "many"})

	require.Error(t, parseEnv(&StructuredConfig{}))
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"APP_TOKEN",
		"APP_USER_KEYS_PATH",
		"APP_KEY_PASSPHRASE",
		"APP_LOG_LEVEL",
		"APP_LOG_PATH",

		"ADAPTER_BASE_URL",
		"ADAPTER_REQUEST_TIMEOUT",
		"ADAPTER_RETRY_COUNT",
		"ADAPTER_RETRY_WAIT_TIME",
		"ADAPTER_RETRY_MAX_WAIT_TIME",

		"STORAGE_DSN",
		"STORAGE_MAX_OPEN_CONNS",

		"WORKERS_SYNC_INTERVAL",
		"WORKERS_SYNC_CONCURRENCY",
		"WORKERS_BACKOFF_BASE",
		"WORKERS_BACKOFF_MAX",

		"AUTOFILL_DISABLED",
		"AUTOFILL_FULL_REPLACE",
		"AUTOFILL_STORE_PATH",

		"KEYRING_SERVICE_NAME",
		"KEYRING_BACKEND",
		"KEYRING_FILE_DIR",
		"KEYRING_PASSWORD",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
