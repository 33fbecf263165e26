// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/vaultsync/internal/config"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/models"
)

var _ Client = (*App)(nil)

func testConfig(t *testing.T, baseURL string) *config.StructuredConfig {
	t.Helper()
	dir := t.TempDir()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	keysPath := filepath.Join(dir, "user_keys.json")
	require.NoError(t, os.WriteFile(keysPath, []byte("[]"), 0o600))

	return &config.StructuredConfig{
		App: config.App{Token: token, UserKeysPath: keysPath, KeyPassphrase: "pass"},
		Adapter: config.Adapter{
			BaseURL:        baseURL,
			RequestTimeout: 5 * time.Second,
		},
		Storage: config.Storage{DSN: filepath.Join(dir, "vaultsync.db")},
		Workers: config.Workers{
			SyncInterval:    time.Hour,
			SyncConcurrency: 2,
			BackoffBase:     time.Second,
			BackoffMax:      time.Minute,
		},
		Autofill: config.Autofill{StorePath: filepath.Join(dir, "credentials.json")},
		Keyring: config.Keyring{
			ServiceName: "vaultsync-test",
			Backend:     "file",
			FileDir:     filepath.Join(dir, "keyring"),
			Password:    "keyring-password",
		},
	}
}

func TestApp_RunSyncsUntilCancelled(t *testing.T) {
	var shareCalls atomic.Int32
	r := chi.NewRouter()
	r.Get("/pass/v1/share", func(w http.ResponseWriter, _ *http.Request) {
		shareCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(models.SharesResponse{}))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, cfg, logger.Nop())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return shareCalls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		_, err := os.Stat(cfg.Autofill.StorePath)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond, "credential store is written on start")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.NoError(t, app.Close())
}

func TestApp_AutofillDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Shares":[]}`))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cfg.Autofill.Disabled = true

	ctx, cancel := context.WithCancel(context.Background())
	app, err := NewApp(ctx, cfg, logger.Nop())
	require.NoError(t, err)

	cancel()
	require.NoError(t, app.Run(ctx))
	require.NoError(t, app.Close())

	_, err = os.Stat(cfg.Autofill.StorePath)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewApp_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.StructuredConfig)
	}{
		{name: "bad token", mutate: func(cfg *config.StructuredConfig) { cfg.App.Token = "not-a-jwt" }},
		{name: "missing user keys", mutate: func(cfg *config.StructuredConfig) { cfg.App.UserKeysPath = filepath.Join(t.TempDir(), "none.json") }},
		{name: "bad base url", mutate: func(cfg *config.StructuredConfig) { cfg.Adapter.BaseURL = "http://" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, "http://127.0.0.1:1")
			tt.mutate(cfg)

			_, err := NewApp(context.Background(), cfg, logger.Nop())
			require.Error(t, err)
		})
	}
}
