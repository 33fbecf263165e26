// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application rules before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.Token == "" || cfg.App.UserKeysPath == "" {
		return ErrInvalidAppConfigs
	}

	if u, err := url.Parse(cfg.Adapter.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base url %q", ErrInvalidAdapterConfigs, cfg.Adapter.BaseURL)
	}
	if cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.RetryCount < 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Storage.DSN == "" || cfg.Storage.MaxOpenConns < 0 {
		return ErrInvalidStorageConfigs
	}

	w := cfg.Workers
	if w.SyncInterval <= 0 || w.SyncConcurrency <= 0 || w.BackoffBase <= 0 || w.BackoffMax < w.BackoffBase {
		return ErrInvalidWorkerConfigs
	}

	if !cfg.Autofill.Disabled && cfg.Autofill.StorePath == "" {
		return ErrInvalidAutofillConfigs
	}

	k := cfg.Keyring
	if k.ServiceName == "" {
		return ErrInvalidKeyringConfigs
	}
	// the file backend holds the device main key; without a password it is
	// readable by anyone with access to FileDir
	if k.Backend == "file" && (k.FileDir == "" || k.Password == "") {
		return fmt.Errorf("%w: file backend needs a directory and a password", ErrInvalidKeyringConfigs)
	}

	return nil
}
