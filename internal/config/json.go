// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		Token         string `json:"token"`
		UserKeysPath  string `json:"user_keys_path"`
		KeyPassphrase string `json:"key_passphrase"`
		LogLevel      string `json:"log_level"`
		LogPath       string `json:"log_path"`
	} `json:"app,omitempty"`

	Adapter struct {
		BaseURL          string   `json:"base_url"`
		RequestTimeout   Duration `json:"request_timeout"`
		RetryCount       int      `json:"retry_count"`
		RetryWaitTime    Duration `json:"retry_wait_time"`
		RetryMaxWaitTime Duration `json:"retry_max_wait_time"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DSN          string `json:"dsn"`
		MaxOpenConns int    `json:"max_open_conns"`
	} `json:"storage,omitempty"`

	Workers struct {
		SyncInterval    Duration `json:"sync_interval"`
		SyncConcurrency int      `json:"sync_concurrency"`
		BackoffBase     Duration `json:"backoff_base"`
		BackoffMax      Duration `json:"backoff_max"`
	} `json:"workers,omitempty"`

	Autofill struct {
		Disabled    bool   `json:"disabled"`
		FullReplace bool   `json:"full_replace"`
		StorePath   string `json:"store_path"`
	} `json:"autofill,omitempty"`

	Keyring struct {
		ServiceName string `json:"service_name"`
		Backend     string `json:"backend"`
		FileDir     string `json:"file_dir"`
		Password    string `json:"password"`
	} `json:"keyring,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Token:         jsonCfg.App.Token,
			UserKeysPath:  jsonCfg.App.UserKeysPath,
			KeyPassphrase: jsonCfg.App.KeyPassphrase,
			LogLevel:      jsonCfg.App.LogLevel,
			LogPath:       jsonCfg.App.LogPath,
		},
		Adapter: Adapter{
			BaseURL:          jsonCfg.Adapter.BaseURL,
			RequestTimeout:   time.Duration(jsonCfg.Adapter.RequestTimeout),
			RetryCount:       jsonCfg.Adapter.RetryCount,
			RetryWaitTime:    time.Duration(jsonCfg.Adapter.RetryWaitTime),
			RetryMaxWaitTime: time.Duration(jsonCfg.Adapter.RetryMaxWaitTime),
		},
		Storage: Storage{
			DSN:          jsonCfg.Storage.DSN,
			MaxOpenConns: jsonCfg.Storage.MaxOpenConns,
		},
		Workers: Workers{
			SyncInterval:    time.Duration(jsonCfg.Workers.SyncInterval),
			SyncConcurrency: jsonCfg.Workers.SyncConcurrency,
			BackoffBase:     time.Duration(jsonCfg.Workers.BackoffBase),
			BackoffMax:      time.Duration(jsonCfg.Workers.BackoffMax),
		},
		Autofill: Autofill{
			Disabled:    jsonCfg.Autofill.Disabled,
			FullReplace: jsonCfg.Autofill.FullReplace,
			StorePath:   jsonCfg.Autofill.StorePath,
		},
		Keyring: Keyring{
			ServiceName: jsonCfg.Keyring.ServiceName,
			Backend:     jsonCfg.Keyring.Backend,
			FileDir:     jsonCfg.Keyring.FileDir,
			Password:    jsonCfg.Keyring.Password,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
