// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// HTTPClientConfig configures [NewHTTPClient]. Zero values keep the resty
// defaults.
type HTTPClientConfig struct {
	BaseURL          string
	Timeout          time.Duration
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration

	// RetryCondition decides whether a finished attempt is retried.
	RetryCondition resty.RetryConditionFunc
}

// HTTPClient is a JSON client on top of resty.Client. It embeds
// *resty.Client to expose all of its methods directly.
type HTTPClient struct {
	*resty.Client
	ids *UUIDGenerator
}

// NewHTTPClient creates an independent client with its own connection pool.
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	client := resty.New().
		SetHeader("Accept", "application/json")

	if cfg.BaseURL != "" {
		client.SetBaseURL(cfg.BaseURL)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	client.SetRetryCount(cfg.RetryCount)
	if cfg.RetryWaitTime > 0 {
		client.SetRetryWaitTime(cfg.RetryWaitTime)
	}
	if cfg.RetryMaxWaitTime > 0 {
		client.SetRetryMaxWaitTime(cfg.RetryMaxWaitTime)
	}
	if cfg.RetryCondition != nil {
		client.AddRetryCondition(cfg.RetryCondition)
	}

	return &HTTPClient{Client: client, ids: NewUUIDGenerator()}
}

// Request starts a request bound to ctx and tagged with a fresh request id.
func (c *HTTPClient) Request(ctx context.Context) *resty.Request {
	return c.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, c.ids.Generate())
}
