// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/vaultsync/internal/config"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/internal/utils"
	"github.com/MKhiriev/vaultsync/models"
)

const (
	apiPrefix = "/pass/v1"

	// maxItemPages bounds item pagination against a misbehaving server.
	maxItemPages = 10_000
)

type httpRemoteAPI struct {
	client *utils.HTTPClient

	mu      sync.RWMutex
	session models.SessionToken

	logger *logger.Logger
}

// NewHTTPRemoteAPI constructs an HTTP/REST implementation of [RemoteAPI].
// It normalises and validates the base URL from cfg.BaseURL and configures
// the underlying HTTP client with the request timeout and retry policy.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid URL.
func NewHTTPRemoteAPI(cfg config.Adapter, log *logger.Logger) (RemoteAPI, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	client := utils.NewHTTPClient(utils.HTTPClientConfig{
		BaseURL:          baseURL,
		Timeout:          cfg.RequestTimeout,
		RetryCount:       cfg.RetryCount,
		RetryWaitTime:    cfg.RetryWaitTime,
		RetryMaxWaitTime: cfg.RetryMaxWaitTime,
		RetryCondition:   shouldRetry,
	})

	return &httpRemoteAPI{client: client, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// shouldRetry retries throttling for every request. Transport failures are
// retried only for idempotent methods; server errors only for GET and DELETE.
func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		return isIdempotent(resp)
	}
	if resp == nil {
		return false
	}

	switch resp.StatusCode() {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	}
	if resp.StatusCode() < http.StatusInternalServerError {
		return false
	}

	method := resp.Request.Method
	return method == http.MethodGet || method == http.MethodDelete
}

// isIdempotent reports whether the request behind resp may be sent again
// after the server could already have applied it.
func isIdempotent(resp *resty.Response) bool {
	if resp == nil || resp.Request == nil {
		return false
	}
	switch resp.Request.Method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// SetToken implements [RemoteAPI]. The token claims are read (not verified)
// to learn the session's user id.
func (h *httpRemoteAPI) SetToken(token string) error {
	session, err := models.ParseSessionToken(strings.TrimSpace(token))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = session
	return nil
}

func (h *httpRemoteAPI) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session.SignedString
}

func (h *httpRemoteAPI) UserID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session.UserID()
}

func (h *httpRemoteAPI) GetShares(ctx context.Context) ([]models.Share, error) {
	var out models.SharesResponse
	if err := h.do(ctx, http.MethodGet, apiPrefix+"/share", nil, &out); err != nil {
		return nil, fmt.Errorf("get shares: %w", err)
	}
	return out.Shares, nil
}

func (h *httpRemoteAPI) GetShareKeys(ctx context.Context, shareID string) ([]models.ShareKey, error) {
	var out models.ShareKeysResponse
	if err := h.do(ctx, http.MethodGet, sharePath(shareID, "key"), nil, &out); err != nil {
		return nil, fmt.Errorf("get share keys: %w", err)
	}

	// the listing endpoint omits the share id on each key
	for i := range out.Keys {
		out.Keys[i].ShareID = shareID
	}
	return out.Keys, nil
}

func (h *httpRemoteAPI) GetItems(ctx context.Context, shareID string) ([]models.Item, error) {
	var (
		items []models.Item
		since string
	)

	for page := 0; page < maxItemPages; page++ {
		req := h.request(ctx)
		if since != "" {
			req.SetQueryParam("Since", since)
		}

		var out models.ItemsResponse
		resp, err := req.SetResult(&out).Get(sharePath(shareID, "item"))
		if err != nil {
			return nil, fmt.Errorf("get items request: %w", err)
		}
		if err = mapHTTPError(resp); err != nil {
			return nil, fmt.Errorf("get items: %w", err)
		}

		items = append(items, out.Items...)
		if out.LastToken == "" || out.LastToken == since || len(out.Items) == 0 || len(items) >= out.Total {
			return items, nil
		}
		since = out.LastToken
	}

	h.logger.Warn().
		Str("func", "httpRemoteAPI.GetItems").
		Str("share_id", shareID).
		Msg("item pagination did not terminate")
	return items, nil
}

func (h *httpRemoteAPI) GetItem(ctx context.Context, shareID, itemID string) (models.Item, error) {
	var out models.ItemResponse
	if err := h.do(ctx, http.MethodGet, sharePath(shareID, "item", itemID), nil, &out); err != nil {
		return models.Item{}, fmt.Errorf("get item: %w", err)
	}
	return out.Item, nil
}

func (h *httpRemoteAPI) CreateItem(ctx context.Context, shareID string, body models.CreateItemRequest) (models.Item, error) {
	var out models.ItemResponse
	if err := h.do(ctx, http.MethodPost, sharePath(shareID, "item"), body, &out); err != nil {
		return models.Item{}, fmt.Errorf("create item: %w", err)
	}
	return out.Item, nil
}

func (h *httpRemoteAPI) UpdateItem(ctx context.Context, shareID, itemID string, body models.UpdateItemRequest) (models.Item, error) {
	var out models.ItemResponse
	if err := h.do(ctx, http.MethodPut, sharePath(shareID, "item", itemID), body, &out); err != nil {
		return models.Item{}, fmt.Errorf("update item: %w", err)
	}
	return out.Item, nil
}

func (h *httpRemoteAPI) TrashItems(ctx context.Context, shareID string, items []models.ItemRevision) ([]models.ItemRevision, error) {
	var out models.ItemRevisionsResponse
	body := models.ItemRevisionsRequest{Items: items}
	if err := h.do(ctx, http.MethodPost, sharePath(shareID, "item", "trash"), body, &out); err != nil {
		return nil, fmt.Errorf("trash items: %w", err)
	}
	return out.Items, nil
}

func (h *httpRemoteAPI) UntrashItems(ctx context.Context, shareID string, items []models.ItemRevision) ([]models.ItemRevision, error) {
	var out models.ItemRevisionsResponse
	body := models.ItemRevisionsRequest{Items: items}
	if err := h.do(ctx, http.MethodPost, sharePath(shareID, "item", "untrash"), body, &out); err != nil {
		return nil, fmt.Errorf("untrash items: %w", err)
	}
	return out.Items, nil
}

func (h *httpRemoteAPI) DeleteItems(ctx context.Context, shareID string, items []models.ItemRevision) error {
	body := models.ItemRevisionsRequest{Items: items}
	if err := h.do(ctx, http.MethodDelete, sharePath(shareID, "item"), body, nil); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}

func (h *httpRemoteAPI) GetLastEventID(ctx context.Context, shareID string) (string, error) {
	var out models.LastEventIDResponse
	if err := h.do(ctx, http.MethodGet, sharePath(shareID, "event"), nil, &out); err != nil {
		return "", fmt.Errorf("get last event id: %w", err)
	}
	return out.EventID, nil
}

func (h *httpRemoteAPI) GetEvents(ctx context.Context, shareID, lastEventID string) (models.SyncEvents, error) {
	var out models.EventsResponse
	if err := h.do(ctx, http.MethodGet, sharePath(shareID, "event", lastEventID), nil, &out); err != nil {
		return models.SyncEvents{}, fmt.Errorf("get events: %w", err)
	}
	return out.Events, nil
}

// do sends one JSON request and decodes a 2xx body into result.
func (h *httpRemoteAPI) do(ctx context.Context, method, path string, body, result any) error {
	req := h.request(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		h.logger.Err(err).
			Str("func", "httpRemoteAPI.do").
			Str("method", method).
			Str("path", path).
			Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteAPI) request(ctx context.Context) *resty.Request {
	req := h.client.Request(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func sharePath(shareID string, parts ...string) string {
	var b strings.Builder
	b.WriteString(apiPrefix)
	b.WriteString("/share/")
	b.WriteString(url.PathEscape(shareID))
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}
