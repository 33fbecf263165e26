// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CreateItemRequest is sent to create an item in a share. Content is
// already encrypted with the vault key of KeyRotation.
type CreateItemRequest struct {
	KeyRotation          int64  `json:"KeyRotation"`
	ContentFormatVersion int64  `json:"ContentFormatVersion"`
	Content              string `json:"Content"`
}

// UpdateItemRequest pushes a new content for an item. LastRevision is the
// revision the edit was based on; the server refuses the update when another
// device has moved the item past it.
type UpdateItemRequest struct {
	KeyRotation          int64  `json:"KeyRotation"`
	LastRevision         int64  `json:"LastRevision"`
	ContentFormatVersion int64  `json:"ContentFormatVersion"`
	Content              string `json:"Content"`
}

// ItemRevisionsRequest carries item revisions for trash/untrash/delete.
type ItemRevisionsRequest struct {
	Items []ItemRevision `json:"Items"`
}

// SharesResponse is returned by the share listing endpoint.
type SharesResponse struct {
	Shares []Share `json:"Shares"`
}

// ShareKeysResponse is returned by the share key endpoint.
type ShareKeysResponse struct {
	Keys  []ShareKey `json:"Keys"`
	Total int        `json:"Total"`
}

// ItemsResponse is one page of a share's item listing.
type ItemsResponse struct {
	Items     []Item `json:"RevisionsData"`
	Total     int    `json:"Total"`
	LastToken string `json:"LastToken,omitempty"`
}

// ItemResponse wraps a single item.
type ItemResponse struct {
	Item Item `json:"Item"`
}

// ItemRevisionsResponse is returned by trash/untrash.
type ItemRevisionsResponse struct {
	Items []ItemRevision `json:"Items"`
}

// LastEventIDResponse is returned when asking for the head of a share's
// change stream.
type LastEventIDResponse struct {
	EventID string `json:"EventID"`
}

// EventsResponse wraps a page of events.
type EventsResponse struct {
	Events SyncEvents `json:"Events"`
}

// APIError is the JSON error body returned by the backend.
type APIError struct {
	Code  int    `json:"Code"`
	Error string `json:"Error"`
}
