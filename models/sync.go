// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncEvents is one page of a share's change stream.
//
// When FullRefresh is set the server could not express a diff (for example
// the cursor is too old) and every other field except LatestEventID must be
// ignored: the client drops its cursor and refetches the share's items.
// EventsPending means more pages follow LatestEventID.
type SyncEvents struct {
	LatestEventID  string        `json:"LatestEventID"`
	EventsPending  bool          `json:"EventsPending"`
	FullRefresh    bool          `json:"FullRefresh"`
	UpdatedShare   *Share        `json:"UpdatedShare,omitempty"`
	UpdatedItems   []Item        `json:"UpdatedItems"`
	DeletedItemIDs []string      `json:"DeletedItemIDs"`
	LastUseItems   []LastUseItem `json:"LastUseItems"`
	NewKeyRotation *int64        `json:"NewKeyRotation,omitempty"`
}

// IsEmpty reports whether the page carries no change at all.
func (e SyncEvents) IsEmpty() bool {
	return !e.FullRefresh &&
		e.UpdatedShare == nil &&
		len(e.UpdatedItems) == 0 &&
		len(e.DeletedItemIDs) == 0 &&
		len(e.LastUseItems) == 0 &&
		e.NewKeyRotation == nil
}

// EventCursor is the per-share bookmark into the change stream.
type EventCursor struct {
	ShareID     string    `json:"share_id"`
	LastEventID string    `json:"last_event_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ShareSyncState is a node of the per-share sync state machine.
type ShareSyncState int

const (
	ShareSyncIdle ShareSyncState = iota
	ShareSyncFetchingEvents
	ShareSyncApplyingDelta
	ShareSyncErrored
)

// String implements fmt.Stringer.
func (s ShareSyncState) String() string {
	switch s {
	case ShareSyncIdle:
		return "idle"
	case ShareSyncFetchingEvents:
		return "fetchingEvents"
	case ShareSyncApplyingDelta:
		return "applyingDelta"
	case ShareSyncErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ShareSyncResult is the outcome of one sync cycle for one share.
type ShareSyncResult struct {
	ShareID     string
	State       ShareSyncState
	HasChanges  bool
	Skipped     bool // share is still in backoff
	NextAttempt time.Time
	Err         error
}

// SyncReport summarizes a full sync cycle.
type SyncReport struct {
	StartedAt     time.Time
	FinishedAt    time.Time
	RemovedShares []string
	Shares        []ShareSyncResult
}

// HasChanges reports whether any share changed during the cycle.
func (r SyncReport) HasChanges() bool {
	if len(r.RemovedShares) > 0 {
		return true
	}
	for _, s := range r.Shares {
		if s.HasChanges {
			return true
		}
	}
	return false
}

// Failed returns the results of shares that ended in error.
func (r SyncReport) Failed() []ShareSyncResult {
	var failed []ShareSyncResult
	for _, s := range r.Shares {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}
