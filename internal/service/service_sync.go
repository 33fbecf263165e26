// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/vaultsync/internal/adapter"
	"github.com/MKhiriev/vaultsync/internal/config"
	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/internal/events"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/internal/store"
	"github.com/MKhiriev/vaultsync/models"
)

const (
	defaultSyncConcurrency = 4
	defaultBackoffBase     = 2 * time.Second
	defaultBackoffMax      = 5 * time.Minute
)

// shareState is the per-share node of the sync state machine plus the
// bookkeeping of its error backoff.
type shareState struct {
	state       models.ShareSyncState
	failures    uint64
	nextAttempt time.Time
}

type syncEngine struct {
	store     store.Store
	remote    adapter.RemoteAPI
	keys      ShareKeyService
	codec     itemCodec
	publisher events.Publisher

	concurrency int
	backoffBase time.Duration
	backoffMax  time.Duration
	now         func() time.Time

	mu     sync.Mutex
	shares map[string]*shareState

	logger *logger.Logger
}

// NewSyncEngine creates the incremental sync engine. publisher may be nil
// when nobody listens for login changes.
func NewSyncEngine(
	st store.Store,
	remote adapter.RemoteAPI,
	keys ShareKeyService,
	ecm crypto.EnvelopeCrypto,
	cipher LocalCipher,
	publisher events.Publisher,
	cfg config.Workers,
	log *logger.Logger,
) SyncEngine {
	e := &syncEngine{
		store:       st,
		remote:      remote,
		keys:        keys,
		codec:       itemCodec{keys: keys, crypto: ecm, cipher: cipher},
		publisher:   publisher,
		concurrency: cfg.SyncConcurrency,
		backoffBase: cfg.BackoffBase,
		backoffMax:  cfg.BackoffMax,
		now:         time.Now,
		shares:      make(map[string]*shareState),
		logger:      log,
	}
	if e.concurrency <= 0 {
		e.concurrency = defaultSyncConcurrency
	}
	if e.backoffBase <= 0 {
		e.backoffBase = defaultBackoffBase
	}
	if e.backoffMax <= 0 {
		e.backoffMax = defaultBackoffMax
	}
	return e
}

func (e *syncEngine) Sync(ctx context.Context) (models.SyncReport, error) {
	report := models.SyncReport{StartedAt: e.now()}
	ctx = logger.WithContext(ctx, e.logger)

	remoteShares, err := e.remote.GetShares(ctx)
	if err != nil {
		return report, fmt.Errorf("list remote shares: %w", err)
	}
	localShares, err := e.store.GetShares(ctx)
	if err != nil {
		return report, fmt.Errorf("list local shares: %w", err)
	}

	remoteIdx := make(map[string]struct{}, len(remoteShares))
	for _, s := range remoteShares {
		remoteIdx[s.ShareID] = struct{}{}
	}
	localIdx := make(map[string]models.Share, len(localShares))
	for _, s := range localShares {
		localIdx[s.ShareID] = s
		if _, ok := remoteIdx[s.ShareID]; ok {
			continue
		}
		if err = e.removeShare(ctx, s.ShareID); err != nil {
			e.logger.Err(err).
				Str("func", "syncEngine.Sync").
				Str("share_id", s.ShareID).
				Msg("failed to remove share missing on server")
			report.Shares = append(report.Shares, models.ShareSyncResult{
				ShareID: s.ShareID,
				State:   models.ShareSyncErrored,
				Err:     err,
			})
			continue
		}
		report.RemovedShares = append(report.RemovedShares, s.ShareID)
	}

	results := make([]models.ShareSyncResult, len(remoteShares))
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, share := range remoteShares {
		local, known := localIdx[share.ShareID]
		g.Go(func() error {
			results[i] = e.syncShare(ctx, share, local, known)
			return nil
		})
	}
	_ = g.Wait()

	report.Shares = append(report.Shares, results...)
	report.FinishedAt = e.now()

	e.logger.Info().
		Str("func", "syncEngine.Sync").
		Int("shares", len(results)).
		Int("removed", len(report.RemovedShares)).
		Int("failed", len(report.Failed())).
		Bool("changes", report.HasChanges()).
		Msg("sync cycle finished")

	return report, nil
}

func (e *syncEngine) syncShare(ctx context.Context, share, local models.Share, known bool) models.ShareSyncResult {
	result := models.ShareSyncResult{ShareID: share.ShareID}
	log := e.logger.ForShare(share.ShareID)

	if next, wait := e.inBackoff(share.ShareID); wait {
		result.State = models.ShareSyncErrored
		result.Skipped = true
		result.NextAttempt = next
		return result
	}

	var err error
	switch {
	case !known:
		log.Info().Str("func", "syncEngine.syncShare").Msg("new share, running full refresh")
		err = e.RefreshShare(ctx, share)
		result.HasChanges = err == nil
	default:
		if !local.Equal(share) {
			if err = e.store.UpsertShares(ctx, share); err == nil {
				result.HasChanges = true
			}
		}
		if err == nil {
			var changed bool
			changed, err = e.Pull(ctx, share)
			result.HasChanges = result.HasChanges || changed
		}
	}

	if err != nil {
		result.Err = err
		result.NextAttempt = e.fail(share.ShareID)
		result.State = models.ShareSyncErrored
		log.Err(err).
			Str("func", "syncEngine.syncShare").
			Time("next_attempt", result.NextAttempt).
			Msg("share sync failed")
		return result
	}

	e.succeed(share.ShareID)
	result.State = models.ShareSyncIdle
	return result
}

func (e *syncEngine) Pull(ctx context.Context, share models.Share) (bool, error) {
	ctx = logger.WithContext(ctx, e.logger.ForShare(share.ShareID))

	cursor, err := e.store.GetCursor(ctx, share.ShareID)
	if errors.Is(err, store.ErrCursorNotFound) {
		return true, e.RefreshShare(ctx, share)
	}
	if err != nil {
		return false, fmt.Errorf("get cursor: %w", err)
	}

	var (
		changed bool
		from    = cursor.LastEventID
	)
	for {
		if err = ctx.Err(); err != nil {
			return changed, err
		}

		e.setState(share.ShareID, models.ShareSyncFetchingEvents)
		page, err := e.remote.GetEvents(ctx, share.ShareID, from)
		if err != nil {
			return changed, fmt.Errorf("get events since %q: %w", from, err)
		}

		if page.FullRefresh {
			logger.FromContext(ctx).Info().
				Str("func", "syncEngine.Pull").
				Str("event_id", from).
				Msg("server requested full refresh")
			return true, e.RefreshShare(ctx, share)
		}

		applied, advanced, err := e.applyEvents(ctx, share, from, page)
		if err != nil {
			return changed, err
		}
		changed = changed || applied

		if page.UpdatedShare != nil {
			share = *page.UpdatedShare
		}
		if !page.EventsPending || !advanced {
			e.setState(share.ShareID, models.ShareSyncIdle)
			return changed, nil
		}
		from = page.LatestEventID
	}
}

// applyEvents persists one page of events and moves the cursor to its
// LatestEventID inside the same transaction.
func (e *syncEngine) applyEvents(ctx context.Context, share models.Share, from string, page models.SyncEvents) (changed, advanced bool, err error) {
	log := logger.FromContext(ctx)

	if page.NewKeyRotation != nil {
		if _, err = e.keys.VaultKeyFor(ctx, share.ShareID, *page.NewKeyRotation); err != nil {
			return false, false, fmt.Errorf("resolve key rotation %d: %w", *page.NewKeyRotation, err)
		}
	}

	upserts, decrypted, err := e.decryptItems(ctx, page.UpdatedItems)
	if err != nil {
		return false, false, err
	}

	// nothing may be persisted once the batch has been cancelled
	if err = ctx.Err(); err != nil {
		return false, false, err
	}

	e.setState(share.ShareID, models.ShareSyncApplyingDelta)

	var notify events.ItemsChanged
	err = e.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		notify, changed, advanced = events.ItemsChanged{}, false, false

		if page.UpdatedShare != nil {
			if err := tx.UpsertShares(ctx, *page.UpdatedShare); err != nil {
				return err
			}
			changed = true
		}

		applied, err := tx.UpsertItems(ctx, upserts...)
		if err != nil {
			return err
		}
		changed = changed || len(applied) > 0
		notify = mergeNotify(notify, loginChanges(applied, decrypted))

		if len(page.DeletedItemIDs) > 0 {
			deleted, err := tx.DeleteItems(ctx, share.ShareID, page.DeletedItemIDs...)
			if err != nil {
				return err
			}
			changed = changed || len(deleted) > 0
			notify = withoutItems(notify, deleted)
		}

		if len(page.LastUseItems) > 0 {
			used, err := tx.UpdateLastUseTimes(ctx, share.ShareID, page.LastUseItems...)
			if err != nil {
				return err
			}
			creds, err := e.reprojected(ctx, tx, used)
			if err != nil {
				return err
			}
			notify.Inserted = append(notify.Inserted, creds...)
		}

		if page.LatestEventID == "" || page.LatestEventID == from {
			return nil
		}
		err = tx.AdvanceCursor(ctx, share.ShareID, page.LatestEventID)
		if errors.Is(err, store.ErrStaleCursor) {
			log.Warn().
				Str("func", "syncEngine.applyEvents").
				Str("from", from).
				Str("latest", page.LatestEventID).
				Msg("server returned an older event id, cursor kept")
			return nil
		}
		advanced = err == nil
		return err
	})
	if err != nil {
		return false, false, fmt.Errorf("apply events: %w", err)
	}

	e.publish(ctx, notify)
	return changed, advanced, nil
}

func (e *syncEngine) RefreshShare(ctx context.Context, share models.Share) error {
	ctx = logger.WithContext(ctx, e.logger.ForShare(share.ShareID))
	e.setState(share.ShareID, models.ShareSyncFetchingEvents)

	// taken before the items so that changes racing the refetch are replayed
	eventID, err := e.remote.GetLastEventID(ctx, share.ShareID)
	if err != nil {
		return fmt.Errorf("get last event id: %w", err)
	}
	if _, err = e.keys.RefreshKeys(ctx, share.ShareID); err != nil {
		return fmt.Errorf("refresh keys: %w", err)
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	items, err := e.remote.GetItems(ctx, share.ShareID)
	if err != nil {
		return fmt.Errorf("get items: %w", err)
	}

	upserts, decrypted, err := e.decryptItems(ctx, items)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	e.setState(share.ShareID, models.ShareSyncApplyingDelta)

	remoteIDs := make(map[string]struct{}, len(items))
	for _, it := range items {
		remoteIDs[it.ItemID] = struct{}{}
	}

	var notify events.ItemsChanged
	err = e.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		notify = events.ItemsChanged{}

		if err := tx.UpsertShares(ctx, share); err != nil {
			return err
		}

		existing, err := tx.GetItems(ctx, share.ShareID, 0)
		if err != nil {
			return err
		}
		var gone []string
		for _, it := range existing {
			if _, ok := remoteIDs[it.ItemID]; !ok {
				gone = append(gone, it.ItemID)
			}
		}
		if len(gone) > 0 {
			deleted, err := tx.DeleteItems(ctx, share.ShareID, gone...)
			if err != nil {
				return err
			}
			notify.Removed = append(notify.Removed, loginKeys(deleted)...)
		}

		applied, err := tx.UpsertItems(ctx, upserts...)
		if err != nil {
			return err
		}
		notify = mergeNotify(notify, loginChanges(applied, decrypted))

		return tx.ResetCursor(ctx, share.ShareID, eventID)
	})
	if err != nil {
		return fmt.Errorf("full refresh: %w", err)
	}

	e.setState(share.ShareID, models.ShareSyncIdle)
	e.publish(ctx, notify)
	return nil
}

func (e *syncEngine) State(shareID string) models.ShareSyncState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if st, ok := e.shares[shareID]; ok {
		return st.state
	}
	return models.ShareSyncIdle
}

// decryptItems prepares backend items for the local store. Items failing
// with a crypto error are logged and left out; any other error aborts.
func (e *syncEngine) decryptItems(ctx context.Context, items []models.Item) ([]models.LocalItem, map[models.ItemKey]models.DecryptedItem, error) {
	log := logger.FromContext(ctx)

	locals := make([]models.LocalItem, 0, len(items))
	decrypted := make(map[models.ItemKey]models.DecryptedItem, len(items))
	for _, item := range items {
		local, plain, err := e.codec.decrypt(ctx, item)
		if err != nil {
			if crypto.IsRecoverable(err) {
				log.Warn().Err(err).
					Str("func", "syncEngine.decryptItems").
					Str("share_id", item.ShareID).
					Str("item_id", item.ItemID).
					Int64("rotation", item.KeyRotation).
					Msg("skipping item that cannot be decrypted")
				continue
			}
			return nil, nil, fmt.Errorf("decrypt item %s: %w", item.ItemID, err)
		}
		locals = append(locals, local)
		decrypted[item.Key()] = plain
	}
	return locals, decrypted, nil
}

// reprojected rebuilds the credentials of login items whose last use time
// changed.
func (e *syncEngine) reprojected(ctx context.Context, tx store.Store, keys []models.ItemKey) ([]models.AutoFillCredential, error) {
	var items []models.LocalItem
	for _, k := range keys {
		item, err := tx.GetItem(ctx, k.ShareID, k.ItemID)
		if errors.Is(err, store.ErrItemNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return e.codec.credentials(ctx, items), nil
}

func (e *syncEngine) removeShare(ctx context.Context, shareID string) error {
	items, err := e.store.GetItems(ctx, shareID, 0)
	if err != nil {
		return fmt.Errorf("list items of removed share %s: %w", shareID, err)
	}
	if err = e.store.DeleteShare(ctx, shareID); err != nil {
		return fmt.Errorf("delete share %s: %w", shareID, err)
	}

	e.mu.Lock()
	delete(e.shares, shareID)
	e.mu.Unlock()

	e.logger.Info().
		Str("func", "syncEngine.removeShare").
		Str("share_id", shareID).
		Msg("share no longer available remotely, removed locally")

	e.publish(ctx, events.ItemsChanged{Removed: loginKeys(items)})
	return nil
}

func (e *syncEngine) publish(ctx context.Context, notify events.ItemsChanged) {
	if e.publisher == nil || notify.IsEmpty() {
		return
	}
	if err := e.publisher.Publish(ctx, notify); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "syncEngine.publish").
			Msg("items changed notification dropped")
	}
}

// ── share state machine ─────────────────────────────────────────────────────

func (e *syncEngine) state(shareID string) *shareState {
	st, ok := e.shares[shareID]
	if !ok {
		st = &shareState{state: models.ShareSyncIdle}
		e.shares[shareID] = st
	}
	return st
}

func (e *syncEngine) setState(shareID string, state models.ShareSyncState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state(shareID).state = state
}

func (e *syncEngine) inBackoff(shareID string) (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state(shareID)
	if st.state != models.ShareSyncErrored {
		return time.Time{}, false
	}
	if e.now().Before(st.nextAttempt) {
		return st.nextAttempt, true
	}
	st.state = models.ShareSyncIdle
	return time.Time{}, false
}

func (e *syncEngine) fail(shareID string) time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state(shareID)
	st.failures++
	st.state = models.ShareSyncErrored
	st.nextAttempt = e.now().Add(e.backoffDelay(st.failures))
	return st.nextAttempt
}

func (e *syncEngine) succeed(shareID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.state(shareID)
	st.failures = 0
	st.nextAttempt = time.Time{}
	st.state = models.ShareSyncIdle
}

// backoffDelay is the wait after the given number of consecutive failures.
func (e *syncEngine) backoffDelay(failures uint64) time.Duration {
	b := retry.WithCappedDuration(e.backoffMax, retry.NewExponential(e.backoffBase))

	var delay time.Duration
	for i := uint64(0); i < failures; i++ {
		d, stop := b.Next()
		if stop {
			break
		}
		delay = d
	}
	return delay
}

// ── notifications ───────────────────────────────────────────────────────────

// loginChanges turns applied upserts into projector work: the credentials
// of every touched login are replaced, trashed logins are removed.
func loginChanges(applied []models.LocalItem, decrypted map[models.ItemKey]models.DecryptedItem) events.ItemsChanged {
	var notify events.ItemsChanged
	for _, local := range applied {
		if !local.IsLogin {
			continue
		}
		notify.Removed = append(notify.Removed, local.Key())
		if local.IsTrashed() {
			continue
		}
		if item, ok := decrypted[local.Key()]; ok {
			notify.Inserted = append(notify.Inserted, models.CredentialsFromItem(item)...)
		}
	}
	return notify
}

func loginKeys(items []models.LocalItem) []models.ItemKey {
	var keys []models.ItemKey
	for _, it := range items {
		if it.IsLogin {
			keys = append(keys, it.Key())
		}
	}
	return keys
}

// withoutItems drops pending inserts of deleted items and schedules the
// removal of the deleted logins.
func withoutItems(notify events.ItemsChanged, deleted []models.LocalItem) events.ItemsChanged {
	gone := make(map[models.ItemKey]struct{}, len(deleted))
	for _, it := range deleted {
		gone[it.Key()] = struct{}{}
	}

	kept := notify.Inserted[:0]
	for _, c := range notify.Inserted {
		if _, ok := gone[c.IDs()]; !ok {
			kept = append(kept, c)
		}
	}
	notify.Inserted = kept
	notify.Removed = append(notify.Removed, loginKeys(deleted)...)
	return notify
}

func mergeNotify(a, b events.ItemsChanged) events.ItemsChanged {
	a.Inserted = append(a.Inserted, b.Inserted...)
	a.Removed = append(a.Removed, b.Removed...)
	return a
}
