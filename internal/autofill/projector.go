// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package autofill

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/vaultsync/internal/events"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/models"
)

// Projector keeps an [IdentityStore] in line with the local login items.
// All operations on one projector are serialized.
type Projector struct {
	store  IdentityStore
	source CredentialSource

	mu     sync.Mutex
	logger *logger.Logger
}

// NewProjector creates a projector writing to store. source is used to
// rebuild the full credential list for stores that cannot be updated
// incrementally; it may be nil.
func NewProjector(store IdentityStore, source CredentialSource, log *logger.Logger) *Projector {
	return &Projector{store: store, source: source, logger: log}
}

// Insert projects credentials. On a store without incremental updates the
// full list is rebuilt from the source and replaces the store content.
func (p *Projector) Insert(ctx context.Context, credentials []models.AutoFillCredential) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, ok, err := p.state(ctx, "Insert")
	if err != nil || !ok {
		return err
	}

	if state.SupportsIncrementalUpdates {
		if len(credentials) == 0 {
			return nil
		}
		if err = p.store.Save(ctx, credentials); err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}
		return nil
	}

	all := credentials
	if p.source != nil {
		if all, err = p.source.ActiveCredentials(ctx); err != nil {
			return fmt.Errorf("load credentials: %w", err)
		}
	}
	if err = p.store.Replace(ctx, all); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}

// Remove drops the credentials of items. It is skipped on stores that
// cannot be updated incrementally.
func (p *Projector) Remove(ctx context.Context, items []models.ItemKey) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.remove(ctx, items)
}

func (p *Projector) remove(ctx context.Context, items []models.ItemKey) error {
	state, ok, err := p.state(ctx, "Remove")
	if err != nil || !ok || len(items) == 0 {
		return err
	}
	if !state.SupportsIncrementalUpdates {
		p.logger.Debug().
			Str("func", "Projector.Remove").
			Int("items", len(items)).
			Msg("store does not support incremental updates, removal skipped")
		return nil
	}

	if err = p.store.Remove(ctx, items); err != nil {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// InsertAll projects every credential of source. Unless forceRemoval is
// set, an incremental store that already holds credentials is left alone;
// with forceRemoval the store is emptied first.
func (p *Projector) InsertAll(ctx context.Context, source CredentialSource, forceRemoval bool) error {
	if source == nil {
		source = p.source
	}
	if source == nil {
		return ErrNoSource
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	state, ok, err := p.state(ctx, "InsertAll")
	if err != nil || !ok {
		return err
	}

	if forceRemoval {
		if err = p.store.RemoveAll(ctx); err != nil {
			return fmt.Errorf("remove all credentials: %w", err)
		}
	} else if state.SupportsIncrementalUpdates {
		n, err := p.store.Count(ctx)
		if err != nil {
			return fmt.Errorf("count credentials: %w", err)
		}
		if n > 0 {
			p.logger.Debug().
				Str("func", "Projector.InsertAll").
				Int("stored", n).
				Msg("store already populated, nothing to do")
			return nil
		}
	}

	credentials, err := source.ActiveCredentials(ctx)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	if state.SupportsIncrementalUpdates {
		err = p.store.Save(ctx, credentials)
	} else {
		err = p.store.Replace(ctx, credentials)
	}
	if err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}

	p.logger.Info().
		Str("func", "Projector.InsertAll").
		Int("credentials", len(credentials)).
		Bool("force_removal", forceRemoval).
		Msg("credential store rebuilt")
	return nil
}

// RemoveAll empties the store, e.g. on logout.
func (p *Projector) RemoveAll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok, err := p.state(ctx, "RemoveAll"); err != nil || !ok {
		return err
	}
	if err := p.store.RemoveAll(ctx); err != nil {
		return fmt.Errorf("remove all credentials: %w", err)
	}
	return nil
}

// Run applies notifications from sub until ctx is done or the subscription
// is closed. Failures are logged and never stop the loop.
func (p *Projector) Run(ctx context.Context, sub *events.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-sub.C():
			if !open {
				return
			}
			p.apply(ctx, ev)
		}
	}
}

func (p *Projector) apply(ctx context.Context, ev events.ItemsChanged) {
	if err := p.Remove(ctx, ev.Removed); err != nil {
		p.logger.Err(err).Str("func", "Projector.Run").Int("items", len(ev.Removed)).Msg("failed to remove credentials")
	}
	if len(ev.Inserted) == 0 && !p.rebuildsOnChange(ctx) {
		return
	}
	if err := p.Insert(ctx, ev.Inserted); err != nil {
		p.logger.Err(err).Str("func", "Projector.Run").Int("credentials", len(ev.Inserted)).Msg("failed to insert credentials")
	}
}

// rebuildsOnChange reports whether removals have to be applied through a
// full replace.
func (p *Projector) rebuildsOnChange(ctx context.Context) bool {
	state, err := p.store.State(ctx)
	return err == nil && state.IsEnabled && !state.SupportsIncrementalUpdates && p.source != nil
}

// state returns the store state; ok is false when the store is disabled.
func (p *Projector) state(ctx context.Context, op string) (StoreState, bool, error) {
	state, err := p.store.State(ctx)
	if err != nil {
		return StoreState{}, false, fmt.Errorf("credential store state: %w", err)
	}
	if !state.IsEnabled {
		p.logger.Debug().
			Str("func", "Projector."+op).
			Msg("credential store disabled, skipping")
		return state, false, nil
	}
	return state, true, nil
}
