// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package autofill

import (
	"context"
	"sort"
	"sync"

	"github.com/MKhiriev/vaultsync/models"
)

// identityKey addresses one record: one URL of one item.
type identityKey struct {
	item models.ItemKey
	url  string
}

func keyOf(c models.AutoFillCredential) identityKey {
	return identityKey{item: c.IDs(), url: c.URL}
}

// identitySet is the record table shared by the store implementations.
type identitySet map[identityKey]models.AutoFillCredential

func (s identitySet) save(credentials []models.AutoFillCredential) {
	for _, c := range credentials {
		s[keyOf(c)] = c
	}
}

func (s identitySet) remove(items []models.ItemKey) {
	gone := make(map[models.ItemKey]struct{}, len(items))
	for _, it := range items {
		gone[it] = struct{}{}
	}
	for k := range s {
		if _, ok := gone[k.item]; ok {
			delete(s, k)
		}
	}
}

// sorted returns the records by rank: most recently used first.
func (s identitySet) sorted() []models.AutoFillCredential {
	out := make([]models.AutoFillCredential, 0, len(s))
	for _, c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastUseTime != out[j].LastUseTime {
			return out[i].LastUseTime > out[j].LastUseTime
		}
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].URL < out[j].URL
	})
	return out
}

// MemoryIdentityStore is an in-process [IdentityStore].
type MemoryIdentityStore struct {
	mu      sync.RWMutex
	state   StoreState
	records identitySet
}

func NewMemoryIdentityStore(state StoreState) *MemoryIdentityStore {
	return &MemoryIdentityStore{state: state, records: make(identitySet)}
}

// SetState changes what the store reports, e.g. when the user disables
// autofill in the platform settings.
func (m *MemoryIdentityStore) SetState(state StoreState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

func (m *MemoryIdentityStore) State(context.Context) (StoreState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state, nil
}

func (m *MemoryIdentityStore) Save(_ context.Context, credentials []models.AutoFillCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.SupportsIncrementalUpdates {
		return ErrIncrementalWrite
	}
	m.records.save(credentials)
	return nil
}

func (m *MemoryIdentityStore) Replace(_ context.Context, credentials []models.AutoFillCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(identitySet, len(credentials))
	m.records.save(credentials)
	return nil
}

func (m *MemoryIdentityStore) Remove(_ context.Context, items []models.ItemKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.SupportsIncrementalUpdates {
		return ErrIncrementalWrite
	}
	m.records.remove(items)
	return nil
}

func (m *MemoryIdentityStore) RemoveAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(identitySet)
	return nil
}

func (m *MemoryIdentityStore) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// Credentials returns the stored records ordered by rank.
func (m *MemoryIdentityStore) Credentials() []models.AutoFillCredential {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records.sorted()
}
