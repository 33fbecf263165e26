// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package autofill_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/vaultsync/internal/autofill"
	"github.com/MKhiriev/vaultsync/internal/events"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/internal/mock"
	"github.com/MKhiriev/vaultsync/models"
)

var (
	incremental = autofill.StoreState{IsEnabled: true, SupportsIncrementalUpdates: true}
	replaceOnly = autofill.StoreState{IsEnabled: true}
)

func cred(itemID, url string, lastUse int64) models.AutoFillCredential {
	return models.AutoFillCredential{ShareID: "s1", ItemID: itemID, Username: "user-" + itemID, URL: url, LastUseTime: lastUse}
}

func key(itemID string) models.ItemKey {
	return models.ItemKey{ShareID: "s1", ItemID: itemID}
}

// fakeSource is a mutable set of active logins.
type fakeSource struct {
	mu    sync.Mutex
	creds map[models.ItemKey][]models.AutoFillCredential
}

func newFakeSource() *fakeSource {
	return &fakeSource{creds: make(map[models.ItemKey][]models.AutoFillCredential)}
}

func (s *fakeSource) set(k models.ItemKey, creds ...models.AutoFillCredential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[k] = creds
}

func (s *fakeSource) drop(k models.ItemKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, k)
}

func (s *fakeSource) ActiveCredentials(context.Context) ([]models.AutoFillCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AutoFillCredential
	for _, c := range s.creds {
		out = append(out, c...)
	}
	return out, nil
}

// ── Insert / Remove ─────────────────────────────────────────────────────────

func TestProjector_InsertIsIdempotentAndUpdatesRank(t *testing.T) {
	store := autofill.NewMemoryIdentityStore(incremental)
	p := autofill.NewProjector(store, nil, logger.Nop())
	ctx := context.Background()

	require.NoError(t, p.Insert(ctx, []models.AutoFillCredential{cred("a", "https://a", 1), cred("b", "https://b", 2)}))
	require.NoError(t, p.Insert(ctx, []models.AutoFillCredential{cred("a", "https://a", 9)}))

	got := store.Credentials()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ItemID, "re-inserted credential ranks first")
	assert.Equal(t, int64(9), got[0].LastUseTime)
}

func TestProjector_RemoveDropsEveryURLOfItem(t *testing.T) {
	store := autofill.NewMemoryIdentityStore(incremental)
	p := autofill.NewProjector(store, nil, logger.Nop())
	ctx := context.Background()

	require.NoError(t, p.Insert(ctx, []models.AutoFillCredential{
		cred("a", "https://a", 1), cred("a", "https://a2", 1), cred("b", "https://b", 1),
	}))
	require.NoError(t, p.Remove(ctx, []models.ItemKey{key("a")}))

	got := store.Credentials()
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ItemID)
}

func TestProjector_DisabledStoreIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockIdentityStore(ctrl)
	store.EXPECT().State(gomock.Any()).Return(autofill.StoreState{}, nil).Times(4)

	p := autofill.NewProjector(store, nil, logger.Nop())
	ctx := context.Background()

	assert.NoError(t, p.Insert(ctx, []models.AutoFillCredential{cred("a", "https://a", 1)}))
	assert.NoError(t, p.Remove(ctx, []models.ItemKey{key("a")}))
	assert.NoError(t, p.InsertAll(ctx, newFakeSource(), true))
	assert.NoError(t, p.RemoveAll(ctx))
}

func TestProjector_ReplaceOnlyStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockIdentityStore(ctrl)
	source := mock.NewMockCredentialSource(ctrl)

	all := []models.AutoFillCredential{cred("a", "https://a", 1), cred("b", "https://b", 1)}
	store.EXPECT().State(gomock.Any()).Return(replaceOnly, nil).AnyTimes()
	source.EXPECT().ActiveCredentials(gomock.Any()).Return(all, nil)
	store.EXPECT().Replace(gomock.Any(), all).Return(nil)

	p := autofill.NewProjector(store, source, logger.Nop())
	ctx := context.Background()

	// Insert rebuilds from the source, Remove is skipped
	require.NoError(t, p.Insert(ctx, []models.AutoFillCredential{cred("b", "https://b", 1)}))
	require.NoError(t, p.Remove(ctx, []models.ItemKey{key("a")}))
}

func TestProjector_StateError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockIdentityStore(ctrl)
	boom := errors.New("store unavailable")
	store.EXPECT().State(gomock.Any()).Return(autofill.StoreState{}, boom)

	p := autofill.NewProjector(store, nil, logger.Nop())
	err := p.Insert(context.Background(), []models.AutoFillCredential{cred("a", "https://a", 1)})
	require.ErrorIs(t, err, boom)
}

// ── InsertAll ───────────────────────────────────────────────────────────────

func TestProjector_InsertAllSkipsPopulatedIncrementalStore(t *testing.T) {
	store := autofill.NewMemoryIdentityStore(incremental)
	source := newFakeSource()
	source.set(key("a"), cred("a", "https://a", 1))
	p := autofill.NewProjector(store, source, logger.Nop())
	ctx := context.Background()

	require.NoError(t, p.InsertAll(ctx, nil, false))
	require.Len(t, store.Credentials(), 1)

	source.set(key("b"), cred("b", "https://b", 1))
	require.NoError(t, p.InsertAll(ctx, nil, false))
	assert.Len(t, store.Credentials(), 1, "populated store is left alone without forceRemoval")

	require.NoError(t, p.InsertAll(ctx, nil, true))
	assert.Len(t, store.Credentials(), 2)
}

func TestProjector_InsertAllReplaceOnlyIsStable(t *testing.T) {
	store := autofill.NewMemoryIdentityStore(replaceOnly)
	source := newFakeSource()
	source.set(key("a"), cred("a", "https://a", 3))
	source.set(key("b"), cred("b", "https://b", 1), cred("b", "https://b.example", 1))
	p := autofill.NewProjector(store, source, logger.Nop())
	ctx := context.Background()

	require.NoError(t, p.InsertAll(ctx, nil, true))
	before := store.Credentials()
	require.Len(t, before, 3)

	require.NoError(t, p.InsertAll(ctx, nil, false))
	assert.ElementsMatch(t, before, store.Credentials())
}

func TestProjector_InsertAllForceRemovalDropsStale(t *testing.T) {
	store := autofill.NewMemoryIdentityStore(incremental)
	p := autofill.NewProjector(store, nil, logger.Nop())
	ctx := context.Background()

	require.NoError(t, p.Insert(ctx, []models.AutoFillCredential{cred("stale", "https://old", 1)}))

	source := newFakeSource()
	source.set(key("a"), cred("a", "https://a", 1))
	require.NoError(t, p.InsertAll(ctx, source, true))

	got := store.Credentials()
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ItemID)
}

func TestProjector_InsertAllWithoutSource(t *testing.T) {
	p := autofill.NewProjector(autofill.NewMemoryIdentityStore(incremental), nil, logger.Nop())
	require.ErrorIs(t, p.InsertAll(context.Background(), nil, false), autofill.ErrNoSource)
}

func TestProjector_RemoveAll(t *testing.T) {
	store := autofill.NewMemoryIdentityStore(incremental)
	p := autofill.NewProjector(store, nil, logger.Nop())
	ctx := context.Background()

	require.NoError(t, p.Insert(ctx, []models.AutoFillCredential{cred("a", "https://a", 1)}))
	require.NoError(t, p.RemoveAll(ctx))
	assert.Empty(t, store.Credentials())
}

// ── Run ─────────────────────────────────────────────────────────────────────

func TestProjector_RunAppliesNotifications(t *testing.T) {
	store := autofill.NewMemoryIdentityStore(incremental)
	p := autofill.NewProjector(store, nil, logger.Nop())
	bus := events.NewBus(0)
	sub := bus.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx, sub)
		close(done)
	}()

	require.NoError(t, bus.Publish(ctx, events.ItemsChanged{Inserted: []models.AutoFillCredential{cred("a", "https://a", 1)}}))
	require.NoError(t, bus.Publish(ctx, events.ItemsChanged{
		Removed:  []models.ItemKey{key("a")},
		Inserted: []models.AutoFillCredential{cred("a", "https://a-new", 2)},
	}))

	require.Eventually(t, func() bool {
		got := store.Credentials()
		return len(got) == 1 && got[0].URL == "https://a-new"
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestProjector_RunStopsWhenSubscriptionCloses(t *testing.T) {
	p := autofill.NewProjector(autofill.NewMemoryIdentityStore(incremental), nil, logger.Nop())
	sub := events.NewBus(0).Subscribe()

	done := make(chan struct{})
	go func() {
		p.Run(context.Background(), sub)
		close(done)
	}()
	sub.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the subscription closed")
	}
}

// Whatever the order of changes, a store fed by notifications ends up
// holding exactly the credentials of the active logins.
func TestProjector_Convergence(t *testing.T) {
	for _, state := range []autofill.StoreState{incremental, replaceOnly} {
		t.Run(fmt.Sprintf("incremental=%v", state.SupportsIncrementalUpdates), func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			store := autofill.NewMemoryIdentityStore(state)
			source := newFakeSource()
			p := autofill.NewProjector(store, source, logger.Nop())
			bus := events.NewBus(0)
			sub := bus.Subscribe()
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			done := make(chan struct{})
			go func() {
				p.Run(ctx, sub)
				close(done)
			}()

			for step := 0; step < 200; step++ {
				id := fmt.Sprintf("i%d", rng.Intn(10))
				var ev events.ItemsChanged
				if rng.Intn(3) == 0 {
					source.drop(key(id))
					ev.Removed = []models.ItemKey{key(id)}
				} else {
					c := cred(id, fmt.Sprintf("https://%s/%d", id, rng.Intn(2)), int64(step))
					source.set(key(id), c)
					ev.Removed = []models.ItemKey{key(id)}
					ev.Inserted = []models.AutoFillCredential{c}
				}
				require.NoError(t, bus.Publish(ctx, ev))
			}
			sub.Close()
			<-done

			want, _ := source.ActiveCredentials(ctx)
			assert.ElementsMatch(t, want, store.Credentials())
		})
	}
}

func TestProjector_StoreDisabledThenReenabled(t *testing.T) {
	store := autofill.NewMemoryIdentityStore(incremental)
	source := newFakeSource()
	p := autofill.NewProjector(store, source, logger.Nop())
	ctx := context.Background()

	store.SetState(autofill.StoreState{})
	c := cred("a", "https://a", 1)
	source.set(key("a"), c)
	require.NoError(t, p.Insert(ctx, []models.AutoFillCredential{c}))
	assert.Empty(t, store.Credentials(), "disabled store is left untouched")

	store.SetState(incremental)
	require.NoError(t, p.InsertAll(ctx, nil, true))
	assert.Equal(t, []models.AutoFillCredential{c}, store.Credentials())
}
