// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package localkey

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/internal/logger"
)

// countingStorage records writes per entry name.
type countingStorage struct {
	*MemoryStorage
	mu   sync.Mutex
	sets map[string]int
}

func newCountingStorage() *countingStorage {
	return &countingStorage{MemoryStorage: NewMemoryStorage(), sets: map[string]int{}}
}

func (s *countingStorage) Set(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	s.sets[name]++
	s.mu.Unlock()
	return s.MemoryStorage.Set(ctx, name, data)
}

func (s *countingStorage) setCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets[name]
}

type countingMainKey struct {
	key   []byte
	calls atomic.Int32
	err   error
}

func (m *countingMainKey) MainKey(context.Context) ([]byte, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return clone(m.key), nil
}

func testMainKey(t *testing.T) []byte {
	t.Helper()
	k, err := crypto.GenerateKey()
	require.NoError(t, err)
	return k
}

func legacyBlob(t *testing.T, key, mainKey []byte) []byte {
	t.Helper()
	inner, err := json.Marshal(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)

	var mk [crypto.KeySize]byte
	copy(mk[:], mainKey)
	blob, err := wrap(inner, &mk)
	require.NoError(t, err)
	return blob
}

// ── GetLocalKey ─────────────────────────────────────────────────────────────

func TestGetLocalKey_GeneratesOnceAndCaches(t *testing.T) {
	storage := newCountingStorage()
	mainKey := &countingMainKey{key: testMainKey(t)}
	p := NewProvider(storage, mainKey, logger.Nop())
	ctx := context.Background()

	first, err := p.GetLocalKey(ctx)
	require.NoError(t, err)
	assert.Len(t, first, crypto.KeySize)

	second, err := p.GetLocalKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, storage.setCount(CurrentEntry))
	assert.EqualValues(t, 1, mainKey.calls.Load())
}

func TestGetLocalKey_ReturnsCopy(t *testing.T) {
	p := NewProvider(NewMemoryStorage(), StaticMainKey(testMainKey(t)), logger.Nop())

	k1, err := p.GetLocalKey(context.Background())
	require.NoError(t, err)
	orig := clone(k1)
	k1[0] ^= 0xFF

	k2, err := p.GetLocalKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, orig, k2)
}

func TestGetLocalKey_ConcurrentCallersAgree(t *testing.T) {
	storage := newCountingStorage()
	p := NewProvider(storage, StaticMainKey(testMainKey(t)), logger.Nop())

	const n = 64
	keys := make([][]byte, n)
	errs := make([]error, n)

	var start, wg sync.WaitGroup
	start.Add(1)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start.Wait()
			keys[i], errs[i] = p.GetLocalKey(context.Background())
		}(i)
	}
	start.Done()
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, keys[0], keys[i])
	}
	assert.Equal(t, 1, storage.setCount(CurrentEntry))
}

func TestGetLocalKey_SurvivesProviderRestart(t *testing.T) {
	storage := NewMemoryStorage()
	mainKey := StaticMainKey(testMainKey(t))

	k1, err := NewProvider(storage, mainKey, logger.Nop()).GetLocalKey(context.Background())
	require.NoError(t, err)

	k2, err := NewProvider(storage, mainKey, logger.Nop()).GetLocalKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestGetLocalKey_MainKeyUnavailable(t *testing.T) {
	storage := newCountingStorage()
	mainKey := &countingMainKey{err: errors.New("device locked")}
	p := NewProvider(storage, mainKey, logger.Nop())

	_, err := p.GetLocalKey(context.Background())
	require.ErrorIs(t, err, ErrMainKeyNotFound)
	assert.Zero(t, storage.setCount(CurrentEntry), "no key may be written without a main key")

	// unlocking the device lets the next call succeed
	mainKey.err = nil
	mainKey.key = testMainKey(t)
	key, err := p.GetLocalKey(context.Background())
	require.NoError(t, err)
	assert.Len(t, key, crypto.KeySize)
}

func TestGetLocalKey_WrongMainKeyDoesNotRegenerate(t *testing.T) {
	storage := newCountingStorage()
	_, err := NewProvider(storage, StaticMainKey(testMainKey(t)), logger.Nop()).
		GetLocalKey(context.Background())
	require.NoError(t, err)

	_, err = NewProvider(storage, StaticMainKey(testMainKey(t)), logger.Nop()).
		GetLocalKey(context.Background())
	require.ErrorIs(t, err, ErrCorruptedLocalKey)
	assert.Equal(t, 1, storage.setCount(CurrentEntry))
}

func TestReset_DropsCache(t *testing.T) {
	mainKey := &countingMainKey{key: testMainKey(t)}
	p := NewProvider(NewMemoryStorage(), mainKey, logger.Nop())

	k1, err := p.GetLocalKey(context.Background())
	require.NoError(t, err)
	p.Reset()

	k2, err := p.GetLocalKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, k1, k2, "reset only clears memory")
	assert.EqualValues(t, 2, mainKey.calls.Load())
}

// ── legacy migration ────────────────────────────────────────────────────────

func TestMigrateLegacyKey(t *testing.T) {
	ctx := context.Background()
	mk := testMainKey(t)
	legacyKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, LegacyEntry, legacyBlob(t, legacyKey, mk)))

	p := NewProvider(storage, StaticMainKey(mk), logger.Nop())
	require.NoError(t, p.MigrateLegacyKeyIfPresent(ctx))

	_, err = storage.Get(ctx, LegacyEntry)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := p.GetLocalKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, legacyKey, got)

	// idempotent
	require.NoError(t, p.MigrateLegacyKeyIfPresent(ctx))
}

func TestMigrateLegacyKey_ImplicitOnFirstUse(t *testing.T) {
	ctx := context.Background()
	mk := testMainKey(t)
	legacyKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, LegacyEntry, legacyBlob(t, legacyKey, mk)))

	got, err := NewProvider(storage, StaticMainKey(mk), logger.Nop()).GetLocalKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, legacyKey, got)
}

func TestMigrateLegacyKey_InterruptedMigrationKeepsCurrent(t *testing.T) {
	ctx := context.Background()
	mk := testMainKey(t)
	storage := NewMemoryStorage()

	current, err := NewProvider(storage, StaticMainKey(mk), logger.Nop()).GetLocalKey(ctx)
	require.NoError(t, err)

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, LegacyEntry, legacyBlob(t, other, mk)))

	got, err := NewProvider(storage, StaticMainKey(mk), logger.Nop()).GetLocalKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, current, got)

	_, err = storage.Get(ctx, LegacyEntry)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMigrateLegacyKey_Malformed(t *testing.T) {
	ctx := context.Background()
	mk := testMainKey(t)
	var k [crypto.KeySize]byte
	copy(k[:], mk)

	tests := []struct {
		name  string
		inner []byte
	}{
		{name: "not json", inner: []byte("raw-bytes")},
		{name: "not base64", inner: []byte(`"!!!"`)},
		{name: "short key", inner: []byte(`"` + base64.StdEncoding.EncodeToString([]byte("short")) + `"`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := wrap(tt.inner, &k)
			require.NoError(t, err)

			storage := NewMemoryStorage()
			require.NoError(t, storage.Set(ctx, LegacyEntry, blob))

			err = NewProvider(storage, StaticMainKey(mk), logger.Nop()).MigrateLegacyKeyIfPresent(ctx)
			require.ErrorIs(t, err, ErrCorruptedLocalKey)

			_, err = storage.Get(ctx, LegacyEntry)
			assert.NoError(t, err, "legacy entry must stay until migrated")
		})
	}
}

// ── Seal / Open ─────────────────────────────────────────────────────────────

func TestSealOpen(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(NewMemoryStorage(), StaticMainKey(testMainKey(t)), logger.Nop())

	blob, err := p.Seal(ctx, []byte("secret"), []byte("ad"))
	require.NoError(t, err)

	pt, err := p.Open(ctx, blob, []byte("ad"))
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pt)

	_, err = p.Open(ctx, blob, []byte("other"))
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}

// ── main key providers ──────────────────────────────────────────────────────

func TestStorageMainKeyProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("missing without provisioning", func(t *testing.T) {
		_, err := NewStorageMainKeyProvider(NewMemoryStorage(), false).MainKey(ctx)
		assert.ErrorIs(t, err, ErrMainKeyNotFound)
	})

	t.Run("provisioned once", func(t *testing.T) {
		storage := NewMemoryStorage()
		m := NewStorageMainKeyProvider(storage, true)

		k1, err := m.MainKey(ctx)
		require.NoError(t, err)
		k2, err := m.MainKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, k1, k2)

		k3, err := NewStorageMainKeyProvider(storage, false).MainKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, k1, k3)
	})

	t.Run("empty static key", func(t *testing.T) {
		_, err := StaticMainKey(nil).MainKey(ctx)
		assert.ErrorIs(t, err, ErrMainKeyNotFound)
	})
}
