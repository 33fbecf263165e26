// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package autofill

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/vaultsync/models"
)

var incrementalState = StoreState{IsEnabled: true, SupportsIncrementalUpdates: true}

func testCred(shareID, itemID, url string, rank int64) models.AutoFillCredential {
	return models.AutoFillCredential{ShareID: shareID, ItemID: itemID, Username: "u-" + itemID, URL: url, LastUseTime: rank}
}

func TestMemoryIdentityStore_RejectsIncrementalWrites(t *testing.T) {
	s := NewMemoryIdentityStore(StoreState{IsEnabled: true})
	ctx := context.Background()

	assert.ErrorIs(t, s.Save(ctx, []models.AutoFillCredential{testCred("s", "a", "https://a", 1)}), ErrIncrementalWrite)
	assert.ErrorIs(t, s.Remove(ctx, []models.ItemKey{{ShareID: "s", ItemID: "a"}}), ErrIncrementalWrite)

	require.NoError(t, s.Replace(ctx, []models.AutoFillCredential{testCred("s", "a", "https://a", 1)}))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryIdentityStore_ReplaceDropsPrevious(t *testing.T) {
	s := NewMemoryIdentityStore(incrementalState)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []models.AutoFillCredential{testCred("s", "a", "https://a", 1)}))
	require.NoError(t, s.Replace(ctx, []models.AutoFillCredential{testCred("s", "b", "https://b", 1)}))

	got := s.Credentials()
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ItemID)
}

func TestIdentitySet_RemoveIsScopedToShare(t *testing.T) {
	set := make(identitySet)
	set.save([]models.AutoFillCredential{
		testCred("s1", "a", "https://a", 1),
		testCred("s2", "a", "https://a", 1),
	})
	set.remove([]models.ItemKey{{ShareID: "s1", ItemID: "a"}})

	got := set.sorted()
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].ShareID)
}

func TestIdentitySet_SortedByRank(t *testing.T) {
	set := make(identitySet)
	set.save([]models.AutoFillCredential{
		testCred("s", "b", "https://b", 5),
		testCred("s", "a", "https://a2", 5),
		testCred("s", "a", "https://a1", 5),
		testCred("s", "c", "https://c", 9),
	})

	var order []string
	for _, c := range set.sorted() {
		order = append(order, c.ItemID+" "+c.URL)
	}
	assert.Equal(t, []string{"c https://c", "a https://a1", "a https://a2", "b https://b"}, order)
}

func TestFileIdentityStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autofill", "credentials.json")
	ctx := context.Background()

	s, err := OpenFileIdentityStore(path, incrementalState)
	require.NoError(t, err)
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.Save(ctx, []models.AutoFillCredential{
		testCred("s", "a", "https://a", 1),
		testCred("s", "b", "https://b", 2),
	}))
	require.NoError(t, s.Remove(ctx, []models.ItemKey{{ShareID: "s", ItemID: "a"}}))

	reopened, err := OpenFileIdentityStore(path, incrementalState)
	require.NoError(t, err)
	n, err = reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []models.AutoFillCredential{testCred("s", "b", "https://b", 2)}, reopened.records.sorted())

	require.NoError(t, reopened.RemoveAll(ctx))
	again, err := OpenFileIdentityStore(path, incrementalState)
	require.NoError(t, err)
	n, err = again.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".credentials-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp files are cleaned up")
}

func TestFileIdentityStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	s, err := OpenFileIdentityStore(path, incrementalState)
	require.NoError(t, err)
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileIdentityStore_Corrupted(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{{{"},
		{name: "bad record identifier", content: `[{"recordIdentifier":"!!","serviceIdentifier":"https://a","user":"u","rank":1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "credentials.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := OpenFileIdentityStore(path, incrementalState)
			require.ErrorIs(t, err, ErrCorruptedStore)
		})
	}
}
