// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemContent_DecodesEveryVariant(t *testing.T) {
	tests := []struct {
		name string
		in   ItemContent
		kind ContentKind
	}{
		{"login", ItemContent{Name: "l", Data: LoginData{Username: "u", URLs: []string{"https://a"}}}, KindLogin},
		{"alias", ItemContent{Name: "a@alias", Data: AliasData{}}, KindAlias},
		{"note", ItemContent{Name: "n", Note: "text", Data: NoteData{}}, KindNote},
		{"card", ItemContent{Name: "c", Data: CreditCardData{Number: "4111"}}, KindCreditCard},
		{"identity", ItemContent{Name: "i", Data: IdentityData{FullName: "Alice"}}, KindIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.in)
			require.NoError(t, err)

			var got ItemContent
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, tt.kind, got.Kind())
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestItemContent_UnknownKind(t *testing.T) {
	var c ItemContent
	err := json.Unmarshal([]byte(`{"name":"x","type":"spaceship","data":{}}`), &c)
	assert.ErrorIs(t, err, ErrUnknownContentKind)
}

func TestItemContent_MarshalWithoutVariant(t *testing.T) {
	_, err := json.Marshal(ItemContent{Name: "empty"})
	require.Error(t, err)
}

func TestItemContent_LoginOnlyForLogins(t *testing.T) {
	_, ok := ItemContent{Data: NoteData{}}.Login()
	assert.False(t, ok)

	login, ok := ItemContent{Data: &LoginData{Email: "a@b.c"}}.Login()
	require.True(t, ok)
	assert.Equal(t, "a@b.c", login.AutofillUsername())
}

func TestCredentialsFromItem(t *testing.T) {
	lastUse := int64(1700)
	item := DecryptedItem{
		Item: Item{ItemID: "i1", ShareID: "s1", State: ItemStateActive, LastUseTime: &lastUse},
		Data: ItemContent{Name: "site", Data: LoginData{
			Username: "alice",
			URLs:     []string{"https://a.example", "", "https://b.example"},
		}},
	}

	creds := CredentialsFromItem(item)
	require.Len(t, creds, 2)
	assert.Equal(t, AutoFillCredential{ShareID: "s1", ItemID: "i1", Username: "alice", URL: "https://a.example", LastUseTime: 1700}, creds[0])
	assert.Equal(t, "https://b.example", creds[1].URL)

	item.State = ItemStateTrashed
	assert.Empty(t, CredentialsFromItem(item))

	note := DecryptedItem{Item: Item{ItemID: "n"}, Data: ItemContent{Data: NoteData{}}}
	assert.Empty(t, CredentialsFromItem(note))
}

func TestRecordIdentifier_RoundTrip(t *testing.T) {
	c := AutoFillCredential{ShareID: "s1", ItemID: "i1"}

	key, err := ParseRecordIdentifier(c.RecordIdentifier())
	require.NoError(t, err)
	assert.Equal(t, ItemKey{ShareID: "s1", ItemID: "i1"}, key)

	_, err = ParseRecordIdentifier("!!!")
	assert.Error(t, err)
}

func TestShare_Equal(t *testing.T) {
	r1, r2 := int64(1), int64(2)
	a := Share{ShareID: "s", ContentKeyRotation: &r1, Permission: PermissionRead}
	b := a

	assert.True(t, a.Equal(b))

	b.ContentKeyRotation = &r2
	assert.False(t, a.Equal(b))

	b.ContentKeyRotation = nil
	assert.False(t, a.Equal(b))
}

func TestShare_Permissions(t *testing.T) {
	s := Share{Permission: PermissionRead | PermissionWrite}
	assert.True(t, s.CanWrite())
	assert.True(t, s.Permission.Has(PermissionRead))
	assert.False(t, s.Permission.Has(PermissionAdmin))

	exp := int64(100)
	s.ExpireTime = &exp
	assert.True(t, s.Expired(100))
	assert.False(t, s.Expired(99))
}

func TestSyncReport(t *testing.T) {
	r := SyncReport{Shares: []ShareSyncResult{{ShareID: "a"}, {ShareID: "b", HasChanges: true}}}
	assert.True(t, r.HasChanges())
	assert.Empty(t, r.Failed())

	r = SyncReport{Shares: []ShareSyncResult{{ShareID: "a", Err: assert.AnError}}}
	assert.False(t, r.HasChanges())
	assert.Len(t, r.Failed(), 1)
}
