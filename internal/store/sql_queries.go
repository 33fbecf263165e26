// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/vaultsync/models"
)

const (
	tableShares    = "shares"
	tableShareKeys = "share_keys"
	tableItems     = "items"
	tableCursors   = "event_cursors"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var (
	shareColumns = []string{
		"share_id", "vault_id", "address_id", "target_id", "target_type", "permission",
		"owner", "content_key_rotation", "content", "expire_time", "create_time",
	}
	shareKeyColumns = []string{
		"share_id", "key_rotation", "key", "user_key_id", "create_time",
	}
	itemColumns = []string{
		"share_id", "item_id", "revision", "content_format_version", "key_rotation",
		"content", "state", "pinned", "create_time", "modify_time", "last_use_time",
		"revision_time", "symmetric_content", "is_login",
	}
)

// ── shares ──────────────────────────────────────────────────────────────────

func buildUpsertShareQuery(s models.Share) (string, []any, error) {
	return builder.Insert(tableShares).
		Columns(shareColumns...).
		Values(s.ShareID, s.VaultID, s.AddressID, s.TargetID, s.TargetType, s.Permission,
			s.Owner, s.ContentKeyRotation, s.Content, s.ExpireTime, s.CreateTime).
		Suffix(onConflictUpdate([]string{"share_id"}, shareColumns[1:])).
		ToSql()
}

func buildSelectSharesQuery(shareID string) (string, []any, error) {
	q := builder.Select(shareColumns...).From(tableShares).OrderBy("create_time", "share_id")
	if shareID != "" {
		q = q.Where(sq.Eq{"share_id": shareID})
	}
	return q.ToSql()
}

// ── share keys ──────────────────────────────────────────────────────────────

func buildInsertShareKeysQuery(keys []models.ShareKey) (string, []any, error) {
	q := builder.Insert(tableShareKeys).Options("OR IGNORE").Columns(shareKeyColumns...)
	for _, k := range keys {
		q = q.Values(k.ShareID, k.KeyRotation, k.Key, k.UserKeyID, k.CreateTime)
	}
	return q.ToSql()
}

func buildSelectShareKeysQuery(shareID string, rotation *int64) (string, []any, error) {
	where := sq.Eq{"share_id": shareID}
	if rotation != nil {
		where["key_rotation"] = *rotation
	}
	return builder.Select(shareKeyColumns...).
		From(tableShareKeys).
		Where(where).
		OrderBy("key_rotation").
		ToSql()
}

// ── items ───────────────────────────────────────────────────────────────────

// buildUpsertItemQuery inserts the item or replaces the stored row only when
// the incoming revision is strictly newer.
func buildUpsertItemQuery(item models.LocalItem) (string, []any, error) {
	return builder.Insert(tableItems).
		Columns(itemColumns...).
		Values(item.ShareID, item.ItemID, item.Revision, item.ContentFormatVersion, item.KeyRotation,
			item.Content, item.State, item.Pinned, item.CreateTime, item.ModifyTime, item.LastUseTime,
			item.RevisionTime, item.SymmetricContent, item.IsLogin).
		Suffix(onConflictUpdate([]string{"share_id", "item_id"}, itemColumns[2:]) +
			" WHERE excluded.revision > items.revision").
		ToSql()
}

// ItemFilter narrows item selects. Zero values mean "any".
type ItemFilter struct {
	ShareID   string
	ItemIDs   []string
	State     models.ItemState
	LoginOnly bool
}

func buildSelectItemsQuery(f ItemFilter) (string, []any, error) {
	q := builder.Select(itemColumns...).From(tableItems)

	if f.ShareID != "" {
		q = q.Where(sq.Eq{"share_id": f.ShareID})
	}
	if len(f.ItemIDs) > 0 {
		q = q.Where(sq.Eq{"item_id": f.ItemIDs})
	}
	if f.State != 0 {
		q = q.Where(sq.Eq{"state": f.State})
	}
	if f.LoginOnly {
		q = q.Where(sq.Eq{"is_login": true})
	}

	return q.OrderBy("share_id", "create_time", "item_id").ToSql()
}

func buildSetItemStateQuery(shareID string, rev models.ItemRevision, state models.ItemState) (string, []any, error) {
	return builder.Update(tableItems).
		Set("state", state).
		Set("revision", rev.Revision).
		Where(sq.Eq{"share_id": shareID, "item_id": rev.ItemID}).
		Where(sq.LtOrEq{"revision": rev.Revision}).
		ToSql()
}

func buildDeleteItemsQuery(shareID string, itemIDs []string) (string, []any, error) {
	q := builder.Delete(tableItems).Where(sq.Eq{"share_id": shareID})
	if itemIDs != nil {
		q = q.Where(sq.Eq{"item_id": itemIDs})
	}
	return q.ToSql()
}

func buildUpdateLastUseTimeQuery(shareID string, u models.LastUseItem) (string, []any, error) {
	return builder.Update(tableItems).
		Set("last_use_time", u.LastUseTime).
		Where(sq.Eq{"share_id": shareID, "item_id": u.ItemID}).
		Where(sq.Or{sq.Eq{"last_use_time": nil}, sq.Lt{"last_use_time": u.LastUseTime}}).
		ToSql()
}

// ── cursors ─────────────────────────────────────────────────────────────────

func buildSelectCursorQuery(shareID string) (string, []any, error) {
	return builder.Select("share_id", "last_event_id", "updated_at").
		From(tableCursors).
		Where(sq.Eq{"share_id": shareID}).
		ToSql()
}

func buildUpsertCursorQuery(c models.EventCursor) (string, []any, error) {
	return builder.Insert(tableCursors).
		Columns("share_id", "last_event_id", "updated_at").
		Values(c.ShareID, c.LastEventID, c.UpdatedAt.Unix()).
		Suffix(onConflictUpdate([]string{"share_id"}, []string{"last_event_id", "updated_at"})).
		ToSql()
}

func buildDeleteByShareQuery(table, shareID string) (string, []any, error) {
	return builder.Delete(table).Where(sq.Eq{"share_id": shareID}).ToSql()
}

func onConflictUpdate(keys, columns []string) string {
	set := make([]string, 0, len(columns))
	for _, c := range columns {
		set = append(set, c+" = excluded."+c)
	}
	return "ON CONFLICT (" + strings.Join(keys, ", ") + ") DO UPDATE SET " + strings.Join(set, ", ")
}
