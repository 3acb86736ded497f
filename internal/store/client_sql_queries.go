// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	clientStateTable = "client_state"

	// tokenKey is the client_state key holding the bearer credential.
	tokenKey = "token"
)

func buildGetStateQuery(key string) (string, []any, error) {
	return sq.Select("value").
		From(clientStateTable).
		Where(sq.Eq{"key": key}).
		Limit(1).
		ToSql()
}

func buildUpsertStateQuery(key, value string) (string, []any, error) {
	return sq.Insert(clientStateTable).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
}

func buildDeleteStateQuery(key string) (string, []any, error) {
	return sq.Delete(clientStateTable).
		Where(sq.Eq{"key": key}).
		ToSql()
}
