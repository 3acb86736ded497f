// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/stock-watch/internal/logger"
)

type clientStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewClientStateRepository returns the SQLite-backed [ClientStateRepository].
func NewClientStateRepository(db *DB, logger *logger.Logger) ClientStateRepository {
	return &clientStateRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *clientStateRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := buildGetStateQuery(key)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Err(err).
			Str("func", "clientStateRepository.Get").
			Str("key", key).
			Msg("failed to read client state")
		return "", false, fmt.Errorf("%w: get %s: %w", ErrScanningRow, key, err)
	}

	return value, true, nil
}

func (r *clientStateRepository) Set(ctx context.Context, key, value string) error {
	query, args, err := buildUpsertStateQuery(key, value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).
			Str("func", "clientStateRepository.Set").
			Str("key", key).
			Msg("failed to upsert client state")
		return fmt.Errorf("%w: set %s: %w", ErrExecutingStatement, key, err)
	}

	return nil
}

func (r *clientStateRepository) Delete(ctx context.Context, key string) error {
	query, args, err := buildDeleteStateQuery(key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).
			Str("func", "clientStateRepository.Delete").
			Str("key", key).
			Msg("failed to delete client state")
		return fmt.Errorf("%w: delete %s: %w", ErrExecutingStatement, key, err)
	}

	return nil
}
