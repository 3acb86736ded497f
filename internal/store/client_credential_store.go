// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
)

type sqliteCredentialStore struct {
	repo ClientStateRepository
}

// NewCredentialStore returns a [CredentialStore] that keeps the token under
// the "token" key of repo.
func NewCredentialStore(repo ClientStateRepository) CredentialStore {
	return &sqliteCredentialStore{repo: repo}
}

func (s *sqliteCredentialStore) Load(ctx context.Context) (string, error) {
	token, _, err := s.repo.Get(ctx, tokenKey)
	return token, err
}

func (s *sqliteCredentialStore) Save(ctx context.Context, token string) error {
	return s.repo.Set(ctx, tokenKey, token)
}

func (s *sqliteCredentialStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, tokenKey)
}

type memoryCredentialStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryCredentialStore returns a [CredentialStore] that lives only as
// long as the process.
func NewMemoryCredentialStore() CredentialStore {
	return &memoryCredentialStore{}
}

func (s *memoryCredentialStore) Load(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *memoryCredentialStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *memoryCredentialStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
