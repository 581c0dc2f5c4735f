// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session keeps the chat widget's session identifier: a UUID stored
// under a namespaced key with a sliding TTL.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/cmsadmin/internal/cache"
)

// Defaults for a new Store.
const (
	DefaultTTL       = 30 * time.Minute
	DefaultNamespace = "cmsadmin:chat"
)

// Store hands out the current session identifier, regenerating it when
// the stored value is missing, expired or corrupt.
type Store struct {
	cache  cache.Cache
	key    string
	ttl    time.Duration
	logger *slog.Logger
	newID  func() uuid.UUID
}

// New creates a Store on top of c.
func New(c cache.Cache, namespace string, ttl time.Duration, logger *slog.Logger) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		cache:  c,
		key:    namespace + ":session",
		ttl:    ttl,
		logger: logger.With("component", "session"),
		newID:  uuid.New,
	}
}

// Key returns the cache key holding the identifier.
func (s *Store) Key() string {
	return s.key
}

// ID returns the current session identifier. A stored value that is not a
// UUID is treated like a missing one.
func (s *Store) ID(ctx context.Context) (string, error) {
	raw, err := s.cache.Get(ctx, s.key)
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		return s.Reset(ctx)
	case err != nil:
		return "", fmt.Errorf("reading session: %w", err)
	}

	id, err := uuid.ParseBytes(raw)
	if err != nil {
		s.logger.Debug("discarding corrupt session id", "error", err)
		return s.Reset(ctx)
	}
	return id.String(), nil
}

// Touch extends the TTL of the current identifier, creating one if needed.
func (s *Store) Touch(ctx context.Context) (string, error) {
	id, err := s.ID(ctx)
	if err != nil {
		return "", err
	}
	if err := s.cache.Expire(ctx, s.key, s.ttl); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return "", fmt.Errorf("extending session: %w", err)
	}
	return id, nil
}

// Reset stores and returns a fresh identifier.
func (s *Store) Reset(ctx context.Context) (string, error) {
	id := s.newID().String()
	if err := s.cache.Set(ctx, s.key, []byte(id), s.ttl); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	s.logger.Debug("session started", "session_id", id)
	return id, nil
}
