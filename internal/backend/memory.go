// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]Document
	now  func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]Document),
		now:  time.Now,
	}
}

// List returns one page of a collection, newest first.
func (s *MemoryStore) List(_ context.Context, resource string, q ListQuery) ([]Document, int, error) {
	s.mu.RLock()
	docs := make([]Document, 0, len(s.data[resource]))
	for _, d := range s.data[resource] {
		docs = append(docs, clone(d))
	}
	s.mu.RUnlock()

	newest(docs)
	page, total := paginate(docs, q)
	return page, total, nil
}

// Get returns a single document.
func (s *MemoryStore) Get(_ context.Context, resource, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.data[resource][id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(d), nil
}

// Create stores doc under a fresh id.
func (s *MemoryStore) Create(_ context.Context, resource string, doc Document) (Document, error) {
	d := stamp(doc, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.data[resource]
	if !ok {
		coll = make(map[string]Document)
		s.data[resource] = coll
	}
	coll[d.ID()] = d
	return clone(d), nil
}

// Update merges patch into an existing document.
func (s *MemoryStore) Update(_ context.Context, resource, id string, patch Document) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[resource][id]
	if !ok {
		return nil, ErrNotFound
	}
	d = merge(d, patch, s.now())
	s.data[resource][id] = d
	return clone(d), nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(_ context.Context, resource, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[resource][id]; !ok {
		return ErrNotFound
	}
	delete(s.data[resource], id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
