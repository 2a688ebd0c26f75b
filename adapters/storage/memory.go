// Package storage - In-memory store
// Backs tests and the CLI fixture mode.
package storage

import (
	"context"
	"sync"

	"agreement-engine/core/types"
	"agreement-engine/internal/errors"
)

// MemoryStore is an in-memory Catalog and FileStore
type MemoryStore struct {
	mu        sync.RWMutex
	exhibits  []types.ExhibitRecord
	tiers     map[string]types.Tier
	files     map[string][]byte
	templates map[string][]byte
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tiers:     make(map[string]types.Tier),
		files:     make(map[string][]byte),
		templates: make(map[string][]byte),
	}
}

// PutExhibit adds an exhibit record and its document bytes
func (s *MemoryStore) PutExhibit(rec types.ExhibitRecord, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exhibits = append(s.exhibits, rec)
	if rec.ObjectKey != "" {
		s.files[rec.ObjectKey] = data
	} else {
		s.files[rec.ID] = data
	}
}

// PutTier adds a pricing tier
func (s *MemoryStore) PutTier(tier types.Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiers[types.NormalizePlanName(tier.Name)] = tier
}

// PutTemplate adds a base template
func (s *MemoryStore) PutTemplate(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[name] = data
}

// ListExhibits implements Catalog
func (s *MemoryStore) ListExhibits(ctx context.Context) ([]types.ExhibitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.ExhibitRecord, len(s.exhibits))
	copy(out, s.exhibits)
	return out, nil
}

// GetTier implements Catalog
func (s *MemoryStore) GetTier(ctx context.Context, planName string) (types.Tier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tier, ok := s.tiers[types.NormalizePlanName(planName)]
	if !ok {
		return types.Tier{}, errors.NotFound("tier", planName)
	}
	return tier, nil
}

// GetExhibitFile implements FileStore
func (s *MemoryStore) GetExhibitFile(ctx context.Context, objectKey string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[objectKey]
	if !ok {
		return nil, errors.NotFound("exhibit file", objectKey)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// GetTemplate implements FileStore
func (s *MemoryStore) GetTemplate(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.templates[name]
	if !ok {
		return nil, errors.NotFound("template", name)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
