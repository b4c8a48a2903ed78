// Package storage provides object storage implementations for file operations.
package storage

import (
	"context"
	"errors"
	"sync"

	contentapp "github.com/groupdiary/backend/internal/application/content"
)

// MemoryObjectStorage keeps uploaded objects in memory.
// Use this for development and tests until a real storage backend is configured.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string
}

// NewMemoryObjectStorage creates an empty in-memory object store.
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

// Ensure MemoryObjectStorage implements the content storage port
var _ contentapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// Upload stores the object under the given key, replacing any existing data.
func (s *MemoryObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[storageKey] = buf
	s.types[storageKey] = contentType
	return nil
}

// DeleteObject removes the object if present. Deleting a missing key is not an error.
func (s *MemoryObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	delete(s.types, storageKey)
	return nil
}

// ObjectExists reports whether an object is stored under the key.
func (s *MemoryObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// Object returns the stored bytes and content type for the key.
func (s *MemoryObjectStorage) Object(storageKey string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[storageKey]
	if !ok {
		return nil, "", false
	}
	return data, s.types[storageKey], true
}

// Len returns the number of stored objects.
func (s *MemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
