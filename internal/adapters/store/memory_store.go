package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type memoryEntry struct {
	value     string
	updatedAt time.Time
}

// MemoryStore is an in-memory implementation of the KeyValueStore interface
type MemoryStore struct {
	entries   map[string]memoryEntry
	mu        sync.RWMutex
	logger    *zap.Logger
	retention time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewMemoryStore creates a new in-memory store. A positive retention removes
// entries that have not been written for that long.
func NewMemoryStore(logger *zap.Logger, retention time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries:   make(map[string]memoryEntry),
		logger:    logger,
		retention: retention,
		stopCh:    make(chan struct{}),
	}

	if retention > 0 {
		go startCleanupTask(s, cleanupInterval(retention), s.stopCh, logger)
	}

	return s
}

// Get retrieves a stored value
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set stores a value
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{value: value, updatedAt: time.Now()}
	return nil
}

// Delete removes a key
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Cleanup removes entries older than the retention
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	if s.retention <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.retention)
	expiredCount := 0
	for key, entry := range s.entries {
		if entry.updatedAt.Before(cutoff) {
			delete(s.entries, key)
			expiredCount++
		}
	}

	s.logger.Debug("Cleaned up expired store entries", zap.Int("expired_count", expiredCount))
	return nil
}

// Stop stops the background cleanup task
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
