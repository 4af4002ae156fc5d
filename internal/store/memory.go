package store

import (
	"context"
	"errors"
	"sync"

	"github.com/i474232898/weather-chat/internal/chat"
)

var (
	// ErrInvalidRecord is returned when a record has no response.
	ErrInvalidRecord = errors.New("record requires a response")
)

// MemoryStore is a concurrency-safe in-memory record store.
type MemoryStore struct {
	mu      sync.RWMutex
	records []chat.Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds a record.
func (s *MemoryStore) Append(ctx context.Context, rec chat.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.Response == "" {
		return ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	return nil
}

// Recent returns up to limit records, newest first. limit <= 0 means all.
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]chat.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]chat.Record, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Maintain reports the number of stored records.
func (s *MemoryStore) Maintain(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
