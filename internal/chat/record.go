package chat

import (
	"context"
	"time"
)

// Record is one answered query. Records are append-only.
type Record struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the contract for the record sink. Append must be a single atomic
// write and safe for concurrent callers.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
}
