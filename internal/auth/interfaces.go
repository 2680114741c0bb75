package auth

import (
	"context"
	"time"
)

// Repository provides persistence for API keys.
type Repository interface {
	Create(ctx context.Context, key *APIKey) error
	GetByHash(ctx context.Context, keyHash string) (*APIKey, error)
	List(ctx context.Context, tenantID string) ([]APIKey, error)
	Revoke(ctx context.Context, tenantID, id string, at time.Time) error
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}
