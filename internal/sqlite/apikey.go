package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/timekeep/internal/auth"
	"github.com/rpggio/timekeep/internal/repository"
)

var _ auth.Repository = (*APIKeyRepository)(nil)

// APIKeyRepository implements auth.Repository for SQLite
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

const apiKeyColumns = `id, key_hash, tenant_id, description, created_at, last_used, revoked_at`

// Create stores a new key
func (r *APIKeyRepository) Create(ctx context.Context, key *auth.APIKey) error {
	_, err := r.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO api_keys (id, key_hash, tenant_id, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		key.ID, key.KeyHash, key.TenantID, key.Description, utc(key.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// GetByHash looks a key up by token hash, revoked keys included
func (r *APIKeyRepository) GetByHash(ctx context.Context, keyHash string) (*auth.APIKey, error) {
	key, err := scanAPIKey(r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = ?`, keyHash))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}
	return key, nil
}

// List returns every key of a tenant, newest first
func (r *APIKeyRepository) List(ctx context.Context, tenantID string) ([]auth.APIKey, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE tenant_id = ? ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	defer rows.Close()

	keys := []auth.APIKey{}
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan api key: %w", err)
		}
		keys = append(keys, *key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating api key rows: %w", err)
	}
	return keys, nil
}

// Revoke marks an active key revoked
func (r *APIKeyRepository) Revoke(ctx context.Context, tenantID, id string, at time.Time) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE api_keys SET revoked_at = ? WHERE id = ? AND tenant_id = ? AND revoked_at IS NULL`,
		utc(at), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// TouchLastUsed records a successful resolution
func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE api_keys SET last_used = ? WHERE id = ?`, utc(at), id)
	if err != nil {
		return fmt.Errorf("failed to update api key usage: %w", err)
	}
	return nil
}

func scanAPIKey(row rowScanner) (*auth.APIKey, error) {
	var key auth.APIKey
	var lastUsed, revokedAt sql.NullTime
	if err := row.Scan(
		&key.ID,
		&key.KeyHash,
		&key.TenantID,
		&key.Description,
		&key.CreatedAt,
		&lastUsed,
		&revokedAt,
	); err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		t := lastUsed.Time
		key.LastUsed = &t
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		key.RevokedAt = &t
	}
	return &key, nil
}
