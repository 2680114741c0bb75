package auth

import "time"

// APIKey is a stored credential. Only the hash of the token is kept.
type APIKey struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	KeyHash     string     `json:"-"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsed    *time.Time `json:"last_used,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// Active reports whether the key has not been revoked.
func (k APIKey) Active() bool {
	return k.RevokedAt == nil
}

// EventType names an auth state change.
type EventType string

const (
	EventKeyCreated EventType = "key_created"
	EventKeyRevoked EventType = "key_revoked"
)

// Event is delivered to subscribers after the change has been persisted.
type Event struct {
	Type     EventType
	TenantID string
	KeyID    string
}
