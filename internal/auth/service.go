package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/timekeep/internal/repository"
)

// TokenPrefix starts every issued token.
const TokenPrefix = "tk_"

// CacheTTL bounds how long a resolved token is trusted without a lookup.
// Revocations made by other processes sharing the database take effect
// within this window.
const CacheTTL = time.Minute

// Service issues, revokes and resolves API keys.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	subscribers map[int]func(Event)
	nextSub     int

	cache *resolverCache
}

// NewService creates a new auth service with an empty resolution cache.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		repo:        repo,
		logger:      logger,
		now:         time.Now,
		subscribers: make(map[int]func(Event)),
		cache:       newResolverCache(),
	}
	s.Subscribe(s.cache.handle)
	return s
}

// HashToken returns the stored form of a token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() string {
	return TokenPrefix + strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// CreateKey issues a token for tenantID. The token is only available in the
// return value.
func (s *Service) CreateKey(ctx context.Context, tenantID, description string) (string, *APIKey, error) {
	if strings.TrimSpace(tenantID) == "" {
		return "", nil, ErrInvalidInput
	}
	token := newToken()
	key := &APIKey{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		KeyHash:     HashToken(token),
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return "", nil, fmt.Errorf("creating api key: %w", err)
	}
	s.logger.Info("api key created", "tenant_id", tenantID, "key_id", key.ID)
	s.publish(Event{Type: EventKeyCreated, TenantID: tenantID, KeyID: key.ID})
	return token, key, nil
}

// ListKeys returns every key of tenantID, revoked ones included.
func (s *Service) ListKeys(ctx context.Context, tenantID string) ([]APIKey, error) {
	keys, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing api keys: %w", err)
	}
	return keys, nil
}

// RevokeKey marks a key revoked. Tokens of the key stop resolving
// immediately.
func (s *Service) RevokeKey(ctx context.Context, tenantID, keyID string) error {
	if err := s.repo.Revoke(ctx, tenantID, keyID, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("revoking api key: %w", err)
	}
	s.logger.Info("api key revoked", "tenant_id", tenantID, "key_id", keyID)
	s.publish(Event{Type: EventKeyRevoked, TenantID: tenantID, KeyID: keyID})
	return nil
}

// ResolveTenant maps a bearer token to its tenant.
func (s *Service) ResolveTenant(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthorized
	}
	hash := HashToken(token)
	now := s.now()
	if hit, ok := s.cache.get(hash, now); ok {
		return hit.tenantID, nil
	}

	key, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("resolving api key: %w", err)
	}
	if !key.Active() {
		return "", ErrUnauthorized
	}
	if err := s.repo.TouchLastUsed(ctx, key.ID, now); err != nil {
		s.logger.Warn("recording api key use failed", "key_id", key.ID, "error", err)
	}
	s.cache.put(hash, cachedKey{tenantID: key.TenantID, keyID: key.ID, expires: now.Add(CacheTTL)})
	return key.TenantID, nil
}

// Subscribe registers fn for auth events and returns a function that removes
// it. fn runs synchronously on the goroutine that made the change.
func (s *Service) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Service) publish(ev Event) {
	s.mu.Lock()
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

type cachedKey struct {
	tenantID string
	keyID    string
	expires  time.Time
}

type resolverCache struct {
	mu      sync.RWMutex
	entries map[string]cachedKey
}

func newResolverCache() *resolverCache {
	return &resolverCache{entries: make(map[string]cachedKey)}
}

func (c *resolverCache) get(hash string, now time.Time) (cachedKey, bool) {
	c.mu.RLock()
	v, ok := c.entries[hash]
	c.mu.RUnlock()
	if !ok {
		return cachedKey{}, false
	}
	if !now.Before(v.expires) {
		c.mu.Lock()
		delete(c.entries, hash)
		c.mu.Unlock()
		return cachedKey{}, false
	}
	return v, true
}

func (c *resolverCache) put(hash string, v cachedKey) {
	c.mu.Lock()
	c.entries[hash] = v
	c.mu.Unlock()
}

func (c *resolverCache) handle(ev Event) {
	if ev.Type != EventKeyRevoked {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for hash, v := range c.entries {
		if v.keyID == ev.KeyID {
			delete(c.entries, hash)
		}
	}
}
