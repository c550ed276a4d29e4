package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/searchly/bff/internal/models"
)

// SessionCache stores the per-user session profile written at login and an
// activity record used by the favourite sync worker to find users worth
// refreshing.
type SessionCache struct {
	kv  KV
	ttl time.Duration
}

// NewSessionCache creates a new SessionCache. ttl bounds session profile
// lifetime.
func NewSessionCache(kv KV, ttl time.Duration) *SessionCache {
	return &SessionCache{kv: kv, ttl: ttl}
}

func (c *SessionCache) profileKey(email string) string {
	return fmt.Sprintf("session:profile:%s", email)
}

const activeKey = "session:active"

// SetProfile stores the session profile for a user.
func (c *SessionCache) SetProfile(ctx context.Context, profile *models.SessionProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal session profile: %w", err)
	}
	return c.kv.Set(ctx, c.profileKey(profile.Email), string(raw), c.ttl)
}

// GetProfile returns the session profile for a user, or (nil, nil) when the
// session has expired or never existed.
func (c *SessionCache) GetProfile(ctx context.Context, email string) (*models.SessionProfile, error) {
	raw, err := c.kv.Get(ctx, c.profileKey(email))
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var profile models.SessionProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session profile: %w", err)
	}
	return &profile, nil
}

// DeleteProfile removes the session profile for a user.
func (c *SessionCache) DeleteProfile(ctx context.Context, email string) error {
	return c.kv.Delete(ctx, c.profileKey(email))
}

// TouchActive records that a user made an authenticated request just now.
func (c *SessionCache) TouchActive(ctx context.Context, email string) error {
	seen, err := c.activeMap(ctx)
	if err != nil {
		return err
	}
	seen[email] = time.Now()

	raw, err := json.Marshal(seen)
	if err != nil {
		return fmt.Errorf("failed to marshal activity map: %w", err)
	}
	return c.kv.Set(ctx, activeKey, string(raw), 0)
}

// ActiveSince returns users seen within the window, pruning older entries.
func (c *SessionCache) ActiveSince(ctx context.Context, window time.Duration) ([]string, error) {
	seen, err := c.activeMap(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-window)
	var emails []string
	for email, at := range seen {
		if at.After(cutoff) {
			emails = append(emails, email)
			continue
		}
		delete(seen, email)
	}

	if raw, err := json.Marshal(seen); err == nil {
		_ = c.kv.Set(ctx, activeKey, string(raw), 0)
	}
	return emails, nil
}

func (c *SessionCache) activeMap(ctx context.Context) (map[string]time.Time, error) {
	raw, err := c.kv.Get(ctx, activeKey)
	if errors.Is(err, ErrCacheMiss) {
		return map[string]time.Time{}, nil
	}
	if err != nil {
		return nil, err
	}

	seen := map[string]time.Time{}
	if err := json.Unmarshal([]byte(raw), &seen); err != nil {
		// A corrupt activity map only degrades worker freshness; start over.
		return map[string]time.Time{}, nil
	}
	return seen, nil
}
