package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/searchly/bff/internal/models"
)

// maxTranscriptMessages caps the transcript length per user; older entries
// are trimmed, mirroring the backend's own 20-tag cap on stored interests.
const maxTranscriptMessages = 100

// TranscriptCache holds the per-user chat transcript snapshot so a
// conversation survives reconnects.
type TranscriptCache struct {
	kv KV
}

// NewTranscriptCache creates a new TranscriptCache.
func NewTranscriptCache(kv KV) *TranscriptCache {
	return &TranscriptCache{kv: kv}
}

func (c *TranscriptCache) key(email string) string {
	return fmt.Sprintf("chat:transcript:%s", email)
}

// Get returns the stored transcript for a user, empty when none exists.
func (c *TranscriptCache) Get(ctx context.Context, email string) ([]models.ChatMessage, error) {
	raw, err := c.kv.Get(ctx, c.key(email))
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var messages []models.ChatMessage
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return messages, nil
}

// Append adds messages to the stored transcript, trimming to the cap.
func (c *TranscriptCache) Append(ctx context.Context, email string, messages ...models.ChatMessage) error {
	existing, err := c.Get(ctx, email)
	if err != nil {
		return err
	}

	combined := append(existing, messages...)
	if len(combined) > maxTranscriptMessages {
		combined = combined[len(combined)-maxTranscriptMessages:]
	}

	raw, err := json.Marshal(combined)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	return c.kv.Set(ctx, c.key(email), string(raw), 0)
}

// Clear drops the transcript for a user.
func (c *TranscriptCache) Clear(ctx context.Context, email string) error {
	return c.kv.Delete(ctx, c.key(email))
}
