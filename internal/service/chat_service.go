package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/searchly/bff/internal/cache"
	"github.com/searchly/bff/internal/models"
	"github.com/searchly/bff/internal/utils"
)

// ChatService drives the conversational recommendation flow: it forwards a
// user query to the backend recommender and keeps the transcript as a
// session-scoped snapshot so conversations survive reconnects.
type ChatService struct {
	backend     Backend
	transcripts *cache.TranscriptCache
}

// NewChatService constructs a ChatService.
func NewChatService(backend Backend, transcripts *cache.TranscriptCache) *ChatService {
	return &ChatService{backend: backend, transcripts: transcripts}
}

// Ask sends a query to the recommender and appends both sides of the
// exchange to the transcript. fromDB selects the vector-store lookup over
// the live scrape; the live path is slower but surfaces fresh listings.
func (s *ChatService) Ask(ctx context.Context, email, query string, fromDB bool) (*models.ChatRecommendation, error) {
	if email == "" {
		log.Warn().Msg("chat query attempted without user identity")
		return nil, utils.ErrMissingIdentity
	}
	if strings.TrimSpace(query) == "" {
		return nil, utils.ErrEmptyQuery
	}

	resp, err := s.backend.Recommend(ctx, email, query, fromDB)
	if err != nil {
		return nil, mapGatewayError(err)
	}

	results := make(map[string]models.Product, len(resp.SearchResults))
	for tag, p := range resp.SearchResults {
		results[tag] = fromWire(p)
	}

	rec := &models.ChatRecommendation{
		Message:     resp.Message,
		ProductTags: resp.ProductTags,
		Results:     results,
	}

	now := time.Now()
	err = s.transcripts.Append(ctx, email,
		models.ChatMessage{
			Role:    models.ChatRoleUser,
			Content: query,
			SentAt:  now,
		},
		models.ChatMessage{
			Role:        models.ChatRoleAssistant,
			Content:     rec.Message,
			ProductTags: rec.ProductTags,
			Results:     rec.Results,
			SentAt:      now,
		},
	)
	if err != nil {
		// The recommendation still reached the user; a transcript gap is
		// the lesser failure.
		log.Warn().Err(err).Str("email", email).Msg("Failed to append chat transcript")
	}

	return rec, nil
}

// History returns the stored transcript for a user.
func (s *ChatService) History(ctx context.Context, email string) ([]models.ChatMessage, error) {
	if email == "" {
		return nil, utils.ErrMissingIdentity
	}
	return s.transcripts.Get(ctx, email)
}

// Clear drops the stored transcript for a user.
func (s *ChatService) Clear(ctx context.Context, email string) error {
	if email == "" {
		return utils.ErrMissingIdentity
	}
	return s.transcripts.Clear(ctx, email)
}
