package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/searchly/bff/internal/cache"
	"github.com/searchly/bff/internal/models"
	"github.com/searchly/bff/internal/utils"
	"github.com/searchly/bff/pkg/searchly"
)

func newChatFixture(backend *fakeBackend) *ChatService {
	return NewChatService(backend, cache.NewTranscriptCache(newMemKV()))
}

func TestAskAppendsBothSidesToTranscript(t *testing.T) {
	backend := &fakeBackend{
		recommendFn: func(_ context.Context, _, query string, fromDB bool) (*searchly.RecommendResponse, error) {
			require.True(t, fromDB)
			return &searchly.RecommendResponse{
				Message:     "Here are some ideas",
				ProductTags: []string{"Dog Toys"},
				SearchResults: map[string]searchly.ProductJSON{
					"Dog Toys": {Name: "Rope Toy", Price: "$8", URL: "u1"},
				},
			}, nil
		},
	}
	svc := newChatFixture(backend)

	rec, err := svc.Ask(context.Background(), testEmail, "gift for my dog", true)
	require.NoError(t, err)
	require.Equal(t, []string{"Dog Toys"}, rec.ProductTags)
	require.Equal(t, "Rope Toy", rec.Results["Dog Toys"].Name)

	history, err := svc.History(context.Background(), testEmail)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, models.ChatRoleUser, history[0].Role)
	require.Equal(t, "gift for my dog", history[0].Content)
	require.Equal(t, models.ChatRoleAssistant, history[1].Role)
	require.Equal(t, "Here are some ideas", history[1].Content)
}

func TestAskRejectsEmptyQueryAndMissingIdentity(t *testing.T) {
	svc := newChatFixture(&fakeBackend{})

	_, err := svc.Ask(context.Background(), "", "query", true)
	require.ErrorIs(t, err, utils.ErrMissingIdentity)

	_, err = svc.Ask(context.Background(), testEmail, "   ", true)
	require.ErrorIs(t, err, utils.ErrEmptyQuery)
}

func TestClearEmptiesTranscript(t *testing.T) {
	backend := &fakeBackend{}
	svc := newChatFixture(backend)

	_, err := svc.Ask(context.Background(), testEmail, "anything", true)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), testEmail))

	history, err := svc.History(context.Background(), testEmail)
	require.NoError(t, err)
	require.Empty(t, history)
}
