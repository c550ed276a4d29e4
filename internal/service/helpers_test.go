package service

import (
	"context"
	"sync"
	"time"

	"github.com/searchly/bff/internal/cache"
	"github.com/searchly/bff/pkg/searchly"
)

// memKV is an in-memory cache.KV for tests.
type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (m *memKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memKV) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// fakeBackend implements Backend with overridable function fields and call
// recording.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	loginFn           func(ctx context.Context, email, password string) (*searchly.AuthResponse, error)
	registerFn        func(ctx context.Context, name, email, password string) (*searchly.AuthResponse, error)
	recommendationsFn func(ctx context.Context, email string) ([]searchly.ProductJSON, error)
	favouritesFn      func(ctx context.Context, email string) ([]searchly.ProductJSON, error)
	addFavouriteFn    func(ctx context.Context, email string, product searchly.ProductJSON) ([]searchly.ProductJSON, error)
	removeFavouriteFn func(ctx context.Context, email, productURL string) ([]searchly.ProductJSON, error)
	recommendFn       func(ctx context.Context, email, query string, fromDB bool) (*searchly.RecommendResponse, error)
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*searchly.AuthResponse, error) {
	f.record("login")
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return &searchly.AuthResponse{AccessToken: "tok", Name: "Test", Email: email}, nil
}

func (f *fakeBackend) Register(ctx context.Context, name, email, password string) (*searchly.AuthResponse, error) {
	f.record("register")
	if f.registerFn != nil {
		return f.registerFn(ctx, name, email, password)
	}
	return &searchly.AuthResponse{AccessToken: "tok", Name: name, Email: email}, nil
}

func (f *fakeBackend) GetRecommendations(ctx context.Context, email string) ([]searchly.ProductJSON, error) {
	f.record("get_recommendations")
	if f.recommendationsFn != nil {
		return f.recommendationsFn(ctx, email)
	}
	return nil, nil
}

func (f *fakeBackend) GetFavourites(ctx context.Context, email string) ([]searchly.ProductJSON, error) {
	f.record("get_favourites")
	if f.favouritesFn != nil {
		return f.favouritesFn(ctx, email)
	}
	return nil, nil
}

func (f *fakeBackend) AddFavourite(ctx context.Context, email string, product searchly.ProductJSON) ([]searchly.ProductJSON, error) {
	f.record("add_favourite")
	if f.addFavouriteFn != nil {
		return f.addFavouriteFn(ctx, email, product)
	}
	return []searchly.ProductJSON{product}, nil
}

func (f *fakeBackend) RemoveFavourite(ctx context.Context, email, productURL string) ([]searchly.ProductJSON, error) {
	f.record("remove_favourite")
	if f.removeFavouriteFn != nil {
		return f.removeFavouriteFn(ctx, email, productURL)
	}
	return nil, nil
}

func (f *fakeBackend) Recommend(ctx context.Context, email, query string, fromDB bool) (*searchly.RecommendResponse, error) {
	f.record("recommend")
	if f.recommendFn != nil {
		return f.recommendFn(ctx, email, query, fromDB)
	}
	return &searchly.RecommendResponse{Message: "ok"}, nil
}
