package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/searchly/bff/internal/utils"
	"github.com/searchly/bff/pkg/searchly"
)

func newFavouriteFixture(t *testing.T, backend *fakeBackend) (*FavouriteService, *CatalogService, context.CancelFunc) {
	t.Helper()
	catalog, _ := newCatalogFixture(backend)
	svc := NewFavouriteService(backend, catalog)

	ctx, cancel := context.WithCancel(context.Background())
	go svc.Start(ctx)
	return svc, catalog, cancel
}

func seedCatalog(t *testing.T, catalog *CatalogService) {
	t.Helper()
	_, err := catalog.Load(context.Background(), testEmail, false)
	require.NoError(t, err)
}

func awaitResult(t *testing.T, result <-chan error) error {
	t.Helper()
	select {
	case err := <-result:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for favourite submission")
		return nil
	}
}

func catalogBackend() *fakeBackend {
	return &fakeBackend{
		recommendationsFn: func(context.Context, string) ([]searchly.ProductJSON, error) {
			return []searchly.ProductJSON{
				{Name: "Lamp", Price: "$10", URL: "u1"},
				{Name: "Chair", Price: "$20", URL: "u2"},
			}, nil
		},
	}
}

func TestToggleAppliesOptimisticallyThenConfirms(t *testing.T) {
	backend := catalogBackend()
	svc, catalog, cancel := newFavouriteFixture(t, backend)
	defer cancel()
	seedCatalog(t, catalog)

	product, result, err := svc.Toggle(context.Background(), testEmail, "u1")
	require.NoError(t, err)
	require.True(t, product.IsFavourite)

	require.NoError(t, awaitResult(t, result))

	calls := backend.recorded()
	require.Equal(t, "add_favourite", calls[len(calls)-1])
}

func TestDoubleToggleEndsUnfavouritedWithTwoOrderedCalls(t *testing.T) {
	backend := catalogBackend()
	catalog, _ := newCatalogFixture(backend)
	svc := NewFavouriteService(backend, catalog)
	seedCatalog(t, catalog)

	// Both toggles land before any submission is confirmed: the queue is
	// not draining yet.
	p1, r1, err := svc.Toggle(context.Background(), testEmail, "u1")
	require.NoError(t, err)
	require.True(t, p1.IsFavourite)

	p2, r2, err := svc.Toggle(context.Background(), testEmail, "u1")
	require.NoError(t, err)
	require.False(t, p2.IsFavourite)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Start(ctx)

	require.NoError(t, awaitResult(t, r1))
	require.NoError(t, awaitResult(t, r2))

	var favCalls []string
	for _, c := range backend.recorded() {
		if c == "add_favourite" || c == "remove_favourite" {
			favCalls = append(favCalls, c)
		}
	}
	require.Equal(t, []string{"add_favourite", "remove_favourite"}, favCalls)

	final, err := catalog.ToggleFavourite(context.Background(), testEmail, "u1")
	require.NoError(t, err)
	require.True(t, final.IsFavourite) // was unfavourited before this flip
}

func TestToggleRollsBackOnSubmissionFailure(t *testing.T) {
	backend := catalogBackend()
	backend.addFavouriteFn = func(context.Context, string, searchly.ProductJSON) ([]searchly.ProductJSON, error) {
		return nil, errors.New("backend rejected favourite")
	}
	svc, catalog, cancel := newFavouriteFixture(t, backend)
	defer cancel()
	seedCatalog(t, catalog)

	product, result, err := svc.Toggle(context.Background(), testEmail, "u1")
	require.NoError(t, err)
	require.True(t, product.IsFavourite)

	require.Error(t, awaitResult(t, result))

	// The compensating flip restored the prior state.
	view, err := catalog.Load(context.Background(), testEmail, false)
	require.NoError(t, err)
	require.False(t, view[0].IsFavourite)
}

func TestToggleWithoutIdentityFails(t *testing.T) {
	backend := catalogBackend()
	svc, _, cancel := newFavouriteFixture(t, backend)
	defer cancel()

	_, _, err := svc.Toggle(context.Background(), "", "u1")
	require.ErrorIs(t, err, utils.ErrMissingIdentity)
}

func TestListMarksEverythingFavourite(t *testing.T) {
	backend := catalogBackend()
	backend.favouritesFn = func(context.Context, string) ([]searchly.ProductJSON, error) {
		return []searchly.ProductJSON{
			{Name: "Lamp", Price: "$10", URL: "u1"},
		}, nil
	}
	svc, _, cancel := newFavouriteFixture(t, backend)
	defer cancel()

	favs, err := svc.List(context.Background(), testEmail)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.True(t, favs[0].IsFavourite)
}

func TestRemoveClearsMirrorFlag(t *testing.T) {
	backend := catalogBackend()
	backend.favouritesFn = func(context.Context, string) ([]searchly.ProductJSON, error) {
		return []searchly.ProductJSON{{Name: "Lamp", Price: "$10", URL: "u1"}}, nil
	}
	svc, catalog, cancel := newFavouriteFixture(t, backend)
	defer cancel()
	seedCatalog(t, catalog)

	_, err := svc.Remove(context.Background(), testEmail, "u1")
	require.NoError(t, err)

	view, err := catalog.Load(context.Background(), testEmail, false)
	require.NoError(t, err)
	require.False(t, view[0].IsFavourite)
}
