package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/searchly/bff/internal/models"
	"github.com/searchly/bff/internal/utils"
	"github.com/searchly/bff/pkg/searchly"
)

// Backend is the surface of the remote Searchly backend the services depend
// on. *searchly.Client implements it; tests substitute fakes.
type Backend interface {
	Login(ctx context.Context, email, password string) (*searchly.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*searchly.AuthResponse, error)
	GetRecommendations(ctx context.Context, email string) ([]searchly.ProductJSON, error)
	GetFavourites(ctx context.Context, email string) ([]searchly.ProductJSON, error)
	AddFavourite(ctx context.Context, email string, product searchly.ProductJSON) ([]searchly.ProductJSON, error)
	RemoveFavourite(ctx context.Context, email, productURL string) ([]searchly.ProductJSON, error)
	Recommend(ctx context.Context, email, query string, fromDB bool) (*searchly.RecommendResponse, error)
}

// fromWire converts a backend product record into the domain model.
func fromWire(p searchly.ProductJSON) models.Product {
	return models.Product{
		Name:    p.Name,
		Image:   p.Image,
		Price:   p.Price,
		Rating:  p.Rating,
		Reviews: p.Reviews,
		URL:     p.URL,
	}
}

func fromWireList(in []searchly.ProductJSON) []models.Product {
	out := make([]models.Product, 0, len(in))
	for _, p := range in {
		out = append(out, fromWire(p))
	}
	return out
}

// toWire converts a domain product back into its wire form for submission.
func toWire(p models.Product) searchly.ProductJSON {
	return searchly.ProductJSON{
		Name:    p.Name,
		Image:   p.Image,
		Price:   p.Price,
		Rating:  p.Rating,
		Reviews: p.Reviews,
		URL:     p.URL,
	}
}

// mapGatewayError folds the client's failure classes into the local error
// taxonomy so handlers can match on sentinels instead of error strings.
func mapGatewayError(err error) error {
	switch {
	case errors.Is(err, searchly.ErrUnreachable):
		return fmt.Errorf("%w: %v", utils.ErrBackendUnavailable, err)
	case errors.Is(err, searchly.ErrBadResponse):
		return fmt.Errorf("%w: %v", utils.ErrMalformedResponse, err)
	default:
		return err
	}
}

// favouriteURLSet extracts the identity set from a favourites response.
func favouriteURLSet(favs []searchly.ProductJSON) map[string]bool {
	set := make(map[string]bool, len(favs))
	for _, f := range favs {
		set[f.URL] = true
	}
	return set
}
