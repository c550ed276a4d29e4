package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/searchly/bff/internal/models"
	"github.com/searchly/bff/internal/utils"
)

// FavouriteService coordinates optimistic favourite toggling: the local
// catalog mirror flips immediately, and the backend submission happens
// afterwards through an ordered queue. A failed submission triggers a
// compensating flip so the mirror never silently diverges.
type FavouriteService struct {
	backend     Backend
	catalog     *CatalogService
	submissions chan submission
}

// submission is one queued favourite change awaiting backend confirmation.
type submission struct {
	email   string
	product models.Product
	add     bool
	result  chan error
}

// NewFavouriteService constructs a FavouriteService. Start must be called
// before Toggle is used.
func NewFavouriteService(backend Backend, catalog *CatalogService) *FavouriteService {
	return &FavouriteService{
		backend:     backend,
		catalog:     catalog,
		submissions: make(chan submission, 64),
	}
}

// Start drains the submission queue until the context is cancelled.
// Submissions are confirmed strictly in the order Toggle was invoked.
func (s *FavouriteService) Start(ctx context.Context) {
	log.Info().Msg("Starting favourite submission queue")
	for {
		select {
		case sub := <-s.submissions:
			s.confirm(ctx, sub)
		case <-ctx.Done():
			log.Info().Msg("Favourite submission queue stopped")
			return
		}
	}
}

// Toggle flips the favourite state of the catalog product matching the url,
// queues the backend submission, and returns the optimistic product state.
// The returned channel reports the submission outcome; callers that only
// care about the optimistic state may ignore it.
func (s *FavouriteService) Toggle(ctx context.Context, email, productURL string) (*models.Product, <-chan error, error) {
	if email == "" {
		log.Warn().Msg("favourite toggle attempted without user identity")
		return nil, nil, utils.ErrMissingIdentity
	}

	toggled, err := s.catalog.ToggleFavourite(ctx, email, productURL)
	if err != nil {
		return nil, nil, err
	}

	sub := submission{
		email:   email,
		product: *toggled,
		add:     toggled.IsFavourite,
		result:  make(chan error, 1),
	}
	s.submissions <- sub
	return toggled, sub.result, nil
}

// List returns the authoritative favourite set for a user.
func (s *FavouriteService) List(ctx context.Context, email string) ([]models.Product, error) {
	if email == "" {
		log.Warn().Msg("favourites list attempted without user identity")
		return nil, utils.ErrMissingIdentity
	}

	favs, err := s.backend.GetFavourites(ctx, email)
	if err != nil {
		return nil, mapGatewayError(err)
	}

	products := fromWireList(favs)
	for i := range products {
		products[i].IsFavourite = true
	}
	return products, nil
}

// Remove deletes a favourite via the backend and clears the mirror flag.
func (s *FavouriteService) Remove(ctx context.Context, email, productURL string) ([]models.Product, error) {
	if email == "" {
		return nil, utils.ErrMissingIdentity
	}

	updated, err := s.backend.RemoveFavourite(ctx, email, productURL)
	if err != nil {
		return nil, mapGatewayError(err)
	}

	if _, err := s.catalog.SetFavourite(ctx, email, productURL, false); err != nil && !errors.Is(err, utils.ErrProductNotFound) {
		log.Warn().Err(err).Str("email", email).Msg("Failed to clear favourite flag on snapshot")
	}

	products := fromWireList(updated)
	for i := range products {
		products[i].IsFavourite = true
	}
	return products, nil
}

// confirm performs the queued backend call and rolls the mirror back when it
// fails.
func (s *FavouriteService) confirm(ctx context.Context, sub submission) {
	var err error
	if sub.add {
		_, err = s.backend.AddFavourite(ctx, sub.email, toWire(sub.product))
	} else {
		_, err = s.backend.RemoveFavourite(ctx, sub.email, sub.product.URL)
	}

	if err != nil {
		log.Warn().
			Err(err).
			Str("email", sub.email).
			Str("url", sub.product.URL).
			Bool("add", sub.add).
			Msg("Favourite submission failed, rolling back")
		if _, rbErr := s.catalog.SetFavourite(ctx, sub.email, sub.product.URL, !sub.add); rbErr != nil {
			log.Error().Err(rbErr).Str("email", sub.email).Msg("Favourite rollback failed")
		}
	}

	if err != nil {
		err = mapGatewayError(err)
	}
	sub.result <- err
	close(sub.result)
}
