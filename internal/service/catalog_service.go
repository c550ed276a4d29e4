package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/searchly/bff/internal/cache"
	"github.com/searchly/bff/internal/models"
	"github.com/searchly/bff/internal/utils"
)

// CatalogService owns the per-user working product list: it loads
// recommendations from the backend, deduplicates them, merges favourite
// status, and keeps the result as a session-scoped snapshot. The snapshot is
// invalidated only by a forced refresh, never by age.
type CatalogService struct {
	backend   Backend
	snapshots *cache.SnapshotCache

	// generations guards against a slow load overwriting the result of a
	// newer one: each Load takes the next generation for its user, and only
	// the holder of the latest generation may publish.
	mu          sync.Mutex
	generations map[string]uint64

	// userLocks serializes every snapshot read-modify-write per user. The
	// generation check and the publish must sit in the same critical
	// section, and favourite flips must not interleave with each other or
	// with the sync worker's merge.
	userLocks map[string]*sync.Mutex
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(backend Backend, snapshots *cache.SnapshotCache) *CatalogService {
	return &CatalogService{
		backend:     backend,
		snapshots:   snapshots,
		generations: make(map[string]uint64),
		userLocks:   make(map[string]*sync.Mutex),
	}
}

// Load returns the user's catalog. A cached snapshot satisfies the call
// unless forceRefresh is set, in which case the snapshot is dropped and the
// backend is consulted. A failed load yields an empty catalog and the error,
// never a stale snapshot.
func (s *CatalogService) Load(ctx context.Context, email string, forceRefresh bool) ([]models.Product, error) {
	if email == "" {
		log.Warn().Msg("catalog load attempted without user identity")
		return nil, utils.ErrMissingIdentity
	}

	if forceRefresh {
		if err := s.snapshots.Invalidate(ctx, email); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("Failed to invalidate catalog snapshot")
		}
	} else {
		snapshot, ok, err := s.snapshots.Get(ctx, email)
		if err != nil {
			log.Warn().Err(err).Str("email", email).Msg("Snapshot read failed, falling back to backend")
		} else if ok {
			return snapshot, nil
		}
	}

	gen := s.nextGeneration(email)

	recs, err := s.backend.GetRecommendations(ctx, email)
	if err != nil {
		return nil, mapGatewayError(err)
	}

	favs, err := s.backend.GetFavourites(ctx, email)
	if err != nil {
		// Favourite status is a best-effort mirror; the catalog is still
		// usable without it.
		log.Warn().Err(err).Str("email", email).Msg("Favourite fetch failed, serving catalog unmerged")
		favs = nil
	}

	catalog := Dedup(fromWireList(recs))
	MergeFavouriteStatus(catalog, favouriteURLSet(favs))

	// The generation check and the publish share one critical section so a
	// stale loader can never slip its write in after a newer one published.
	lock := s.userLock(email)
	lock.Lock()
	defer lock.Unlock()

	if !s.isLatestGeneration(email, gen) {
		log.Info().Str("email", email).Uint64("generation", gen).Msg("Discarding stale catalog load")
		snapshot, ok, snapErr := s.snapshots.Get(ctx, email)
		if snapErr == nil && ok {
			return snapshot, nil
		}
		return nil, utils.ErrStaleLoad
	}

	if err := s.snapshots.Set(ctx, email, catalog); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("Failed to write catalog snapshot")
	}
	return catalog, nil
}

// SetFavourite flips the favourite flag on the snapshot product matching the
// url and returns the updated product.
func (s *CatalogService) SetFavourite(ctx context.Context, email, productURL string, favourite bool) (*models.Product, error) {
	if email == "" {
		return nil, utils.ErrMissingIdentity
	}

	lock := s.userLock(email)
	lock.Lock()
	defer lock.Unlock()

	snapshot, ok, err := s.snapshots.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.ErrProductNotFound
	}

	for i := range snapshot {
		if snapshot[i].URL != productURL {
			continue
		}
		snapshot[i].IsFavourite = favourite
		if err := s.snapshots.Set(ctx, email, snapshot); err != nil {
			return nil, err
		}
		p := snapshot[i]
		return &p, nil
	}
	return nil, utils.ErrProductNotFound
}

// ToggleFavourite flips the favourite flag on the snapshot product matching
// the url and returns the new state.
func (s *CatalogService) ToggleFavourite(ctx context.Context, email, productURL string) (*models.Product, error) {
	if email == "" {
		return nil, utils.ErrMissingIdentity
	}

	lock := s.userLock(email)
	lock.Lock()
	defer lock.Unlock()

	snapshot, ok, err := s.snapshots.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.ErrProductNotFound
	}

	for i := range snapshot {
		if snapshot[i].URL != productURL {
			continue
		}
		snapshot[i].IsFavourite = !snapshot[i].IsFavourite
		if err := s.snapshots.Set(ctx, email, snapshot); err != nil {
			return nil, err
		}
		p := snapshot[i]
		return &p, nil
	}
	return nil, utils.ErrProductNotFound
}

// MergeSnapshotFavourites re-applies an authoritative favourite set to the
// user's snapshot. Used by the sync worker to keep the mirror honest.
func (s *CatalogService) MergeSnapshotFavourites(ctx context.Context, email string, favouriteURLs map[string]bool) error {
	lock := s.userLock(email)
	lock.Lock()
	defer lock.Unlock()

	snapshot, ok, err := s.snapshots.Get(ctx, email)
	if err != nil || !ok {
		return err
	}
	MergeFavouriteStatus(snapshot, favouriteURLs)
	return s.snapshots.Set(ctx, email, snapshot)
}

// userLock returns the mutex serializing snapshot writes for a user.
func (s *CatalogService) userLock(email string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[email]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[email] = lock
	}
	return lock
}

// nextGeneration issues the next load generation for a user.
func (s *CatalogService) nextGeneration(email string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[email]++
	return s.generations[email]
}

// isLatestGeneration reports whether gen is still the newest issued load.
func (s *CatalogService) isLatestGeneration(email string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[email] == gen
}

// Dedup retains the first occurrence when two entries share an identical
// (name, price) pair. Enforced once at load time; later mutations do not
// re-dedup.
func Dedup(products []models.Product) []models.Product {
	type key struct{ name, price string }
	seen := make(map[key]bool, len(products))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		k := key{p.Name, p.Price}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

// MergeFavouriteStatus sets IsFavourite on every product whose url is in the
// favourite set, and clears it otherwise. Idempotent, order-preserving.
func MergeFavouriteStatus(products []models.Product, favouriteURLs map[string]bool) {
	for i := range products {
		products[i].IsFavourite = favouriteURLs[products[i].URL]
	}
}
