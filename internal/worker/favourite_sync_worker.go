package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/searchly/bff/internal/cache"
	"github.com/searchly/bff/internal/service"
)

// activityWindow bounds how far back a user's last request may be for the
// worker to still refresh their favourite mirror.
const activityWindow = 30 * time.Minute

// FavouriteSyncWorker periodically re-fetches the authoritative favourite
// set for recently active users and re-merges it into their catalog
// snapshots. The local favourite flags are a best-effort mirror; this keeps
// them from drifting when favourites change through other devices.
type FavouriteSyncWorker struct {
	backend  service.Backend
	catalog  *service.CatalogService
	sessions *cache.SessionCache
	interval time.Duration
}

// NewFavouriteSyncWorker constructs a FavouriteSyncWorker.
func NewFavouriteSyncWorker(backend service.Backend, catalog *service.CatalogService, sessions *cache.SessionCache, interval time.Duration) *FavouriteSyncWorker {
	return &FavouriteSyncWorker{
		backend:  backend,
		catalog:  catalog,
		sessions: sessions,
		interval: interval,
	}
}

// Start begins the periodic sync loop and listens for context cancellation.
func (w *FavouriteSyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting favourite sync worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Favourite sync worker stopped")
			return
		}
	}
}

func (w *FavouriteSyncWorker) run(ctx context.Context) {
	emails, err := w.sessions.ActiveSince(ctx, activityWindow)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list active users")
		return
	}
	if len(emails) == 0 {
		return
	}

	start := time.Now()
	refreshed := 0
	for _, email := range emails {
		favs, err := w.backend.GetFavourites(ctx, email)
		if err != nil {
			log.Warn().Err(err).Str("email", email).Msg("Favourite refresh failed")
			continue
		}

		urls := make(map[string]bool, len(favs))
		for _, f := range favs {
			urls[f.URL] = true
		}

		if err := w.catalog.MergeSnapshotFavourites(ctx, email, urls); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("Favourite merge failed")
			continue
		}
		refreshed++
	}

	log.Info().
		Int("users", len(emails)).
		Int("refreshed", refreshed).
		Dur("duration", time.Since(start)).
		Msg("Favourite sync completed")
}
