package ogs

import (
	"context"
	"time"

	"github.com/vytor/ninebynine/internal/logger"
	"github.com/vytor/ninebynine/internal/models"
	"github.com/vytor/ninebynine/internal/repository"
)

// CachedClient serves SGF downloads from the local cache when possible.
// Finished games never change, so a cached record never goes stale.
// Search and page requests always go to the service.
type CachedClient struct {
	ClientInterface
	store repository.SGFRepository
}

// NewCachedClient wraps next with an SGF cache. A nil store disables caching.
func NewCachedClient(next ClientInterface, store repository.SGFRepository) *CachedClient {
	return &CachedClient{ClientInterface: next, store: store}
}

// FetchSGF returns the cached record or downloads and stores it.
func (c *CachedClient) FetchSGF(ctx context.Context, gameID int64) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("ogs-cache").WithField("game_id", gameID)

	if c.store != nil {
		cached, err := c.store.Get(ctx, gameID)
		if err != nil {
			log.Warn("cache lookup failed, downloading: %v", err)
		} else if cached != nil {
			return cached.Content, nil
		}
	}

	content, err := c.ClientInterface.FetchSGF(ctx, gameID)
	if err != nil {
		return "", err
	}

	if c.store != nil {
		record := models.CachedSGF{GameID: gameID, Content: content, FetchedAt: time.Now().UTC()}
		if err := c.store.Put(ctx, record); err != nil {
			// Store failures are not fatal.
			log.Warn("failed to cache sgf: %v", err)
		}
	}
	return content, nil
}

var _ ClientInterface = (*CachedClient)(nil)
