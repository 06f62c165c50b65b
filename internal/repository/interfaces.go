package repository

import (
	"context"
	"time"

	"github.com/vytor/ninebynine/internal/models"
)

// SGFRepository handles cached SGF records.
// Get returns (nil, nil) when the game is not cached.
type SGFRepository interface {
	Get(ctx context.Context, gameID int64) (*models.CachedSGF, error)
	Put(ctx context.Context, sgf models.CachedSGF) error
	Count(ctx context.Context) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
