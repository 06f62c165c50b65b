package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/ninebynine/internal/logger"
	"github.com/vytor/ninebynine/internal/models"
	"github.com/vytor/ninebynine/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type sgfRepository struct {
	db *sql.DB
}

// NewSGFRepository creates a new SGFRepository implementation
func NewSGFRepository(db *sql.DB) repository.SGFRepository {
	return &sgfRepository{db: db}
}

func (r *sgfRepository) Get(ctx context.Context, gameID int64) (*models.CachedSGF, error) {
	log := logger.FromContext(ctx).WithPrefix("sgf_repo")

	query, args, err := sqlBuilder.
		Select("game_id", "content", "fetched_at").
		From("sgf_cache").
		Where(squirrel.Eq{"game_id": gameID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var s models.CachedSGF
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&s.GameID, &s.Content, &s.FetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("cache miss: game_id=%d", gameID)
			return nil, nil
		}
		log.Error("failed to read cached sgf: %v", err)
		return nil, err
	}
	log.Debug("cache hit: game_id=%d", gameID)
	return &s, nil
}

func (r *sgfRepository) Put(ctx context.Context, sgf models.CachedSGF) error {
	log := logger.FromContext(ctx).WithPrefix("sgf_repo")

	fetchedAt := sgf.FetchedAt.UTC()
	if sgf.FetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	query, args, err := sqlBuilder.
		Insert("sgf_cache").
		Columns("game_id", "content", "fetched_at").
		Values(sgf.GameID, sgf.Content, fetchedAt).
		Suffix("ON CONFLICT(game_id) DO UPDATE SET content = excluded.content, fetched_at = excluded.fetched_at").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to store sgf: game_id=%d: %v", sgf.GameID, err)
		return err
	}
	log.Debug("stored sgf: game_id=%d", sgf.GameID)
	return nil
}

func (r *sgfRepository) Count(ctx context.Context) (int, error) {
	query, args, err := sqlBuilder.Select("COUNT(*)").From("sgf_cache").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *sgfRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("sgf_repo")

	query, args, err := sqlBuilder.
		Delete("sgf_cache").
		Where(squirrel.Lt{"fetched_at": cutoff.UTC()}).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to prune sgf cache: %v", err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	log.Info("pruned %d cached sgf records", n)
	return n, nil
}
