package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vytor/ninebynine/internal/logger"
	"github.com/vytor/ninebynine/internal/models"
	"github.com/vytor/ninebynine/internal/ogs"
	"github.com/vytor/ninebynine/internal/progress"
	"github.com/vytor/ninebynine/internal/retry"
	"github.com/vytor/ninebynine/internal/worker"
)

// SGFService downloads the move record of each selected game
type SGFService interface {
	FetchAll(ctx context.Context, games []models.GameSummary, rep progress.Reporter) []models.Artifact
}

// SGFOptions configures SGF downloads.
type SGFOptions struct {
	Concurrency int
	Policy      retry.Policy
	// Pace is the pause each download after the first waits before its
	// request.
	Pace  retry.Pace
	Sleep retry.Sleeper
	Rand        *rand.Rand
}

type sgfService struct {
	client ogs.ClientInterface
	opts   SGFOptions
}

// NewSGFService creates a new SGFService
func NewSGFService(client ogs.ClientInterface, opts SGFOptions) SGFService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Sleep == nil {
		opts.Sleep = retry.Sleep
	}
	return &sgfService{client: client, opts: opts}
}

// sgfBatch collects results of one FetchAll call. Each job owns one slot,
// so the output keeps the input order whatever the completion order.
type sgfBatch struct {
	mu    sync.Mutex
	tick  int
	slots []*models.Artifact
	rep   progress.Reporter
}

func (b *sgfBatch) report(done bool, status string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if done {
		b.tick++
	}
	b.rep.Report(b.tick, status)
}

type sgfJob struct {
	svc   *sgfService
	batch *sgfBatch
	index int
	game  models.GameSummary
	rng   *rand.Rand
}

func (j *sgfJob) Name() string {
	return fmt.Sprintf("sgf-%d", j.game.ID)
}

func (j *sgfJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("game_id", j.game.ID)
	if j.index > 0 {
		if err := j.svc.opts.Pace.Wait(ctx, j.svc.opts.Sleep, j.rng); err != nil {
			return err
		}
	}
	state := retry.NewState(j.svc.opts.Policy, j.rng)

	var content string
	err := retry.Do(ctx, state, j.svc.opts.Sleep,
		func(ctx context.Context) error {
			sgf, err := j.svc.client.FetchSGF(ctx, j.game.ID)
			if err != nil {
				return err
			}
			content = sgf
			return nil
		},
		func(attempt int, err error, wait time.Duration) {
			if j.svc.opts.Policy.Allows(attempt) {
				log.Warn("attempt %d failed, retrying in %v: %v", attempt, wait, err)
				j.batch.report(false, fmt.Sprintf("Game %d failed. Retry in %s...", j.game.ID, wait.Round(time.Second)))
				return
			}
			log.Warn("skipping game after %d attempts: %v", attempt, err)
			j.batch.report(true, fmt.Sprintf("Game %d failed. Skip game...", j.game.ID))
		},
	)
	if err != nil {
		return err
	}

	j.batch.slots[j.index] = &models.Artifact{GameID: j.game.ID, Content: content}
	j.batch.report(true, fmt.Sprintf("Downloaded game %d", j.game.ID))
	return nil
}

// FetchAll downloads every game's SGF. Games whose download fails are
// left out; the result keeps the input order.
func (s *sgfService) FetchAll(ctx context.Context, games []models.GameSummary, rep progress.Reporter) []models.Artifact {
	log := logger.FromContext(ctx).WithPrefix("sgf")
	batch := &sgfBatch{
		slots: make([]*models.Artifact, len(games)),
		rep:   progress.OrNop(rep),
	}

	batch.rep.Start(len(games), "Downloading SGF files")
	defer batch.rep.Finish()

	if len(games) == 0 {
		return []models.Artifact{}
	}

	workers := min(s.opts.Concurrency, len(games))
	pool := worker.NewPool(workers, len(games))
	pool.Start(logger.NewContext(ctx, log))

	for i, g := range games {
		job := &sgfJob{svc: s, batch: batch, index: i, game: g, rng: s.jobRand()}
		if err := pool.Submit(ctx, job); err != nil {
			log.Warn("could not queue game %d: %v", g.ID, err)
			break
		}
	}
	if ctx.Err() != nil {
		pool.Stop()
	} else {
		pool.Close()
	}

	artifacts := make([]models.Artifact, 0, len(games))
	for _, a := range batch.slots {
		if a != nil {
			artifacts = append(artifacts, *a)
		}
	}
	log.Info("downloaded %d of %d games", len(artifacts), len(games))
	return artifacts
}

// jobRand derives a per-job source; *rand.Rand is not safe for concurrent use.
func (s *sgfService) jobRand() *rand.Rand {
	if s.opts.Rand == nil {
		return nil
	}
	return rand.New(rand.NewPCG(s.opts.Rand.Uint64(), s.opts.Rand.Uint64()))
}
