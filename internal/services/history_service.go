package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	apperrors "github.com/vytor/ninebynine/internal/errors"
	"github.com/vytor/ninebynine/internal/logger"
	"github.com/vytor/ninebynine/internal/models"
	"github.com/vytor/ninebynine/internal/ogs"
	"github.com/vytor/ninebynine/internal/progress"
	"github.com/vytor/ninebynine/internal/retry"
)

// Pagination modes understood by the history service.
const (
	PaginationIndex  = "index"
	PaginationCursor = "cursor"
)

// HistoryService walks a player's paginated game list
type HistoryService interface {
	FetchAll(ctx context.Context, playerID int64, rep progress.Reporter) ([]models.GameSummary, error)
}

// HistoryOptions configures page walking and retries.
type HistoryOptions struct {
	PageSize   int
	Pagination string
	// FirstPage and LastPage bound the walk; zero means the first and the
	// last page of the history.
	FirstPage int
	LastPage  int
	Policy    retry.Policy
	// Pace is the pause between consecutive page requests.
	Pace retry.Pace
	// Sleep and Rand are replaceable for tests.
	Sleep retry.Sleeper
	Rand  *rand.Rand
}

type historyService struct {
	client ogs.ClientInterface
	opts   HistoryOptions
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(client ogs.ClientInterface, opts HistoryOptions) HistoryService {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Pagination == "" {
		opts.Pagination = PaginationIndex
	}
	if opts.FirstPage <= 0 {
		opts.FirstPage = 1
	}
	if opts.Sleep == nil {
		opts.Sleep = retry.Sleep
	}
	return &historyService{client: client, opts: opts}
}

// pageWalk is the bookkeeping for one FetchAll call.
type pageWalk struct {
	pages int
	tick  int
	seen  map[int64]bool
	games []models.GameSummary
	rep   progress.Reporter
	log   *logger.Logger
}

func (w *pageWalk) merge(page *models.Page) int {
	added := 0
	for _, g := range page.Results {
		if w.seen[g.ID] {
			continue
		}
		w.seen[g.ID] = true
		w.games = append(w.games, g)
		added++
	}
	return added
}

// FetchAll returns every game of the player within the configured page
// range. Pages are requested one at a time with the configured pace between
// them; a failed page is retried after a jittered delay according to the
// policy and skipped once the policy gives up. Only a failure of the first
// page is fatal, since the page count comes from it.
func (s *historyService) FetchAll(ctx context.Context, playerID int64, rep progress.Reporter) ([]models.GameSummary, error) {
	w := &pageWalk{
		seen: make(map[int64]bool),
		rep:  progress.OrNop(rep),
		log: logger.FromContext(ctx).WithPrefix("history").WithFields(map[string]any{
			"player_id":  playerID,
			"pagination": s.opts.Pagination,
		}),
	}

	w.rep.Start(1, "Downloading game list")
	defer w.rep.Finish()

	start := s.opts.FirstPage
	first, err := s.fetchPage(ctx, w, ogs.PageRef{PlayerID: playerID, Number: start})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.NewUpstreamError(fmt.Sprintf("games page %d", start), err)
	}

	w.pages = pageCount(first.Count, s.opts.PageSize)
	last := w.pages
	if s.opts.LastPage > 0 && s.opts.LastPage < last {
		last = s.opts.LastPage
	}
	w.rep.SetTotal(max(last-start+1, 1))
	w.merge(first)
	w.log.Info("player has %v games on %d pages, walking %d..%d", first.Count, w.pages, start, last)

	followCursor := s.opts.Pagination == PaginationCursor
	prev := first
	for n := start + 1; ; n++ {
		if s.opts.LastPage > 0 && n > s.opts.LastPage {
			break
		}
		ref := ogs.PageRef{PlayerID: playerID, Number: n}
		if followCursor {
			if !prev.HasNext() {
				break
			}
			ref.URL = *prev.Next
		} else if n > last {
			break
		}

		if err := s.opts.Pace.Wait(ctx, s.opts.Sleep, s.opts.Rand); err != nil {
			return nil, err
		}
		page, err := s.fetchPage(ctx, w, ref)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			w.log.Warn("giving up on page %d: %v", n, err)
			// Without the page there is no next link; continue by number.
			followCursor = false
			continue
		}
		added := w.merge(page)
		w.log.Debug("page %d merged %d new games", n, added)
		prev = page
	}

	if w.games == nil {
		w.games = []models.GameSummary{}
	}
	w.log.Info("fetched %d games", len(w.games))
	return w.games, nil
}

// fetchPage requests one page with retries. It reports after every
// attempt and advances the tick once the page is done, fetched or skipped.
func (s *historyService) fetchPage(ctx context.Context, w *pageWalk, ref ogs.PageRef) (*models.Page, error) {
	state := retry.NewState(s.opts.Policy, s.opts.Rand)

	var page *models.Page
	err := retry.Do(ctx, state, s.opts.Sleep,
		func(ctx context.Context) error {
			p, err := s.client.FetchGamesPage(ctx, ref)
			if err != nil {
				return err
			}
			page = p
			return nil
		},
		func(attempt int, err error, wait time.Duration) {
			if s.opts.Policy.Allows(attempt) {
				w.log.Warn("page %d attempt %d failed, retrying in %v: %v", ref.Number, attempt, wait, err)
				w.rep.Report(w.tick, fmt.Sprintf("Page %d failed. Retry in %s...", ref.Number, wait.Round(time.Second)))
				return
			}
			w.tick++
			w.rep.Report(w.tick, fmt.Sprintf("Page %d failed. Skip page...", ref.Number))
		},
	)
	if err != nil {
		return nil, err
	}

	w.tick++
	w.rep.Report(w.tick, fmt.Sprintf("Downloaded page %d", ref.Number))
	return page, nil
}

func pageCount(count float64, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return int(math.Ceil(count / float64(pageSize)))
}
