// Package pipeline runs one export: resolve the player, walk their game
// history, keep the 9x9 games, let the user pick dates, download the SGF
// records and write them under <root>/<username>.
package pipeline

import (
	"context"
	"fmt"

	apperrors "github.com/vytor/ninebynine/internal/errors"
	"github.com/vytor/ninebynine/internal/export"
	"github.com/vytor/ninebynine/internal/grouping"
	"github.com/vytor/ninebynine/internal/logger"
	"github.com/vytor/ninebynine/internal/models"
	"github.com/vytor/ninebynine/internal/progress"
	"github.com/vytor/ninebynine/internal/prompt"
	"github.com/vytor/ninebynine/internal/services"
)

// Outcome says how a run ended when it did not fail.
type Outcome int

const (
	OutcomeExported Outcome = iota
	OutcomePlayerNotFound
	OutcomeNoGames
	OutcomeNothingSelected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExported:
		return "exported"
	case OutcomePlayerNotFound:
		return "player_not_found"
	case OutcomeNoGames:
		return "no_games"
	case OutcomeNothingSelected:
		return "nothing_selected"
	default:
		return "unknown"
	}
}

// Result describes a finished run.
type Result struct {
	Outcome Outcome
	Player  models.Player
	// Dates offered to and chosen by the user.
	Dates    []string
	Selected []string
	// InvalidSelection is set when the date prompt failed rather than
	// returning an empty choice.
	InvalidSelection bool
	Downloaded       int
	Exported         int
	Dir              string
}

// Message is the line printed for the user at the end of the run.
func (r *Result) Message() string {
	switch r.Outcome {
	case OutcomePlayerNotFound:
		return "Player not found."
	case OutcomeNoGames:
		return "9x9 games not found."
	case OutcomeNothingSelected:
		if r.InvalidSelection {
			return "You must select valid dates."
		}
		return "You must select some dates."
	default:
		return fmt.Sprintf("%d games was downloaded and exported.", r.Exported)
	}
}

// Sink stores downloaded records.
type Sink interface {
	Export(ctx context.Context, artifacts []models.Artifact, dir string) (int, error)
}

// Deps are the collaborators a Pipeline runs with.
type Deps struct {
	Players  services.PlayerService
	History  services.HistoryService
	SGF      services.SGFService
	Sink     Sink
	Prompter prompt.Prompter
	// Progress may be nil.
	Progress progress.Reporter
}

// Pipeline wires the export stages together.
type Pipeline struct {
	deps Deps
}

// New creates a Pipeline.
func New(deps Deps) *Pipeline {
	deps.Progress = progress.OrNop(deps.Progress)
	return &Pipeline{deps: deps}
}

// Run exports the chosen 9x9 games of the player matching name into
// root/username. Empty outcomes are reported through the Result with a nil
// error; search, selection and directory failures, including a username
// that is not a safe directory name, are returned as errors.
func (p *Pipeline) Run(ctx context.Context, name, root string) (*Result, error) {
	log := logger.FromContext(ctx).WithPrefix("pipeline")

	player, err := p.deps.Players.Resolve(ctx, name)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNoMatch) {
			return &Result{Outcome: OutcomePlayerNotFound}, nil
		}
		return nil, err
	}
	dir, err := export.PlayerDir(root, player.Username)
	if err != nil {
		return nil, err
	}
	res := &Result{Player: player, Dir: dir}
	log = log.WithFields(map[string]any{"player_id": player.ID, "username": player.Username})

	games, err := p.deps.History.FetchAll(ctx, player.ID, p.deps.Progress)
	if err != nil {
		return nil, err
	}

	groups, found := grouping.FilterAndGroup(games)
	if !found {
		log.Info("no 9x9 games among %d", len(games))
		res.Outcome = OutcomeNoGames
		return res, nil
	}
	res.Dates = grouping.Dates(groups)

	selected, err := p.deps.Prompter.SelectMany(ctx, "Select dates", res.Dates)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("date selection failed: %v", err)
		res.Outcome = OutcomeNothingSelected
		res.InvalidSelection = true
		return res, nil
	}
	if len(selected) == 0 {
		res.Outcome = OutcomeNothingSelected
		return res, nil
	}
	res.Selected = selected

	chosen := grouping.Select(groups, selected)
	log.Info("%d games on %d selected dates", len(chosen), len(selected))

	artifacts := p.deps.SGF.FetchAll(ctx, chosen, p.deps.Progress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Downloaded = len(artifacts)

	res.Exported, err = p.deps.Sink.Export(ctx, artifacts, res.Dir)
	if err != nil {
		return nil, err
	}
	res.Outcome = OutcomeExported
	return res, nil
}
