package services

import (
	"context"

	apperrors "github.com/vytor/ninebynine/internal/errors"
	"github.com/vytor/ninebynine/internal/logger"
	"github.com/vytor/ninebynine/internal/models"
	"github.com/vytor/ninebynine/internal/ogs"
	"github.com/vytor/ninebynine/internal/prompt"
)

// PlayerService resolves a free-text name to a single OGS player
type PlayerService interface {
	Resolve(ctx context.Context, query string) (models.Player, error)
}

type playerService struct {
	client   ogs.ClientInterface
	prompter prompt.Prompter
}

// NewPlayerService creates a new PlayerService
func NewPlayerService(client ogs.ClientInterface, prompter prompt.Prompter) PlayerService {
	return &playerService{client: client, prompter: prompter}
}

// Resolve searches once. A single match is taken as is, several matches
// are disambiguated through the prompter.
func (s *playerService) Resolve(ctx context.Context, query string) (models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player").WithField("query", query)

	players, err := s.client.SearchPlayers(ctx, query)
	if err != nil {
		log.Error("player search failed: %v", err)
		return models.Player{}, apperrors.NewUpstreamError("player search", err)
	}

	switch len(players) {
	case 0:
		log.Info("no player found")
		return models.Player{}, apperrors.NewNoMatchError(query)
	case 1:
		log.Info("resolved player id=%d username=%s", players[0].ID, players[0].Username)
		return players[0], nil
	}

	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Username)
	}

	log.Debug("%d players match, asking user", len(players))
	choice, err := s.prompter.SelectOne(ctx, "Select player name", names)
	if err != nil {
		return models.Player{}, apperrors.NewSelectionError("no player selected", err)
	}

	for _, p := range players {
		if p.Username == choice {
			log.Info("selected player id=%d username=%s", p.ID, p.Username)
			return p, nil
		}
	}
	return models.Player{}, apperrors.NewSelectionError("selected name matches no candidate: "+choice, nil)
}
