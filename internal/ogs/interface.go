package ogs

import (
	"context"

	"github.com/vytor/ninebynine/internal/models"
)

// PageRef identifies one page of a player's games list, either by number
// or by the absolute link the previous page advertised as "next".
type PageRef struct {
	PlayerID int64
	Number   int
	URL      string
}

// ClientInterface defines the OGS API operations used by the exporter.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	SearchPlayers(ctx context.Context, query string) ([]models.Player, error)
	FetchGamesPage(ctx context.Context, ref PageRef) (*models.Page, error)
	FetchSGF(ctx context.Context, gameID int64) (string, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
