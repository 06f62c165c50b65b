package models

import (
	"fmt"
	"time"
)

// SGFExtension is the file extension used for exported move records.
const SGFExtension = "sgf"

// Artifact is the SGF text downloaded for a single game.
type Artifact struct {
	GameID  int64  `json:"game_id"`
	Content string `json:"content"`
}

// FileName returns the export file name for the artifact.
func (a Artifact) FileName() string {
	return fmt.Sprintf("%d.%s", a.GameID, SGFExtension)
}

// CachedSGF is a stored SGF record in the local cache database.
type CachedSGF struct {
	GameID    int64     `json:"game_id"`
	Content   string    `json:"content"`
	FetchedAt time.Time `json:"fetched_at"`
}
