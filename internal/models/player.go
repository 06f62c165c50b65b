package models

// Player is an OGS account as returned by the omni search endpoint.
type Player struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// SearchResult is the omni search payload. Only the players section is used.
type SearchResult struct {
	Players []Player `json:"players"`
}
