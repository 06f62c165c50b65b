package models

import "time"

// DateLayout is the fixed-width key format used for grouping games by day.
const DateLayout = "2006-01-02"

type GameSummary struct {
	ID    int64     `json:"id"`
	Width int       `json:"width"`
	Ended time.Time `json:"ended"`
}

// Finished reports whether the game has an end time. Games still in
// progress are listed with "ended": null, which decodes to the zero time.
func (g GameSummary) Finished() bool {
	return !g.Ended.IsZero()
}

// Day returns the UTC calendar date the game ended on.
func (g GameSummary) Day() string {
	return g.Ended.UTC().Format(DateLayout)
}

// Page is one response of the paginated games endpoint.
type Page struct {
	Count    float64       `json:"count"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  []GameSummary `json:"results"`
}

// HasNext reports whether the service advertised a following page.
func (p *Page) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

type DateGroup struct {
	Date  string        `json:"date"`
	Games []GameSummary `json:"games"`
}
