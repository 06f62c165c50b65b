// Package grouping turns a player's raw game history into the per-day
// groups offered for export.
package grouping

import (
	"sort"

	"github.com/vytor/ninebynine/internal/models"
)

// BoardWidth is the only board size exported.
const BoardWidth = 9

// IsNineByNine reports whether a game was played on the target board.
func IsNineByNine(g models.GameSummary) bool {
	return g.Width == BoardWidth
}

// Filter keeps the finished 9x9 games in input order.
func Filter(games []models.GameSummary) []models.GameSummary {
	var out []models.GameSummary
	for _, g := range games {
		if IsNineByNine(g) && g.Finished() {
			out = append(out, g)
		}
	}
	return out
}

// FilterAndGroup keeps the finished 9x9 games and groups them by the UTC
// day they ended on. Games are gathered by key across the whole input, so
// the input does not need to be sorted. Groups are ordered by their date string and
// members keep their input order. found is false when no game survives the
// filter.
func FilterAndGroup(games []models.GameSummary) (groups []models.DateGroup, found bool) {
	byDay := make(map[string][]models.GameSummary)
	for _, g := range Filter(games) {
		day := g.Day()
		byDay[day] = append(byDay[day], g)
	}
	if len(byDay) == 0 {
		return nil, false
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	// Lexicographic order equals chronological order for the fixed-width layout.
	sort.Strings(days)

	groups = make([]models.DateGroup, 0, len(days))
	for _, day := range days {
		groups = append(groups, models.DateGroup{Date: day, Games: byDay[day]})
	}
	return groups, true
}

// Dates returns the group labels in group order.
func Dates(groups []models.DateGroup) []string {
	dates := make([]string, 0, len(groups))
	for _, g := range groups {
		dates = append(dates, g.Date)
	}
	return dates
}

// Select returns the members of the groups whose date is in dates, in
// group order. Unknown dates are ignored.
func Select(groups []models.DateGroup, dates []string) []models.GameSummary {
	want := make(map[string]bool, len(dates))
	for _, d := range dates {
		want[d] = true
	}

	var out []models.GameSummary
	for _, g := range groups {
		if want[g.Date] {
			out = append(out, g.Games...)
		}
	}
	return out
}
