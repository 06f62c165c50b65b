package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/ninebynine/internal/models"
)

// FakeOGS is an in-process stand-in for the OGS REST API.
// Configure the exported fields before issuing requests.
type FakeOGS struct {
	Server *httptest.Server

	// Players is returned by every omni search.
	Players []models.Player
	// Games holds each player's full history; it is served PageSize at a time.
	Games    map[int64][]models.GameSummary
	PageSize int
	// SGF maps game id to record text; missing ids answer 404.
	SGF map[int64]string
	// PageFailures makes the given page number answer 503 that many times.
	PageFailures map[int]int
	// BrokenPages makes the given page number answer malformed JSON that many times.
	BrokenPages map[int]int
	// SGFFailures lists game ids whose SGF request answers 500.
	SGFFailures map[int64]bool
	// SearchStatus, when set, is the status every search answers with.
	SearchStatus int

	mu   sync.Mutex
	hits []string
}

// NewFakeOGS starts a fake server that is closed when the test ends.
func NewFakeOGS(t *testing.T) *FakeOGS {
	t.Helper()

	f := &FakeOGS{
		Games:        map[int64][]models.GameSummary{},
		PageSize:     10,
		SGF:          map[int64]string{},
		PageFailures: map[int]int{},
		BrokenPages:  map[int]int{},
		SGFFailures:  map[int64]bool{},
	}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ui/omniSearch", f.handleSearch)
		r.Get("/players/{playerID}/games", f.handleGames)
		r.Get("/games/{gameID}/sgf", f.handleSGF)
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL is the API root to hand to ogs.WithBaseURL.
func (f *FakeOGS) BaseURL() string {
	return f.Server.URL + "/api/v1"
}

// Hits returns the request URIs served so far, in order.
func (f *FakeOGS) Hits() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.hits...)
}

func (f *FakeOGS) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits = append(f.hits, r.URL.RequestURI())
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeOGS) handleSearch(w http.ResponseWriter, r *http.Request) {
	if f.SearchStatus != 0 && f.SearchStatus != http.StatusOK {
		http.Error(w, "search unavailable", f.SearchStatus)
		return
	}
	players := f.Players
	if players == nil {
		players = []models.Player{}
	}
	writeJSON(w, map[string]any{"q": r.URL.Query().Get("q"), "players": players})
}

func (f *FakeOGS) handleGames(w http.ResponseWriter, r *http.Request) {
	playerID, err := strconv.ParseInt(chi.URLParam(r, "playerID"), 10, 64)
	if err != nil {
		http.Error(w, "bad player id", http.StatusBadRequest)
		return
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	if f.consume(f.PageFailures, page) {
		http.Error(w, "try again later", http.StatusServiceUnavailable)
		return
	}
	if f.consume(f.BrokenPages, page) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 3, "results": [`))
		return
	}

	games := f.Games[playerID]
	start := (page - 1) * f.PageSize
	end := start + f.PageSize
	if start > len(games) {
		start = len(games)
	}
	if end > len(games) {
		end = len(games)
	}

	var next, previous *string
	if end < len(games) {
		u := fmt.Sprintf("%s/players/%d/games?page=%d", f.BaseURL(), playerID, page+1)
		next = &u
	}
	if page > 1 {
		u := fmt.Sprintf("%s/players/%d/games?page=%d", f.BaseURL(), playerID, page-1)
		previous = &u
	}

	writeJSON(w, models.Page{
		Count:    float64(len(games)),
		Next:     next,
		Previous: previous,
		Results:  append([]models.GameSummary{}, games[start:end]...),
	})
}

func (f *FakeOGS) handleSGF(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(chi.URLParam(r, "gameID"), 10, 64)
	if err != nil {
		http.Error(w, "bad game id", http.StatusBadRequest)
		return
	}
	if f.SGFFailures[gameID] {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	sgf, ok := f.SGF[gameID]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/x-go-sgf")
	_, _ = w.Write([]byte(sgf))
}

func (f *FakeOGS) consume(counter map[int]int, page int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if counter[page] > 0 {
		counter[page]--
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
