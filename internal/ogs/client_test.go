package ogs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/ninebynine/internal/grouping"
	"github.com/vytor/ninebynine/internal/models"
	"github.com/vytor/ninebynine/internal/ogs"
	"github.com/vytor/ninebynine/internal/testutil"
)

func ended(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSearchPlayers(t *testing.T) {
	fake := testutil.NewFakeOGS(t)
	fake.Players = []models.Player{{ID: 1, Username: "alice"}, {ID: 2, Username: "alice2"}}
	client := ogs.New(ogs.WithBaseURL(fake.BaseURL()))

	players, err := client.SearchPlayers(context.Background(), "alice smith")
	require.NoError(t, err)
	assert.Equal(t, fake.Players, players)
	assert.Equal(t, []string{"/api/v1/ui/omniSearch?q=alice+smith"}, fake.Hits())
}

func TestSearchPlayers_Non200(t *testing.T) {
	fake := testutil.NewFakeOGS(t)
	fake.SearchStatus = http.StatusBadGateway
	client := ogs.New(ogs.WithBaseURL(fake.BaseURL()))

	_, err := client.SearchPlayers(context.Background(), "alice")
	require.Error(t, err)

	var statusErr *ogs.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)
}

func TestFetchGamesPage_ByNumber(t *testing.T) {
	fake := testutil.NewFakeOGS(t)
	fake.PageSize = 2
	fake.Games[7] = []models.GameSummary{
		{ID: 1, Width: 9, Ended: ended("2023-01-01T10:00:00Z")},
		{ID: 2, Width: 19, Ended: ended("2023-01-02T10:00:00Z")},
		{ID: 3, Width: 9, Ended: ended("2023-01-03T10:00:00Z")},
	}
	client := ogs.New(ogs.WithBaseURL(fake.BaseURL()))

	page, err := client.FetchGamesPage(context.Background(), ogs.PageRef{PlayerID: 7, Number: 1})
	require.NoError(t, err)
	assert.Equal(t, float64(3), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, int64(1), page.Results[0].ID)
	assert.Equal(t, 19, page.Results[1].Width)
	assert.True(t, page.Results[0].Ended.Equal(ended("2023-01-01T10:00:00Z")))
	require.True(t, page.HasNext())
	assert.Equal(t, fake.BaseURL()+"/players/7/games?page=2", *page.Next)

	last, err := client.FetchGamesPage(context.Background(), ogs.PageRef{PlayerID: 7, URL: *page.Next})
	require.NoError(t, err)
	assert.Len(t, last.Results, 1)
	assert.False(t, last.HasNext())
}

func TestFetchGamesPage_MalformedJSON(t *testing.T) {
	fake := testutil.NewFakeOGS(t)
	fake.BrokenPages[1] = 1
	client := ogs.New(ogs.WithBaseURL(fake.BaseURL()))

	_, err := client.FetchGamesPage(context.Background(), ogs.PageRef{PlayerID: 1, Number: 1})
	assert.Error(t, err)
}

func TestFetchGamesPage_UnfinishedGameHasNoDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":2,"next":null,"results":[` +
			`{"id":1,"width":9,"ended":null},` +
			`{"id":2,"width":9,"ended":"2023-01-01T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	client := ogs.New(ogs.WithBaseURL(srv.URL))
	page, err := client.FetchGamesPage(context.Background(), ogs.PageRef{PlayerID: 1, Number: 1})
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.False(t, page.Results[0].Finished())
	assert.True(t, page.Results[1].Finished())

	groups, found := grouping.FilterAndGroup(page.Results)
	require.True(t, found)
	assert.Equal(t, []string{"2023-01-01"}, grouping.Dates(groups))
}

func TestFetchSGF(t *testing.T) {
	fake := testutil.NewFakeOGS(t)
	fake.SGF[10] = "(;GM[1])"
	client := ogs.New(ogs.WithBaseURL(fake.BaseURL()))

	sgf, err := client.FetchSGF(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "(;GM[1])", sgf)

	_, err = client.FetchSGF(context.Background(), 11)
	assert.Error(t, err)
}

func TestClient_SendsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("(;GM[1])"))
	}))
	defer srv.Close()

	client := ogs.New(ogs.WithBaseURL(srv.URL), ogs.WithUserAgent("ninebynine-test/1.0"))
	_, err := client.FetchSGF(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ninebynine-test/1.0", got)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := ogs.New(ogs.WithBaseURL(srv.URL), ogs.WithTimeout(20*time.Millisecond))
	_, err := client.FetchSGF(context.Background(), 1)
	assert.Error(t, err)
}

func TestURLs(t *testing.T) {
	client := ogs.New(ogs.WithBaseURL("https://example.test/api/v1/"))
	assert.Equal(t, "https://example.test/api/v1/players/5/games?page=3", client.PageURL(5, 3))
	assert.Equal(t, "https://example.test/api/v1/games/42/sgf", client.SGFURL(42))
}
