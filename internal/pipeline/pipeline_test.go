package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	apperrors "github.com/vytor/ninebynine/internal/errors"
	"github.com/vytor/ninebynine/internal/export"
	"github.com/vytor/ninebynine/internal/models"
	"github.com/vytor/ninebynine/internal/ogs"
	"github.com/vytor/ninebynine/internal/pipeline"
	"github.com/vytor/ninebynine/internal/prompt"
	"github.com/vytor/ninebynine/internal/retry"
	"github.com/vytor/ninebynine/internal/services"
	"github.com/vytor/ninebynine/internal/testutil"
	"github.com/vytor/ninebynine/internal/testutil/mocks"
)

type PipelineSuite struct {
	suite.Suite
	fake     *testutil.FakeOGS
	prompter *mocks.MockPrompter
	root     string
	pipe     *pipeline.Pipeline
}

func (s *PipelineSuite) SetupTest() {
	s.fake = testutil.NewFakeOGS(s.T())
	s.prompter = new(mocks.MockPrompter)
	s.root = s.T().TempDir()
	s.build()
}

// build wires the pipeline against the fake; call again after changing its page size.
func (s *PipelineSuite) build() {
	client := ogs.New(ogs.WithBaseURL(s.fake.BaseURL()))
	s.pipe = pipeline.New(pipeline.Deps{
		Players: services.NewPlayerService(client, s.prompter),
		History: services.NewHistoryService(client, services.HistoryOptions{
			PageSize: s.fake.PageSize,
			Policy:   retry.Policy{Mode: retry.Unbounded},
			Sleep:    func(ctx context.Context, d time.Duration) error { return ctx.Err() },
		}),
		SGF:      services.NewSGFService(client, services.SGFOptions{Policy: retry.Policy{Mode: retry.None}}),
		Sink:     export.NewSink(),
		Prompter: s.prompter,
	})
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func day(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func (s *PipelineSuite) sgfHits() int {
	n := 0
	for _, h := range s.fake.Hits() {
		if strings.HasSuffix(h, "/sgf") {
			n++
		}
	}
	return n
}

func (s *PipelineSuite) TestExportsSelectedGames() {
	s.fake.Players = []models.Player{{ID: 1, Username: "alice"}}
	s.fake.Games[1] = []models.GameSummary{
		{ID: 10, Width: 9, Ended: day("2023-05-01T10:00:00Z")},
		{ID: 11, Width: 19, Ended: day("2023-05-01T11:00:00Z")},
	}
	s.fake.SGF[10] = "(;GM[1])"
	s.prompter.On("SelectMany", mock.Anything, "Select dates", []string{"2023-05-01"}).
		Return([]string{"2023-05-01"}, nil)

	res, err := s.pipe.Run(context.Background(), "alice", s.root)
	s.Require().NoError(err)
	s.Equal(pipeline.OutcomeExported, res.Outcome)
	s.Equal(1, res.Exported)
	s.Equal(filepath.Join(s.root, "alice"), res.Dir)
	s.Equal("1 games was downloaded and exported.", res.Message())

	data, err := os.ReadFile(filepath.Join(s.root, "alice", "10.sgf"))
	s.Require().NoError(err)
	s.Equal("(;GM[1])\n", string(data))

	entries, err := os.ReadDir(filepath.Join(s.root, "alice"))
	s.Require().NoError(err)
	s.Len(entries, 1)
	s.prompter.AssertExpectations(s.T())
}

func (s *PipelineSuite) TestPlayerNotFound() {
	res, err := s.pipe.Run(context.Background(), "ghost", s.root)
	s.Require().NoError(err)
	s.Equal(pipeline.OutcomePlayerNotFound, res.Outcome)
	s.Equal([]string{"/api/v1/ui/omniSearch?q=ghost"}, s.fake.Hits())

	entries, err := os.ReadDir(s.root)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *PipelineSuite) TestNoNineByNineGames() {
	s.fake.Players = []models.Player{{ID: 2, Username: "bob"}}
	s.fake.Games[2] = []models.GameSummary{
		{ID: 20, Width: 19, Ended: day("2023-05-01T10:00:00Z")},
		{ID: 21, Width: 13, Ended: day("2023-05-02T10:00:00Z")},
	}

	res, err := s.pipe.Run(context.Background(), "bob", s.root)
	s.Require().NoError(err)
	s.Equal(pipeline.OutcomeNoGames, res.Outcome)
	s.Equal("9x9 games not found.", res.Message())
	s.prompter.AssertNotCalled(s.T(), "SelectMany", mock.Anything, mock.Anything, mock.Anything)
	s.Zero(s.sgfHits())

	_, err = os.Stat(filepath.Join(s.root, "bob"))
	s.True(os.IsNotExist(err))
}

func (s *PipelineSuite) TestEmptySelection() {
	s.fake.Players = []models.Player{{ID: 1, Username: "alice"}}
	s.fake.Games[1] = []models.GameSummary{{ID: 10, Width: 9, Ended: day("2023-05-01T10:00:00Z")}}
	s.prompter.On("SelectMany", mock.Anything, mock.Anything, mock.Anything).Return([]string{}, nil)

	res, err := s.pipe.Run(context.Background(), "alice", s.root)
	s.Require().NoError(err)
	s.Equal(pipeline.OutcomeNothingSelected, res.Outcome)
	s.Equal("You must select some dates.", res.Message())
	s.Zero(s.sgfHits())
}

func (s *PipelineSuite) TestSelectionPromptFails() {
	s.fake.Players = []models.Player{{ID: 1, Username: "alice"}}
	s.fake.Games[1] = []models.GameSummary{{ID: 10, Width: 9, Ended: day("2023-05-01T10:00:00Z")}}
	s.prompter.On("SelectMany", mock.Anything, mock.Anything, mock.Anything).Return(nil, prompt.ErrCancelled)

	res, err := s.pipe.Run(context.Background(), "alice", s.root)
	s.Require().NoError(err)
	s.Equal(pipeline.OutcomeNothingSelected, res.Outcome)
	s.Equal("You must select valid dates.", res.Message())
}

func (s *PipelineSuite) TestPagesAndFailedSGFAreTolerated() {
	s.fake.PageSize = 2
	s.build()
	s.fake.Players = []models.Player{{ID: 3, Username: "carol"}}
	s.fake.Games[3] = []models.GameSummary{
		{ID: 30, Width: 9, Ended: day("2023-03-01T10:00:00Z")},
		{ID: 31, Width: 9, Ended: day("2023-01-15T10:00:00Z")},
		{ID: 32, Width: 9, Ended: day("2023-01-02T10:00:00Z")},
		{ID: 33, Width: 9, Ended: day("2023-01-15T22:00:00Z")},
	}
	s.fake.PageFailures[2] = 2
	s.fake.SGF[30] = "(;a)"
	s.fake.SGF[31] = "(;b)"
	s.fake.SGF[33] = "(;d)"
	s.fake.SGFFailures[32] = true
	s.prompter.On("SelectMany", mock.Anything, "Select dates", []string{"2023-01-02", "2023-01-15", "2023-03-01"}).
		Return([]string{"2023-01-02", "2023-01-15"}, nil)

	res, err := s.pipe.Run(context.Background(), "carol", s.root)
	s.Require().NoError(err)
	s.Equal(pipeline.OutcomeExported, res.Outcome)
	s.Equal(2, res.Exported)
	s.Equal(3, s.sgfHits())

	entries, err := os.ReadDir(res.Dir)
	s.Require().NoError(err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	s.ElementsMatch([]string{"31.sgf", "33.sgf"}, names)
}

func (s *PipelineSuite) TestUnsafeUsernameLeavesFilesAlone() {
	root := filepath.Join(s.root, "exports")
	s.Require().NoError(os.MkdirAll(root, 0o755))
	sibling := filepath.Join(s.root, "notes.txt")
	s.Require().NoError(os.WriteFile(sibling, []byte("keep"), 0o644))

	for _, name := range []string{"..", ""} {
		s.fake.Players = []models.Player{{ID: 1, Username: name}}
		s.fake.Games[1] = []models.GameSummary{{ID: 10, Width: 9, Ended: day("2023-05-01T10:00:00Z")}}

		res, err := s.pipe.Run(context.Background(), "alice", root)
		s.Require().Error(err)
		s.Nil(res)
		s.True(apperrors.HasCode(err, apperrors.ErrCodeExport))
	}

	s.FileExists(sibling)
	s.DirExists(root)
	s.Equal([]string{"/api/v1/ui/omniSearch?q=alice", "/api/v1/ui/omniSearch?q=alice"}, s.fake.Hits())
	s.prompter.AssertNotCalled(s.T(), "SelectMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_SearchFailureIsFatal(t *testing.T) {
	players := new(mockPlayers)
	players.On("Resolve", mock.Anything, "alice").Return(models.Player{}, apperrors.NewUpstreamError("player search", errors.New("dial tcp: refused")))

	_, err := pipeline.New(pipeline.Deps{Players: players}).Run(context.Background(), "alice", t.TempDir())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUpstream))
}

type mockPlayers struct {
	mock.Mock
}

func (m *mockPlayers) Resolve(ctx context.Context, query string) (models.Player, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(models.Player), args.Error(1)
}
