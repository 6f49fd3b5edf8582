package server

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/api/controller"
	"ctchen222/Rock-Paper-Scissors/internal/api/service"
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"ctchen222/Rock-Paper-Scissors/internal/history"
	"ctchen222/Rock-Paper-Scissors/internal/hub"
	"ctchen222/Rock-Paper-Scissors/internal/match"
	"ctchen222/Rock-Paper-Scissors/internal/player"
	"ctchen222/Rock-Paper-Scissors/internal/repository"
	"ctchen222/Rock-Paper-Scissors/internal/repository/mocks"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

type fixture struct {
	server  *Server
	repo    *mocks.MockStatsRepository
	session *match.Session
	hub     *hub.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store := history.NewStore(filepath.Join(dir, "history.json"))
	summary := history.NewSummary(filepath.Join(dir, "summary.json"))
	repo := mocks.NewMockStatsRepository(gomock.NewController(t))
	h := hub.NewHub()

	session := match.NewSession(match.ModeVsLocalPlayer, "Alice", "Bob",
		match.WithHistory(store), match.WithRecorders(summary, h))
	svc := service.NewStatsService(store, summary, repo, session)

	return &fixture{
		server:  NewServer(h, controller.NewStatsController(svc)),
		repo:    repo,
		session: session,
		hub:     h,
	}
}

func (f *fixture) get(t *testing.T, path string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestServer_HistoryEndpoints(t *testing.T) {
	f := newFixture(t)
	f.session.PlayRound(context.Background(), game.Paper, game.Rock)

	code, env := f.get(t, "/api/history")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	var hist struct {
		Rounds []history.Round `json:"rounds"`
		Stats  history.Stats   `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &hist))
	require.Len(t, hist.Rounds, 1)
	assert.Equal(t, game.Paper, hist.Rounds[0].Player1.Choice)
	assert.Equal(t, 1, hist.Stats.Wins)

	code, env = f.get(t, "/api/summary")
	require.Equal(t, http.StatusOK, code)
	var summary struct {
		List []history.SummaryEntry `json:"list"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &summary))
	require.Len(t, summary.List, 1)
	assert.Equal(t, "Alice Win vs Bob", summary.List[0].Desc)

	code, env = f.get(t, "/api/stats")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"total_games":1,"wins":1,"losses":0,"draws":0,"win_rate":100}`, string(env.Extras))

	code, env = f.get(t, "/api/session")
	require.Equal(t, http.StatusOK, code)
	var snap match.Snapshot
	require.NoError(t, json.Unmarshal(env.Extras, &snap))
	assert.Equal(t, 2, snap.Round)
	assert.Equal(t, "Alice", snap.Player1.Name)
}

func TestServer_Leaderboard(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		setup    func(repo *mocks.MockStatsRepository)
		wantCode int
	}{
		{
			name:  "Default minimum",
			query: "",
			setup: func(repo *mocks.MockStatsRepository) {
				repo.EXPECT().Leaderboard(gomock.Any(), 0).Return([]player.Stats{{Name: "Alice", TotalGames: 1, Wins: 1}}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:  "Explicit minimum",
			query: "?min_games=5",
			setup: func(repo *mocks.MockStatsRepository) {
				repo.EXPECT().Leaderboard(gomock.Any(), 5).Return(nil, nil)
			},
			wantCode: http.StatusOK,
		},
		{name: "Negative minimum", query: "?min_games=-1", setup: func(*mocks.MockStatsRepository) {}, wantCode: http.StatusBadRequest},
		{name: "Not a number", query: "?min_games=lots", setup: func(*mocks.MockStatsRepository) {}, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f.repo)

			code, env := f.get(t, "/api/leaderboard"+tt.query)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantCode == http.StatusOK, env.Success)
			if code == http.StatusOK {
				assert.Contains(t, string(env.Extras), `"list":[`)
			}
		})
	}
}

func TestServer_Player(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().FindByName(gomock.Any(), "Alice").Return(&player.Stats{Name: "Alice", TotalGames: 2, Wins: 1, Draws: 1}, nil)
	f.repo.EXPECT().FindByName(gomock.Any(), "Ghost").Return(nil, repository.ErrPlayerNotFound)

	code, env := f.get(t, "/api/players/Alice")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"name":"Alice","total_games":2,"wins":1,"losses":0,"draws":1,"win_rate":50}`, string(env.Extras))

	code, env = f.get(t, "/api/players/Ghost")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}

func TestServer_SpectatorFeed(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.hub.Run(ctx)

	srv := httptest.NewServer(f.server.Engine())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return f.hub.Spectators() == 1 }, 2*time.Second, 10*time.Millisecond)

	f.session.PlayRound(ctx, game.Scissors, game.Paper)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type  string        `json:"type"`
		Round history.Round `json:"round"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "round", msg.Type)
	assert.Equal(t, game.Win, msg.Round.Result)
}
