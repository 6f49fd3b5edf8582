package service

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/game"
	"ctchen222/Rock-Paper-Scissors/internal/history"
	"ctchen222/Rock-Paper-Scissors/internal/match"
	"ctchen222/Rock-Paper-Scissors/internal/player"
	"ctchen222/Rock-Paper-Scissors/internal/repository"
	"ctchen222/Rock-Paper-Scissors/internal/repository/mocks"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newStores(t *testing.T) (*history.Store, *history.Summary) {
	dir := t.TempDir()
	return history.NewStore(filepath.Join(dir, "history.json")), history.NewSummary(filepath.Join(dir, "summary.json"))
}

func TestStatsService_Leaderboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockStatsRepository(ctrl)
	store, summary := newStores(t)
	svc := NewStatsService(store, summary, repo, nil)

	repo.EXPECT().Leaderboard(gomock.Any(), 2).Return([]player.Stats{
		{Name: "Alice", TotalGames: 3, Wins: 2, Losses: 1},
		{Name: "Bob", TotalGames: 3, Wins: 1, Draws: 2},
	}, nil)

	board, err := svc.Leaderboard(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "Alice", board[0].Name)
	assert.Equal(t, 66.7, board[0].WinRate)
	assert.Equal(t, 33.3, board[1].WinRate)
}

func TestStatsService_LeaderboardError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockStatsRepository(ctrl)
	store, summary := newStores(t)
	svc := NewStatsService(store, summary, repo, nil)

	boom := errors.New("db locked")
	repo.EXPECT().Leaderboard(gomock.Any(), 0).Return(nil, boom)

	_, err := svc.Leaderboard(context.Background(), 0)
	assert.ErrorIs(t, err, boom)
}

func TestStatsService_Player(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockStatsRepository(ctrl)
	store, summary := newStores(t)
	svc := NewStatsService(store, summary, repo, nil)

	repo.EXPECT().FindByName(gomock.Any(), "Alice").Return(&player.Stats{Name: "Alice", TotalGames: 4, Wins: 1}, nil)
	repo.EXPECT().FindByName(gomock.Any(), "Ghost").Return(nil, repository.ErrPlayerNotFound)

	ps, err := svc.Player(context.Background(), " Alice ")
	require.NoError(t, err)
	assert.Equal(t, 25.0, ps.WinRate)

	_, err = svc.Player(context.Background(), "Ghost")
	assert.ErrorIs(t, err, repository.ErrPlayerNotFound)

	_, err = svc.Player(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestStatsService_WithoutRepository(t *testing.T) {
	store, summary := newStores(t)
	svc := NewStatsService(store, summary, nil, nil)

	_, err := svc.Leaderboard(context.Background(), 0)
	assert.ErrorIs(t, err, ErrStatsUnavailable)
	_, err = svc.Player(context.Background(), "Alice")
	assert.ErrorIs(t, err, ErrStatsUnavailable)
	_, err = svc.Session(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStatsService_HistoryAndSession(t *testing.T) {
	ctx := context.Background()
	store, summary := newStores(t)
	session := match.NewSession(match.ModeVsLocalPlayer, "Alice", "Bob", match.WithHistory(store), match.WithRecorders(summary))
	svc := NewStatsService(store, summary, nil, session)

	session.PlayRound(ctx, game.Rock, game.Scissors)
	session.PlayRound(ctx, game.Rock, game.Rock)

	h := svc.History(ctx)
	require.Len(t, h.Rounds, 2)
	assert.Equal(t, history.Stats{TotalGames: 2, Wins: 1, Draws: 1, WinRate: 50}, h.Stats)
	assert.Equal(t, h.Stats, svc.Stats(ctx))

	entries := svc.Summary(ctx)
	require.Len(t, entries, 2)
	assert.Equal(t, "Draw", entries[0].Desc)
	assert.Equal(t, "Alice Win vs Bob", entries[1].Desc)

	snap, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Round)
	assert.Equal(t, 1, snap.Player1.Score)
}
