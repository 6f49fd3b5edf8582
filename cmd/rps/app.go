package main

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/api/controller"
	"ctchen222/Rock-Paper-Scissors/internal/api/service"
	"ctchen222/Rock-Paper-Scissors/internal/config"
	"ctchen222/Rock-Paper-Scissors/internal/console"
	"ctchen222/Rock-Paper-Scissors/internal/db"
	"ctchen222/Rock-Paper-Scissors/internal/events"
	"ctchen222/Rock-Paper-Scissors/internal/history"
	"ctchen222/Rock-Paper-Scissors/internal/hub"
	"ctchen222/Rock-Paper-Scissors/internal/logger"
	"ctchen222/Rock-Paper-Scissors/internal/match"
	"ctchen222/Rock-Paper-Scissors/internal/peer"
	"ctchen222/Rock-Paper-Scissors/internal/repository"
	"ctchen222/Rock-Paper-Scissors/internal/server"
	"ctchen222/Rock-Paper-Scissors/internal/telemetry"
	"ctchen222/Rock-Paper-Scissors/pkg/proto"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
)

const deliveryBuffer = 16

// run wires every component from cfg and plays one match in the terminal.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out, logOut io.Writer) error {
	logger.Init(logOut, cfg.LogLevel)

	shutdown, err := telemetry.InitOtel(ctx, cfg.OtelEndpoint)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	store := history.NewStore(cfg.HistoryFile)
	store.Load(ctx)
	summary := history.NewSummary(cfg.SummaryFile)
	recorders := []match.RoundRecorder{summary}

	var statsRepo repository.StatsRepository
	if cfg.StatsDB != "" {
		pool, err := db.Open(ctx, cfg.StatsDB)
		if err != nil {
			slog.WarnContext(ctx, "Player statistics disabled", "error", err)
		} else {
			defer pool.Close()
			statsRepo = repository.NewStatsRepository(pool)
			recorders = append(recorders, statsRepo)
		}
	}

	var rdb *redis.Client
	var roundPublisher *events.RoundPublisher
	if cfg.RedisAddr != "" {
		rdb, err = db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			slog.WarnContext(ctx, "Round events disabled", "error", err)
		} else {
			defer rdb.Close()
			roundPublisher = events.NewRoundPublisher(events.NewRedisPublisher(rdb))
			recorders = append(recorders, roundPublisher)
			slog.InfoContext(ctx, "Publishing round events", "match.id", roundPublisher.MatchID)
		}
	}

	var spectators *hub.Hub
	if cfg.HTTPAddr != "" {
		spectators = hub.NewHub()
		go spectators.Run(ctx)
		if rdb != nil {
			go func() {
				if err := events.Subscribe(ctx, rdb, spectators.HandleEvent); err != nil {
					slog.ErrorContext(ctx, "Event subscriber stopped", "error", err)
				}
			}()
		} else {
			recorders = append(recorders, spectators)
		}
	}

	session := match.NewSession(match.Mode(cfg.Mode), cfg.PlayerName, cfg.OpponentName,
		match.WithHistory(store),
		match.WithRecorders(recorders...),
	)

	opts := []console.Option{
		console.WithSummary(summary),
		console.WithRounds(cfg.Rounds),
		console.WithPolling(cfg.PollInterval, cfg.MaxPolls),
	}
	if roundPublisher != nil {
		opts = append(opts, console.WithResetHook(func(ctx context.Context) {
			if err := roundPublisher.PublishReset(ctx); err != nil {
				slog.WarnContext(ctx, "Could not publish reset", "error", err)
			}
		}))
	}

	if session.Mode() == match.ModeVsPlayer {
		deliveries := make(chan peer.Delivery, deliveryBuffer)
		ps := peer.NewSession(
			peer.WithHandler(proto.TypePlayerChoice, peer.Forward(deliveries)),
			peer.WithBindHost(cfg.BindHost),
			peer.WithAdvertiseHost(cfg.AdvertiseHost),
		)
		if err := connect(ctx, ps, cfg); err != nil {
			return err
		}
		defer ps.Disconnect()
		opts = append(opts, console.WithPeer(ps, deliveries))
	}

	if spectators != nil {
		svc := service.NewStatsService(store, summary, statsRepo, session)
		srv := server.NewServer(spectators, controller.NewStatsController(svc))
		stopHTTP := serveHTTP(ctx, cfg.HTTPAddr, srv.Engine())
		defer stopHTTP()
	}

	return console.New(session, out, opts...).Run(ctx, in)
}

func connect(ctx context.Context, ps *peer.Session, cfg *config.Config) error {
	if cfg.RoomCode != "" {
		if err := ps.Join(ctx, cfg.RoomCode); err != nil {
			return fmt.Errorf("failed to join %s: %w", cfg.RoomCode, err)
		}
		return nil
	}
	if _, err := ps.Host(ctx, cfg.Port); err != nil {
		return err
	}
	return nil
}

// serveHTTP starts the API server and returns a function that shuts it down.
func serveHTTP(ctx context.Context, addr string, handler http.Handler) func() {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		slog.InfoContext(ctx, "HTTP server started", "http.addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "HTTP server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server forced to shutdown", "error", err)
		}
	}
}
