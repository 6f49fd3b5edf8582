package main

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/internal/config"
	"ctchen222/Rock-Paper-Scissors/internal/console"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := parseFlags(flag.CommandLine, os.Args[1:], cfg); err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, console.ErrOpponentTimeout) {
			fmt.Fprintln(os.Stderr, err)
			stop()
			os.Exit(2)
		}
		log.Fatalf("rps: %v", err)
	}
}

// parseFlags lets command-line flags override the environment configuration.
func parseFlags(fs *flag.FlagSet, args []string, cfg *config.Config) error {
	fs.StringVar(&cfg.PlayerName, "name", cfg.PlayerName, "your player name")
	fs.StringVar(&cfg.OpponentName, "opponent", cfg.OpponentName, "second player name in local play")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "vs_ai, vs_local_player, vs_player or ai_vs_ai")
	fs.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "rounds to play in ai_vs_ai mode")
	fs.StringVar(&cfg.RoomCode, "join", cfg.RoomCode, "room code to join (vs_player); empty hosts a game")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port to host on (vs_player)")
	fs.StringVar(&cfg.BindHost, "bind", cfg.BindHost, "interface to host on")
	fs.StringVar(&cfg.AdvertiseHost, "advertise", cfg.AdvertiseHost, "host published in the room code")
	fs.StringVar(&cfg.HistoryFile, "history", cfg.HistoryFile, "round history file")
	fs.StringVar(&cfg.SummaryFile, "summary", cfg.SummaryFile, "recent games file")
	fs.StringVar(&cfg.StatsDB, "stats-db", cfg.StatsDB, "SQLite player statistics; empty disables")
	fs.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "address of the stats API and spectator feed; empty disables")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for round events; empty disables")
	fs.StringVar(&cfg.OtelEndpoint, "otel", cfg.OtelEndpoint, "OTLP gRPC collector endpoint; empty disables")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return err
	}
	return cfg.Validate()
}
