package config

import (
	"ctchen222/Rock-Paper-Scissors/internal/validator"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the game.
type Config struct {
	PlayerName    string        `env:"RPS_PLAYER_NAME"`
	OpponentName  string        `env:"RPS_OPPONENT_NAME"`
	Mode          string        `env:"RPS_MODE" envDefault:"vs_ai" validate:"oneof=vs_ai vs_player ai_vs_ai vs_local_player"`
	Rounds        int           `env:"RPS_ROUNDS" envDefault:"10" validate:"gte=1"`
	Port          int           `env:"RPS_PORT" envDefault:"5555" validate:"gte=0,lte=65535"`
	BindHost      string        `env:"RPS_BIND_HOST" envDefault:"0.0.0.0"`
	AdvertiseHost string        `env:"RPS_ADVERTISE_HOST"`
	RoomCode      string        `env:"RPS_ROOM_CODE"`
	HistoryFile   string        `env:"RPS_HISTORY_FILE" envDefault:"game_history.json" validate:"required"`
	SummaryFile   string        `env:"RPS_SUMMARY_FILE" envDefault:"game_history_menu.json" validate:"required"`
	StatsDB       string        `env:"RPS_STATS_DB" envDefault:"rps.db"`
	HTTPAddr      string        `env:"RPS_HTTP_ADDR"`
	RedisAddr     string        `env:"REDIS_CONNSTRING"`
	OtelEndpoint  string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	LogLevel      slog.Level    `env:"RPS_LOG_LEVEL" envDefault:"info"`
	PollInterval  time.Duration `env:"RPS_POLL_INTERVAL" envDefault:"1s" validate:"gt=0"`
	MaxPolls      int           `env:"RPS_MAX_POLLS" envDefault:"30" validate:"gte=1"`
}

// Load reads an optional .env file from the working directory and parses
// the environment into a Config.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are skipped.
// Variables already present in the environment win over the files.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the field constraints. Call it again after flags override values.
func (c *Config) Validate() error {
	if err := validator.GetValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
