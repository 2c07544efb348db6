// Package main runs the wallet screening bot: a conversational front-end
// (Telegram or a local WebSocket endpoint) over the criteria wizard and the
// qualification pipeline.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"solana-wallet-scout/internal/bot"
	"solana-wallet-scout/internal/dedge"
	"solana-wallet-scout/internal/observability"
	"solana-wallet-scout/internal/screening"
	"solana-wallet-scout/internal/storage"
	chstore "solana-wallet-scout/internal/storage/clickhouse"
	filestore "solana-wallet-scout/internal/storage/file"
	memstore "solana-wallet-scout/internal/storage/memory"
	"solana-wallet-scout/internal/storage/migrations"
	pgstore "solana-wallet-scout/internal/storage/postgres"
	"solana-wallet-scout/internal/transport"
)

func main() {
	// Load .env file if exists; real env vars win.
	_ = godotenv.Load()

	apiKey := flag.String("api-key", os.Getenv("DEDGE_API_KEY"), "d-edge analytics API key")
	apiURL := flag.String("api-url", envOr("DEDGE_API_URL", dedge.DefaultBaseURL), "d-edge analytics base URL")
	transportName := flag.String("transport", envOr("TRANSPORT", "telegram"), "conversational transport: telegram or ws")
	telegramToken := flag.String("telegram-token", os.Getenv("TELEGRAM_TOKEN"), "Telegram bot token")
	wsAddr := flag.String("ws-addr", envOr("WS_ADDR", "localhost:8089"), "listen address for the ws transport")
	criteriaFile := flag.String("criteria-file", envOr("CRITERIA_FILE", "conditions.json"), "path of the JSON criteria file")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL DSN for criteria storage (overrides the file backend)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse DSN for run history (optional)")
	useMemory := flag.Bool("use-memory", false, "keep criteria in memory only")
	pollInterval := flag.Duration("poll-interval", screening.DefaultPollInterval, "batch status poll interval")
	maxPolls := flag.Int("max-polls", 0, "maximum status polls per batch, 0 = unbounded")
	metricsAddr := flag.String("metrics-addr", os.Getenv("METRICS_ADDR"), "listen address for Prometheus /metrics (empty disables)")
	debug := flag.Bool("debug", false, "enable debug logging")

	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if *debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	if *apiKey == "" {
		logger.Fatal().Msg("-api-key (or DEDGE_API_KEY) is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Criteria storage backend.
	var criteriaStore storage.CriteriaStore
	switch {
	case *useMemory:
		criteriaStore = memstore.NewCriteriaStore()
		logger.Info().Msg("using in-memory criteria store")
	case *postgresDSN != "":
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to postgres")
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("run postgres migrations")
		}
		criteriaStore = pgstore.NewCriteriaStore(pool)
		logger.Info().Msg("using postgres criteria store")
	default:
		fs, err := filestore.NewCriteriaStore(*criteriaFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("open criteria file")
		}
		criteriaStore = fs
		logger.Info().Str("path", *criteriaFile).Msg("using file criteria store")
	}

	// Run history is optional.
	var historyStore storage.RunHistoryStore
	if *useMemory {
		historyStore = memstore.NewRunHistoryStore()
	}
	if *clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to clickhouse")
		}
		defer conn.Close()
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			logger.Fatal().Err(err).Msg("run clickhouse migrations")
		}
		historyStore = chstore.NewRunHistoryStore(conn)
		logger.Info().Msg("run history enabled")
	}

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		go func() {
			logger.Info().Str("addr", *metricsAddr).Msg("metrics endpoint listening")
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error().Err(err).Msg("metrics endpoint stopped")
			}
		}()
	}

	client := dedge.NewClient(*apiKey, dedge.WithBaseURL(*apiURL))
	batches := screening.NewBatchClient(screening.BatchClientOptions{
		API:          client,
		PollInterval: *pollInterval,
		MaxPolls:     *maxPolls,
		Logger:       logger.With().Str("component", "batch").Logger(),
	})
	engine := screening.NewEngine(screening.EngineOptions{
		Batches: batches,
		History: historyStore,
		Logger:  logger.With().Str("component", "engine").Logger(),
	})

	var tr transport.Transport
	switch *transportName {
	case "telegram":
		if *telegramToken == "" {
			logger.Fatal().Msg("-telegram-token (or TELEGRAM_TOKEN) is required for the telegram transport")
		}
		tr = transport.NewTelegram(*telegramToken, logger.With().Str("component", "telegram").Logger())
	case "ws":
		tr = transport.NewWSServer(*wsAddr, logger.With().Str("component", "ws").Logger())
	default:
		logger.Fatal().Str("transport", *transportName).Msg("unknown transport, expected telegram or ws")
	}

	b := bot.New(bot.Options{
		Transport: tr,
		Criteria:  criteriaStore,
		History:   historyStore,
		Engine:    engine,
		Logger:    logger.With().Str("component", "bot").Logger(),
	})

	logger.Info().Str("transport", *transportName).Msg("bot is running")
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("bot stopped")
	}
	logger.Info().Msg("bot shut down")
}

// envOr returns the environment value or a fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
