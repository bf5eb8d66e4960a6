package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/versequest/biblegames/internal/config"
	"github.com/versequest/biblegames/internal/database"
	"github.com/versequest/biblegames/internal/migrations"
	"github.com/versequest/biblegames/internal/notify"
	"github.com/versequest/biblegames/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Redis (optional: the leaderboard cache degrades without it) ---
	rdb, err := openRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, leaderboard cache disabled", "error", err)
		rdb = nil
	} else {
		defer rdb.Close()
		logger.Info("connected to redis")
	}

	store := server.NewSQLiteStore(db)

	// --- Outbound delivery ---
	var mailer notify.Mailer = &notify.LogMailer{Logger: logger}
	if cfg.MailFrom != "" {
		sesMailer, err := notify.NewSESMailer(ctx, cfg.MailFrom)
		if err != nil {
			return fmt.Errorf("configuring ses mailer: %w", err)
		}
		mailer = sesMailer
		logger.Info("ses mailer enabled", "from", cfg.MailFrom)
	}
	pusher := &notify.LogPusher{Logger: logger}

	if err := server.SeedDemo(ctx, logger, store); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, server.Deps{
		Logger:         logger,
		DB:             db,
		Redis:          rdb,
		Store:          store,
		Mailer:         mailer,
		Pusher:         pusher,
		BaseURL:        cfg.BaseURL,
		SPADir:         cfg.SPADir,
		LeaderboardTTL: cfg.LeaderboardTTL,
		Workers:        cfg.MaintenanceWorkers,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
