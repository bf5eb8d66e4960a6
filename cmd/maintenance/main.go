// Command maintenance runs the daily preparation job once and exits.
// Meant to be scheduled (cron, systemd timer) shortly after midnight
// Eastern, ahead of the day's first players.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/versequest/biblegames/internal/config"
	"github.com/versequest/biblegames/internal/database"
	"github.com/versequest/biblegames/internal/migrations"
	"github.com/versequest/biblegames/internal/notify"
	"github.com/versequest/biblegames/internal/server"
)

func main() {
	date := flag.String("date", "", "target date (YYYY-MM-DD), default today")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout, *date); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer, date string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	store := server.NewSQLiteStore(db)
	pusher := &notify.LogPusher{Logger: logger}

	maint := server.NewMaintenance(logger, store, pusher, cfg.MaintenanceWorkers)
	report, err := maint.Run(ctx, date)
	if err != nil {
		return fmt.Errorf("maintenance: %w", err)
	}

	logger.Info("maintenance complete",
		"date", report.Date,
		"game_created", report.GameCreated,
		"users", report.UsersTotal,
		"failed", report.UsersFailed)
	return nil
}
