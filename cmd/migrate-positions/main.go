// Command migrate-positions rewrites comments stored with pixel coordinates
// into page fractions, using the page sizes recorded for each resume.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sinedd777/resume-reviewer/internal/comment"
	"github.com/sinedd777/resume-reviewer/internal/config"
	"github.com/sinedd777/resume-reviewer/internal/db"
	"github.com/sinedd777/resume-reviewer/internal/logging"
	"github.com/sinedd777/resume-reviewer/internal/resume"

	"go.uber.org/zap"
)

func main() {
	var dryRun bool
	var limit, concurrency int
	flag.BoolVar(&dryRun, "dry-run", true, "If true, do not persist updates; just log changes")
	flag.IntVar(&limit, "limit", 0, "Max number of legacy comments to migrate in one run (0 = all)")
	flag.IntVar(&concurrency, "concurrency", 4, "Number of comments updated in parallel")
	flag.Parse()

	config.LoadConfig()
	logger, err := logging.New(config.AppConfig.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := db.ConnectDb(logger); err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer db.CloseDb(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := &migrator{
		comments:    comment.NewRepository(db.AppDb),
		resumes:     resume.NewRepository(db.AppDb),
		dryRun:      dryRun,
		limit:       limit,
		concurrency: concurrency,
		logger:      logger,
	}
	stats, err := m.Run(ctx)
	if err != nil {
		logger.Fatal("migration aborted", zap.Error(err))
	}
	logger.Info("migration finished",
		zap.Bool("dry_run", dryRun),
		zap.Int("found", stats.Found),
		zap.Int64("migrated", stats.Migrated),
		zap.Int64("skipped", stats.Skipped),
		zap.Int64("failed", stats.Failed),
	)
}
