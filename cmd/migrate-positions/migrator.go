package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sinedd777/resume-reviewer/internal/comment"
	"github.com/sinedd777/resume-reviewer/internal/domain"
	"github.com/sinedd777/resume-reviewer/internal/position"
	"github.com/sinedd777/resume-reviewer/internal/resume"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const batchSize = 200

var errLimitReached = errors.New("limit reached")

type stats struct {
	Found    int
	Migrated int64
	Skipped  int64
	Failed   int64
}

type migrator struct {
	comments    comment.CommentRepository
	resumes     resume.ResumeRepository
	dryRun      bool
	limit       int
	concurrency int
	logger      *zap.Logger

	mu    sync.Mutex
	pages map[string][]domain.PageSize
}

func (m *migrator) Run(ctx context.Context) (stats, error) {
	var st stats

	legacy, err := m.findLegacy(ctx)
	if err != nil {
		return st, err
	}
	st.Found = len(legacy)
	m.logger.Info("found legacy comment positions", zap.Int("count", len(legacy)), zap.Int("limit", m.limit))

	var migrated, skipped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.concurrency, 1))

	for _, c := range legacy {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			switch err := m.migrate(gctx, c); {
			case errors.Is(err, errNoPageSize):
				skipped.Add(1)
			case err != nil:
				failed.Add(1)
				m.logger.Warn("failed to migrate comment", zap.String("comment_id", c.ID), zap.Error(err))
			default:
				migrated.Add(1)
			}
			return nil
		})
	}
	err = g.Wait()

	st.Migrated = migrated.Load()
	st.Skipped = skipped.Load()
	st.Failed = failed.Load()
	return st, err
}

// findLegacy collects comments whose position is still in pixels.
func (m *migrator) findLegacy(ctx context.Context) ([]domain.Comment, error) {
	var legacy []domain.Comment
	err := m.comments.EachBatch(ctx, batchSize, func(batch []domain.Comment) error {
		for _, c := range batch {
			if !position.IsLegacy(c.Position) {
				continue
			}
			legacy = append(legacy, c)
			if m.limit > 0 && len(legacy) >= m.limit {
				return errLimitReached
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return nil, err
	}
	return legacy, nil
}

var errNoPageSize = errors.New("page size unknown")

func (m *migrator) migrate(ctx context.Context, c domain.Comment) error {
	pages, err := m.pagesOf(ctx, c.ResumeID)
	if err != nil {
		return err
	}
	pn := c.Position.PageNumber
	if pn < 1 || pn > len(pages) {
		m.logger.Info("skipping comment without page size",
			zap.String("comment_id", c.ID), zap.String("resume_id", c.ResumeID), zap.Int("page", pn))
		return errNoPageSize
	}

	normalized, ok := position.Normalize(c.Position, position.SizeOf(pages[pn-1]))
	if !ok {
		return errNoPageSize
	}

	if m.dryRun {
		m.logger.Info("[dry-run] would migrate comment",
			zap.String("comment_id", c.ID),
			zap.Float64("from_x", c.Position.X), zap.Float64("from_y", c.Position.Y),
			zap.Float64("to_x", normalized.X), zap.Float64("to_y", normalized.Y))
		return nil
	}
	return m.comments.UpdatePosition(ctx, c.ID, normalized)
}

// pagesOf caches resume page sizes for the run.
func (m *migrator) pagesOf(ctx context.Context, resumeID string) ([]domain.PageSize, error) {
	m.mu.Lock()
	pages, ok := m.pages[resumeID]
	m.mu.Unlock()
	if ok {
		return pages, nil
	}

	r, err := m.resumes.FindByID(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.pages == nil {
		m.pages = map[string][]domain.PageSize{}
	}
	m.pages[resumeID] = r.Pages
	m.mu.Unlock()
	return r.Pages, nil
}
