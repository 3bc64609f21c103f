// Package vote enforces one like or one dislike per viewer session and
// comment. Votes are applied locally first and rolled back when the store
// rejects them.
package vote

import (
	"context"
	"errors"
	"fmt"

	"github.com/sinedd777/resume-reviewer/internal/domain"

	"go.uber.org/zap"
)

// ErrUntracked is returned when voting on a comment the session has no
// counters for.
var ErrUntracked = errors.New("comment is not tracked by this session")

// Store persists absolute vote counters and returns the stored comment.
type Store interface {
	UpdateVotes(ctx context.Context, commentID string, likes, dislikes *domain.Count) (*domain.Comment, error)
}

type Result struct {
	State  State
	Counts Counts
	// Reconciled is set when the store reported counters other than the
	// ones sent and the session adopted them.
	Reconciled bool
}

type Reconciler struct {
	store   Store
	session *Session
	logger  *zap.Logger
}

func NewReconciler(store Store, session *Session, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{store: store, session: session, logger: logger}
}

func (r *Reconciler) Session() *Session {
	return r.session
}

func (r *Reconciler) Like(ctx context.Context, commentID string) (Result, error) {
	return r.Vote(ctx, commentID, Like)
}

func (r *Reconciler) Dislike(ctx context.Context, commentID string) (Result, error) {
	return r.Vote(ctx, commentID, Dislike)
}

// Vote applies action to the comment optimistically, sends the new counters
// to the store and either adopts the store's answer or reverts the change.
func (r *Reconciler) Vote(ctx context.Context, commentID string, action Action) (Result, error) {
	lock := r.session.commentLock(commentID)
	lock.Lock()
	defer lock.Unlock()

	s := r.session
	s.mu.Lock()
	counts, ok := s.counts[commentID]
	if !ok {
		s.mu.Unlock()
		return Result{}, ErrUntracked
	}
	from := s.states[commentID]
	t, err := plan(from, action)
	if err != nil {
		s.mu.Unlock()
		return Result{State: from, Counts: counts}, err
	}
	next, undo := t.apply(counts)
	s.states[commentID] = t.To
	s.counts[commentID] = next
	s.mu.Unlock()

	likes, dislikes := next.Likes, next.Dislikes
	updated, err := r.store.UpdateVotes(ctx, commentID, &likes, &dislikes)
	if err != nil {
		s.mu.Lock()
		restored, _ := undo.apply(s.counts[commentID])
		s.states[commentID] = undo.To
		s.counts[commentID] = restored
		s.mu.Unlock()

		r.logger.Info("vote rolled back",
			zap.String("comment_id", commentID),
			zap.Stringer("action", action),
			zap.Stringer("state", undo.To),
			zap.Error(err))
		r.persist(ctx)
		return Result{State: undo.To, Counts: restored}, fmt.Errorf("%s comment %s: %w", action, commentID, err)
	}

	result := Result{State: t.To, Counts: next}
	if stored := CountsOf(updated); stored != next {
		result.Counts = stored
		result.Reconciled = true
		s.mu.Lock()
		s.counts[commentID] = stored
		s.mu.Unlock()

		r.logger.Debug("vote counters reconciled",
			zap.String("comment_id", commentID),
			zap.Int("sent_likes", next.Likes.Int()),
			zap.Int("sent_dislikes", next.Dislikes.Int()),
			zap.Int("stored_likes", stored.Likes.Int()),
			zap.Int("stored_dislikes", stored.Dislikes.Int()))
	}
	r.persist(ctx)
	return result, nil
}

func (r *Reconciler) persist(ctx context.Context) {
	if err := r.session.save(ctx); err != nil {
		r.logger.Warn("failed to save vote session",
			zap.String("resume_id", r.session.resumeID),
			zap.Error(err))
	}
}
