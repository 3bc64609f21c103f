package vote

import (
	"context"
	"fmt"
	"sync"

	"github.com/sinedd777/resume-reviewer/internal/domain"
)

// Interaction is the stored form of a State.
type Interaction struct {
	Liked    bool `json:"liked"`
	Disliked bool `json:"disliked"`
}

func (i Interaction) State() State {
	switch {
	case i.Liked && !i.Disliked:
		return Liked
	case i.Disliked && !i.Liked:
		return Disliked
	default:
		return Neutral
	}
}

func InteractionOf(s State) Interaction {
	return Interaction{Liked: s == Liked, Disliked: s == Disliked}
}

// SessionStore persists the interactions of one viewer session, one map per
// resume. Load returns an empty map when nothing was stored yet.
type SessionStore interface {
	Load(ctx context.Context, resumeID string) (map[string]Interaction, error)
	Save(ctx context.Context, resumeID string, interactions map[string]Interaction) error
}

// Session holds one viewer's votes and the optimistic counters for the
// comments of a single resume.
type Session struct {
	resumeID string
	store    SessionStore

	mu     sync.Mutex
	states map[string]State
	counts map[string]Counts
	locks  map[string]*sync.Mutex
}

// NewSession loads the stored interactions for resumeID, or starts empty.
func NewSession(ctx context.Context, store SessionStore, resumeID string) (*Session, error) {
	stored, err := store.Load(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("load session for resume %s: %w", resumeID, err)
	}

	s := &Session{
		resumeID: resumeID,
		store:    store,
		states:   make(map[string]State, len(stored)),
		counts:   make(map[string]Counts),
		locks:    make(map[string]*sync.Mutex),
	}
	for id, in := range stored {
		s.states[id] = in.State()
	}
	return s, nil
}

func (s *Session) ResumeID() string {
	return s.resumeID
}

// Track records the server counters of comments. Comments seen for the first
// time start Neutral. The interaction map is saved when it grew.
func (s *Session) Track(ctx context.Context, comments []domain.Comment) error {
	s.mu.Lock()
	added := false
	for i := range comments {
		c := &comments[i]
		s.counts[c.ID] = CountsOf(c)
		if _, ok := s.states[c.ID]; !ok {
			s.states[c.ID] = Neutral
			added = true
		}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if !added {
		return nil
	}
	return s.store.Save(ctx, s.resumeID, snapshot)
}

// State returns the viewer's vote on a comment.
func (s *Session) State(commentID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[commentID]
}

// Counts returns the optimistic counters of a tracked comment.
func (s *Session) Counts(commentID string) (Counts, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counts[commentID]
	return c, ok
}

// Snapshot returns the interactions in their stored form.
func (s *Session) Snapshot() map[string]Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() map[string]Interaction {
	out := make(map[string]Interaction, len(s.states))
	for id, st := range s.states {
		out[id] = InteractionOf(st)
	}
	return out
}

func (s *Session) save(ctx context.Context) error {
	return s.store.Save(ctx, s.resumeID, s.Snapshot())
}

// commentLock serializes votes on one comment.
func (s *Session) commentLock(commentID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[commentID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[commentID] = l
	}
	return l
}
