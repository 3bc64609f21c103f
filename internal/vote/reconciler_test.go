package vote

import (
	"context"
	"errors"
	"testing"

	"github.com/sinedd777/resume-reviewer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) UpdateVotes(ctx context.Context, commentID string, likes, dislikes *domain.Count) (*domain.Comment, error) {
	args := m.Called(ctx, commentID, likes, dislikes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

// memoryStore is a SessionStore kept in a map.
type memoryStore struct {
	data  map[string]map[string]Interaction
	saves int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]map[string]Interaction{}}
}

func (m *memoryStore) Load(_ context.Context, resumeID string) (map[string]Interaction, error) {
	out := map[string]Interaction{}
	for k, v := range m.data[resumeID] {
		out[k] = v
	}
	return out, nil
}

func (m *memoryStore) Save(_ context.Context, resumeID string, in map[string]Interaction) error {
	m.saves++
	m.data[resumeID] = in
	return nil
}

func counts(likes, dislikes int) Counts {
	return Counts{Likes: domain.Count(likes), Dislikes: domain.Count(dislikes)}
}

func countPtr(v int) *domain.Count {
	c := domain.Count(v)
	return &c
}

func stored(id string, likes, dislikes int) *domain.Comment {
	return &domain.Comment{ID: id, ResumeID: "r1", Likes: domain.Count(likes), Dislikes: domain.Count(dislikes)}
}

func newTestReconciler(t *testing.T, store *MockStore, sessions *memoryStore, comments ...domain.Comment) *Reconciler {
	t.Helper()
	session, err := NewSession(context.Background(), sessions, "r1")
	require.NoError(t, err)
	require.NoError(t, session.Track(context.Background(), comments))
	return NewReconciler(store, session, nil)
}

func TestVote_NeutralToLiked(t *testing.T) {
	store := new(MockStore)
	r := newTestReconciler(t, store, newMemoryStore(), *stored("c1", 0, 0))

	store.On("UpdateVotes", mock.Anything, "c1", countPtr(1), countPtr(0)).Return(stored("c1", 1, 0), nil)

	res, err := r.Like(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, Liked, res.State)
	assert.Equal(t, counts(1, 0), res.Counts)
	assert.False(t, res.Reconciled)
	store.AssertExpectations(t)
}

func TestVote_RepeatedLikeIsRejectedWithoutStoreCall(t *testing.T) {
	store := new(MockStore)
	r := newTestReconciler(t, store, newMemoryStore(), *stored("c1", 0, 0))

	store.On("UpdateVotes", mock.Anything, "c1", countPtr(1), countPtr(0)).Return(stored("c1", 1, 0), nil).Once()

	_, err := r.Like(context.Background(), "c1")
	require.NoError(t, err)

	res, err := r.Like(context.Background(), "c1")
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.Equal(t, Liked, res.State)
	assert.Equal(t, counts(1, 0), res.Counts)

	store.AssertNumberOfCalls(t, "UpdateVotes", 1)
}

func TestVote_RepeatedDislikeIsRejected(t *testing.T) {
	store := new(MockStore)
	sessions := newMemoryStore()
	sessions.data["r1"] = map[string]Interaction{"c1": {Disliked: true}}
	r := newTestReconciler(t, store, sessions, *stored("c1", 0, 2))

	_, err := r.Dislike(context.Background(), "c1")

	assert.ErrorIs(t, err, ErrAlreadyVoted)
	c, _ := r.Session().Counts("c1")
	assert.Equal(t, counts(0, 2), c)
	store.AssertNotCalled(t, "UpdateVotes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVote_DislikedToLiked(t *testing.T) {
	store := new(MockStore)
	sessions := newMemoryStore()
	sessions.data["r1"] = map[string]Interaction{"c1": {Disliked: true}}
	r := newTestReconciler(t, store, sessions, *stored("c1", 3, 1))

	store.On("UpdateVotes", mock.Anything, "c1", countPtr(4), countPtr(0)).Return(stored("c1", 4, 0), nil)

	res, err := r.Like(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, Liked, res.State)
	assert.Equal(t, counts(4, 0), res.Counts)
	assert.Equal(t, Interaction{Liked: true}, sessions.data["r1"]["c1"])
}

func TestVote_FailureRollsBack(t *testing.T) {
	store := new(MockStore)
	sessions := newMemoryStore()
	sessions.data["r1"] = map[string]Interaction{"c1": {Disliked: true}}
	r := newTestReconciler(t, store, sessions, *stored("c1", 3, 1))

	netErr := errors.New("connection reset")
	store.On("UpdateVotes", mock.Anything, "c1", countPtr(4), countPtr(0)).Return(nil, netErr)

	res, err := r.Like(context.Background(), "c1")

	assert.ErrorIs(t, err, netErr)
	assert.Equal(t, Disliked, res.State)
	assert.Equal(t, counts(3, 1), res.Counts)

	c, ok := r.Session().Counts("c1")
	require.True(t, ok)
	assert.Equal(t, counts(3, 1), c)
	assert.Equal(t, Disliked, r.Session().State("c1"))
	assert.Equal(t, Interaction{Disliked: true}, sessions.data["r1"]["c1"])
}

func TestVote_RollbackRestoresClippedDelta(t *testing.T) {
	store := new(MockStore)
	sessions := newMemoryStore()
	sessions.data["r1"] = map[string]Interaction{"c1": {Liked: true}}
	// the server already lost our like, so the decrement is clipped at zero
	r := newTestReconciler(t, store, sessions, *stored("c1", 0, 2))

	store.On("UpdateVotes", mock.Anything, "c1", countPtr(0), countPtr(3)).Return(nil, errors.New("timeout"))

	res, err := r.Dislike(context.Background(), "c1")

	require.Error(t, err)
	assert.Equal(t, Liked, res.State)
	assert.Equal(t, counts(0, 2), res.Counts)
}

func TestVote_SwitchingNetsOut(t *testing.T) {
	store := new(MockStore)
	r := newTestReconciler(t, store, newMemoryStore(), *stored("c1", 5, 2))

	store.On("UpdateVotes", mock.Anything, "c1", countPtr(6), countPtr(2)).Return(stored("c1", 6, 2), nil)
	store.On("UpdateVotes", mock.Anything, "c1", countPtr(5), countPtr(3)).Return(stored("c1", 5, 3), nil)

	_, err := r.Like(context.Background(), "c1")
	require.NoError(t, err)
	res, err := r.Dislike(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, Disliked, res.State)
	assert.Equal(t, counts(5, 3), res.Counts)
	store.AssertExpectations(t)
}

func TestVote_AdoptsStoreCounters(t *testing.T) {
	store := new(MockStore)
	r := newTestReconciler(t, store, newMemoryStore(), *stored("c1", 1, 0))

	// another reviewer voted in between
	store.On("UpdateVotes", mock.Anything, "c1", countPtr(2), countPtr(0)).Return(stored("c1", 3, 1), nil)

	res, err := r.Like(context.Background(), "c1")

	require.NoError(t, err)
	assert.True(t, res.Reconciled)
	assert.Equal(t, counts(3, 1), res.Counts)
	c, _ := r.Session().Counts("c1")
	assert.Equal(t, counts(3, 1), c)
	assert.Equal(t, Liked, r.Session().State("c1"))
}

func TestVote_Untracked(t *testing.T) {
	store := new(MockStore)
	r := newTestReconciler(t, store, newMemoryStore())

	_, err := r.Like(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrUntracked)
	store.AssertNotCalled(t, "UpdateVotes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVote_SurvivesSessionReload(t *testing.T) {
	store := new(MockStore)
	sessions := newMemoryStore()
	r := newTestReconciler(t, store, sessions, *stored("c1", 0, 0))

	store.On("UpdateVotes", mock.Anything, "c1", countPtr(1), countPtr(0)).Return(stored("c1", 1, 0), nil).Once()
	_, err := r.Like(context.Background(), "c1")
	require.NoError(t, err)

	reloaded := newTestReconciler(t, store, sessions, *stored("c1", 1, 0))
	_, err = reloaded.Like(context.Background(), "c1")

	assert.ErrorIs(t, err, ErrAlreadyVoted)
	store.AssertNumberOfCalls(t, "UpdateVotes", 1)
}
