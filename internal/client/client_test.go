package client

import (
	"context"
	defError "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sinedd777/resume-reviewer/internal/comment"
	"github.com/sinedd777/resume-reviewer/internal/db"
	"github.com/sinedd777/resume-reviewer/internal/domain"
	"github.com/sinedd777/resume-reviewer/internal/errors"
	"github.com/sinedd777/resume-reviewer/internal/middleware"
	"github.com/sinedd777/resume-reviewer/internal/objectstore"
	"github.com/sinedd777/resume-reviewer/internal/pdf"
	"github.com/sinedd777/resume-reviewer/internal/resume"
	"github.com/sinedd777/resume-reviewer/internal/vote"
	"github.com/sinedd777/resume-reviewer/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestAPI serves the real handlers on top of sqlite and a temp dir.
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	store, err := objectstore.NewLocalStore(t.TempDir(), "http://files.test")
	require.NoError(t, err)
	pool := worker.NewWorkerPool(1, 4, zap.NewNop())
	t.Cleanup(pool.Shutdown)

	resumeService := resume.NewService(resume.NewRepository(gdb), store, pdf.NewInspector(), pool, nil, zap.NewNop())
	commentService := comment.NewService(comment.NewRepository(gdb), resumeService, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler(zap.NewNop()))
	resume.NewHandler(resumeService, 1<<20).RegisterRoutes(router)
	comment.NewHandler(commentService).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ReviewFlow(t *testing.T) {
	srv := newTestAPI(t)
	c := NewClient(srv.URL+"/", 5*time.Second)
	ctx := context.Background()

	up, err := c.UploadResume(ctx, "resume.pdf", "application/pdf", pdf.Build([2]float64{612, 792}))
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", up.FileName)
	assert.Equal(t, "http://files.test/"+up.ID+"/resume.pdf", up.FileURL)

	got, err := c.GetResume(ctx, up.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PageCount)

	all, err := c.ListResumes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	created, err := c.CreateComment(ctx, CreateCommentRequest{
		ResumeID:    up.ID,
		Content:     "Great summary",
		Position:    domain.Position{PageNumber: 1, X: 0.5, Y: 0.2},
		CommentType: domain.CommentTypeContent,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.Count(0), created.Likes)
	assert.Equal(t, domain.Count(0), created.Dislikes)

	comments, err := c.ListComments(ctx, up.ID, "")
	require.NoError(t, err)
	require.Len(t, comments, 1)

	session, err := vote.NewSession(ctx, vote.NewFileSessionStore(t.TempDir(), "viewer"), up.ID)
	require.NoError(t, err)
	require.NoError(t, session.Track(ctx, comments))
	reconciler := vote.NewReconciler(c, session, nil)

	res, err := reconciler.Like(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, vote.Liked, res.State)

	res, err = reconciler.Dislike(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, vote.Disliked, res.State)

	comments, err = c.ListComments(ctx, up.ID, "score")
	require.NoError(t, err)
	assert.Equal(t, domain.Count(0), comments[0].Likes)
	assert.Equal(t, domain.Count(1), comments[0].Dislikes)
}

func TestClient_ErrorsCarryKind(t *testing.T) {
	srv := newTestAPI(t)
	c := NewClient(srv.URL, 5*time.Second)
	ctx := context.Background()

	_, err := c.GetResume(ctx, "missing")
	assert.True(t, defError.Is(err, errors.ErrNotFound), "got %v", err)

	_, err = c.UploadResume(ctx, "notes.txt", "text/plain", []byte("hello"))
	assert.True(t, defError.Is(err, errors.ErrInvalidFile), "got %v", err)

	_, err = c.CreateComment(ctx, CreateCommentRequest{ResumeID: "missing", Content: "x", Position: domain.Position{PageNumber: 1}})
	assert.True(t, defError.Is(err, errors.ErrValidation), "got %v", err)

	likes := domain.Count(1)
	_, err = c.UpdateVotes(ctx, "missing", &likes, nil)
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).ListResumes(context.Background())

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, errors.KindStorage, apiErr.Kind)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).ListComments(context.Background(), "r1", "")
	assert.True(t, defError.Is(err, errors.ErrStorage), "got %v", err)
}

func TestClient_TextualCounters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","likes":"4","dislikes":null}`)
	}))
	defer srv.Close()

	likes := domain.Count(4)
	c, err := NewClient(srv.URL, time.Second).UpdateVotes(context.Background(), "c1", &likes, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.Count(4), c.Likes)
	assert.Equal(t, domain.Count(0), c.Dislikes)
}
