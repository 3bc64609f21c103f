package resume

import (
	"context"
	defError "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sinedd777/resume-reviewer/internal/db"
	"github.com/sinedd777/resume-reviewer/internal/domain"
	"github.com/sinedd777/resume-reviewer/internal/errors"
	"github.com/sinedd777/resume-reviewer/internal/objectstore"
	"github.com/sinedd777/resume-reviewer/internal/pdf"
	"github.com/sinedd777/resume-reviewer/internal/worker"
	"github.com/sinedd777/resume-reviewer/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return gdb
}

type failingRepository struct {
	ResumeRepository
}

func (failingRepository) Create(context.Context, *domain.Resume) error {
	return defError.New("insert failed")
}

type fixture struct {
	svc   *DefaultService
	root  string
	pool  *worker.WorkerPool
	redis *miniredis.Miniredis
}

func newFixture(t *testing.T, repo ResumeRepository) *fixture {
	t.Helper()
	root := t.TempDir()
	store, err := objectstore.NewLocalStore(root, "http://localhost:8080/files")
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	pool := worker.NewWorkerPool(1, 8, zap.NewNop())
	t.Cleanup(pool.Shutdown)

	if repo == nil {
		repo = NewRepository(openTestDB(t))
	}
	svc := NewService(repo, store, pdf.NewInspector(), pool, redis.NewCache(client, time.Minute), zap.NewNop()).(*DefaultService)
	return &fixture{svc: svc, root: root, pool: pool, redis: mr}
}

func TestService_CreateResume(t *testing.T) {
	f := newFixture(t, nil)
	data := pdf.Build([2]float64{612, 792}, [2]float64{595, 842})

	resume, err := f.svc.CreateResume(context.Background(), "resume.pdf", "application/pdf", data)

	require.NoError(t, err)
	assert.NotEmpty(t, resume.ID)
	assert.Equal(t, "resume.pdf", resume.FileName)
	assert.Equal(t, "http://localhost:8080/files/"+resume.ID+"/resume.pdf", resume.FileURL)
	assert.Equal(t, 2, resume.PageCount)
	assert.Equal(t, []domain.PageSize{{Width: 612, Height: 792}, {Width: 595, Height: 842}}, resume.Pages)

	stored, err := os.ReadFile(filepath.Join(f.root, resume.ID, "resume.pdf"))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	got, err := f.svc.GetResume(context.Background(), resume.ID)
	require.NoError(t, err)
	assert.Equal(t, resume.FileURL, got.FileURL)
	assert.Equal(t, 2, got.PageCount)
}

func TestService_CreateResumeRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		data     []byte
	}{
		{"not pdf mime", "image/png", pdf.Build([2]float64{612, 792})},
		{"empty", "application/pdf", nil},
		{"garbage", "application/pdf", []byte("definitely not a pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			_, err := f.svc.CreateResume(context.Background(), "resume.pdf", tt.mimeType, tt.data)

			assert.True(t, defError.Is(err, errors.ErrInvalidFile), "got %v", err)
			entries, _ := os.ReadDir(f.root)
			assert.Empty(t, entries)
		})
	}
}

func TestService_CreateResumeRemovesOrphanOnMetadataFailure(t *testing.T) {
	f := newFixture(t, failingRepository{})

	_, err := f.svc.CreateResume(context.Background(), "resume.pdf", "application/pdf", pdf.Build([2]float64{612, 792}))

	assert.True(t, defError.Is(err, errors.ErrStorage))
	f.pool.Shutdown()
	entries, _ := os.ReadDir(f.root)
	assert.Empty(t, entries)
}

func TestService_GetResumeNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.GetResume(context.Background(), "missing")

	assert.True(t, defError.Is(err, errors.ErrNotFound))
}

func TestService_ListResumesNewestFirst(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	f.svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, err := f.svc.CreateResume(ctx, "a.pdf", "application/pdf", pdf.Build([2]float64{612, 792}))
	require.NoError(t, err)
	second, err := f.svc.CreateResume(ctx, "b.pdf", "application/pdf", pdf.Build([2]float64{612, 792}))
	require.NoError(t, err)

	resumes, err := f.svc.ListResumes(ctx)
	require.NoError(t, err)
	require.Len(t, resumes, 2)
	assert.Equal(t, second.ID, resumes[0].ID)
	assert.Equal(t, first.ID, resumes[1].ID)

	v, err := f.redis.Get("resumes:version")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestService_ListResumesEmpty(t *testing.T) {
	f := newFixture(t, nil)

	resumes, err := f.svc.ListResumes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, resumes)
	assert.Empty(t, resumes)
}
