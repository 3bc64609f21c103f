package resume

import (
	"bytes"
	"context"
	defError "errors"
	"fmt"
	"strings"
	"time"

	"github.com/sinedd777/resume-reviewer/internal/domain"
	"github.com/sinedd777/resume-reviewer/internal/errors"
	"github.com/sinedd777/resume-reviewer/internal/objectstore"
	"github.com/sinedd777/resume-reviewer/internal/worker"
	"github.com/sinedd777/resume-reviewer/redis"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	listVersionKey = "resumes:version"
	cleanupTimeout = 30 * time.Second
)

type Service interface {
	CreateResume(ctx context.Context, fileName, mimeType string, data []byte) (*domain.Resume, error)
	GetResume(ctx context.Context, id string) (*domain.Resume, error)
	ListResumes(ctx context.Context) ([]domain.Resume, error)
}

// PageInspector reads the page sizes of a PDF.
type PageInspector interface {
	Pages(data []byte) ([]domain.PageSize, error)
}

// TaskSubmitter runs cleanup work in the background.
type TaskSubmitter interface {
	Submit(t worker.Task) bool
}

type DefaultService struct {
	repository ResumeRepository
	store      objectstore.Store
	inspector  PageInspector
	tasks      TaskSubmitter
	cache      *redis.Cache
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(
	repository ResumeRepository,
	store objectstore.Store,
	inspector PageInspector,
	tasks TaskSubmitter,
	cache *redis.Cache,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultService{
		repository: repository,
		store:      store,
		inspector:  inspector,
		tasks:      tasks,
		cache:      cache,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateResume validates and stores an uploaded PDF, then records its
// metadata. If the record cannot be saved the stored object is removed in
// the background.
func (s *DefaultService) CreateResume(ctx context.Context, fileName, mimeType string, data []byte) (*domain.Resume, error) {
	if !strings.Contains(strings.ToLower(mimeType), "pdf") {
		return nil, errors.InvalidFile("Only PDF files are accepted", nil)
	}
	if len(data) == 0 {
		return nil, errors.InvalidFile("File is empty", nil)
	}

	pages, err := s.inspector.Pages(data)
	if err != nil {
		return nil, errors.InvalidFile("File is not a readable PDF", err)
	}

	id := uuid.NewString()
	key := objectstore.Key(id, fileName)
	url, err := s.store.Put(ctx, key, "application/pdf", bytes.NewReader(data))
	if err != nil {
		return nil, errors.Storage("Failed to store file", err)
	}

	if name := strings.TrimSpace(fileName); name != "" {
		fileName = name
	} else {
		fileName = key[strings.LastIndex(key, "/")+1:]
	}
	resume := &domain.Resume{
		ID:         id,
		FileName:   fileName,
		FileURL:    url,
		UploadedAt: s.now(),
		PageCount:  len(pages),
		Pages:      pages,
	}
	if err := s.repository.Create(ctx, resume); err != nil {
		s.removeOrphan(key)
		return nil, errors.Storage("Failed to save resume", err)
	}

	// increase cache key, so any new fetch will get new version
	s.cache.IncrementVersion(ctx, listVersionKey)
	return resume, nil
}

func (s *DefaultService) removeOrphan(key string) {
	accepted := s.tasks.Submit(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, cleanupTimeout)
		defer cancel()
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete orphaned object %s: %w", key, err)
		}
		s.logger.Info("removed orphaned object", zap.String("key", key))
		return nil
	})
	if !accepted {
		s.logger.Warn("orphaned object left in store", zap.String("key", key))
	}
}

func (s *DefaultService) GetResume(ctx context.Context, id string) (*domain.Resume, error) {
	if id == "" {
		return nil, errors.Validation("id is required", nil)
	}

	// records never change, so the id alone is a safe cache key
	cacheKey := fmt.Sprintf("resume:%s", id)
	var resume domain.Resume
	if found, _ := s.cache.Get(ctx, cacheKey, &resume); found {
		return &resume, nil
	}

	record, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Resume not found", err)
		}
		return nil, errors.Storage("Failed to load resume", err)
	}
	go s.cache.Set(context.Background(), cacheKey, record, 0)

	return record, nil
}

func (s *DefaultService) ListResumes(ctx context.Context) ([]domain.Resume, error) {
	v := s.cache.GetVersion(ctx, listVersionKey)
	cacheKey := fmt.Sprintf("resumes:v:%d", v)

	var resumes []domain.Resume
	if found, _ := s.cache.Get(ctx, cacheKey, &resumes); found && resumes != nil {
		return resumes, nil
	}

	resumes, err := s.repository.List(ctx)
	if err != nil {
		return nil, errors.Storage("Failed to load resumes", err)
	}
	go s.cache.Set(context.Background(), cacheKey, resumes, 0)

	return resumes, nil
}
