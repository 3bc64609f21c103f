package resume

import (
	"context"
	"time"

	"github.com/sinedd777/resume-reviewer/internal/domain"

	"gorm.io/gorm"
)

type ResumeRepository interface {
	Create(ctx context.Context, resume *domain.Resume) error
	FindByID(ctx context.Context, id string) (*domain.Resume, error)
	List(ctx context.Context) ([]domain.Resume, error)
}

type ResumeRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ResumeRepository {
	return &ResumeRepositoryImpl{db: db}
}

func (r *ResumeRepositoryImpl) Create(ctx context.Context, resume *domain.Resume) error {
	if resume.UploadedAt.IsZero() {
		resume.UploadedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(resume).Error
}

func (r *ResumeRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Resume, error) {
	var resume domain.Resume
	if err := r.db.WithContext(ctx).First(&resume, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &resume, nil
}

// List returns every resume, most recent upload first.
func (r *ResumeRepositoryImpl) List(ctx context.Context) ([]domain.Resume, error) {
	resumes := []domain.Resume{}
	err := r.db.WithContext(ctx).Order("uploaded_at DESC").Find(&resumes).Error
	return resumes, err
}
