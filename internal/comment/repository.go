package comment

import (
	"context"
	"time"

	"github.com/sinedd777/resume-reviewer/internal/domain"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByResume(ctx context.Context, resumeID string) ([]domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	UpdateVotes(ctx context.Context, id string, likes, dislikes *domain.Count) (*domain.Comment, error)
	UpdatePosition(ctx context.Context, id string, position domain.Position) error
	EachBatch(ctx context.Context, size int, fn func([]domain.Comment) error) error
}

type CommentRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) CommentRepository {
	return &CommentRepositoryImpl{db: db}
}

func (r *CommentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListByResume returns the comments of a resume oldest first. A resume
// without comments yields an empty slice.
func (r *CommentRepositoryImpl) ListByResume(ctx context.Context, resumeID string) ([]domain.Comment, error) {
	comments := []domain.Comment{}
	err := r.db.WithContext(ctx).
		Where("document_id = ?", resumeID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	var c domain.Comment
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateVotes sets only the counters that are given and returns the row as
// stored afterwards. gorm.ErrRecordNotFound is returned for an unknown id.
func (r *CommentRepositoryImpl) UpdateVotes(ctx context.Context, id string, likes, dislikes *domain.Count) (*domain.Comment, error) {
	updates := map[string]any{}
	if likes != nil {
		updates["likes"] = domain.NewCount(likes.Int()).Int()
	}
	if dislikes != nil {
		updates["dislikes"] = domain.NewCount(dislikes.Int()).Int()
	}

	var updated domain.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Comment
		if err := tx.Select("id").First(&existing, "id = ?", id).Error; err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&domain.Comment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdatePosition rewrites a stored position. Only the legacy position
// migration uses it.
func (r *CommentRepositoryImpl) UpdatePosition(ctx context.Context, id string, position domain.Position) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Comment{ID: id}).
		Select("Position").
		Updates(&domain.Comment{Position: position})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EachBatch walks every comment in primary key order.
func (r *CommentRepositoryImpl) EachBatch(ctx context.Context, size int, fn func([]domain.Comment) error) error {
	var batch []domain.Comment
	return r.db.WithContext(ctx).FindInBatches(&batch, size, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}
