package comment

import (
	"context"
	defError "errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sinedd777/resume-reviewer/internal/domain"
	"github.com/sinedd777/resume-reviewer/internal/errors"
	"github.com/sinedd777/resume-reviewer/redis"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SortOrder string

const (
	SortCreated SortOrder = ""
	SortDate    SortOrder = "date"
	SortScore   SortOrder = "score"
)

type CreateInput struct {
	ResumeID    string
	Content     string
	Position    *domain.Position
	Author      *string
	CommentType domain.CommentType
}

type Service interface {
	CreateComment(ctx context.Context, in CreateInput) (*domain.Comment, error)
	ListComments(ctx context.Context, resumeID string, order SortOrder) ([]domain.Comment, error)
	UpdateVotes(ctx context.Context, id string, likes, dislikes *domain.Count) (*domain.Comment, error)
}

// ResumeFinder looks up the resume a comment is attached to.
type ResumeFinder interface {
	GetResume(ctx context.Context, id string) (*domain.Resume, error)
}

type DefaultService struct {
	repository CommentRepository
	resumes    ResumeFinder
	cache      *redis.Cache
	now        func() time.Time
}

func NewService(repository CommentRepository, resumes ResumeFinder, cache *redis.Cache) Service {
	return &DefaultService{
		repository: repository,
		resumes:    resumes,
		cache:      cache,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func versionKey(resumeID string) string {
	return fmt.Sprintf("resume:%s:comments:version", resumeID)
}

func (s *DefaultService) CreateComment(ctx context.Context, in CreateInput) (*domain.Comment, error) {
	if in.CommentType == "" {
		in.CommentType = domain.CommentTypeContent
	}
	in.Content = strings.TrimSpace(in.Content)

	fields := validateInput(in)
	if len(fields) > 0 {
		apiErr := errors.Validation("Invalid comment", nil)
		apiErr.Fields = fields
		return nil, apiErr
	}

	resume, err := s.resumes.GetResume(ctx, in.ResumeID)
	if err != nil {
		if defError.Is(err, errors.ErrNotFound) {
			apiErr := errors.Validation("Unknown resume", err)
			apiErr.Fields = map[string]string{"resumeId": "does not exist"}
			return nil, apiErr
		}
		return nil, err
	}
	if resume.PageCount > 0 && in.Position.PageNumber > resume.PageCount {
		apiErr := errors.Validation("Invalid comment", nil)
		apiErr.Fields = map[string]string{
			"position.pageNumber": fmt.Sprintf("must be at most %d", resume.PageCount),
		}
		return nil, apiErr
	}

	comment := &domain.Comment{
		ID:          uuid.NewString(),
		ResumeID:    in.ResumeID,
		Content:     in.Content,
		Position:    *in.Position,
		Author:      in.Author,
		CreatedAt:   s.now(),
		CommentType: in.CommentType,
	}
	if err := s.repository.Create(ctx, comment); err != nil {
		return nil, errors.Storage("Failed to save comment", err)
	}

	// bump version so lists are read fresh
	s.cache.IncrementVersion(ctx, versionKey(in.ResumeID))
	return comment, nil
}

func validateInput(in CreateInput) map[string]string {
	fields := map[string]string{}
	if in.ResumeID == "" {
		fields["resumeId"] = "is required"
	}
	if in.Content == "" {
		fields["content"] = "is required"
	}
	if !in.CommentType.Valid() {
		fields["commentType"] = "must be one of [content styling]"
	}

	pos := in.Position
	if pos == nil {
		fields["position"] = "is required"
		return fields
	}
	if pos.PageNumber < 1 {
		fields["position.pageNumber"] = "must be at least 1"
	}
	if pos.X < 0 || pos.X > 1 {
		fields["position.x"] = "must be between 0 and 1"
	}
	if pos.Y < 0 || pos.Y > 1 {
		fields["position.y"] = "must be between 0 and 1"
	}
	return fields
}

func (s *DefaultService) ListComments(ctx context.Context, resumeID string, order SortOrder) ([]domain.Comment, error) {
	if resumeID == "" {
		return nil, errors.Validation("resumeId is required", nil)
	}

	v := s.cache.GetVersion(ctx, versionKey(resumeID))
	cacheKey := fmt.Sprintf("comments:r:%s:v:%d", resumeID, v)

	var comments []domain.Comment
	found, _ := s.cache.Get(ctx, cacheKey, &comments)
	if !found {
		var err error
		comments, err = s.repository.ListByResume(ctx, resumeID)
		if err != nil {
			return nil, errors.Storage("Failed to load comments", err)
		}
		go s.cache.Set(context.Background(), cacheKey, comments, 0)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}

	return Sort(comments, order), nil
}

func (s *DefaultService) UpdateVotes(ctx context.Context, id string, likes, dislikes *domain.Count) (*domain.Comment, error) {
	if id == "" {
		return nil, errors.Validation("id is required", nil)
	}

	updated, err := s.repository.UpdateVotes(ctx, id, likes, dislikes)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Comment not found", err)
		}
		return nil, errors.Storage("Failed to update votes", err)
	}

	s.cache.IncrementVersion(ctx, versionKey(updated.ResumeID))
	return updated, nil
}

// Sort returns a sorted copy of comments. SortDate puts the newest first,
// SortScore orders by likes minus dislikes, highest first. Anything else keeps
// creation order.
func Sort(comments []domain.Comment, order SortOrder) []domain.Comment {
	out := slices.Clone(comments)
	switch order {
	case SortDate:
		slices.SortStableFunc(out, func(a, b domain.Comment) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortScore:
		slices.SortStableFunc(out, func(a, b domain.Comment) int {
			return b.Score() - a.Score()
		})
	}
	return out
}
