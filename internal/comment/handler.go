package comment

import (
	"net/http"

	"github.com/sinedd777/resume-reviewer/internal/domain"
	"github.com/sinedd777/resume-reviewer/internal/errors"
	"github.com/sinedd777/resume-reviewer/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateRequest struct {
	ResumeID    string             `json:"resumeId" binding:"required"`
	Content     string             `json:"content" binding:"required"`
	Position    *domain.Position   `json:"position" binding:"required"`
	Author      *string            `json:"author"`
	CommentType domain.CommentType `json:"commentType" binding:"omitempty,oneof=content styling"`
}

// UpdateVotesRequest carries absolute counters. A missing or null counter is
// left unchanged.
type UpdateVotesRequest struct {
	ID       string        `json:"id" binding:"required"`
	Likes    *domain.Count `json:"likes"`
	Dislikes *domain.Count `json:"dislikes"`
}

func (h *Handler) Create(c *gin.Context) {
	var form CreateRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	comment, err := h.service.CreateComment(c.Request.Context(), CreateInput{
		ResumeID:    form.ResumeID,
		Content:     form.Content,
		Position:    form.Position,
		Author:      form.Author,
		CommentType: form.CommentType,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) List(c *gin.Context) {
	resumeID := c.Query("resumeId")
	if resumeID == "" {
		c.Error(errors.Validation("resumeId is required", nil))
		return
	}

	sort, ok := utils.GetSortParam(c, string(SortDate), string(SortScore))
	if !ok {
		c.Error(errors.Validation("sort must be one of [date score]", nil))
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), resumeID, SortOrder(sort))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) UpdateVotes(c *gin.Context) {
	var form UpdateVotesRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	comment, err := h.service.UpdateVotes(c.Request.Context(), form.ID, form.Likes, form.Dislikes)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/comments", h.Create)
	r.GET("/comments", h.List)
	r.PATCH("/comments", h.UpdateVotes)
}
