package resume

import (
	defError "errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sinedd777/resume-reviewer/internal/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service        Service
	maxUploadBytes int64
}

func NewHandler(service Service, maxUploadBytes int64) *Handler {
	return &Handler{service: service, maxUploadBytes: maxUploadBytes}
}

type CreateResponse struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
}

func (h *Handler) Upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if defError.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			c.Error(errors.New(http.StatusRequestEntityTooLarge, errors.KindInvalidFile, "File is too large", err))
			return
		}
		c.Error(errors.Validation("file is required", err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.Error(errors.InvalidFile("Could not read upload", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.Error(errors.InvalidFile("Could not read upload", err))
		return
	}

	fileName := filepath.Base(fh.Filename)
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mime.TypeByExtension(filepath.Ext(fileName))
	}

	resume, err := h.service.CreateResume(c.Request.Context(), fileName, mimeType, data)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, CreateResponse{
		ID:       resume.ID,
		FileName: resume.FileName,
		FileURL:  resume.FileURL,
	})
}

// Show returns one resume when ?id= is given and every resume otherwise.
func (h *Handler) Show(c *gin.Context) {
	id, ok := c.GetQuery("id")
	if !ok {
		resumes, err := h.service.ListResumes(c.Request.Context())
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, resumes)
		return
	}

	resume, err := h.service.GetResume(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resume)
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/resumes", h.Upload)
	r.GET("/resumes", h.Show)
}
