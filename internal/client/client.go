// Package client talks to the resume review API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/sinedd777/resume-reviewer/internal/domain"
	"github.com/sinedd777/resume-reviewer/internal/errors"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type UploadResult struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
}

type CreateCommentRequest struct {
	ResumeID    string             `json:"resumeId"`
	Content     string             `json:"content"`
	Position    domain.Position    `json:"position"`
	Author      *string            `json:"author,omitempty"`
	CommentType domain.CommentType `json:"commentType,omitempty"`
}

type updateVotesRequest struct {
	ID       string        `json:"id"`
	Likes    *domain.Count `json:"likes,omitempty"`
	Dislikes *domain.Count `json:"dislikes,omitempty"`
}

// UploadResume sends a file as the multipart field "file".
func (c *Client) UploadResume(ctx context.Context, fileName, mimeType string, data []byte) (*UploadResult, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var out UploadResult
	if err := c.do(ctx, http.MethodPost, "/resumes", w.FormDataContentType(), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetResume(ctx context.Context, id string) (*domain.Resume, error) {
	var out domain.Resume
	if err := c.do(ctx, http.MethodGet, "/resumes?id="+url.QueryEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListResumes(ctx context.Context) ([]domain.Resume, error) {
	out := []domain.Resume{}
	if err := c.do(ctx, http.MethodGet, "/resumes", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateComment(ctx context.Context, req CreateCommentRequest) (*domain.Comment, error) {
	var out domain.Comment
	if err := c.doJSON(ctx, http.MethodPost, "/comments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListComments returns the comments of a resume. sort may be "", "date" or "score".
func (c *Client) ListComments(ctx context.Context, resumeID, sort string) ([]domain.Comment, error) {
	q := url.Values{"resumeId": {resumeID}}
	if sort != "" {
		q.Set("sort", sort)
	}

	out := []domain.Comment{}
	if err := c.do(ctx, http.MethodGet, "/comments?"+q.Encode(), "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateVotes sends absolute counters; nil counters are left unchanged.
func (c *Client) UpdateVotes(ctx context.Context, commentID string, likes, dislikes *domain.Count) (*domain.Comment, error) {
	var out domain.Comment
	req := updateVotesRequest{ID: commentID, Likes: likes, Dislikes: dislikes}
	if err := c.doJSON(ctx, http.MethodPatch, "/comments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(body), out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Storage("API request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return decodeError(resp.StatusCode, b)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Storage("Malformed API response", err)
	}
	return nil
}

// decodeError rebuilds the server's APIError from an error response.
func decodeError(status int, body []byte) *errors.APIError {
	var apiErr errors.APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
		apiErr = errors.APIError{Message: strings.TrimSpace(string(body))}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}
	apiErr.Status = status
	if apiErr.Kind == "" {
		apiErr.Kind = kindForStatus(status)
	}
	return &apiErr
}

func kindForStatus(status int) errors.Kind {
	switch {
	case status == http.StatusNotFound:
		return errors.KindNotFound
	case status >= 400 && status < 500:
		return errors.KindValidation
	default:
		return errors.KindStorage
	}
}
