package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind classifies an APIError independently of its HTTP status.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindInvalidFile Kind = "invalid_file"
	KindNotFound    Kind = "not_found"
	KindStorage     Kind = "storage"
	KindInternal    Kind = "internal"
)

// APIError represents an application error
type APIError struct {
	Status   int               `json:"-"`
	Kind     Kind              `json:"kind"`
	Message  string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Internal error             `json:"-"`
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Internal
}

// Is matches another APIError of the same kind, so callers can write
// errors.Is(err, errors.ErrNotFound).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

func New(status int, kind Kind, message string, err error) *APIError {
	return &APIError{
		Status:   status,
		Kind:     kind,
		Message:  message,
		Internal: err,
	}
}

// Sentinels for errors.Is.
var (
	ErrValidation  = &APIError{Kind: KindValidation}
	ErrInvalidFile = &APIError{Kind: KindInvalidFile}
	ErrNotFound    = &APIError{Kind: KindNotFound}
	ErrStorage     = &APIError{Kind: KindStorage}
)

func Validation(message string, err error) *APIError {
	return New(http.StatusBadRequest, KindValidation, message, err)
}

func InvalidFile(message string, err error) *APIError {
	return New(http.StatusBadRequest, KindInvalidFile, message, err)
}

func NotFound(message string, err error) *APIError {
	return New(http.StatusNotFound, KindNotFound, message, err)
}

func Storage(message string, err error) *APIError {
	return New(http.StatusInternalServerError, KindStorage, message, err)
}

func Internal(err error) *APIError {
	return New(http.StatusInternalServerError, KindInternal, "Internal server error", err)
}

// NewValidationError turns a binding error into a 400 with one message per field.
func NewValidationError(err error) *APIError {
	apiErr := Validation("Invalid input", err)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apiErr
	}

	apiErr.Fields = make(map[string]string, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := lowerFirst(fe.Field())
		apiErr.Fields[name] = fieldMessage(fe)
		names = append(names, name)
	}
	apiErr.Message = "Missing or invalid fields: " + strings.Join(names, ", ")
	return apiErr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// From returns err as an APIError, treating anything unrecognised as internal.
func From(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}
