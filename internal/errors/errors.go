package errors

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrAdNotFound is returned when an ad is not found.
	ErrAdNotFound = errors.New("ad not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrSubcategoryNotFound is returned when a subcategory is not found.
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotOwner is returned when a caller tries to modify an ad they do not own.
	ErrNotOwner = errors.New("only the owner may modify this ad")
	// ErrModeratorRequired is returned when a non-moderator calls a moderation operation.
	ErrModeratorRequired = errors.New("moderator role required")
	// ErrDuplicateName is returned on a duplicate category or subcategory name.
	ErrDuplicateName = errors.New("a record with this name already exists")
	// ErrUploadFailed is returned when the image host rejects an upload.
	ErrUploadFailed = errors.New("image upload failed")
)

// ValidationError reports the missing or invalid fields of a request.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// NewValidationError creates a ValidationError for the given fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return NewHTTPError(http.StatusBadRequest, vErr.Error(), "VALIDATION_ERROR")
	}

	switch {
	case errors.Is(err, ErrAdNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "AD_NOT_FOUND")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrSubcategoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "SUBCATEGORY_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrNotOwner):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "NOT_OWNER")
	case errors.Is(err, ErrModeratorRequired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "MODERATOR_REQUIRED")
	case errors.Is(err, ErrDuplicateName):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_NAME")
	case errors.Is(err, ErrUploadFailed):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "UPLOAD_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
