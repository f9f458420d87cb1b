package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"ad not found", ErrAdNotFound, http.StatusNotFound, "AD_NOT_FOUND"},
		{"category not found", ErrCategoryNotFound, http.StatusNotFound, "CATEGORY_NOT_FOUND"},
		{"subcategory not found", ErrSubcategoryNotFound, http.StatusNotFound, "SUBCATEGORY_NOT_FOUND"},
		{"not owner", ErrNotOwner, http.StatusUnauthorized, "NOT_OWNER"},
		{"moderator required", ErrModeratorRequired, http.StatusUnauthorized, "MODERATOR_REQUIRED"},
		{"duplicate name", ErrDuplicateName, http.StatusConflict, "DUPLICATE_NAME"},
		{"upload failed", ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{"validation error", NewValidationError("title", "price"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrapped sentinel keeps its mapping", fmt.Errorf("context: %w", ErrAdNotFound), http.StatusNotFound, "AD_NOT_FOUND"},
		{"unknown error", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_UnknownErrorHidesDetail(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("dsn user:pass@tcp failed"))
	assert.Equal(t, "internal server error", httpErr.Message)
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("title", "price")
	assert.Equal(t, "missing or invalid fields: title, price", err.Error())
}
