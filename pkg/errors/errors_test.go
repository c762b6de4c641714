package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bravo68web/folio/pkg/errors"
)

func TestAppErrorKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    *apperrors.AppError
		status int
		kind   string
	}{
		{"not found", apperrors.NotFound("commit", nil), http.StatusNotFound, "not_found"},
		{"bad request", apperrors.BadRequest("", nil), http.StatusBadRequest, "bad_request"},
		{"unauthorized", apperrors.Unauthorized("", nil), http.StatusUnauthorized, "unauthorized"},
		{"load failed", apperrors.LoadFailed("loc.csv", errors.New("boom")), http.StatusBadGateway, "load_failed"},
		{"upstream", apperrors.Upstream("github", nil), http.StatusBadGateway, "upstream_error"},
		{"not loaded", apperrors.NotLoaded(), http.StatusServiceUnavailable, "service_unavailable"},
		{"internal", apperrors.InternalError("", nil), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.Equal(t, tt.kind, tt.err.Kind)
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("handler: %w", apperrors.NotFound("commit", nil))
	assert.True(t, apperrors.IsNotFound(wrapped))
	assert.False(t, apperrors.IsBadRequest(wrapped))

	load := fmt.Errorf("reload: %w", apperrors.LoadFailed("loc.csv", errors.New("eof")))
	assert.True(t, apperrors.IsLoadFailed(load))

	assert.True(t, apperrors.IsNotLoaded(apperrors.NotLoaded()))
	assert.True(t, apperrors.IsUnauthorized(apperrors.ErrTokenExpired))

	appErr, ok := apperrors.As(load)
	require.True(t, ok)
	assert.Equal(t, "loading loc.csv failed: eof", appErr.Error())
}

func TestWrapNil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, apperrors.Wrap(nil, "context"))
}
