package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"hotel/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"bad request", failure.BadRequest(errors.New("validation failed")), http.StatusBadRequest, "validation failed"},
		{"bad request from string", failure.BadRequestFromString("custom bad request"), http.StatusBadRequest, "custom bad request"},
		{"bad request formatted", failure.BadRequestf("%s is required", "check_in"), http.StatusBadRequest, "check_in is required"},
		{"unauthorized", failure.Unauthorized("token expired"), http.StatusUnauthorized, "token expired"},
		{"forbidden", failure.Forbidden("access denied"), http.StatusForbidden, "access denied"},
		{"forbidden sentinel", failure.ForbiddenError, http.StatusForbidden, "You don't have the required permissions"},
		{"not found", failure.NotFound("room not found"), http.StatusNotFound, "room not found"},
		{"not found formatted", failure.NotFoundf("%s not found", "booking"), http.StatusNotFound, "booking not found"},
		{"conflict", failure.Conflict("room 101 is booked"), http.StatusConflict, "room 101 is booked"},
		{"conflict formatted", failure.Conflictf("%s cannot move from %s to %s", "booking", "cancelled", "confirmed"), http.StatusConflict, "booking cannot move from cancelled to confirmed"},
		{"internal", failure.InternalError(errors.New("db down")), http.StatusInternalServerError, "db down"},
		{"unimplemented", failure.Unimplemented("Export"), http.StatusNotImplemented, "Export"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fail *failure.Failure
			require.ErrorAs(t, tt.err, &fail)
			assert.Equal(t, tt.code, fail.Code)
			assert.Equal(t, tt.message, fail.Error())
		})
	}
}

func TestNilPassthrough(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{"failure", failure.BadRequestFromString("test"), http.StatusBadRequest},
		{"wrapped failure", fmt.Errorf("create booking: %w", failure.Conflict("overlap")), http.StatusConflict},
		{"regular error", errors.New("regular error"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, failure.GetCode(tt.input))
		})
	}
}

func TestFailure_Is(t *testing.T) {
	err := fmt.Errorf("update room: %w", failure.NotFound("room not found"))

	assert.ErrorIs(t, err, &failure.Failure{Code: http.StatusNotFound})
	assert.NotErrorIs(t, err, &failure.Failure{Code: http.StatusConflict})
	assert.True(t, failure.HasCode(err, http.StatusNotFound))
	assert.False(t, failure.HasCode(nil, http.StatusNotFound))
}
