package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/interfaces/http/dto"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleErrorMapsDomainErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not found",
			err:            shared.NewEntityNotFoundError("client", "abc"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   shared.CodeNotFound,
		},
		{
			name:           "duplicate",
			err:            shared.NewDuplicateEntityError("client", "phone", "+5491100000000"),
			expectedStatus: http.StatusConflict,
			expectedCode:   shared.CodeDuplicate,
		},
		{
			name:           "credit limit",
			err:            shared.NewCreditLimitExceededError("2000 ARS", "500 ARS"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   shared.CodeCreditLimitExceeded,
		},
		{
			name:           "invalid transition",
			err:            shared.NewInvalidStateTransitionError("transaction", "completed", "completed"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   shared.CodeInvalidTransition,
		},
		{
			name:           "concurrency conflict",
			err:            shared.NewConcurrencyConflictError("transaction", "abc"),
			expectedStatus: http.StatusConflict,
			expectedCode:   shared.CodeConcurrencyConflict,
		},
		{
			name:           "unauthorized",
			err:            shared.NewUnauthorizedError("invalid credentials"),
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   shared.CodeUnauthorized,
		},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestHandleErrorWrappedDomainError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	wrapped := fmt.Errorf("load client: %w", shared.NewEntityNotFoundError("client", "abc"))
	h.HandleError(c, wrapped)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleErrorUnknownErrorIs500(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.HandleError(c, errors.New("driver: bad connection"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	// Internal details never leak to the client
	assert.NotContains(t, resp.Error.Message, "driver")
}

func TestHealth(t *testing.T) {
	h := NewSystemHandler()
	c, w := newTestContext(t)

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
	assert.NotEmpty(t, data["go_version"])
}
