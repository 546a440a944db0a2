package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	t.Run("from context", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set("request_id", "ctx-request-id")
		assert.Equal(t, "ctx-request-id", getRequestID(c))
	})

	t.Run("from header when context empty", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set("X-Request-ID", "header-request-id")
		assert.Equal(t, "header-request-id", getRequestID(c))
	})

	t.Run("empty when not set", func(t *testing.T) {
		c, _ := newTestContext(t)
		assert.Equal(t, "", getRequestID(c))
	})
}

func TestGetRecordedBy(t *testing.T) {
	t.Run("valid header", func(t *testing.T) {
		c, _ := newTestContext(t)
		id := uuid.New()
		c.Request.Header.Set("X-User-ID", id.String())

		got, err := getRecordedBy(c)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("missing header", func(t *testing.T) {
		c, _ := newTestContext(t)
		_, err := getRecordedBy(c)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_USER", domainErr.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set("X-User-ID", "not-a-uuid")
		_, err := getRecordedBy(c)
		assert.Error(t, err)
	})
}

func TestHandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("not found maps to 404", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, shared.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("conflict maps to 409", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, shared.ErrConflict)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("order locked maps to 409", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, shared.ErrOrderLocked)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "ORDER_LOCKED", resp.Error.Code)
	})

	t.Run("validation code maps to 400", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("insufficient stock carries available quantity", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, &inventory.InsufficientStockError{
			ProductID: uuid.New(),
			Requested: 25,
			Available: 10,
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
		require.NotNil(t, resp.Error.Details)
		assert.Equal(t, float64(10), resp.Error.Details["available"])
		assert.Equal(t, float64(25), resp.Error.Details["requested"])
	})

	t.Run("unknown error maps to 500", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "INTERNAL", resp.Error.Code)
	})

	t.Run("request id is echoed in error responses", func(t *testing.T) {
		c, w := newTestContext(t)
		c.Set("request_id", "req-123")
		h.HandleError(c, shared.ErrNotFound)

		resp := decodeResponse(t, w)
		assert.Equal(t, "req-123", resp.Error.RequestID)
	})
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, dto.GetHTTPStatus("NOT_FOUND"))
	assert.Equal(t, http.StatusConflict, dto.GetHTTPStatus("CONFLICT"))
	assert.Equal(t, http.StatusBadRequest, dto.GetHTTPStatus("INVALID_CODE"))
	assert.Equal(t, http.StatusInternalServerError, dto.GetHTTPStatus("SOMETHING_ELSE"))
}
