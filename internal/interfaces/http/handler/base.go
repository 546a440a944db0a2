package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(logger.RequestIDHeader)
}

// getRecordedBy extracts the acting user from the X-User-ID header. The
// service runs behind the back office gateway which authenticates upstream
// and forwards the user identity.
func getRecordedBy(c *gin.Context) (uuid.UUID, error) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		return uuid.Nil, shared.NewDomainError("INVALID_USER", "X-User-ID header is required")
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, shared.NewDomainError("INVALID_USER", "X-User-ID must be a UUID")
	}
	return id, nil
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, message, getRequestID(c)))
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, message, getRequestID(c)))
}

// HandleError maps an error from the application layer to an HTTP response.
// Insufficient-stock rejections carry the available quantity in the error
// details so clients can show it.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var insufficient *inventory.InsufficientStockError
	if errors.As(err, &insufficient) {
		resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeInsufficientStock, insufficient.Error(), requestID)
		resp.Error.Details = map[string]interface{}{
			"product_id": insufficient.ProductID.String(),
			"requested":  insufficient.Requested,
			"available":  insufficient.Available,
		}
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeInsufficientStock), resp)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		statusCode := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(statusCode, dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID))
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
