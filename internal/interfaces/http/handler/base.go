package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/interfaces/http/dto"
	"github.com/farmabill/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides the response and error helpers shared by handlers
type BaseHandler struct{}

func requestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDContextKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// pharmacyID extracts the authenticated tenant from the gin context
func pharmacyID(c *gin.Context) (uuid.UUID, bool) {
	id := middleware.PharmacyID(c)
	return id, id != uuid.Nil
}

// pathUUID parses a uuid path parameter
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Paginated sends a 200 response with pagination meta
func Paginated[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponse(dto.ErrCodeBadRequest, message, requestID(c)))
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized,
		dto.NewErrorResponse(shared.CodeUnauthorized, message, requestID(c)))
}

// HandleError maps a domain error to its HTTP status. Anything that does
// not implement shared.DomainError becomes a 500 without leaking details.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr shared.DomainError
	if errors.As(err, &domainErr) {
		code := domainErr.ErrorCode()
		c.JSON(dto.HTTPStatus(code),
			dto.NewErrorResponse(code, domainErr.Error(), requestID(c)))
		return
	}

	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrCodeInternal, "an unexpected error occurred", requestID(c)))
}
