package handler

import (
	"errors"
	"net/http"

	financeapp "github.com/carehouse/backend/internal/application/finance"
	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/infrastructure/logger"
	"github.com/carehouse/backend/internal/interfaces/http/dto"
	"github.com/carehouse/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// SuccessWithWarnings sends data with a non-fatal warning list
func (h *BaseHandler) SuccessWithWarnings(c *gin.Context, status int, data any, warnings ...dto.Warning) {
	c.JSON(status, dto.NewSuccessResponseWithWarnings(data, warnings...))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts service errors to HTTP responses.
// Rate sum violations list every offending pair in error.details.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var sumErr *finance.RateSumViolationError
	if errors.As(err, &sumErr) {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithDetails(
			dto.ErrCodeRateSumExceeded,
			sumErr.Error(),
			requestID,
			sumErr.Violations,
		))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code, status := dto.DomainErrorStatus(domainErr.Code)
		message := domainErr.Message
		if status >= http.StatusInternalServerError {
			h.logError(c, err)
			message = "An unexpected error occurred"
		}
		c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, requestID))
		return
	}

	h.logError(c, err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}

// HandleSaveResult answers a revenue entry write. A save whose payouts are still owed
// answers the saved entry with a PAYOUT_RECOMPUTE_PENDING warning instead of failing.
func (h *BaseHandler) HandleSaveResult(c *gin.Context, status int, entry *financeapp.RevenueEntryResponse, err error) {
	if err == nil {
		c.JSON(status, dto.NewSuccessResponse(entry))
		return
	}

	var pending *financeapp.PayoutRecomputeError
	if errors.As(err, &pending) && entry != nil {
		logger.FromContext(c.Request.Context()).Warn("revenue entry saved with payouts pending",
			zap.String("entry_id", pending.EntryID.String()),
			zap.String("job_id", pending.JobID.String()),
			zap.Error(pending.Err),
		)
		h.SuccessWithWarnings(c, status, entry, dto.Warning{
			Code:    dto.WarnCodeRecomputePending,
			Message: "Entry saved; payouts will be recomputed in the background",
		})
		return
	}

	h.HandleError(c, err)
}

// BindJSON binds the request body and answers validation failures itself.
// It returns false when the handler should stop.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// BindQuery binds query parameters the same way as BindJSON
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// ParseUUID reads the named path parameter. It answers 400 and returns false when malformed.
func (h *BaseHandler) ParseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.BadRequest(c, "Invalid "+param+" format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *BaseHandler) logError(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
}

// pageOrDefault mirrors the application defaults for pagination meta
func pageOrDefault(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = shared.DefaultFilter().PageSize
	}
	return page, pageSize
}
