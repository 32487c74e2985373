package handler

import "github.com/carehouse/backend/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success  bool           `json:"success"`
	Data     T              `json:"data,omitempty"`
	Error    *dto.ErrorInfo `json:"error,omitempty"`
	Meta     *dto.Meta      `json:"meta,omitempty"`
	Warnings []dto.Warning  `json:"warnings,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}
