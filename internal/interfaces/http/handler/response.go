package handler

import "github.com/leaseledger/backend/internal/interfaces/http/dto"

// Response envelope types referenced by the OpenAPI annotations. The
// handlers themselves write responses through BaseHandler.

// APIResponse wraps a typed payload in the standard envelope
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the envelope for failed requests
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse is the envelope for operations with no payload
// @Description Simple success response without data
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// CountData carries a bare row count
// @Description Count data
type CountData struct {
	Count int64 `json:"count"`
}

// MessageData carries a human-readable status message
// @Description Message data
type MessageData struct {
	Message string `json:"message"`
}
