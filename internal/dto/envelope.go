package dto

import apperrors "edushare/internal/errors"

// Envelope wraps every successful response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool                         `json:"success"`
	TraceID string                       `json:"traceId,omitempty"`
	Code    string                       `json:"code"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
}
