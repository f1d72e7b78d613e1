package api

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"
)

// Envelope is the uniform response wrapper for every API response.
//
// Success: { success: true, data, message?, timestamp, requestId? }
// Error:   { success: false, error, message, details?, timestamp, requestId? }
//
// Clients treat success=false as an application error regardless of the
// HTTP status code.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
	Details   any    `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId,omitempty"`
}

// EnvelopeTransformer wraps every huma response body in the Envelope.
// Registered via huma config so handlers return plain bodies.
func EnvelopeTransformer(ctx huma.Context, _ string, v any) (any, error) {
	envelope := Envelope{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if ctx != nil {
		envelope.RequestID = middleware.GetReqID(ctx.Context())
	}

	if apiErr, ok := v.(*APIError); ok {
		envelope.Success = false
		envelope.Error = apiErr.Code
		envelope.Message = apiErr.Message
		envelope.Details = apiErr.Details
		return &envelope, nil
	}

	envelope.Success = true
	envelope.Data = v
	return &envelope, nil
}
