package dto

import "time"

// ErrorResponse is the standardized JSON error envelope returned by the API.
//
// Fields:
//   - Message: human-readable description of what failed.
//   - ErrorDetails: the underlying error text, when one exists.
//   - Timestamp: when the error response was created.
type ErrorResponse struct {
	Message      string    `json:"message" example:"failed to parse ledger"`
	ErrorDetails string    `json:"error,omitempty" example:"read header: EOF"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so an ErrorResponse can travel
// through gin's error list.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails != "" {
		return e.Message + ": " + e.ErrorDetails
	}
	return e.Message
}

// NewErrorResponse builds an ErrorResponse from a message and an optional
// underlying error.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
