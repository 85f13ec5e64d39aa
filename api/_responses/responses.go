package _responses

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mediaforge/mediaforge/pipeline"
)

type EmptyResponse struct{}

type DoNotCacheResponse struct {
	Payload interface{}
}

type ErrorResponse struct {
	Error   string              `json:"error"`
	Details []string            `json:"details,omitempty"`
	Debug   *pipeline.DebugInfo `json:"debug,omitempty"`

	// InternalStatus is decided by the constructor and consumed by the
	// response router; it never serializes.
	InternalStatus int `json:"-"`
}

// WithDebug attaches the debug-trace echo to an error body. A nil info
// (no debug requested) leaves the response untouched.
func (e *ErrorResponse) WithDebug(info *pipeline.DebugInfo) *ErrorResponse {
	e.Debug = info
	return e
}

func InternalServerError(message string) *ErrorResponse {
	return &ErrorResponse{Error: message, InternalStatus: 500}
}

func BadRequest(message string, details ...string) *ErrorResponse {
	return &ErrorResponse{Error: message, Details: details, InternalStatus: 400}
}

func MethodNotAllowed() *ErrorResponse {
	return &ErrorResponse{Error: "Method Not Allowed", InternalStatus: 405}
}

func NotFoundError() *ErrorResponse {
	return &ErrorResponse{Error: "Not found", InternalStatus: 404}
}

func RateLimitReached() *ErrorResponse {
	return &ErrorResponse{Error: "Rate Limited", InternalStatus: 429}
}

func RequestTooLarge(limitBytes int64) *ErrorResponse {
	return BadRequest(fmt.Sprintf("Upload too large: the limit is %s", humanize.Bytes(uint64(limitBytes))))
}
