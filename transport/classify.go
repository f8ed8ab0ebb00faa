package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// requestIDHeader carries the server-assigned ID of one API request,
// useful when reporting issues against the platform.
const requestIDHeader = "X-Line-Request-Id"

// ErrorPayload is the canonical error body returned by the API.
type ErrorPayload struct {
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail points at the property that caused the rejection.
type ErrorDetail struct {
	Message  string `json:"message,omitempty"`
	Property string `json:"property,omitempty"`
}

// APIError reports a request the server rejected. It is never retried
// automatically; StatusCode and Payload are surfaced verbatim so the
// caller can branch on them.
type APIError struct {
	StatusCode int
	RequestID  string
	Header     http.Header
	Payload    ErrorPayload
}

func (e *APIError) Error() string {
	if e.Payload.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Payload.Message)
}

// Classify maps a response to success or a typed API error. Success iff
// 200 <= status < 300. On failure the body is decoded as the canonical
// error payload; if that decode fails the APIError still carries the
// status with an empty payload rather than masking the failure.
func Classify(resp *Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}
	if resp.Header != nil {
		apiErr.RequestID = resp.Header.Get(requestIDHeader)
	}

	body := resp.JSON
	if body == nil {
		body = resp.Raw
	}
	if len(body) > 0 {
		// Best effort: a malformed error body must not hide the status.
		_ = json.Unmarshal(body, &apiErr.Payload)
	}

	return apiErr
}
