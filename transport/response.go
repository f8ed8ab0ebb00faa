package transport

import (
	"encoding/json"
	"mime"
	"net/http"
)

// maxErrBodySize caps the amount of body read when building an error
// from a failed request, preventing unbounded memory usage if a large
// response arrives with an error status.
const maxErrBodySize = 4 << 10 // 4KB

// Response is the normalized result of one non-streaming call. The body
// is held in exactly one variant: JSON when the server declared
// application/json, Raw otherwise.
type Response struct {
	StatusCode int
	Header     http.Header
	JSON       json.RawMessage
	Raw        []byte
}

func newResponse(status int, header http.Header, body []byte) *Response {
	resp := &Response{StatusCode: status, Header: header}
	if isJSON(header.Get("Content-Type")) {
		resp.JSON = body
	} else {
		resp.Raw = body
	}

	return resp
}

// IsJSON reports whether the body was declared application/json.
func (r *Response) IsJSON() bool { return r.JSON != nil }

// isJSON matches the declared media type, ignoring parameters such as
// charset, so "application/json; charset=utf-8" still counts.
func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mt == "application/json"
}
