package transport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/linekit-go/linekit/transport"
)

// respond builds a classified response by running a request through a
// real server, keeping the tests on the same path production takes.
func respond(t *testing.T, status int, contentType, body string) *transport.Response {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.Header().Set("X-Line-Request-Id", "req-123")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	defer ts.Close()

	client, err := transport.Build(transport.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("building transport: %v", err)
	}

	resp, err := client.Do(context.Background(), testRequest(t, http.MethodGet, ts.URL))
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	return resp
}

func TestClassify_StatusBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  int
		wantErr bool
	}{
		{199, true},
		{200, false},
		{204, false},
		{299, false},
		{300, true},
		{404, true},
		{429, true},
		{500, true},
	}

	for _, tt := range tests {
		resp := &transport.Response{StatusCode: tt.status}
		err := transport.Classify(resp)
		if tt.wantErr && err == nil {
			t.Errorf("status %d: expected an error", tt.status)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("status %d: unexpected error: %v", tt.status, err)
		}
	}
}

func TestClassify_DecodesCanonicalPayload(t *testing.T) {
	t.Parallel()

	resp := respond(t, http.StatusBadRequest, "application/json",
		`{"message":"The request body has 2 error(s)","details":[{"message":"May not be empty","property":"messages[0].text"}]}`)

	err := transport.Classify(resp)
	if err == nil {
		t.Fatal("expected an API error")
	}

	var apiErr *transport.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}

	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", apiErr.StatusCode)
	}
	if apiErr.RequestID != "req-123" {
		t.Errorf("expected request ID req-123, got %q", apiErr.RequestID)
	}

	want := transport.ErrorPayload{
		Message: "The request body has 2 error(s)",
		Details: []transport.ErrorDetail{
			{Message: "May not be empty", Property: "messages[0].text"},
		},
	}
	if diff := cmp.Diff(want, apiErr.Payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_MalformedPayloadKeepsStatus(t *testing.T) {
	t.Parallel()

	resp := respond(t, http.StatusInternalServerError, "text/html", "<html>gateway exploded</html>")

	var apiErr *transport.APIError
	if !errors.As(transport.Classify(resp), &apiErr) {
		t.Fatal("expected *APIError")
	}

	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}
	if apiErr.Payload.Message != "" {
		t.Errorf("expected an empty payload for a non-JSON body, got %q", apiErr.Payload.Message)
	}
}

func TestClassify_EmptyBody(t *testing.T) {
	t.Parallel()

	resp := respond(t, http.StatusNotFound, "", "")

	var apiErr *transport.APIError
	if !errors.As(transport.Classify(resp), &apiErr) {
		t.Fatal("expected *APIError")
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.StatusCode)
	}
}
