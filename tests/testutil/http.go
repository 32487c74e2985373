package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API response wrapper with the payload left raw.
type Envelope struct {
	Success  bool              `json:"success"`
	Data     json.RawMessage   `json:"data,omitempty"`
	Error    *EnvelopeError    `json:"error,omitempty"`
	Meta     map[string]any    `json:"meta,omitempty"`
	Warnings []EnvelopeWarning `json:"warnings,omitempty"`
}

// EnvelopeError is the error part of the envelope.
type EnvelopeError struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// EnvelopeWarning is one non-fatal warning on a successful response.
type EnvelopeWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is a recorded HTTP response.
type Response struct {
	Code int
	Body []byte
}

// APIClient sends JSON requests straight to a handler without a network listener.
type APIClient struct {
	Handler http.Handler
	// BasePath is prefixed to every request path, e.g. "/api/v1"
	BasePath string
}

// Do sends method path with body encoded as JSON. A nil body sends no payload.
func (c *APIClient) Do(t *testing.T, method, path string, body any) *Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, c.BasePath+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)
	return &Response{Code: w.Code, Body: w.Body.Bytes()}
}

// Get is shorthand for Do with GET and no body.
func (c *APIClient) Get(t *testing.T, path string) *Response {
	t.Helper()
	return c.Do(t, http.MethodGet, path, nil)
}

// Envelope decodes the response envelope.
func (r *Response) Envelope(t *testing.T) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(r.Body, &env), "Failed to parse response: %s", r.Body)
	return env
}

// RequireStatus fails the test unless the response has status code.
func (r *Response) RequireStatus(t *testing.T, code int) *Response {
	t.Helper()
	require.Equal(t, code, r.Code, "unexpected status, body: %s", r.Body)
	return r
}

// DataAs decodes the envelope payload into T.
func DataAs[T any](t *testing.T, r *Response) T {
	t.Helper()
	var out T
	env := r.Envelope(t)
	require.True(t, env.Success, "expected a successful response, body: %s", r.Body)
	require.NoError(t, json.Unmarshal(env.Data, &out), "Failed to parse data: %s", env.Data)
	return out
}

// AssertErrorCode asserts the response carries an error envelope with code.
func AssertErrorCode(t *testing.T, r *Response, code string) {
	t.Helper()
	env := r.Envelope(t)
	assert.False(t, env.Success, "expected success to be false")
	require.NotNil(t, env.Error, "expected an error object, body: %s", r.Body)
	assert.Equal(t, code, env.Error.Code)
}
