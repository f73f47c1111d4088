package testutils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPAssertions provides HTTP-specific assertion methods
type HTTPAssertions struct {
	t *testing.T
}

// NewHTTPAssertions creates a new HTTP assertions helper
func NewHTTPAssertions(t *testing.T) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// StatusCode asserts the HTTP status code
func (ha *HTTPAssertions) StatusCode(resp *http.Response, expectedCode int, msgAndArgs ...interface{}) {
	require.NotNil(ha.t, resp, "Response should not be nil")
	assert.Equal(ha.t, expectedCode, resp.StatusCode, msgAndArgs...)
}

// Header asserts that a header exists with expected value
func (ha *HTTPAssertions) Header(resp *http.Response, headerName, expectedValue string, msgAndArgs ...interface{}) {
	require.NotNil(ha.t, resp, "Response should not be nil")
	assert.Equal(ha.t, expectedValue, resp.Header.Get(headerName), msgAndArgs...)
}

// SecurityHeaders asserts that security headers are present
func (ha *HTTPAssertions) SecurityHeaders(resp *http.Response) {
	require.NotNil(ha.t, resp, "Response should not be nil")

	securityHeaders := []string{
		"X-Content-Type-Options",
		"X-Frame-Options",
		"Referrer-Policy",
		"Content-Security-Policy",
	}
	for _, header := range securityHeaders {
		assert.NotEmpty(ha.t, resp.Header.Get(header), "Security header %s should be present", header)
	}
}
