package healthcheck

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// MockChecker is a configurable Checker for tests
type MockChecker struct {
	name      string
	status    Status
	message   string
	metadata  interface{}
	delay     time.Duration
	callCount int
	mu        sync.Mutex
}

// NewMockChecker creates a new mock checker
func NewMockChecker(name string) *MockChecker {
	return &MockChecker{
		name:   name,
		status: StatusHealthy,
	}
}

// WithStatus sets the status to return
func (m *MockChecker) WithStatus(status Status) *MockChecker {
	m.status = status
	return m
}

// WithMessage sets the message to return
func (m *MockChecker) WithMessage(message string) *MockChecker {
	m.message = message
	return m
}

// WithMetadata sets the metadata to return
func (m *MockChecker) WithMetadata(metadata interface{}) *MockChecker {
	m.metadata = metadata
	return m
}

// WithDelay makes Check block until the delay passes or ctx is done
func (m *MockChecker) WithDelay(delay time.Duration) *MockChecker {
	m.delay = delay
	return m
}

// Check implements Checker
func (m *MockChecker) Check(ctx context.Context) Check {
	start := time.Now()

	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return Check{
				Name:        m.name,
				Status:      StatusUnhealthy,
				Message:     "check timed out",
				LastChecked: start,
				Duration:    time.Since(start),
			}
		}
	}

	return Check{
		Name:        m.name,
		Status:      m.status,
		Message:     m.message,
		Metadata:    m.metadata,
		LastChecked: start,
		Duration:    time.Since(start),
	}
}

// CallCount reports how many times Check ran
func (m *MockChecker) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// AssertCheckResult validates a single check result
func AssertCheckResult(t *testing.T, check Check, expectedStatus Status, expectedName string) {
	t.Helper()
	require.Equal(t, expectedName, check.Name, "Check name mismatch")
	require.Equal(t, expectedStatus, check.Status, "Check status mismatch")
	require.NotZero(t, check.LastChecked, "LastChecked should be set")
	require.True(t, check.Duration >= 0, "Duration should be non-negative")
}

// AssertResponseStructure validates the structure of a health check response
func AssertResponseStructure(t *testing.T, response Response) {
	t.Helper()
	require.NotEmpty(t, response.Version, "Version should not be empty")
	require.NotZero(t, response.Timestamp, "Timestamp should be set")
	require.Contains(t, []Status{StatusHealthy, StatusDegraded, StatusUnhealthy},
		response.Status, "Status should be valid")
	require.True(t, response.TotalDuration >= 0, "TotalDuration should be non-negative")

	for _, check := range response.Checks {
		AssertCheckResult(t, check, check.Status, check.Name)
	}
}
