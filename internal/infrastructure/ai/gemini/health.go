package gemini

import (
	"context"
	"time"

	"github.com/fridgechef/fridgechef/pkg/healthcheck"
)

// CredentialChecker reports whether a credential is present right now.
// A missing key degrades the service rather than failing it: the page still works
// and the key can be set without a restart.
type CredentialChecker struct {
	client *Client
}

// NewCredentialChecker creates a checker bound to c
func NewCredentialChecker(c *Client) *CredentialChecker {
	return &CredentialChecker{client: c}
}

// Check implements healthcheck.Checker
func (h *CredentialChecker) Check(ctx context.Context) healthcheck.Check {
	start := time.Now()
	check := healthcheck.Check{
		Name:        "gemini_credential",
		LastChecked: start,
	}

	key, envVar := h.client.Credential()
	check.Metadata = map[string]interface{}{
		"env_var": envVar,
		"model":   h.client.opts.Model,
	}
	if key == "" {
		check.Status = healthcheck.StatusDegraded
		check.Message = "credential not configured; set " + envVar
	} else {
		check.Status = healthcheck.StatusHealthy
		check.Message = "credential configured"
	}
	check.Duration = time.Since(start)
	return check
}
