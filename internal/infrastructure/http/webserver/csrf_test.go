package webserver

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCSRFServer(ttl time.Duration) *WebServer {
	cfg := testConfig()
	cfg.Session.TTL = ttl
	return &WebServer{config: cfg, logger: zap.NewNop(), csrfSecret: []byte("0123456789abcdef0123456789abcdef")}
}

func TestCSRFToken_RoundTrip(t *testing.T) {
	s := newCSRFServer(time.Hour)

	token := s.generateCSRFToken("session-a")
	require.NotEmpty(t, token)

	assert.NoError(t, s.validateCSRFToken(token, "session-a"))
	assert.ErrorIs(t, s.validateCSRFToken(token, "session-b"), errForeignCSRFToken)
	assert.ErrorIs(t, s.validateCSRFToken("", "session-a"), errMissingCSRFToken)
	assert.Error(t, s.validateCSRFToken("not-a-token", "session-a"))
}

func TestCSRFToken_OtherSecret(t *testing.T) {
	token := newCSRFServer(time.Hour).generateCSRFToken("session-a")

	other := newCSRFServer(time.Hour)
	other.csrfSecret = []byte("another-secret-another-secret-00")
	assert.ErrorIs(t, other.validateCSRFToken(token, "session-a"), jwt.ErrTokenSignatureInvalid)
}

func TestCSRFToken_Expired(t *testing.T) {
	s := newCSRFServer(time.Hour)
	claims := csrfClaims{
		SessionID: "session-a",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   csrfSubject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.csrfSecret)
	require.NoError(t, err)

	assert.ErrorIs(t, s.validateCSRFToken(token, "session-a"), jwt.ErrTokenExpired)
}

func TestCSRFToken_WrongSubject(t *testing.T) {
	s := newCSRFServer(0)
	claims := csrfClaims{SessionID: "session-a", RegisteredClaims: jwt.RegisteredClaims{Subject: "login"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.csrfSecret)
	require.NoError(t, err)

	assert.ErrorIs(t, s.validateCSRFToken(token, "session-a"), jwt.ErrTokenInvalidSubject)
}
