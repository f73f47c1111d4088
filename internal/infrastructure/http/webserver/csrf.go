package webserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const csrfSubject = "csrf"

var (
	errMissingCSRFToken = errors.New("missing csrf token")
	errForeignCSRFToken = errors.New("csrf token belongs to another session")
)

// csrfClaims binds a token to one session
type csrfClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// csrfMiddleware rejects state-changing requests without a token for the current session
func (s *WebServer) csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		session := sessionFrom(r)
		if session == nil {
			http.Error(w, "Session required", http.StatusForbidden)
			return
		}

		// The form field is rendered with every fragment, so it is the freshest token
		token := r.FormValue("csrf_token")
		if token == "" {
			token = r.Header.Get("X-CSRF-Token")
		}

		if err := s.validateCSRFToken(token, session.ID()); err != nil {
			s.logger.Warn("Invalid CSRF token",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("session_id", session.ID()),
				zap.Error(err),
			)
			if sessionCreated(r) {
				// The old session expired; reload to pick up the new one
				w.Header().Set("HX-Refresh", "true")
			}
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// generateCSRFToken signs a token for the session. It lives as long as the session TTL.
func (s *WebServer) generateCSRFToken(sessionID string) string {
	now := time.Now()
	claims := csrfClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  csrfSubject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl := s.config.Session.TTL; ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.csrfSecret)
	if err != nil {
		s.logger.Error("Failed to sign CSRF token", zap.Error(err))
		return ""
	}
	return token
}

func (s *WebServer) validateCSRFToken(tokenString, sessionID string) error {
	if tokenString == "" {
		return errMissingCSRFToken
	}

	claims := &csrfClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return s.csrfSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(csrfSubject),
	)
	if err != nil {
		return err
	}
	if claims.SessionID != sessionID {
		return errForeignCSRFToken
	}
	return nil
}
