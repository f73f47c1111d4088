// Package webserver provides session management for the web frontend
package webserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/fridgechef/fridgechef/internal/application/planner"
	"github.com/fridgechef/fridgechef/internal/domain/locale"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/internal/ports/outbound"
)

// SessionStore keeps one planner session per browser cookie. It is bounded
// in size and every entry expires after the configured TTL of inactivity.
type SessionStore struct {
	sessions   *expirable.LRU[string, *planner.Session]
	generator  outbound.RecipeGenerator
	cookieName string
	ttl        time.Duration
	secure     bool
	options    planner.Options
	logger     *zap.Logger
}

// NewSessionStore creates a new session store
func NewSessionStore(cfg *config.Config, generator outbound.RecipeGenerator, logger *zap.Logger) *SessionStore {
	s := &SessionStore{
		generator:  generator,
		cookieName: cfg.Session.CookieName,
		ttl:        cfg.Session.TTL,
		secure:     cfg.Server.SecureCookies,
		logger:     logger.Named("sessions"),
		options: planner.Options{
			Locale:      locale.Parse(cfg.App.Language),
			RecipeCount: cfg.AI.RecipeCount,
		},
	}
	if cfg.RateLimit.Enable {
		s.options.RequestsPerMin = cfg.RateLimit.RequestsPerMin
		s.options.BurstSize = cfg.RateLimit.BurstSize
	}

	s.sessions = expirable.NewLRU[string, *planner.Session](cfg.Session.MaxSessions, s.onEvict, cfg.Session.TTL)
	return s
}

// Load returns the session named by the request cookie, creating one (and
// setting the cookie) when it is absent or expired. created reports the latter.
func (s *SessionStore) Load(w http.ResponseWriter, r *http.Request) (session *planner.Session, created bool) {
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		if existing, ok := s.sessions.Get(cookie.Value); ok {
			// Re-adding slides the expiry window forward
			s.sessions.Add(cookie.Value, existing)
			s.setCookie(w, cookie.Value)
			return existing, false
		}
	}

	id := generateSessionID()
	session = planner.NewSession(id, s.generator, s.options, s.logger)
	s.sessions.Add(id, session)
	s.setCookie(w, id)
	s.logger.Debug("Created session", zap.String("session_id", id))
	return session, true
}

// Len reports the number of live sessions
func (s *SessionStore) Len() int {
	return s.sessions.Len()
}

func (s *SessionStore) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
}

func (s *SessionStore) onEvict(id string, _ *planner.Session) {
	s.logger.Debug("Session evicted", zap.String("session_id", id))
}

// generateSessionID generates a random session ID
func generateSessionID() string {
	return uuid.NewString()
}
