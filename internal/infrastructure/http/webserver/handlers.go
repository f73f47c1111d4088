package webserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fridgechef/fridgechef/internal/application/planner"
	"github.com/fridgechef/fridgechef/internal/application/view"
	"github.com/fridgechef/fridgechef/internal/domain/locale"
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/pkg/errors"
)

// recipesLoadedEvent is sent in HX-Trigger after a successful generation;
// the page script scrolls the results into view when it fires
const recipesLoadedEvent = "recipes-loaded"

func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, sessionFrom(r))
}

func (s *WebServer) handleAddIngredient(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	if _, err := session.AddIngredient(r.FormValue("ingredient")); err != nil {
		s.reject(w, r, session, err)
		return
	}
	s.render(w, r, session)
}

func (s *WebServer) handleRemoveIngredient(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	// Removing an id that is already gone leaves the page as it is
	if err := session.RemoveIngredient(chi.URLParam(r, "id")); err != nil {
		s.logger.Debug("Ingredient not removed", zap.Error(err))
	}
	s.render(w, r, session)
}

func (s *WebServer) handleSelectMealTime(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	mt, err := recipe.ParseMealTime(r.FormValue("meal_time"))
	if err != nil {
		err = errors.NewValidationError(err.Error()).WithCause(err)
	} else {
		err = session.SelectMealTime(mt)
	}
	if err != nil {
		s.reject(w, r, session, err)
		return
	}
	s.render(w, r, session)
}

func (s *WebServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	// The call outlives a dropped connection so the session never stays loading
	err := session.Generate(context.WithoutCancel(r.Context()))
	if err == nil {
		w.Header().Set("HX-Trigger", recipesLoadedEvent)
		s.render(w, r, session)
		return
	}

	switch errors.GetCode(err) {
	case errors.CodeValidationFailed, errors.CodeGenerationInProgress, errors.CodeTooManyRequests:
		// Rejected before any call was made; the session state is unchanged
		s.reject(w, r, session, err)
	default:
		// The failure is already recorded as the session error
		s.recordError(err)
		s.writePage(w, r, session, "", errors.Wrap(err, "generation failed").StatusCode())
	}
}

func (s *WebServer) handleReset(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	session.StartOver()
	s.render(w, r, session)
}

func (s *WebServer) render(w http.ResponseWriter, r *http.Request, session *planner.Session) {
	s.writePage(w, r, session, "", http.StatusOK)
}

// reject re-renders the page with a one-shot notice and the error's status.
// The page script lets htmx swap these responses in.
func (s *WebServer) reject(w http.ResponseWriter, r *http.Request, session *planner.Session, err error) {
	s.recordError(err)
	notice := planner.Describe(err, locale.For(session.Snapshot().Locale))
	s.writePage(w, r, session, notice, errors.Wrap(err, "request rejected").StatusCode())
}

// writePage writes the whole page, or only the app fragment for HTMX requests
func (s *WebServer) writePage(w http.ResponseWriter, r *http.Request, session *planner.Session, notice string, status int) {
	snap := session.Snapshot()

	page := view.Build(snap, locale.For(snap.Locale))
	page.Notice = notice
	page.CSRFToken = s.generateCSRFToken(snap.SessionID)

	name := "index"
	if r.Header.Get("HX-Request") == "true" {
		name = "app"
	}
	s.renderTemplate(w, name, page, status)
}

func (s *WebServer) recordError(err error) {
	if s.metrics != nil {
		s.metrics.RecordError(string(errors.GetCode(err)))
	}
}

// negotiateLocale picks the language for a new session from Accept-Language
func (s *WebServer) negotiateLocale(r *http.Request) locale.Locale {
	return locale.Negotiate(r.Header.Get("Accept-Language"), locale.Parse(s.config.App.Language))
}
