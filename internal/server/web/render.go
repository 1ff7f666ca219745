package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/chrima/internal/common"
	"github.com/dmitrijs2005/chrima/internal/server/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"welcome", "register", "login", "dashboard", "admin", "my_chrima",
	"view_task", "give_task", "reveal", "view_my_chrima", "message",
}

// page is the data every template receives. Handlers fill what they need.
type page struct {
	Title  string
	User   *models.User
	Error  string
	Notice string

	Form         map[string]string
	State        *models.GameState
	Participants []*models.User
	Recipient    *models.User
	Tasks        []*models.Task
	Pairings     []models.Pairing

	// message page
	Message   string
	LoginLink bool
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	rd := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		rd.pages[name] = t
	}
	return rd, nil
}

// render executes the named page into a buffer first so a template failure
// can still become a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data *page) {
	t, ok := s.pages.pages[name]
	if !ok {
		s.logger.Error(r.Context(), "unknown page", "page", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error(r.Context(), "render failed", "page", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderMessage(w http.ResponseWriter, r *http.Request, status int, title, msg string) {
	s.render(w, r, status, "message", &page{
		Title:     title,
		Message:   msg,
		LoginLink: status == http.StatusUnauthorized,
	})
}

// fail renders err as a message page with the matching status.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	s.renderMessage(w, r, status, http.StatusText(status), messageFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthenticated),
		errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateUser),
		errors.Is(err, common.ErrInsufficientParticipants),
		errors.Is(err, common.ErrNotAssignedYet),
		errors.Is(err, common.ErrRevealNotEnabled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// messageFor is the text shown to the user. Internal failures stay opaque.
func messageFor(err error) string {
	switch statusFor(err) {
	case http.StatusInternalServerError:
		return common.ErrorInternal.Error()
	case http.StatusUnauthorized:
		if errors.Is(err, common.ErrInvalidCredentials) {
			return err.Error()
		}
		return "Please log in to continue."
	case http.StatusForbidden:
		return "This page is for the admin only."
	}
	return err.Error()
}
