package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/chrima/internal/common"
	"github.com/dmitrijs2005/chrima/internal/server/models"
)

type role int

const (
	roleUser role = iota
	roleAdmin
)

// userHandler is a handler that runs only for an authenticated caller.
type userHandler func(w http.ResponseWriter, r *http.Request, user *models.User)

// authorize resolves the session cookie and checks the caller holds need.
func (s *Server) authorize(r *http.Request, need role) (*models.User, error) {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil || c.Value == "" {
		return nil, common.ErrUnauthenticated
	}

	user, err := s.users.Authenticate(r.Context(), c.Value)
	if err != nil {
		return nil, err
	}

	if need == roleAdmin && !user.IsAdmin {
		return nil, common.ErrForbidden
	}
	return user, nil
}

func (s *Server) withSession(h userHandler) http.HandlerFunc {
	return s.guard(roleUser, h)
}

func (s *Server) withAdmin(h userHandler) http.HandlerFunc {
	return s.guard(roleAdmin, h)
}

func (s *Server) guard(need role, h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authorize(r, need)
		if err != nil {
			if errors.Is(err, common.ErrUnauthenticated) {
				s.clearSessionCookie(w)
			}
			s.fail(w, r, err)
			return
		}
		h(w, r, user)
	}
}

// currentUser is authorize for public pages: any failure means anonymous.
func (s *Server) currentUser(r *http.Request) *models.User {
	user, err := s.authorize(r, roleUser)
	if err != nil {
		return nil
	}
	return user
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cookieSecure,
		Expires:  expires,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cookieSecure,
		MaxAge:   -1,
	})
}
