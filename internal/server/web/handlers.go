package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/chrima/internal/common"
	"github.com/dmitrijs2005/chrima/internal/server/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "welcome", &page{Title: "Chrima", User: s.currentUser(r)})
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", &page{Title: "Register"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r, "username", "password")
	if err != nil {
		s.render(w, r, statusFor(err), "register", &page{Title: "Register", Error: messageFor(err)})
		return
	}

	user, err := s.users.Register(r.Context(), form["username"], form["password"])
	if err != nil {
		s.render(w, r, statusFor(err), "register", &page{
			Title: "Register",
			Error: messageFor(err),
			Form:  map[string]string{"username": form["username"]},
		})
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", user.UserName, "admin", user.IsAdmin)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", &page{Title: "Log in"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r, "username", "password")
	if err != nil {
		s.render(w, r, statusFor(err), "login", &page{Title: "Log in", Error: messageFor(err)})
		return
	}

	res, err := s.users.Login(r.Context(), form["username"], form["password"])
	if err != nil {
		s.render(w, r, statusFor(err), "login", &page{
			Title: "Log in",
			Error: messageFor(err),
			Form:  map[string]string{"username": form["username"]},
		})
		return
	}

	s.setSessionCookie(w, res.Token, res.Expires)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, user *models.User) {
	if c, err := r.Cookie(common.SessionCookieName); err == nil {
		if err := s.users.Logout(r.Context(), c.Value); err != nil {
			s.logger.Warn(r.Context(), "logout failed", "user", user.ID, "error", err)
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, user *models.User) {
	state, err := s.game.Phase(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard", &page{Title: "Dashboard", User: user, State: state})
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request, user *models.User) {
	s.renderAdmin(w, r, http.StatusOK, user, "", "")
}

func (s *Server) renderAdmin(w http.ResponseWriter, r *http.Request, status int, user *models.User, notice, errMsg string) {
	state, err := s.game.Phase(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	participants, err := s.game.Participants(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, status, "admin", &page{
		Title:        "Admin",
		User:         user,
		State:        state,
		Participants: participants,
		Notice:       notice,
		Error:        errMsg,
	})
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request, user *models.User) {
	n, err := s.game.Assign(r.Context())
	if err != nil {
		if errors.Is(err, common.ErrInsufficientParticipants) {
			s.renderAdmin(w, r, http.StatusConflict, user, "", messageFor(err))
			return
		}
		s.fail(w, r, err)
		return
	}
	s.renderAdmin(w, r, http.StatusOK, user, fmt.Sprintf("Chrima assigned for %d participants.", n), "")
}

func (s *Server) handleEnableReveal(w http.ResponseWriter, r *http.Request, user *models.User) {
	if err := s.game.EnableReveal(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderAdmin(w, r, http.StatusOK, user, "Reveal enabled.", "")
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request, user *models.User) {
	pairs, err := s.game.Reveal(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "reveal", &page{Title: "Reveal", User: user, Pairings: pairs})
}

func (s *Server) handleMyChrima(w http.ResponseWriter, r *http.Request, user *models.User) {
	recipient, err := s.game.MyChrima(r.Context(), user)
	s.renderRecipient(w, r, user, "my_chrima", "My Chrima", recipient, err)
}

func (s *Server) handleViewMyChrima(w http.ResponseWriter, r *http.Request, user *models.User) {
	recipient, err := s.game.ViewMyChrima(r.Context(), user)
	s.renderRecipient(w, r, user, "view_my_chrima", "Reveal", recipient, err)
}

// renderRecipient shows a recipient page; the not-yet phases are normal
// outcomes rendered with a 200 and a notice.
func (s *Server) renderRecipient(w http.ResponseWriter, r *http.Request, user *models.User, name, title string, recipient *models.User, err error) {
	if err != nil {
		if !errors.Is(err, common.ErrNotAssignedYet) && !errors.Is(err, common.ErrRevealNotEnabled) {
			s.fail(w, r, err)
			return
		}
		s.render(w, r, http.StatusOK, name, &page{Title: title, User: user, Notice: err.Error()})
		return
	}
	s.render(w, r, http.StatusOK, name, &page{Title: title, User: user, Recipient: recipient})
}

func (s *Server) handleViewTasks(w http.ResponseWriter, r *http.Request, user *models.User) {
	tasks, err := s.tasks.ViewTasks(r.Context(), user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "view_task", &page{Title: "My tasks", User: user, Tasks: tasks})
}

func (s *Server) handleGiveTaskForm(w http.ResponseWriter, r *http.Request, user *models.User) {
	state, err := s.game.Phase(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "give_task", &page{Title: "Give a task", User: user, State: state})
}

func (s *Server) handleGiveTask(w http.ResponseWriter, r *http.Request, user *models.User) {
	form, err := readForm(w, r, "task")
	if err == nil {
		_, err = s.tasks.GiveTask(r.Context(), user, form["task"])
	}
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.fail(w, r, err)
			return
		}
		s.render(w, r, status, "give_task", &page{
			Title: "Give a task",
			User:  user,
			Error: messageFor(err),
			Form:  map[string]string{"task": form["task"]},
		})
		return
	}
	s.render(w, r, http.StatusCreated, "give_task", &page{
		Title:  "Give a task",
		User:   user,
		Notice: "Your task was sent anonymously.",
	})
}
