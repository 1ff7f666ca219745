package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router builds the full route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/", s.handleWelcome)
	r.Get("/healthz", s.handleHealth)

	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)

	r.Get("/logout", s.withSession(s.handleLogout))
	r.Get("/dashboard", s.withSession(s.handleDashboard))
	r.Get("/my-chrima", s.withSession(s.handleMyChrima))
	r.Get("/view-task", s.withSession(s.handleViewTasks))
	r.Get("/give-task", s.withSession(s.handleGiveTaskForm))
	r.Post("/give-task", s.withSession(s.handleGiveTask))
	r.Get("/view-my-chrima", s.withSession(s.handleViewMyChrima))

	r.Get("/admin", s.withAdmin(s.handleAdmin))
	r.Post("/assign-chrima", s.withAdmin(s.handleAssign))
	r.Get("/reveal", s.withAdmin(s.handleReveal))
	r.Post("/enable-reveal", s.withAdmin(s.handleEnableReveal))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderMessage(w, r, http.StatusNotFound, "Not found", "There is nothing here.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.renderMessage(w, r, http.StatusMethodNotAllowed, "Method not allowed", "That action is not available here.")
	})

	return r
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		h.Set("Cross-Origin-Resource-Policy", "same-site")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
