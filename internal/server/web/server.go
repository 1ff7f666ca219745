// Package web is the HTTP front end of the Chrima server: routing, session
// guards and server-rendered pages.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/chrima/internal/logging"
	"github.com/dmitrijs2005/chrima/internal/server/models"
	"github.com/dmitrijs2005/chrima/internal/server/services"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 2 * time.Minute
	shutdownTimeout = 5 * time.Second
)

type UserService interface {
	Register(ctx context.Context, userName, password string) (*models.User, error)
	Login(ctx context.Context, userName, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type GameService interface {
	Phase(ctx context.Context) (*models.GameState, error)
	Participants(ctx context.Context) ([]*models.User, error)
	Assign(ctx context.Context) (int, error)
	MyChrima(ctx context.Context, caller *models.User) (*models.User, error)
	ViewMyChrima(ctx context.Context, caller *models.User) (*models.User, error)
	EnableReveal(ctx context.Context) error
	Reveal(ctx context.Context) ([]models.Pairing, error)
}

type TaskService interface {
	GiveTask(ctx context.Context, sender *models.User, text string) (*models.Task, error)
	ViewTasks(ctx context.Context, recipient *models.User) ([]*models.Task, error)
}

type Server struct {
	address      string
	logger       logging.Logger
	users        UserService
	game         GameService
	tasks        TaskService
	pages        *renderer
	cookieSecure bool
}

func NewServer(address string, l logging.Logger, us UserService, gs GameService, ts TaskService, cookieSecure bool) (*Server, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	return &Server{
		address:      address,
		logger:       l.With("module", "http_server"),
		users:        us,
		game:         gs,
		tasks:        ts,
		pages:        pages,
		cookieSecure: cookieSecure,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
