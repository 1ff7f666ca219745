// Package services contains the server-side business logic. This file
// implements UserService: registration, login, logout and resolving a
// session token back to its user.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/chrima/internal/common"
	"github.com/dmitrijs2005/chrima/internal/dbx"
	"github.com/dmitrijs2005/chrima/internal/server/auth"
	"github.com/dmitrijs2005/chrima/internal/server/config"
	"github.com/dmitrijs2005/chrima/internal/server/models"
	"github.com/dmitrijs2005/chrima/internal/server/repositories/repomanager"
)

const (
	maxUserNameLength = 64
	maxPasswordLength = 72 // bcrypt ignores anything past 72 bytes
)

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token   string
	Expires time.Time
	User    *models.User
}

type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	jwtSecret       []byte
	sessionValidity time.Duration
	now             func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:              db,
		repomanager:     m,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		now:             time.Now,
	}
}

// Register creates a user. The first user ever registered becomes the admin;
// the game-state row is locked so two concurrent first registrations cannot
// both claim it.
func (s *UserService) Register(ctx context.Context, userName, password string) (*models.User, error) {
	userName = strings.TrimSpace(userName)
	if err := validateCredentials(userName, password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.GameState(tx).Lock(ctx); err != nil {
			return fmt.Errorf("error locking game state: %w", err)
		}

		users := s.repomanager.Users(tx)

		_, err := users.GetUserByLogin(ctx, userName)
		switch {
		case err == nil:
			return common.ErrDuplicateUser
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("error searching user: %w", err)
		}

		n, err := users.Count(ctx)
		if err != nil {
			return fmt.Errorf("error counting users: %w", err)
		}

		created, err = users.Create(ctx, &models.User{
			UserName:     userName,
			PasswordHash: hash,
			IsAdmin:      n == 0,
		})
		if err != nil {
			if errors.Is(err, common.ErrDuplicateUser) {
				return err
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies the password, opens a server-side session and returns a
// signed token referencing it. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, strings.TrimSpace(userName))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("error checking password: %w", err)
	}

	session, err := s.repomanager.Sessions(s.db).Create(ctx, user.ID, s.sessionValidity)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, session.ID, s.jwtSecret, session.Expires)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, Expires: session.Expires, User: user}, nil
}

// Logout revokes the session behind token. Tokens that no longer parse have
// nothing left to revoke.
func (s *UserService) Logout(ctx context.Context, token string) error {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil
	}
	if err := s.repomanager.Sessions(s.db).Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// Authenticate resolves a session token to the current user record. Every
// failure that means "not logged in" wraps common.ErrUnauthenticated.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	session, err := s.repomanager.Sessions(s.db).Find(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error searching session: %w", err)
	}
	if session.UserID != claims.UserID {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, common.ErrInvalidToken)
	}
	if !s.now().Before(session.Expires) {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, common.ErrSessionExpired)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

func validateCredentials(userName, password string) error {
	switch {
	case userName == "":
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	case len(userName) > maxUserNameLength:
		return fmt.Errorf("%w: username is longer than %d characters", common.ErrorValidation, maxUserNameLength)
	case password == "":
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	case len(password) > maxPasswordLength:
		return fmt.Errorf("%w: password is longer than %d bytes", common.ErrorValidation, maxPasswordLength)
	}
	return nil
}
