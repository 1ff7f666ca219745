package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chrima/internal/common"
	"github.com/dmitrijs2005/chrima/internal/dbx"
	"github.com/dmitrijs2005/chrima/internal/logging"
	"github.com/dmitrijs2005/chrima/internal/server/models"
	"github.com/dmitrijs2005/chrima/internal/server/pairing"
	"github.com/dmitrijs2005/chrima/internal/server/repositories/repomanager"
)

// GameService drives the game phases: assignment, viewing one's own Chrima
// and the reveal.
type GameService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	engine      *pairing.Engine
	log         logging.Logger
}

func NewGameService(db *sql.DB, m repomanager.RepositoryManager, engine *pairing.Engine, log logging.Logger) *GameService {
	return &GameService{
		db:          db,
		repomanager: m,
		engine:      engine,
		log:         log.With("module", "game"),
	}
}

// Phase returns the current game-state flags.
func (s *GameService) Phase(ctx context.Context) (*models.GameState, error) {
	state, err := s.repomanager.GameState(s.db).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading game state: %w", err)
	}
	return state, nil
}

// Participants lists every registered user in registration order.
func (s *GameService) Participants(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// Assign draws a fresh derangement over all registered users and replaces
// any previous mapping. Either every recipient is written and the game is
// marked assigned, or nothing changes.
func (s *GameService) Assign(ctx context.Context) (int, error) {
	var assigned int

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		state := s.repomanager.GameState(tx)
		if _, err := state.Lock(ctx); err != nil {
			return fmt.Errorf("error locking game state: %w", err)
		}

		users := s.repomanager.Users(tx)
		all, err := users.List(ctx)
		if err != nil {
			return fmt.Errorf("error listing users: %w", err)
		}

		ids := make([]string, len(all))
		for i, u := range all {
			ids[i] = u.ID
		}

		pairs, err := s.engine.Derange(ids)
		if err != nil {
			return err
		}

		if err := users.ClearRecipients(ctx); err != nil {
			return fmt.Errorf("error clearing recipients: %w", err)
		}
		for _, p := range pairs {
			if err := users.SetRecipient(ctx, p.GiverID, p.ReceiverID); err != nil {
				return fmt.Errorf("error setting recipient: %w", err)
			}
		}

		if err := state.SetAssigned(ctx, true); err != nil {
			return fmt.Errorf("error marking game assigned: %w", err)
		}

		assigned = len(pairs)
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrInsufficientParticipants) {
			s.log.Error(ctx, "assignment failed", "error", err)
		}
		return 0, err
	}

	s.log.Info(ctx, "chrima assigned", "participants", assigned)
	return assigned, nil
}

// MyChrima returns the user that caller has to prepare a gift for.
func (s *GameService) MyChrima(ctx context.Context, caller *models.User) (*models.User, error) {
	state, err := s.Phase(ctx)
	if err != nil {
		return nil, err
	}
	return s.recipientOf(ctx, state, caller)
}

// ViewMyChrima is MyChrima gated on the reveal having been enabled.
func (s *GameService) ViewMyChrima(ctx context.Context, caller *models.User) (*models.User, error) {
	state, err := s.Phase(ctx)
	if err != nil {
		return nil, err
	}
	if !state.RevealEnabled {
		return nil, common.ErrRevealNotEnabled
	}
	return s.recipientOf(ctx, state, caller)
}

// EnableReveal turns the reveal phase on. Assignment flags are untouched.
func (s *GameService) EnableReveal(ctx context.Context) error {
	if err := s.repomanager.GameState(s.db).SetRevealEnabled(ctx, true); err != nil {
		return fmt.Errorf("error enabling reveal: %w", err)
	}
	s.log.Info(ctx, "reveal enabled")
	return nil
}

// Reveal returns the whole giver→receiver mapping.
func (s *GameService) Reveal(ctx context.Context) ([]models.Pairing, error) {
	pairs, err := s.repomanager.Users(s.db).ListPairings(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing pairings: %w", err)
	}
	return pairs, nil
}

func (s *GameService) recipientOf(ctx context.Context, state *models.GameState, caller *models.User) (*models.User, error) {
	if !state.Assigned || !caller.HasRecipient() {
		return nil, common.ErrNotAssignedYet
	}

	recipient, err := s.repomanager.Users(s.db).GetByID(ctx, *caller.RecipientID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotAssignedYet
		}
		return nil, fmt.Errorf("error searching recipient: %w", err)
	}
	return recipient, nil
}
