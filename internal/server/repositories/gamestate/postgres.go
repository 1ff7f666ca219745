// Package gamestate stores the singleton game-phase record.
package gamestate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chrima/internal/common"
	"github.com/dmitrijs2005/chrima/internal/dbx"
	"github.com/dmitrijs2005/chrima/internal/server/models"
)

// singletonID is the only row id the game_state table accepts.
const singletonID = 1

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context) (*models.GameState, error) {
	return r.read(ctx, `SELECT assigned, reveal_enabled FROM game_state WHERE id = $1`)
}

func (r *PostgresRepository) Lock(ctx context.Context) (*models.GameState, error) {
	return r.read(ctx, `SELECT assigned, reveal_enabled FROM game_state WHERE id = $1 FOR UPDATE`)
}

func (r *PostgresRepository) read(ctx context.Context, query string) (*models.GameState, error) {
	state := &models.GameState{}
	err := r.db.QueryRowContext(ctx, query, singletonID).Scan(&state.Assigned, &state.RevealEnabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return state, nil
}

func (r *PostgresRepository) SetAssigned(ctx context.Context, assigned bool) error {
	return r.set(ctx, `UPDATE game_state SET assigned = $1 WHERE id = $2`, assigned)
}

func (r *PostgresRepository) SetRevealEnabled(ctx context.Context, enabled bool) error {
	return r.set(ctx, `UPDATE game_state SET reveal_enabled = $1 WHERE id = $2`, enabled)
}

func (r *PostgresRepository) set(ctx context.Context, query string, value bool) error {
	res, err := r.db.ExecContext(ctx, query, value, singletonID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
