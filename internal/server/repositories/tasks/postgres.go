// Package tasks provides the PostgreSQL-backed store for the anonymous
// messages exchanged between givers and their Chrima.
package tasks

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/chrima/internal/dbx"
	"github.com/dmitrijs2005/chrima/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements task storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts task, filling in its ID and creation time.
func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	query := `
		INSERT INTO tasks (id, text, sender_id, recipient_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Text, task.SenderID, task.RecipientID).Scan(&task.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListForRecipient returns the tasks addressed to recipientID, oldest first.
func (r *PostgresRepository) ListForRecipient(ctx context.Context, recipientID string) ([]*models.Task, error) {
	query := `
		SELECT id, text, sender_id, recipient_id, created_at FROM tasks
		WHERE recipient_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		var item models.Task
		if err := rows.Scan(&item.ID, &item.Text, &item.SenderID, &item.RecipientID, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
