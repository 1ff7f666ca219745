package tasks

import (
	"context"

	"github.com/dmitrijs2005/chrima/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) error
	ListForRecipient(ctx context.Context, recipientID string) ([]*models.Task, error)
}
