package users

import (
	"context"

	"github.com/dmitrijs2005/chrima/internal/server/models"
)

// Repository is the user directory. Recipient writes are meant to be issued
// only from inside the assignment transaction.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]*models.User, error)
	ClearRecipients(ctx context.Context) error
	SetRecipient(ctx context.Context, userID, recipientID string) error
	ListPairings(ctx context.Context) ([]models.Pairing, error)
}
