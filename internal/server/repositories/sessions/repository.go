// Package sessions declares the server-side store for login sessions.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/chrima/internal/server/models"
)

// Repository issues, looks up and revokes sessions.
type Repository interface {
	// Create stores a new session for userID that expires at now+validity.
	Create(ctx context.Context, userID string, validity time.Duration) (*models.Session, error)

	// Find returns the session with the given ID or common.ErrorNotFound.
	Find(ctx context.Context, id string) (*models.Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
