package gamestate

import (
	"context"

	"github.com/dmitrijs2005/chrima/internal/server/models"
)

// Repository reads and flips the singleton game-state flags.
type Repository interface {
	// Get reads the current flags.
	Get(ctx context.Context) (*models.GameState, error)

	// Lock reads the flags and holds a row lock until the surrounding
	// transaction ends. Outside a transaction it behaves like Get.
	Lock(ctx context.Context) (*models.GameState, error)

	SetAssigned(ctx context.Context, assigned bool) error
	SetRevealEnabled(ctx context.Context, enabled bool) error
}
