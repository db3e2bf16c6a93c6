package account

import (
	"context"

	"github.com/amirasaad/budgettracker/pkg/domain/account"
	"github.com/amirasaad/budgettracker/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines account data access. Every lookup is scoped by the
// owning user; rows owned by someone else behave as missing.
type Repository interface {
	// CreateMany inserts accounts in one statement. It is all-or-nothing.
	CreateMany(ctx context.Context, accounts []account.Account) error

	// Get returns the account or domain.ErrNotFound.
	Get(ctx context.Context, userID, id uuid.UUID) (*account.Account, error)

	// ListByUser lists all accounts for a given user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)

	// Update applies the non-nil fields of update.
	Update(ctx context.Context, userID, id uuid.UUID, update dto.AccountUpdate) error
}
