package transaction

import (
	"context"

	"github.com/amirasaad/budgettracker/pkg/domain/account"
	"github.com/google/uuid"
)

// Repository defines transaction data access.
type Repository interface {
	// UpsertMany inserts transactions, overwriting rows that already exist
	// with the same external transaction id. Amounts must already be in the
	// internal sign convention. A row whose external id is already stored for
	// another user is skipped. It returns the number of rows written.
	UpsertMany(ctx context.Context, txs []account.Transaction) (int, error)

	// ListByAccount lists an account's transactions, newest first.
	ListByAccount(ctx context.Context, userID, accountID uuid.UUID) ([]*account.Transaction, error)

	// SetCategory assigns or clears the category of a transaction.
	SetCategory(ctx context.Context, userID, id uuid.UUID, categoryID *uuid.UUID) error
}
