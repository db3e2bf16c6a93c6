package transaction

import (
	"context"

	"github.com/amirasaad/budgettracker/infra/repository/dberr"
	"github.com/amirasaad/budgettracker/pkg/domain/account"
	repo "github.com/amirasaad/budgettracker/pkg/repository/transaction"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 200

// upsertColumns are overwritten when a transaction is re-ingested. The
// incoming values are already normalized, so the sign is never flipped
// twice. category_id is user-assigned and left alone.
var upsertColumns = []string{
	"account_id",
	"amount",
	"currency",
	"date",
	"description",
	"merchant_name",
	"pending",
	"is_transfer",
	"plaid_category",
	"updated_at",
}

type repository struct {
	db *gorm.DB
}

// New creates a transaction repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// UpsertMany implements transaction.Repository.
func (r *repository) UpsertMany(
	ctx context.Context,
	txs []account.Transaction,
) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}
	models := make([]Transaction, 0, len(txs))
	for i := range txs {
		models = append(models, mapDomainToModel(&txs[i]))
	}
	res := r.db.WithContext(
		ctx,
	).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "plaid_transaction_id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
			// Never let an external id collision rewrite another user's row.
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "transactions.user_id = excluded.user_id"},
			}},
		},
	).CreateInBatches(
		&models,
		upsertBatchSize,
	)
	if res.Error != nil {
		return 0, dberr.Write("upsert transactions", res.Error)
	}
	// Rows whose external id belongs to another user are skipped by the
	// conflict guard and not counted.
	return int(res.RowsAffected), nil
}

// ListByAccount implements transaction.Repository.
func (r *repository) ListByAccount(
	ctx context.Context,
	userID, accountID uuid.UUID,
) ([]*account.Transaction, error) {
	var models []Transaction
	if err := r.db.WithContext(
		ctx,
	).Where(
		"user_id = ? AND account_id = ?",
		userID,
		accountID,
	).Order(
		"date DESC, created_at DESC",
	).Find(
		&models,
	).Error; err != nil {
		return nil, dberr.Map(err)
	}
	result := make([]*account.Transaction, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result, nil
}

// SetCategory implements transaction.Repository.
func (r *repository) SetCategory(
	ctx context.Context,
	userID, id uuid.UUID,
	categoryID *uuid.UUID,
) error {
	res := r.db.WithContext(
		ctx,
	).Model(
		&Transaction{},
	).Where(
		"id = ? AND user_id = ?",
		id,
		userID,
	).Update(
		"category_id",
		categoryID,
	)
	if res.Error != nil {
		return dberr.Write("update transaction category", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.Map(gorm.ErrRecordNotFound)
	}
	return nil
}

// --- Mappers ---

func mapDomainToModel(t *account.Transaction) Transaction {
	return Transaction{
		ID:                 t.ID,
		UserID:             t.UserID,
		AccountID:          t.AccountID,
		PlaidTransactionID: t.PlaidTransactionID,
		Amount:             t.Amount,
		Currency:           t.Currency,
		Date:               t.Date,
		Description:        t.Description,
		MerchantName:       t.MerchantName,
		Pending:            t.Pending,
		IsTransfer:         t.IsTransfer,
		IsRecurring:        t.IsRecurring,
		CategoryID:         t.CategoryID,
		PlaidCategory:      t.PlaidCategory,
	}
}

func mapModelToDomain(m *Transaction) *account.Transaction {
	return &account.Transaction{
		ID:                 m.ID,
		UserID:             m.UserID,
		AccountID:          m.AccountID,
		PlaidTransactionID: m.PlaidTransactionID,
		Amount:             m.Amount,
		Currency:           m.Currency,
		Date:               m.Date,
		Description:        m.Description,
		MerchantName:       m.MerchantName,
		Pending:            m.Pending,
		IsTransfer:         m.IsTransfer,
		IsRecurring:        m.IsRecurring,
		CategoryID:         m.CategoryID,
		PlaidCategory:      m.PlaidCategory,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
