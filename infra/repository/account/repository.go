package account

import (
	"context"

	"github.com/amirasaad/budgettracker/infra/repository/dberr"
	"github.com/amirasaad/budgettracker/pkg/domain/account"
	"github.com/amirasaad/budgettracker/pkg/dto"
	repo "github.com/amirasaad/budgettracker/pkg/repository/account"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates an account repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// CreateMany implements account.Repository.
func (r *repository) CreateMany(
	ctx context.Context,
	accounts []account.Account,
) error {
	if len(accounts) == 0 {
		return nil
	}
	models := make([]Account, 0, len(accounts))
	for i := range accounts {
		models = append(models, mapDomainToModel(&accounts[i]))
	}
	return dberr.Write("insert accounts", r.db.WithContext(ctx).Create(&models).Error)
}

// Get implements account.Repository.
func (r *repository) Get(
	ctx context.Context,
	userID, id uuid.UUID,
) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(
		ctx,
	).Where(
		"id = ? AND user_id = ?",
		id,
		userID,
	).First(
		&m,
	).Error; err != nil {
		return nil, dberr.Map(err)
	}
	return mapModelToDomain(&m), nil
}

// ListByUser implements account.Repository.
func (r *repository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*account.Account, error) {
	var models []Account
	if err := r.db.WithContext(
		ctx,
	).Where(
		"user_id = ?",
		userID,
	).Order(
		"created_at DESC",
	).Find(
		&models,
	).Error; err != nil {
		return nil, dberr.Map(err)
	}
	result := make([]*account.Account, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result, nil
}

// Update implements account.Repository.
func (r *repository) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	update dto.AccountUpdate,
) error {
	updates := mapUpdateDTOToModel(update)
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(
		ctx,
	).Model(
		&Account{},
	).Where(
		"id = ? AND user_id = ?",
		id,
		userID,
	).Updates(
		updates,
	)
	if res.Error != nil {
		return dberr.Write("update account", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.Map(gorm.ErrRecordNotFound)
	}
	return nil
}

// --- Mappers ---

func mapDomainToModel(a *account.Account) Account {
	return Account{
		ID:               a.ID,
		UserID:           a.UserID,
		PlaidAccountID:   nullable(a.PlaidAccountID),
		PlaidItemID:      nullable(a.PlaidItemID),
		PlaidAccessToken: nullable(a.PlaidAccessToken),
		InstitutionName:  a.InstitutionName,
		InstitutionID:    nullable(a.InstitutionID),
		AccountType:      string(a.Type),
		Balance:          a.Balance,
		Currency:         a.Currency,
		MaskedNumber:     a.MaskedNumber,
		CustomName:       a.CustomName,
		IsActive:         a.IsActive,
		SyncStatus:       string(a.SyncStatus),
		LastSyncedAt:     a.LastSyncedAt,
	}
}

func mapUpdateDTOToModel(update dto.AccountUpdate) map[string]any {
	updates := make(map[string]any)
	if update.Balance != nil {
		updates["balance"] = *update.Balance
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}
	if update.SyncStatus != nil {
		updates["sync_status"] = string(*update.SyncStatus)
	}
	if update.LastSyncedAt != nil {
		updates["last_synced_at"] = *update.LastSyncedAt
	}
	return updates
}

func mapModelToDomain(m *Account) *account.Account {
	return &account.Account{
		ID:               m.ID,
		UserID:           m.UserID,
		PlaidAccountID:   deref(m.PlaidAccountID),
		PlaidItemID:      deref(m.PlaidItemID),
		PlaidAccessToken: deref(m.PlaidAccessToken),
		InstitutionName:  m.InstitutionName,
		InstitutionID:    deref(m.InstitutionID),
		Type:             account.Type(m.AccountType),
		Balance:          m.Balance,
		Currency:         m.Currency,
		MaskedNumber:     m.MaskedNumber,
		CustomName:       m.CustomName,
		IsActive:         m.IsActive,
		SyncStatus:       account.SyncStatus(m.SyncStatus),
		LastSyncedAt:     m.LastSyncedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
