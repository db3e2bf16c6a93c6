package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a persisted bank account.
type Account struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_accounts_user_plaid_account,priority:1"`
	PlaidAccountID   *string         `gorm:"type:varchar(128);uniqueIndex:idx_accounts_user_plaid_account,priority:2"`
	PlaidItemID      *string         `gorm:"type:varchar(128);index"`
	PlaidAccessToken *string         `gorm:"type:text"`
	InstitutionName  string          `gorm:"type:varchar(255);not null;default:'Unknown Institution'"`
	InstitutionID    *string         `gorm:"type:varchar(64)"`
	AccountType      string          `gorm:"type:varchar(32);not null;default:'other'"`
	Balance          decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Currency         string          `gorm:"type:varchar(3);not null;default:'USD'"`
	MaskedNumber     string          `gorm:"column:account_number_masked;type:varchar(16)"`
	CustomName       string          `gorm:"type:varchar(255)"`
	IsActive         bool            `gorm:"not null;default:true"`
	SyncStatus       string          `gorm:"type:varchar(16);not null;default:'synced'"`
	LastSyncedAt     *time.Time
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

// TableName pins the table name used by migrations.
func (Account) TableName() string { return "accounts" }
