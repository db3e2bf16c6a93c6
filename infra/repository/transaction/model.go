package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents a persisted account transaction.
type Transaction struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	PlaidTransactionID *string         `gorm:"type:varchar(128);uniqueIndex"`
	Amount             decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency           string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Date               time.Time       `gorm:"type:date;not null;index"`
	Description        string          `gorm:"type:text"`
	MerchantName       string          `gorm:"type:varchar(255)"`
	Pending            bool            `gorm:"not null;default:false"`
	IsTransfer         bool            `gorm:"not null;default:false"`
	IsRecurring        bool            `gorm:"not null;default:false"`
	CategoryID         *uuid.UUID      `gorm:"type:uuid"`
	PlaidCategory      []string        `gorm:"type:jsonb;serializer:json"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName pins the table name used by migrations.
func (Transaction) TableName() string { return "transactions" }
