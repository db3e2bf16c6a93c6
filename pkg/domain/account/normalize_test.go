package account

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapExternalType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"depository", TypeChecking},
		{"credit", TypeCredit},
		{"loan", TypeLoan},
		{"investment", TypeInvestment},
		{"brokerage", TypeOther},
		{"", TypeOther},
		{"Depository", TypeChecking},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MapExternalType(tt.in))
		})
	}
}

func TestNewAccountFromExternal(t *testing.T) {
	userID := uuid.New()
	balance := 1250.75
	link := Link{AccessToken: "access-sandbox-1", ItemID: "item-1", InstitutionID: "ins_1"}

	a := NewAccountFromExternal(userID, link, ExternalAccount{
		AccountID:      "acc-1",
		Type:           "depository",
		Subtype:        "savings",
		Name:           "Plaid Saving",
		Mask:           "1111",
		CurrentBalance: &balance,
	})

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, userID, a.UserID)
	assert.Equal(t, "acc-1", a.PlaidAccountID)
	assert.Equal(t, "item-1", a.PlaidItemID)
	assert.Equal(t, TypeChecking, a.Type)
	assert.True(t, a.Balance.Equal(decimal.RequireFromString("1250.75")))
	assert.Equal(t, DefaultCurrency, a.Currency)
	assert.Equal(t, UnknownInstitution, a.InstitutionName)
	assert.Equal(t, "Plaid Saving", a.CustomName)
	assert.Equal(t, "1111", a.MaskedNumber)
	assert.True(t, a.IsActive)
	assert.True(t, a.IsLinked())
	assert.Equal(t, SyncPending, a.SyncStatus)
}

func TestNewAccountFromExternal_MissingBalance(t *testing.T) {
	a := NewAccountFromExternal(uuid.New(), Link{InstitutionName: "Chase"}, ExternalAccount{
		AccountID:       "acc-2",
		Type:            "credit",
		ISOCurrencyCode: "cad",
	})
	assert.True(t, a.Balance.IsZero())
	assert.Equal(t, "CAD", a.Currency)
	assert.Equal(t, "Chase", a.InstitutionName)
	assert.False(t, a.IsLinked())
}

func TestNewTransactionFromExternal(t *testing.T) {
	userID, accountID := uuid.New(), uuid.New()
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("outflow becomes negative", func(t *testing.T) {
		tx := NewTransactionFromExternal(userID, accountID, ExternalTransaction{
			TransactionID: "tx-1",
			AccountID:     "acc-1",
			Amount:        12.34,
			Date:          date,
			Name:          "Starbucks",
			MerchantName:  "Starbucks Coffee",
			Category:      []string{"Food and Drink", "Coffee"},
		})
		assert.True(t, tx.Amount.Equal(decimal.RequireFromString("-12.34")))
		assert.Equal(t, KindExpense, tx.Kind())
		require.NotNil(t, tx.PlaidTransactionID)
		assert.Equal(t, "tx-1", *tx.PlaidTransactionID)
		assert.Equal(t, "Starbucks", tx.Description)
		assert.Equal(t, "Starbucks Coffee", tx.MerchantName)
		assert.Equal(t, DefaultCurrency, tx.Currency)
		assert.Equal(t, date, tx.Date)
		assert.Nil(t, tx.CategoryID)
	})

	t.Run("inflow becomes positive", func(t *testing.T) {
		tx := NewTransactionFromExternal(userID, accountID, ExternalTransaction{
			TransactionID: "tx-2",
			Amount:        -500,
			Name:          "Payroll",
		})
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, KindIncome, tx.Kind())
		assert.Equal(t, "Payroll", tx.MerchantName)
	})

	t.Run("transfer flag", func(t *testing.T) {
		tx := NewTransactionFromExternal(userID, accountID, ExternalTransaction{
			TransactionID:   "tx-3",
			Amount:          25,
			TransactionType: "transfer",
		})
		assert.True(t, tx.IsTransfer)
	})
}

func TestNormalizeTransactions_DropsUnmappedAccounts(t *testing.T) {
	userID := uuid.New()
	checking := uuid.New()
	ext := []ExternalTransaction{
		{TransactionID: "a", AccountID: "acc-1", Amount: 1},
		{TransactionID: "b", AccountID: "acc-2", Amount: 2},
		{TransactionID: "c", AccountID: "acc-1", Amount: 3},
	}

	got := NormalizeTransactions(userID, map[string]uuid.UUID{"acc-1": checking}, ext)

	require.Len(t, got, 2)
	for _, tx := range got {
		assert.Equal(t, checking, tx.AccountID)
		assert.Equal(t, userID, tx.UserID)
	}
	assert.Equal(t, "a", *got[0].PlaidTransactionID)
	assert.Equal(t, "c", *got[1].PlaidTransactionID)
}
