package account

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var externalTypes = map[string]Type{
	"depository": TypeChecking,
	"credit":     TypeCredit,
	"loan":       TypeLoan,
	"investment": TypeInvestment,
}

// MapExternalType maps an aggregator account type onto the internal enum.
// Unknown types map to TypeOther. Every depository account, savings included,
// becomes checking.
func MapExternalType(external string) Type {
	if t, ok := externalTypes[strings.ToLower(strings.TrimSpace(external))]; ok {
		return t
	}
	return TypeOther
}

// NewTransactionFromExternal maps an aggregator transaction into the internal
// sign convention (negative is money out). The aggregator reports outflows as
// positive, so the amount is negated here and nowhere else.
func NewTransactionFromExternal(userID, accountID uuid.UUID, ext ExternalTransaction) Transaction {
	merchant := ext.MerchantName
	if merchant == "" {
		merchant = ext.Name
	}
	var externalID *string
	if ext.TransactionID != "" {
		id := ext.TransactionID
		externalID = &id
	}
	return Transaction{
		ID:                 uuid.New(),
		UserID:             userID,
		AccountID:          accountID,
		PlaidTransactionID: externalID,
		Amount:             decimal.NewFromFloat(ext.Amount).Neg(),
		Currency:           currencyOrDefault(ext.ISOCurrencyCode),
		Date:               ext.Date,
		Description:        ext.Name,
		MerchantName:       merchant,
		Pending:            ext.Pending,
		IsTransfer:         ext.TransactionType == "transfer",
		PlaidCategory:      ext.Category,
	}
}

// NormalizeTransactions maps every external transaction whose account id is
// present in accounts (external account id -> internal id). Rows for other
// accounts are dropped.
func NormalizeTransactions(
	userID uuid.UUID,
	accounts map[string]uuid.UUID,
	ext []ExternalTransaction,
) []Transaction {
	out := make([]Transaction, 0, len(ext))
	for _, tx := range ext {
		accountID, ok := accounts[tx.AccountID]
		if !ok {
			continue
		}
		out = append(out, NewTransactionFromExternal(userID, accountID, tx))
	}
	return out
}

func currencyOrDefault(code string) string {
	if code == "" {
		return DefaultCurrency
	}
	return strings.ToUpper(code)
}
