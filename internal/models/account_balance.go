package models

import "github.com/shopspring/decimal"

// AccountBalance represents one treasury account snapshot as read from the
// external balances table. A NULL balance is normalized to zero at scan time.
type AccountBalance struct {
	Code    int             `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// Negative reports whether the account is overdrawn (red flag in reports).
func (b *AccountBalance) Negative() bool {
	return b.Balance.IsNegative()
}
