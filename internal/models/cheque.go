package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/treasury-reporter/internal/types"
)

// NoCUITKey is the bucket key used for cheques whose issuer tax id is
// absent in the source table.
const NoCUITKey = "SIN-CUIT"

// UnknownCounterparty is the display placeholder for cheques whose origin
// name is absent in the source table.
const UnknownCounterparty = "Sin origen"

// Cheque represents one financial instrument as read from the external
// treasury table. Amounts and NULL columns are normalized at scan time:
// a NULL amount becomes zero, a NULL issuer CUIT becomes the empty string
// and a NULL counterparty becomes UnknownCounterparty.
type Cheque struct {
	ID           int64           `json:"id"`
	IssuerCUIT   string          `json:"issuerCuit"`
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"dueDate"`     // UTC midnight, date-only
	DeliveredAt  *time.Time      `json:"deliveredAt"` // nil while the cheque is held in portfolio
	Company      types.Company   `json:"company"`
}

// InPortfolio reports whether the cheque is still held (not delivered).
func (c *Cheque) InPortfolio() bool {
	return c.DeliveredAt == nil
}

// IssuerKey returns the concentration bucket key for the cheque's issuer.
func (c *Cheque) IssuerKey() string {
	if c.IssuerCUIT == "" {
		return NoCUITKey
	}
	return c.IssuerCUIT
}
