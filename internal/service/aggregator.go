package service

import (
	"github.com/shopspring/decimal"

	"github.com/treasury-reporter/internal/models"
	"github.com/treasury-reporter/internal/types"
)

// DueDateKeyLayout is the calendar-date key format used by GroupByDueDate.
const DueDateKeyLayout = "2006-01-02"

// CompanyBucket holds the per-company slice of the portfolio
type CompanyBucket struct {
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// DayBucket holds the per-day slice of a due-date breakdown
type DayBucket struct {
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// TotalAmount sums cheque amounts. Amounts were normalized at scan time,
// so a cheque with an absent amount contributes zero but still counts.
func TotalAmount(cheques []*models.Cheque) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cheques {
		total = total.Add(c.Amount)
	}
	return total
}

// SplitByCompany buckets cheques into the two known companies. Cheques
// carrying any other company value are excluded from both buckets; the
// source table is not validated here.
func SplitByCompany(cheques []*models.Cheque) map[types.Company]CompanyBucket {
	split := map[types.Company]CompanyBucket{
		types.CompanyHolding:   {Amount: decimal.Zero},
		types.CompanyOperadora: {Amount: decimal.Zero},
	}
	for _, c := range cheques {
		bucket, ok := split[c.Company]
		if !ok {
			continue
		}
		bucket.Amount = bucket.Amount.Add(c.Amount)
		bucket.Count++
		split[c.Company] = bucket
	}
	return split
}

// GroupByDueDate buckets cheques by calendar due date. Keys use
// DueDateKeyLayout; consumers sort them ascending for display.
func GroupByDueDate(cheques []*models.Cheque) map[string]DayBucket {
	byDay := make(map[string]DayBucket)
	for _, c := range cheques {
		key := c.DueDate.Format(DueDateKeyLayout)
		bucket := byDay[key]
		bucket.Amount = bucket.Amount.Add(c.Amount)
		bucket.Count++
		byDay[key] = bucket
	}
	return byDay
}

// TotalBalance sums account balances across all snapshots
func TotalBalance(balances []*models.AccountBalance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Balance)
	}
	return total
}
