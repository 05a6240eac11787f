// Package service implements the treasury reporting core: the cheque
// classifier, the aggregator, the report builder and the access gate.
package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/treasury-reporter/internal/models"
)

// Business constants for the risk rules.
const (
	// ValidityWindowDays is the number of days after maturity during which a
	// cheque can still be cashed. Past it the instrument is assumed worthless.
	ValidityWindowDays = 30
	// ValidityWarningFromDays opens the early-warning band before the
	// validity window closes (days 25 through 30 inclusive).
	ValidityWarningFromDays = 25
	// ConcentrationThresholdPct is the portfolio share, in percent, above
	// which a single issuer is flagged as critical concentration.
	ConcentrationThresholdPct = 15
)

// DayOf returns the UTC midnight of the instant's calendar day. Every
// due-date comparison in the classifier is made between such midnights.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dueBetween filters cheques due inside the half-open window [start, end).
// A cheque due exactly at a boundary midnight belongs to the later bucket.
func dueBetween(cheques []*models.Cheque, start, end time.Time) []*models.Cheque {
	var out []*models.Cheque
	for _, c := range cheques {
		if !c.DueDate.Before(start) && c.DueDate.Before(end) {
			out = append(out, c)
		}
	}
	return out
}

// DueToday returns the cheques maturing on the reference day
func DueToday(cheques []*models.Cheque, today time.Time) []*models.Cheque {
	return dueBetween(cheques, today, today.AddDate(0, 0, 1))
}

// DueTomorrow returns the cheques maturing the day after the reference day
func DueTomorrow(cheques []*models.Cheque, today time.Time) []*models.Cheque {
	return dueBetween(cheques, today.AddDate(0, 0, 1), today.AddDate(0, 0, 2))
}

// DueWithinDays returns the cheques maturing in [today, today+n days)
func DueWithinDays(cheques []*models.Cheque, today time.Time, n int) []*models.Cheque {
	return dueBetween(cheques, today, today.AddDate(0, 0, n))
}

// Overdue returns the cheques whose due date is strictly before the
// reference day. A cheque due today is never overdue.
func Overdue(cheques []*models.Cheque, today time.Time) []*models.Cheque {
	var out []*models.Cheque
	for _, c := range cheques {
		if c.DueDate.Before(today) {
			out = append(out, c)
		}
	}
	return out
}

// ValidityCritical returns the cheques inside the early-warning band: those
// matured between 25 and 30 days ago, inclusive on both ends. Day deltas are
// exact because both operands are UTC midnights.
func ValidityCritical(cheques []*models.Cheque, today time.Time) []*models.Cheque {
	var out []*models.Cheque
	for _, c := range cheques {
		daysSince := int(today.Sub(c.DueDate).Hours() / 24)
		if daysSince >= ValidityWarningFromDays && daysSince <= ValidityWindowDays {
			out = append(out, c)
		}
	}
	return out
}

// ConcentrationByIssuer sums cheque amounts per issuer CUIT. Cheques whose
// issuer is unknown share the SIN-CUIT bucket.
func ConcentrationByIssuer(cheques []*models.Cheque) map[string]decimal.Decimal {
	byIssuer := make(map[string]decimal.Decimal)
	for _, c := range cheques {
		key := c.IssuerKey()
		byIssuer[key] = byIssuer[key].Add(c.Amount)
	}
	return byIssuer
}

// CriticalIssuers returns the issuers whose share of the portfolio total
// exceeds the concentration threshold, in deterministic key order. A zero
// total means no issuer can be critical, so the result is empty and no
// division ever happens.
func CriticalIssuers(byIssuer map[string]decimal.Decimal, total decimal.Decimal) []string {
	if total.IsZero() {
		return nil
	}

	threshold := decimal.NewFromInt(ConcentrationThresholdPct)
	hundred := decimal.NewFromInt(100)

	var critical []string
	for issuer, sum := range byIssuer {
		// share > 15% compared as sum*100 > total*15, no division
		if sum.Mul(hundred).GreaterThan(total.Mul(threshold)) {
			critical = append(critical, issuer)
		}
	}
	sort.Strings(critical)
	return critical
}
