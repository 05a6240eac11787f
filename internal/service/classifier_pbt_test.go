package service

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/treasury-reporter/internal/models"
)

// genCheques builds portfolios of cheques due between 30 days before and
// 30 days after the reference day, with integer peso amounts.
func genCheques(today time.Time) gopter.Gen {
	genOne := gopter.CombineGens(
		gen.IntRange(-30, 30),
		gen.Int64Range(0, 1_000_000),
	).Map(func(vals []interface{}) *models.Cheque {
		return &models.Cheque{
			DueDate: today.AddDate(0, 0, vals[0].(int)),
			Amount:  decimal.NewFromInt(vals[1].(int64)),
		}
	})
	return gen.SliceOf(genOne)
}

func TestDueBucketsPartitionWithoutOverlap(t *testing.T) {
	today := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	properties := gopter.NewProperties(nil)

	properties.Property("dueToday and dueTomorrow never share a cheque", prop.ForAll(
		func(cheques []*models.Cheque) bool {
			inToday := make(map[*models.Cheque]bool)
			for _, c := range DueToday(cheques, today) {
				inToday[c] = true
			}
			for _, c := range DueTomorrow(cheques, today) {
				if inToday[c] {
					return false
				}
			}
			return true
		},
		genCheques(today),
	))

	properties.Property("seven-day window contains both day buckets", prop.ForAll(
		func(cheques []*models.Cheque) bool {
			inWeek := make(map[*models.Cheque]bool)
			for _, c := range DueWithinDays(cheques, today, 7) {
				inWeek[c] = true
			}
			for _, c := range DueToday(cheques, today) {
				if !inWeek[c] {
					return false
				}
			}
			for _, c := range DueTomorrow(cheques, today) {
				if !inWeek[c] {
					return false
				}
			}
			return true
		},
		genCheques(today),
	))

	properties.Property("overdue and seven-day window are disjoint", prop.ForAll(
		func(cheques []*models.Cheque) bool {
			overdue := make(map[*models.Cheque]bool)
			for _, c := range Overdue(cheques, today) {
				overdue[c] = true
			}
			for _, c := range DueWithinDays(cheques, today, 7) {
				if overdue[c] {
					return false
				}
			}
			return true
		},
		genCheques(today),
	))

	properties.TestingRun(t)
}

func TestSumsConsistentWithFilters(t *testing.T) {
	today := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	properties := gopter.NewProperties(nil)

	// Filtering never double-counts or drops amounts: the due-today sum plus
	// the not-due-today sum equals the portfolio sum.
	properties.Property("partition sums add up to the total", prop.ForAll(
		func(cheques []*models.Cheque) bool {
			dueToday := DueToday(cheques, today)
			inToday := make(map[*models.Cheque]bool)
			for _, c := range dueToday {
				inToday[c] = true
			}

			var rest []*models.Cheque
			for _, c := range cheques {
				if !inToday[c] {
					rest = append(rest, c)
				}
			}

			return TotalAmount(cheques).Equal(TotalAmount(dueToday).Add(TotalAmount(rest)))
		},
		genCheques(today),
	))

	properties.TestingRun(t)
}
