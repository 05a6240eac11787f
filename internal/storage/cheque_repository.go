package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/treasury-reporter/internal/models"
	"github.com/treasury-reporter/internal/types"
)

// ChequeRepository reads the externally-owned cheques table. The table is
// never written by this service; every report starts from a fresh fetch.
type ChequeRepository struct {
	db *PostgresDB
}

// NewChequeRepository creates a new cheque repository
func NewChequeRepository(db *PostgresDB) *ChequeRepository {
	return &ChequeRepository{db: db}
}

// NULL columns are normalized here, once, at scan time: amount to zero,
// issuer CUIT to empty string, counterparty to its placeholder. Amounts are
// cast to text so they round-trip into decimal without float conversion.
const chequeColumns = `
	id,
	COALESCE(cuit_emisor, ''),
	COALESCE(origen, '` + models.UnknownCounterparty + `'),
	COALESCE(importe, 0)::text,
	fecha_vencimiento,
	fecha_entrega,
	COALESCE(empresa, '')
`

// FetchInPortfolio returns every cheque still held (fecha_entrega IS NULL)
func (r *ChequeRepository) FetchInPortfolio(ctx context.Context) ([]*models.Cheque, error) {
	query := `SELECT ` + chequeColumns + ` FROM cheques WHERE fecha_entrega IS NULL`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio cheques: %w", err)
	}
	defer rows.Close()

	return scanCheques(rows)
}

// FetchAll returns every cheque regardless of delivery status, for the
// historical CUIT lookup
func (r *ChequeRepository) FetchAll(ctx context.Context) ([]*models.Cheque, error) {
	query := `SELECT ` + chequeColumns + ` FROM cheques`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cheques: %w", err)
	}
	defer rows.Close()

	return scanCheques(rows)
}

func scanCheques(rows pgx.Rows) ([]*models.Cheque, error) {
	var cheques []*models.Cheque

	for rows.Next() {
		var (
			cheque    models.Cheque
			amount    string
			dueDate   time.Time
			delivered *time.Time
			company   string
		)

		if err := rows.Scan(
			&cheque.ID,
			&cheque.IssuerCUIT,
			&cheque.Counterparty,
			&amount,
			&dueDate,
			&delivered,
			&company,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cheque: %w", err)
		}

		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cheque amount %q: %w", amount, err)
		}
		cheque.Amount = parsed
		cheque.DueDate = midnightUTC(dueDate)
		if delivered != nil {
			d := midnightUTC(*delivered)
			cheque.DeliveredAt = &d
		}
		cheque.Company = types.Company(company)

		cheques = append(cheques, &cheque)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cheques: %w", err)
	}

	return cheques, nil
}

// midnightUTC drops any time-of-day component the driver may attach to a
// DATE column. All due-date arithmetic is date-only in UTC.
func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
