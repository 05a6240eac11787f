package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/treasury-reporter/internal/models"
)

// BalanceRepository reads the externally-owned account balances table
type BalanceRepository struct {
	db *PostgresDB
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *PostgresDB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// FetchBalances returns every account snapshot. A nil slice means the table
// holds no snapshot at all; the report layer renders that as "no data
// available" rather than a zero total.
func (r *BalanceRepository) FetchBalances(ctx context.Context) ([]*models.AccountBalance, error) {
	query := `
		SELECT codigo, COALESCE(cuenta, ''), COALESCE(saldo, 0)::text
		FROM saldos_cuentas
	`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query account balances: %w", err)
	}
	defer rows.Close()

	var balances []*models.AccountBalance
	for rows.Next() {
		var (
			balance models.AccountBalance
			total   string
		)

		if err := rows.Scan(&balance.Code, &balance.Name, &total); err != nil {
			return nil, fmt.Errorf("failed to scan account balance: %w", err)
		}

		parsed, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("failed to parse balance %q: %w", total, err)
		}
		balance.Balance = parsed

		balances = append(balances, &balance)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account balances: %w", err)
	}

	return balances, nil
}
