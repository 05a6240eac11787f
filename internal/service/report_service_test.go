package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/treasury-reporter/internal/errors"
	"github.com/treasury-reporter/internal/models"
	"github.com/treasury-reporter/internal/types"
)

// Mock repositories for testing

type mockChequeRepo struct {
	cheques []*models.Cheque
	err     error
}

func (m *mockChequeRepo) FetchInPortfolio(_ context.Context) ([]*models.Cheque, error) {
	if m.err != nil {
		return nil, m.err
	}
	var held []*models.Cheque
	for _, c := range m.cheques {
		if c.InPortfolio() {
			held = append(held, c)
		}
	}
	return held, nil
}

func (m *mockChequeRepo) FetchAll(_ context.Context) ([]*models.Cheque, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cheques, nil
}

type mockBalanceRepo struct {
	balances []*models.AccountBalance
	err      error
}

func (m *mockBalanceRepo) FetchBalances(_ context.Context) ([]*models.AccountBalance, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.balances, nil
}

func newTestService(cheques *mockChequeRepo, balances *mockBalanceRepo) *ReportService {
	// Mid-afternoon instant: the service must still classify against the
	// UTC midnight of the same day
	return NewReportService(cheques, balances).WithClock(func() time.Time {
		return time.Date(2024, 1, 10, 15, 30, 45, 0, time.UTC)
	})
}

func deliveredCheque(amount int64, due, delivered time.Time) *models.Cheque {
	c := cheque(amount, due)
	c.DeliveredAt = &delivered
	return c
}

func TestPortfolio_ExcludesDelivered(t *testing.T) {
	repo := &mockChequeRepo{cheques: []*models.Cheque{
		cheque(1000, testToday),
		deliveredCheque(500, testToday, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
	}}
	svc := newTestService(repo, &mockBalanceRepo{})

	report, err := svc.Portfolio(context.Background())
	if err != nil {
		t.Fatalf("Portfolio() error = %v", err)
	}

	if report.Count != 1 {
		t.Errorf("Count = %d, want 1 (delivered cheque excluded)", report.Count)
	}
	if !report.Total.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Total = %v, want 1000", report.Total)
	}
	if len(report.Companies) != 2 {
		t.Fatalf("Companies = %d entries, want 2", len(report.Companies))
	}
	if report.Companies[0].Company != types.CompanyHolding || report.Companies[0].Count != 1 {
		t.Errorf("first company slice = %+v, want HOLDING with count 1", report.Companies[0])
	}
}

func TestDueToday_SampleOverflow(t *testing.T) {
	repo := &mockChequeRepo{}
	for i := int64(1); i <= 7; i++ {
		repo.cheques = append(repo.cheques, cheque(i*100, testToday))
	}
	svc := newTestService(repo, &mockBalanceRepo{})

	report, err := svc.DueToday(context.Background())
	if err != nil {
		t.Fatalf("DueToday() error = %v", err)
	}

	if report.Count != 7 {
		t.Errorf("Count = %d, want 7", report.Count)
	}
	if len(report.Samples) != DueSampleLimit {
		t.Errorf("Samples = %d, want %d", len(report.Samples), DueSampleLimit)
	}
	if report.Overflow != 2 {
		t.Errorf("Overflow = %d, want 2", report.Overflow)
	}
	if report.Day != "2024-01-10" {
		t.Errorf("Day = %q, want 2024-01-10", report.Day)
	}
}

func TestDueWeek_SortedBreakdown(t *testing.T) {
	repo := &mockChequeRepo{cheques: []*models.Cheque{
		cheque(300, testToday.AddDate(0, 0, 3)),
		cheque(100, testToday),
		cheque(200, testToday.AddDate(0, 0, 3)),
	}}
	svc := newTestService(repo, &mockBalanceRepo{})

	report, err := svc.DueWeek(context.Background())
	if err != nil {
		t.Fatalf("DueWeek() error = %v", err)
	}

	if report.Count != 3 || !report.Total.Equal(decimal.NewFromInt(600)) {
		t.Errorf("totals = %d/%v, want 3/600", report.Count, report.Total)
	}
	if len(report.Days) != 2 {
		t.Fatalf("Days = %d, want 2", len(report.Days))
	}
	if report.Days[0].Day != "2024-01-10" || report.Days[1].Day != "2024-01-13" {
		t.Errorf("Days not sorted ascending: %+v", report.Days)
	}
	if report.Days[1].Count != 2 || !report.Days[1].Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("2024-01-13 bucket = %+v, want count 2 amount 500", report.Days[1])
	}
}

func TestDueWeek_NothingDueVariant(t *testing.T) {
	repo := &mockChequeRepo{cheques: []*models.Cheque{
		cheque(100, testToday.AddDate(0, 0, 20)),
	}}
	svc := newTestService(repo, &mockBalanceRepo{})

	report, err := svc.DueWeek(context.Background())
	if err != nil {
		t.Fatalf("DueWeek() must not fail on an empty window, got %v", err)
	}

	if report.Count != 0 || !report.Total.IsZero() || len(report.Days) != 0 {
		t.Errorf("empty window = %+v, want zero values and no days", report)
	}
}

func TestBalances_SortedWithSignFlags(t *testing.T) {
	repo := &mockBalanceRepo{balances: []*models.AccountBalance{
		{Code: 2, Name: "Banco Provincia", Balance: decimal.NewFromInt(-2000)},
		{Code: 1, Name: "Banco Nación", Balance: decimal.NewFromInt(5000)},
	}}
	svc := newTestService(&mockChequeRepo{}, repo)

	report, err := svc.Balances(context.Background())
	if err != nil {
		t.Fatalf("Balances() error = %v", err)
	}

	if !report.Available {
		t.Fatal("Available = false with data present")
	}
	if !report.Total.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Total = %v, want 3000", report.Total)
	}
	if report.Accounts[0].Code != 1 || report.Accounts[1].Code != 2 {
		t.Errorf("accounts not sorted by code: %+v", report.Accounts)
	}
	if report.Accounts[0].Negative || !report.Accounts[1].Negative {
		t.Errorf("sign flags wrong: %+v", report.Accounts)
	}
}

func TestBalances_NoDataVariant(t *testing.T) {
	svc := newTestService(&mockChequeRepo{}, &mockBalanceRepo{balances: nil})

	report, err := svc.Balances(context.Background())
	if err != nil {
		t.Fatalf("Balances() error = %v", err)
	}
	if report.Available {
		t.Error("Available = true with absent snapshot, want the no-data variant")
	}
}

func TestAlerts_EmptyPortfolio(t *testing.T) {
	svc := newTestService(&mockChequeRepo{}, &mockBalanceRepo{})

	report, err := svc.Alerts(context.Background())
	if err != nil {
		t.Fatalf("Alerts() error = %v", err)
	}
	if report.HasAlerts() {
		t.Errorf("HasAlerts() = true on empty portfolio: %+v", report)
	}
}

func TestAlerts_AllBlocks(t *testing.T) {
	repo := &mockChequeRepo{cheques: []*models.Cheque{
		chequeWithIssuer("30-11111111-1", 900), // 90% concentration
		cheque(100, testToday.AddDate(0, 0, -1)),  // overdue
		cheque(50, testToday.AddDate(0, 0, -27)),  // validity warning band
	}}
	svc := newTestService(repo, &mockBalanceRepo{})

	report, err := svc.Alerts(context.Background())
	if err != nil {
		t.Fatalf("Alerts() error = %v", err)
	}

	if report.Overdue == nil || report.Overdue.Count != 2 {
		t.Errorf("Overdue = %+v, want count 2 (both past-due cheques)", report.Overdue)
	}
	if report.Validity == nil || report.Validity.Count != 1 {
		t.Errorf("Validity = %+v, want count 1", report.Validity)
	}
	if report.Concentration == nil || report.Concentration.IssuerCount != 1 {
		t.Errorf("Concentration = %+v, want issuerCount 1", report.Concentration)
	}
}

func TestNormalizeCUITQuery(t *testing.T) {
	tests := []struct {
		name    string
		term    string
		want    string
		invalid bool
	}{
		{name: "dashes stripped", term: "20-123-45678-9", want: "201234567"},
		{name: "too short after stripping", term: "1234", invalid: true},
		{name: "letters stripped", term: "cuit 30711111118", want: "30711111118"},
		{name: "empty", term: "", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCUITQuery(tt.term)
			if tt.invalid {
				if err == nil {
					t.Fatalf("NormalizeCUITQuery(%q) expected error", tt.term)
				}
				if !apperrors.IsUserError(err) {
					t.Errorf("invalid term must be a user error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeCUITQuery(%q) error = %v", tt.term, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeCUITQuery(%q) = %q, want %q", tt.term, got, tt.want)
			}
		})
	}
}

func TestCUITLookup_HistoricalTotals(t *testing.T) {
	held := cheque(1000, testToday)
	held.IssuerCUIT = "30-71111111-8"
	held.Counterparty = "Distribuidora Sur"
	delivered := deliveredCheque(500, testToday, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	delivered.IssuerCUIT = "30-71111111-8"
	delivered.Counterparty = "Distribuidora Sur"

	repo := &mockChequeRepo{cheques: []*models.Cheque{held, delivered}}
	svc := newTestService(repo, &mockBalanceRepo{})

	// Partial digits: substring containment against the stored id
	report, err := svc.CUITLookup(context.Background(), "71111111")
	if err != nil {
		t.Fatalf("CUITLookup() error = %v", err)
	}

	if !report.Found {
		t.Fatal("Found = false, want substring match")
	}
	if report.Counterparty != "Distribuidora Sur" {
		t.Errorf("Counterparty = %q", report.Counterparty)
	}
	if report.InPortfolioCount != 1 || !report.InPortfolioTotal.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("in-portfolio = %d/%v, want 1/1000", report.InPortfolioCount, report.InPortfolioTotal)
	}
	if report.DeliveredCount != 1 || !report.DeliveredTotal.Equal(decimal.NewFromInt(500)) {
		t.Errorf("delivered = %d/%v, want 1/500", report.DeliveredCount, report.DeliveredTotal)
	}
	if !report.HistoricalTotal.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("HistoricalTotal = %v, want 1500", report.HistoricalTotal)
	}
}

func TestCUITLookup_NoMatchIsNotAnError(t *testing.T) {
	svc := newTestService(&mockChequeRepo{}, &mockBalanceRepo{})

	report, err := svc.CUITLookup(context.Background(), "20999999999")
	if err != nil {
		t.Fatalf("CUITLookup() error = %v, want empty-result payload", err)
	}
	if report.Found {
		t.Error("Found = true with no matching cheques")
	}
}

func TestCUITLookup_RejectsShortTermBeforeFetch(t *testing.T) {
	repo := &mockChequeRepo{err: errors.New("must not be called")}
	svc := newTestService(repo, &mockBalanceRepo{})

	_, err := svc.CUITLookup(context.Background(), "12-34")
	if err == nil {
		t.Fatal("CUITLookup() expected validation error")
	}
	if !apperrors.IsUserError(err) {
		t.Errorf("short term must fail validation before any fetch, got %v", err)
	}
}

func TestExecutiveSummary(t *testing.T) {
	repo := &mockChequeRepo{cheques: []*models.Cheque{
		cheque(100, testToday),
		cheque(200, testToday.AddDate(0, 0, 1)),
		cheque(300, testToday.AddDate(0, 0, 10)),
		cheque(50, testToday.AddDate(0, 0, -26)),
	}}
	balances := &mockBalanceRepo{balances: []*models.AccountBalance{
		{Code: 1, Balance: decimal.NewFromInt(5000)},
	}}
	svc := newTestService(repo, balances)

	report, err := svc.ExecutiveSummary(context.Background())
	if err != nil {
		t.Fatalf("ExecutiveSummary() error = %v", err)
	}

	if report.PortfolioCount != 4 || !report.PortfolioTotal.Equal(decimal.NewFromInt(650)) {
		t.Errorf("portfolio = %d/%v, want 4/650", report.PortfolioCount, report.PortfolioTotal)
	}
	if report.DueTodayCount != 1 || report.DueTomorrowCount != 1 {
		t.Errorf("day buckets = %d/%d, want 1/1", report.DueTodayCount, report.DueTomorrowCount)
	}
	if report.DueWeekCount != 2 {
		t.Errorf("DueWeekCount = %d, want 2 (today + tomorrow)", report.DueWeekCount)
	}
	if report.DueFortnightCount != 3 {
		t.Errorf("DueFortnightCount = %d, want 3", report.DueFortnightCount)
	}
	if report.ValidityCritical != 1 {
		t.Errorf("ValidityCritical = %d, want 1", report.ValidityCritical)
	}
	if !report.BalancesAvailable || !report.BalancesTotal.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("balances = %v/%v", report.BalancesAvailable, report.BalancesTotal)
	}
}

func TestReports_FetchFailureIsCategorized(t *testing.T) {
	repo := &mockChequeRepo{err: errors.New("connection refused")}
	svc := newTestService(repo, &mockBalanceRepo{err: errors.New("connection refused")})
	ctx := context.Background()

	if _, err := svc.Portfolio(ctx); apperrors.Categorize(err).Code != "DATA_FETCH_FAILED" {
		t.Errorf("Portfolio() error = %v, want DATA_FETCH_FAILED", err)
	}
	if _, err := svc.Balances(ctx); apperrors.Categorize(err).Code != "DATA_FETCH_FAILED" {
		t.Errorf("Balances() error = %v, want DATA_FETCH_FAILED", err)
	}
}
