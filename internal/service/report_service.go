package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/treasury-reporter/internal/errors"
	"github.com/treasury-reporter/internal/models"
	"github.com/treasury-reporter/internal/types"
)

// DueSampleLimit caps the example line items in the due-today and
// due-tomorrow reports; the remainder is reported as an overflow count.
const DueSampleLimit = 5

// MinCUITQueryDigits is the minimum digit count a CUIT lookup term must
// have after normalization.
const MinCUITQueryDigits = 8

// Repository interfaces for dependency injection

// ChequeRepository reads cheques from the external treasury store
type ChequeRepository interface {
	FetchInPortfolio(ctx context.Context) ([]*models.Cheque, error)
	FetchAll(ctx context.Context) ([]*models.Cheque, error)
}

// BalanceRepository reads account balances from the external treasury store
type BalanceRepository interface {
	FetchBalances(ctx context.Context) ([]*models.AccountBalance, error)
}

// Report payloads. These are the structured values the transports render;
// field derivation, not formatting, is the contract here.

// CompanySlice is one company's share of the portfolio report
type CompanySlice struct {
	Company types.Company   `json:"company"`
	Amount  decimal.Decimal `json:"amount"`
	Count   int             `json:"count"`
}

// PortfolioReport summarizes every cheque currently held
type PortfolioReport struct {
	Total     decimal.Decimal `json:"total"`
	Count     int             `json:"count"`
	Companies []CompanySlice  `json:"companies"`
}

// DueLine is one sample line item in a due report
type DueLine struct {
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
}

// DueReport summarizes the cheques maturing on a single day
type DueReport struct {
	Day      string          `json:"day"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
	Samples  []DueLine       `json:"samples"`
	Overflow int             `json:"overflow"`
}

// DayLine is one day of the weekly breakdown
type DayLine struct {
	Day    string          `json:"day"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// DueWeekReport summarizes the next seven days of maturities. A zero Count
// with an empty Days slice is the "nothing due" variant, not a failure.
type DueWeekReport struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
	Days  []DayLine       `json:"days"`
}

// BalanceLine is one account in the balances report
type BalanceLine struct {
	Code     int             `json:"code"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Negative bool            `json:"negative"`
}

// BalancesReport lists every treasury account with its sign flag.
// Available is false when the external store returned no snapshot at all,
// which renders as "no data available" rather than a zero total.
type BalancesReport struct {
	Available bool            `json:"available"`
	Accounts  []BalanceLine   `json:"accounts"`
	Total     decimal.Decimal `json:"total"`
}

// OverdueAlert flags cheques past due still held in portfolio
type OverdueAlert struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// ValidityAlert flags cheques about to exhaust the validity window
type ValidityAlert struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// ConcentrationAlert reports how many issuers exceed the concentration
// threshold. Only the count is exposed, matching the alerting contract.
type ConcentrationAlert struct {
	IssuerCount int `json:"issuerCount"`
}

// AlertsReport groups the active alert blocks; all nil means "no alerts"
type AlertsReport struct {
	Overdue       *OverdueAlert       `json:"overdue,omitempty"`
	Validity      *ValidityAlert      `json:"validity,omitempty"`
	Concentration *ConcentrationAlert `json:"concentration,omitempty"`
}

// HasAlerts reports whether any alert block is active
func (r *AlertsReport) HasAlerts() bool {
	return r.Overdue != nil || r.Validity != nil || r.Concentration != nil
}

// CUITReport is the historical lookup result for one issuer tax id.
// Found is false when no stored CUIT contains the queried digits.
type CUITReport struct {
	Query            string          `json:"query"`
	Found            bool            `json:"found"`
	Counterparty     string          `json:"counterparty,omitempty"`
	InPortfolioCount int             `json:"inPortfolioCount"`
	InPortfolioTotal decimal.Decimal `json:"inPortfolioTotal"`
	DeliveredCount   int             `json:"deliveredCount"`
	DeliveredTotal   decimal.Decimal `json:"deliveredTotal"`
	HistoricalTotal  decimal.Decimal `json:"historicalTotal"`
}

// SummaryReport is the executive view merging portfolio, due buckets,
// balances and the validity early warning into one payload
type SummaryReport struct {
	Day                string          `json:"day"`
	PortfolioTotal     decimal.Decimal `json:"portfolioTotal"`
	PortfolioCount     int             `json:"portfolioCount"`
	DueTodayCount      int             `json:"dueTodayCount"`
	DueTodayTotal      decimal.Decimal `json:"dueTodayTotal"`
	DueTomorrowCount   int             `json:"dueTomorrowCount"`
	DueTomorrowTotal   decimal.Decimal `json:"dueTomorrowTotal"`
	DueWeekCount       int             `json:"dueWeekCount"`
	DueWeekTotal       decimal.Decimal `json:"dueWeekTotal"`
	DueFortnightCount  int             `json:"dueFortnightCount"`
	DueFortnightTotal  decimal.Decimal `json:"dueFortnightTotal"`
	BalancesAvailable  bool            `json:"balancesAvailable"`
	BalancesTotal      decimal.Decimal `json:"balancesTotal"`
	ValidityCritical  int             `json:"validityCritical"`
}

// ReportService assembles the report payloads. Every report recomputes from
// a fresh fetch; nothing is cached or carried between invocations.
type ReportService struct {
	cheques  ChequeRepository
	balances BalanceRepository
	now      func() time.Time
}

// NewReportService creates a new report service
func NewReportService(cheques ChequeRepository, balances BalanceRepository) *ReportService {
	return &ReportService{
		cheques:  cheques,
		balances: balances,
		now:      time.Now,
	}
}

// WithClock overrides the reference clock, for tests and replays
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

func (s *ReportService) today() time.Time {
	return DayOf(s.now().UTC())
}

func (s *ReportService) fetchPortfolio(ctx context.Context) ([]*models.Cheque, error) {
	cheques, err := s.cheques.FetchInPortfolio(ctx)
	if err != nil {
		return nil, apperrors.NewDataFetchError("fetch portfolio cheques", err)
	}
	return cheques, nil
}

// Portfolio builds the held-cheques report
func (s *ReportService) Portfolio(ctx context.Context) (*PortfolioReport, error) {
	cheques, err := s.fetchPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	return buildPortfolio(cheques), nil
}

func buildPortfolio(cheques []*models.Cheque) *PortfolioReport {
	split := SplitByCompany(cheques)
	companies := make([]CompanySlice, 0, len(types.Companies))
	for _, company := range types.Companies {
		bucket := split[company]
		companies = append(companies, CompanySlice{
			Company: company,
			Amount:  bucket.Amount,
			Count:   bucket.Count,
		})
	}

	return &PortfolioReport{
		Total:     TotalAmount(cheques),
		Count:     len(cheques),
		Companies: companies,
	}
}

// DueToday builds the report of cheques maturing today
func (s *ReportService) DueToday(ctx context.Context) (*DueReport, error) {
	cheques, err := s.fetchPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today()
	return buildDueReport(DueToday(cheques, today), today), nil
}

// DueTomorrow builds the report of cheques maturing tomorrow
func (s *ReportService) DueTomorrow(ctx context.Context) (*DueReport, error) {
	cheques, err := s.fetchPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today()
	return buildDueReport(DueTomorrow(cheques, today), today.AddDate(0, 0, 1)), nil
}

func buildDueReport(due []*models.Cheque, day time.Time) *DueReport {
	report := &DueReport{
		Day:   day.Format(DueDateKeyLayout),
		Count: len(due),
		Total: TotalAmount(due),
	}

	for i, c := range due {
		if i == DueSampleLimit {
			report.Overflow = len(due) - DueSampleLimit
			break
		}
		report.Samples = append(report.Samples, DueLine{
			Counterparty: c.Counterparty,
			Amount:       c.Amount,
		})
	}
	return report
}

// DueWeek builds the seven-day maturity breakdown, sorted by day ascending
func (s *ReportService) DueWeek(ctx context.Context) (*DueWeekReport, error) {
	cheques, err := s.fetchPortfolio(ctx)
	if err != nil {
		return nil, err
	}

	week := DueWithinDays(cheques, s.today(), 7)
	byDay := GroupByDueDate(week)

	days := make([]DayLine, 0, len(byDay))
	for key, bucket := range byDay {
		days = append(days, DayLine{Day: key, Count: bucket.Count, Amount: bucket.Amount})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })

	return &DueWeekReport{
		Count: len(week),
		Total: TotalAmount(week),
		Days:  days,
	}, nil
}

// Balances builds the treasury accounts report, sorted by account code
func (s *ReportService) Balances(ctx context.Context) (*BalancesReport, error) {
	balances, err := s.balances.FetchBalances(ctx)
	if err != nil {
		return nil, apperrors.NewDataFetchError("fetch account balances", err)
	}

	if balances == nil {
		return &BalancesReport{Available: false, Total: decimal.Zero}, nil
	}

	sorted := make([]*models.AccountBalance, len(balances))
	copy(sorted, balances)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	accounts := make([]BalanceLine, 0, len(sorted))
	for _, b := range sorted {
		accounts = append(accounts, BalanceLine{
			Code:     b.Code,
			Name:     b.Name,
			Amount:   b.Balance,
			Negative: b.Negative(),
		})
	}

	return &BalancesReport{
		Available: true,
		Accounts:  accounts,
		Total:     TotalBalance(sorted),
	}, nil
}

// Alerts builds the risk alerts report over the current portfolio
func (s *ReportService) Alerts(ctx context.Context) (*AlertsReport, error) {
	cheques, err := s.fetchPortfolio(ctx)
	if err != nil {
		return nil, err
	}

	today := s.today()
	report := &AlertsReport{}

	if overdue := Overdue(cheques, today); len(overdue) > 0 {
		report.Overdue = &OverdueAlert{Count: len(overdue), Total: TotalAmount(overdue)}
	}
	if critical := ValidityCritical(cheques, today); len(critical) > 0 {
		report.Validity = &ValidityAlert{Count: len(critical), Total: TotalAmount(critical)}
	}
	if issuers := CriticalIssuers(ConcentrationByIssuer(cheques), TotalAmount(cheques)); len(issuers) > 0 {
		report.Concentration = &ConcentrationAlert{IssuerCount: len(issuers)}
	}

	return report, nil
}

// NormalizeCUITQuery strips every non-digit character from a lookup term.
// Terms shorter than MinCUITQueryDigits digits are rejected before any
// fetch happens.
func NormalizeCUITQuery(term string) (string, error) {
	var digits strings.Builder
	for _, r := range term {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	normalized := digits.String()
	if len(normalized) < MinCUITQueryDigits {
		return "", apperrors.NewInvalidInputError("cuit",
			"at least 8 digits are required")
	}
	return normalized, nil
}

// CUITLookup builds the historical report for one issuer. Matching is by
// substring: a partial CUIT matches any stored id containing it. Delivered
// cheques are included; this is the one view that sees the full history.
func (s *ReportService) CUITLookup(ctx context.Context, term string) (*CUITReport, error) {
	query, err := NormalizeCUITQuery(term)
	if err != nil {
		return nil, err
	}

	cheques, err := s.cheques.FetchAll(ctx)
	if err != nil {
		return nil, apperrors.NewDataFetchError("fetch cheque history", err)
	}

	report := &CUITReport{
		Query:            query,
		InPortfolioTotal: decimal.Zero,
		DeliveredTotal:   decimal.Zero,
		HistoricalTotal:  decimal.Zero,
	}

	for _, c := range cheques {
		if !strings.Contains(c.IssuerCUIT, query) {
			continue
		}
		if !report.Found {
			report.Found = true
			report.Counterparty = c.Counterparty
		}
		if c.InPortfolio() {
			report.InPortfolioCount++
			report.InPortfolioTotal = report.InPortfolioTotal.Add(c.Amount)
		} else {
			report.DeliveredCount++
			report.DeliveredTotal = report.DeliveredTotal.Add(c.Amount)
		}
	}
	report.HistoricalTotal = report.InPortfolioTotal.Add(report.DeliveredTotal)

	return report, nil
}

// ExecutiveSummary builds the combined executive view
func (s *ReportService) ExecutiveSummary(ctx context.Context) (*SummaryReport, error) {
	cheques, err := s.fetchPortfolio(ctx)
	if err != nil {
		return nil, err
	}

	balances, err := s.balances.FetchBalances(ctx)
	if err != nil {
		return nil, apperrors.NewDataFetchError("fetch account balances", err)
	}

	today := s.today()
	dueToday := DueToday(cheques, today)
	dueTomorrow := DueTomorrow(cheques, today)
	dueWeek := DueWithinDays(cheques, today, 7)
	dueFortnight := DueWithinDays(cheques, today, 15)

	return &SummaryReport{
		Day:               today.Format(DueDateKeyLayout),
		PortfolioTotal:    TotalAmount(cheques),
		PortfolioCount:    len(cheques),
		DueTodayCount:     len(dueToday),
		DueTodayTotal:     TotalAmount(dueToday),
		DueTomorrowCount:  len(dueTomorrow),
		DueTomorrowTotal:  TotalAmount(dueTomorrow),
		DueWeekCount:      len(dueWeek),
		DueWeekTotal:      TotalAmount(dueWeek),
		DueFortnightCount: len(dueFortnight),
		DueFortnightTotal: TotalAmount(dueFortnight),
		BalancesAvailable: balances != nil,
		BalancesTotal:     TotalBalance(balances),
		ValidityCritical:  len(ValidityCritical(cheques, today)),
	}, nil
}
