package service

import "context"

// Scheduler trigger callables. Each returns the payload to broadcast, or
// nil when the trigger has nothing to send; the suppression decision lives
// here so the scheduler stays a dumb timer.

// DailyDigest returns the morning executive summary. It always has a
// payload: an empty portfolio still produces a digest of zeros.
func (s *ReportService) DailyDigest(ctx context.Context) (*SummaryReport, error) {
	return s.ExecutiveSummary(ctx)
}

// DueTomorrowAlert returns tomorrow's maturities, or nil when nothing
// matures tomorrow and the broadcast must be suppressed entirely.
func (s *ReportService) DueTomorrowAlert(ctx context.Context) (*DueReport, error) {
	report, err := s.DueTomorrow(ctx)
	if err != nil {
		return nil, err
	}
	if report.Count == 0 {
		return nil, nil
	}
	return report, nil
}

// ValidityAlert returns the validity-critical early warning, or nil when no
// cheque sits in the warning band and the broadcast must be suppressed.
func (s *ReportService) ValidityAlert(ctx context.Context) (*ValidityAlert, error) {
	cheques, err := s.fetchPortfolio(ctx)
	if err != nil {
		return nil, err
	}

	critical := ValidityCritical(cheques, s.today())
	if len(critical) == 0 {
		return nil, nil
	}
	return &ValidityAlert{Count: len(critical), Total: TotalAmount(critical)}, nil
}
