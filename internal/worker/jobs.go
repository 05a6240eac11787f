package worker

import (
	"context"

	"github.com/treasury-reporter/internal/bot"
	"github.com/treasury-reporter/internal/config"
	"github.com/treasury-reporter/internal/service"
	"github.com/treasury-reporter/internal/types"
)

// BuildJobs wires the three scheduled broadcasts to the same report builder
// the interactive commands use. The suppression decisions live in the
// trigger callables; jobs only render what they are given.
func BuildJobs(reports *service.ReportService, renderer *bot.Renderer, cfg *config.SchedulerConfig) []Job {
	return []Job{
		{
			Kind: types.TriggerDailyDigest,
			At:   cfg.DailyDigestAt,
			Run: func(ctx context.Context) (string, bool, error) {
				digest, err := reports.DailyDigest(ctx)
				if err != nil {
					return "", false, err
				}
				return renderer.Summary(digest), true, nil
			},
		},
		{
			Kind: types.TriggerDueTomorrow,
			At:   cfg.DueTomorrowAt,
			Run: func(ctx context.Context) (string, bool, error) {
				due, err := reports.DueTomorrowAlert(ctx)
				if err != nil {
					return "", false, err
				}
				if due == nil {
					return "", false, nil
				}
				return renderer.Due("⏰ Vencen mañana", due), true, nil
			},
		},
		{
			Kind: types.TriggerValidity,
			At:   cfg.ValidityCheckAt,
			Run: func(ctx context.Context) (string, bool, error) {
				alert, err := reports.ValidityAlert(ctx)
				if err != nil {
					return "", false, err
				}
				if alert == nil {
					return "", false, nil
				}
				return renderer.Validity(alert), true, nil
			},
		},
	}
}
