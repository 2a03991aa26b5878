// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/optionsense/backend/internal/premarket"
	"github.com/optionsense/backend/internal/screener"
	"github.com/optionsense/backend/pkg/logger"
)

type premarketReporter interface {
	GetReport(ctx context.Context) premarket.Report
}

// PremarketWarmJob builds the pre-market report before the open so the
// first request of the day is served warm.
type PremarketWarmJob struct {
	reporter premarketReporter
	logger   *logger.Logger
}

func NewPremarketWarmJob(reporter premarketReporter, log *logger.Logger) *PremarketWarmJob {
	return &PremarketWarmJob{reporter: reporter, logger: log}
}

func (j *PremarketWarmJob) Name() string { return "premarket_warm" }

// Schedule runs daily at 08:30, an hour before the open.
func (j *PremarketWarmJob) Schedule() string { return "0 30 8 * * *" }

func (j *PremarketWarmJob) Run(ctx context.Context) error {
	report := j.reporter.GetReport(ctx)

	j.logger.WithFields(map[string]interface{}{
		"mood":  report.OverallMood.Mood,
		"picks": len(report.TopPicks),
	}).Info("pre-market report warmed")
	return nil
}

type screenerSource interface {
	GetScreenerData(ctx context.Context, filter string) screener.Result
}

// UniverseRefreshJob refreshes the screener's retained universe list
// ahead of the open. A refresh that only yields the sample tier is
// reported as a failure so the scheduler retries it.
type UniverseRefreshJob struct {
	screener screenerSource
	logger   *logger.Logger
}

func NewUniverseRefreshJob(scr screenerSource, log *logger.Logger) *UniverseRefreshJob {
	return &UniverseRefreshJob{screener: scr, logger: log}
}

func (j *UniverseRefreshJob) Name() string { return "universe_refresh" }

func (j *UniverseRefreshJob) Schedule() string { return "0 30 8 * * *" }

func (j *UniverseRefreshJob) Run(ctx context.Context) error {
	result := j.screener.GetScreenerData(ctx, screener.FilterAll)

	if result.DataSource == screener.TierMock {
		return fmt.Errorf("universe refresh served %s tier", result.DataSource)
	}

	j.logger.WithFields(map[string]interface{}{
		"stocks": len(result.Stocks),
		"tier":   result.DataSource,
	}).Info("screener universe refreshed")
	return nil
}
