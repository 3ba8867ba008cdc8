package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/store"

	"golang.org/x/sync/errgroup"
)

// LoadResult is one consistent read of everything the engines work on.
type LoadResult struct {
	Records  []model.SavingsRecord
	Goals    []model.SavingsGoal
	Profile  model.FireGoalProfile
	LoadedAt time.Time
	Took     time.Duration
}

// Load reads records, goals and the FIRE profile from s in parallel.
// The first failure cancels the remaining reads.
func Load(ctx context.Context, s store.Store) (*LoadResult, error) {
	start := time.Now()
	result := &LoadResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.LoadRecords(gctx)
		if err != nil {
			return fmt.Errorf("loading savings: %w", err)
		}
		result.Records = records
		return nil
	})
	g.Go(func() error {
		goals, err := s.LoadGoals(gctx)
		if err != nil {
			return fmt.Errorf("loading goals: %w", err)
		}
		result.Goals = goals
		return nil
	})
	g.Go(func() error {
		profile, err := s.LoadProfile(gctx)
		if err != nil {
			return fmt.Errorf("loading FIRE profile: %w", err)
		}
		result.Profile = profile
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.LoadedAt = start
	result.Took = time.Since(start)
	return result, nil
}

// Report bundles every derived view of a LoadResult, as the CLI summary,
// the TUI and the daemon all present it.
type Report struct {
	Summary       model.PortfolioSummary
	Categories    *model.CategoryBreakdown
	Maturities    []model.SavingsRecord
	Distribution  []model.CategoryShare
	Projection    model.ProjectionResult
	Overview      model.FireOverview
	HorizonMonths int
}

// BuildReport runs every engine over a snapshot. ref anchors the maturity window.
func BuildReport(lr *LoadResult, ref model.Date, horizonMonths int) Report {
	return Report{
		Summary:       ComputePortfolioSummary(lr.Records),
		Categories:    ComputeCategoryTotals(lr.Records, model.Categories),
		Maturities:    ComputeUpcomingMaturities(lr.Records, ref, horizonMonths),
		Distribution:  ComputeDistribution(lr.Records, model.Categories),
		Projection:    Project(lr.Profile),
		Overview:      Overview(lr.Profile),
		HorizonMonths: horizonMonths,
	}
}
