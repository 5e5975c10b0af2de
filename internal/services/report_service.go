package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"quanly/internal/core"
	"quanly/internal/ledger"
)

// ReportService folds the entry log into consolidated unit records and
// runs the financial reports over them.
type ReportService struct {
	lister         ledger.EntryLister
	defaultTaxRate float64
}

// Dashboard bundles the per-month views shown on the overview page.
type Dashboard struct {
	Year     int
	Month    int
	TaxRate  float64
	Period   []core.PeriodResult
	Cashflow []core.CashflowResult
}

func NewReportService(lister ledger.EntryLister, defaultTaxRate float64) *ReportService {
	return &ReportService{
		lister:         lister,
		defaultTaxRate: defaultTaxRate,
	}
}

// DefaultTaxRate returns the configured fallback tax rate.
func (s *ReportService) DefaultTaxRate() float64 {
	return s.defaultTaxRate
}

// Units returns the consolidated per-unit records.
func (s *ReportService) Units(ctx context.Context) ([]core.UnitSummary, error) {
	return s.consolidated(ctx)
}

// Lifetime runs the whole-contract report over every consolidated unit.
func (s *ReportService) Lifetime(ctx context.Context) ([]core.UnitResult, error) {
	summaries, err := s.consolidated(ctx)
	if err != nil {
		return nil, err
	}
	return core.LifetimeReport(summaries), nil
}

// Period runs the strict-overlap monthly report. A negative taxRate selects
// the configured default.
func (s *ReportService) Period(ctx context.Context, year, month int, taxRate float64) ([]core.PeriodResult, error) {
	w, err := core.MonthWindow(year, month)
	if err != nil {
		return nil, err
	}
	if taxRate < 0 {
		taxRate = s.defaultTaxRate
	}

	summaries, err := s.consolidated(ctx)
	if err != nil {
		return nil, err
	}
	return core.PeriodReport(summaries, w, taxRate), nil
}

// Cashflow runs the monthly cashflow report.
func (s *ReportService) Cashflow(ctx context.Context, year, month int) ([]core.CashflowResult, error) {
	summaries, err := s.consolidated(ctx)
	if err != nil {
		return nil, err
	}
	return core.CashflowReport(summaries, year, month)
}

// ReadDashboard computes the period and cashflow views for one month. The
// two reports share the consolidated fold and run concurrently.
func (s *ReportService) ReadDashboard(ctx context.Context, year, month int, taxRate float64) (Dashboard, error) {
	w, err := core.MonthWindow(year, month)
	if err != nil {
		return Dashboard{}, err
	}
	if taxRate < 0 {
		taxRate = s.defaultTaxRate
	}

	summaries, err := s.consolidated(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{Year: year, Month: month, TaxRate: taxRate}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.Period = core.PeriodReport(summaries, w, taxRate)
		return nil
	})
	g.Go(func() error {
		var err error
		d.Cashflow, err = core.CashflowReport(summaries, year, month)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	return d, nil
}

func (s *ReportService) consolidated(ctx context.Context) ([]core.UnitSummary, error) {
	entries, err := s.lister.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return core.Consolidate(entries), nil
}
