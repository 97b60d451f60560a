package core

import (
	"context"
	"fmt"
	"time"
)

// ── Report types ──────────────────────────────────────────────────────────────

// ProductionReport is the filtered production total plus its daily series.
// Series covers the filter range when both bounds are set, and is empty otherwise.
type ProductionReport struct {
	From   *time.Time    `json:"from,omitempty"`
	To     *time.Time    `json:"to,omitempty"`
	Fabric string        `json:"fabric,omitempty"`
	Pieces int           `json:"pieces"`
	Series []PeriodTotal `json:"series"`
}

// ReportingService provides read-only projections over all orders. Every call rescans the
// current state; no running aggregate is kept.
type ReportingService interface {
	Dashboard(ctx context.Context, now time.Time) (*Dashboard, error)
	// PiecesProduced sums the pieces of FINISHED splits matching the filter.
	PiecesProduced(ctx context.Context, filter ReportFilter) (*ProductionReport, error)
	// PiecesByPeriod returns n buckets of the given granularity ending with the one containing end.
	PiecesByPeriod(ctx context.Context, g Granularity, end time.Time, n int) ([]PeriodTotal, error)
	SeamstressStats(ctx context.Context) ([]SeamstressStat, error)
}

type reportingService struct {
	store Store
	loc   *time.Location
}

// NewReportingService buckets dates in loc (time.Local when nil).
func NewReportingService(store Store, loc *time.Location) ReportingService {
	if loc == nil {
		loc = time.Local
	}
	return &reportingService{store: store, loc: loc}
}

func (s *reportingService) load(ctx context.Context) ([]ProductionOrder, []Seamstress, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list orders: %w", err)
	}
	seamstresses, err := s.store.ListSeamstresses(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list seamstresses: %w", err)
	}
	return orders, seamstresses, nil
}

func (s *reportingService) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	orders, seamstresses, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	d := BuildDashboard(orders, seamstresses, now, s.loc)
	return &d, nil
}

// maxSeriesDays bounds the daily series of a production report.
const maxSeriesDays = 366

func (s *reportingService) PiecesProduced(ctx context.Context, filter ReportFilter) (*ProductionReport, error) {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, validationErr("to", "end of range must be after its start")
	}
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	report := &ProductionReport{
		From:   filter.From,
		To:     filter.To,
		Fabric: filter.Fabric,
		Pieces: PiecesProduced(orders, filter),
		Series: []PeriodTotal{},
	}
	if filter.From != nil && filter.To != nil {
		first := bucketStart(*filter.From, Day, s.loc)
		for day := first; day.Before(*filter.To) && len(report.Series) < maxSeriesDays; day = bucketStep(day, Day, 1) {
			start, stop := day, bucketStep(day, Day, 1)
			f := filter
			f.From, f.To = &start, &stop
			if start.Before(*filter.From) {
				f.From = filter.From
			}
			if stop.After(*filter.To) {
				f.To = filter.To
			}
			report.Series = append(report.Series, PeriodTotal{Start: start, End: stop, Pieces: PiecesProduced(orders, f)})
		}
	}
	return report, nil
}

func (s *reportingService) PiecesByPeriod(ctx context.Context, g Granularity, end time.Time, n int) ([]PeriodTotal, error) {
	switch g {
	case Day, Week, Month:
	default:
		return nil, validationErr("granularity", "unknown granularity %q (want day, week or month)", g)
	}
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return PiecesByPeriod(orders, g, end, n, s.loc), nil
}

func (s *reportingService) SeamstressStats(ctx context.Context) ([]SeamstressStat, error) {
	orders, seamstresses, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return SeamstressStats(orders, seamstresses), nil
}
