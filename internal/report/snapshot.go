package report

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pizzapulse/internal/core"
)

// Snapshot bundles every view of one report pass over a dataset. All
// views except Yearly are computed on the filtered subset; Yearly is
// always computed on the full dataset.
type Snapshot struct {
	DatasetKey string         `json:"dataset_key"`
	Filter     core.Filter    `json:"filter"`
	Metrics    KeyMetrics     `json:"metrics"`
	Hourly     []HourlyPoint  `json:"hourly"`
	Weekly     []WeeklyPoint  `json:"weekly"`
	Monthly    []MonthlyPoint `json:"monthly"`
	Categories []SharePoint   `json:"categories"`
	Sizes      []SharePoint   `json:"sizes"`
	Top        []PizzaRevenue `json:"top"`
	Bottom     []PizzaRevenue `json:"bottom"`
	Yearly     []YearlyPoint  `json:"yearly"`
}

// BuildSnapshot computes all views of a report in one pass. The views
// run concurrently: the dataset is immutable once normalized, so
// read-only aggregation over it needs no locking.
func BuildSnapshot(ctx context.Context, ds *core.Dataset, f core.Filter) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subset := ApplyFilter(ds.Rows, f)
	snap := &Snapshot{DatasetKey: ds.Key, Filter: f}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { snap.Metrics = Metrics(subset); return nil })
	g.Go(func() error { snap.Hourly = HourlyTrend(subset); return nil })
	g.Go(func() error { snap.Weekly = WeeklyTrend(subset); return nil })
	g.Go(func() error { snap.Monthly = MonthlyRevenue(subset); return nil })
	g.Go(func() error { snap.Categories = CategorySplit(subset); return nil })
	g.Go(func() error { snap.Sizes = SizeSplit(subset); return nil })
	g.Go(func() error { snap.Top = TopPizzas(subset, DefaultTopN); return nil })
	g.Go(func() error { snap.Bottom = BottomPizzas(subset, DefaultTopN); return nil })
	g.Go(func() error { snap.Yearly = YearlyComparison(ds.Rows); return nil })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snap, nil
}
