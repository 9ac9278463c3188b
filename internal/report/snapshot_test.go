package report

import (
	"context"
	"reflect"
	"testing"
	"time"

	"pizzapulse/internal/core"
)

func sampleDataset() *core.Dataset {
	return &core.Dataset{
		Key:        "abc123",
		IngestedAt: time.Now().UTC(),
		Rows: []core.Row{
			row("1", day(2015, time.January, 1), 12, "Classic", "M", "The Hawaiian Pizza", 1, 1325),
			row("1", day(2015, time.January, 1), 12, "Veggie", "L", "The Mexicana Pizza", 2, 2175),
			row("2", day(2016, time.March, 5), 18, "Classic", "S", "The Pepperoni Pizza", 1, 975),
		},
	}
}

func TestBuildSnapshotMatchesDirectComputation(t *testing.T) {
	ds := sampleDataset()
	filter := core.Filter{Category: "Classic"}

	snap, err := BuildSnapshot(context.Background(), ds, filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.DatasetKey != ds.Key {
		t.Fatalf("expected key %s, got %s", ds.Key, snap.DatasetKey)
	}

	subset := ApplyFilter(ds.Rows, filter)
	if !reflect.DeepEqual(snap.Metrics, Metrics(subset)) {
		t.Fatalf("metrics mismatch: %+v", snap.Metrics)
	}
	if !reflect.DeepEqual(snap.Hourly, HourlyTrend(subset)) {
		t.Fatalf("hourly mismatch: %v", snap.Hourly)
	}
	if !reflect.DeepEqual(snap.Top, TopPizzas(subset, DefaultTopN)) {
		t.Fatalf("top mismatch: %v", snap.Top)
	}
}

func TestBuildSnapshotYearlyIgnoresFilter(t *testing.T) {
	ds := sampleDataset()

	snap, err := BuildSnapshot(context.Background(), ds, core.Filter{Category: "Veggie"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Yearly) != 2 {
		t.Fatalf("expected both years despite filter, got %v", snap.Yearly)
	}
	// The filtered views only see the Veggie rows.
	if snap.Metrics.TotalRevenue.Cents != 2175 {
		t.Fatalf("expected filtered revenue 2175, got %d", snap.Metrics.TotalRevenue.Cents)
	}
}

func TestBuildSnapshotCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := BuildSnapshot(ctx, sampleDataset(), core.Filter{}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestBuildSnapshotEmptyDataset(t *testing.T) {
	ds := &core.Dataset{Key: "empty", IngestedAt: time.Now().UTC()}
	snap, err := BuildSnapshot(context.Background(), ds, core.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Metrics.TotalOrders != 0 || len(snap.Hourly) != 0 || len(snap.Yearly) != 0 {
		t.Fatalf("expected empty views, got %+v", snap)
	}
}
