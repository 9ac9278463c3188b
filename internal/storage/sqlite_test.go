package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"pizzapulse/internal/core"
)

func sampleDataset(key string, ingestedAt time.Time) *core.Dataset {
	return &core.Dataset{
		Key:        key,
		IngestedAt: ingestedAt,
		Rows: []core.Row{
			{
				OrderID:    "1",
				OrderDate:  time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
				OrderTime:  core.TimeOfDay{Hour: 12, Minute: 15, Second: 30},
				Category:   "Classic",
				Size:       "M",
				Name:       "The Hawaiian Pizza",
				Quantity:   1,
				TotalPrice: core.Money{Cents: 1325},
				Hour:       12, Month: 1, Year: 2015, Quarter: 1, Weekday: "Thursday", Week: 1,
			},
			{
				OrderID:    "1",
				OrderDate:  time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
				OrderTime:  core.TimeOfDay{Hour: 12, Minute: 15, Second: 30},
				Category:   "Veggie",
				Size:       "L",
				Name:       "The Mexicana Pizza",
				Quantity:   2,
				TotalPrice: core.Money{Cents: 2175},
				Hour:       12, Month: 1, Year: 2015, Quarter: 1, Weekday: "Thursday", Week: 1,
			},
		},
	}
}

func newSQLiteTestRegistry(t *testing.T) *SQLiteRegistry {
	t.Helper()
	r, err := NewSQLiteRegistry(":memory:")
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRegistryRoundTrip(t *testing.T) {
	r := newSQLiteTestRegistry(t)
	ctx := context.Background()

	ingestedAt := time.Date(2026, time.August, 23, 10, 30, 0, 0, time.UTC)
	ds := sampleDataset("k1", ingestedAt)
	if err := r.Put(ctx, ds); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := r.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IngestedAt.Equal(ingestedAt) {
		t.Fatalf("expected ingested_at %v, got %v", ingestedAt, got.IngestedAt)
	}
	if !reflect.DeepEqual(got.Rows, ds.Rows) {
		t.Fatalf("rows did not survive the round trip:\nstored %+v\ngot    %+v", ds.Rows, got.Rows)
	}
}

func TestSQLiteRegistryNotFound(t *testing.T) {
	r := newSQLiteTestRegistry(t)
	if _, err := r.Get(context.Background(), "missing"); !errors.Is(err, ErrDatasetNotFound) {
		t.Fatalf("expected ErrDatasetNotFound, got %v", err)
	}
}

func TestSQLiteRegistryRePutIsNoOp(t *testing.T) {
	r := newSQLiteTestRegistry(t)
	ctx := context.Background()

	first := sampleDataset("k1", time.Now().UTC())
	if err := r.Put(ctx, first); err != nil {
		t.Fatalf("put: %v", err)
	}

	second := sampleDataset("k1", time.Now().UTC().Add(time.Hour))
	second.Rows = second.Rows[:1]
	if err := r.Put(ctx, second); err != nil {
		t.Fatalf("re-put: %v", err)
	}

	got, err := r.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("re-put must not replace the stored dataset, got %d rows", len(got.Rows))
	}
}

func TestSQLiteRegistryList(t *testing.T) {
	r := newSQLiteTestRegistry(t)
	ctx := context.Background()
	base := time.Date(2026, time.August, 23, 9, 0, 0, 0, time.UTC)

	if err := r.Put(ctx, sampleDataset("newer", base.Add(time.Hour))); err != nil {
		t.Fatalf("put newer: %v", err)
	}
	if err := r.Put(ctx, sampleDataset("older", base)); err != nil {
		t.Fatalf("put older: %v", err)
	}

	infos, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "older" || infos[1].Key != "newer" {
		t.Fatalf("unexpected ordering: %v", infos)
	}
	if infos[0].Rows != 2 {
		t.Fatalf("expected row count 2, got %d", infos[0].Rows)
	}
}

func TestSQLiteRegistryFileDSN(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "data", "pizzapulse.db")
	r, err := NewSQLiteRegistry(dsn)
	if err != nil {
		t.Fatalf("open file registry: %v", err)
	}
	defer r.Close()

	ctx := context.Background()
	if err := r.Put(ctx, sampleDataset("k1", time.Now().UTC())); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := r.Get(ctx, "k1"); err != nil {
		t.Fatalf("get: %v", err)
	}
}
