package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pizzapulse/internal/core"

	_ "modernc.org/sqlite"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04:05"
)

// SQLiteRegistry stores datasets and their normalized rows in SQLite.
// The default DSN is ":memory:", which keeps this backend as
// non-durable as the map registry; pointing it at a file is an
// operator choice.
type SQLiteRegistry struct {
	db *sql.DB
}

// NewSQLiteRegistry opens (and migrates) a SQLite database at the
// given DSN.
func NewSQLiteRegistry(dsn string) (*SQLiteRegistry, error) {
	if isFileDSN(dsn) {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if !isFileDSN(dsn) {
		// An in-memory database exists per connection; pin the pool to
		// one connection so every query sees the same database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Migrations run on the same connection pool: a second connection
	// to an in-memory DSN would get its own empty database.
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRegistry{db: db}, nil
}

func isFileDSN(dsn string) bool {
	return dsn != ":memory:" && !strings.Contains(dsn, "mode=memory")
}

// Close closes the underlying database.
func (r *SQLiteRegistry) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Put stores a dataset and all its rows in one transaction, preserving
// row order through the seq column. Re-putting an existing key is a
// no-op.
func (r *SQLiteRegistry) Put(ctx context.Context, ds *core.Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM datasets WHERE key = ?`, ds.Key).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check dataset: %w", err)
	}
	if exists > 0 {
		return nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (key, ingested_at, row_count) VALUES (?, ?, ?)`,
		ds.Key, ds.IngestedAt.UTC().Format(time.RFC3339Nano), len(ds.Rows))
	if err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (
			dataset_key, seq, order_id, order_date, order_time,
			pizza_category, pizza_size, pizza_name, quantity, total_price_cents,
			hour, month, year, quarter, weekday, week
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for seq, row := range ds.Rows {
		_, err = stmt.ExecContext(ctx,
			ds.Key, seq, row.OrderID,
			row.OrderDate.Format(dateFormat), row.OrderTime.String(),
			row.Category, row.Size, row.Name,
			row.Quantity, row.TotalPrice.Cents,
			row.Hour, row.Month, row.Year, row.Quarter, row.Weekday, row.Week)
		if err != nil {
			return fmt.Errorf("insert record %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Dataset stored in SQLite",
		"key", ds.Key,
		"rows", len(ds.Rows))

	return nil
}

// Get rehydrates a dataset, rows in their original input order.
func (r *SQLiteRegistry) Get(ctx context.Context, key string) (*core.Dataset, error) {
	var (
		ingestedAt string
		rowCount   int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT ingested_at, row_count FROM datasets WHERE key = ?`, key).
		Scan(&ingestedAt, &rowCount)
	if err == sql.ErrNoRows {
		return nil, ErrDatasetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, ingestedAt)
	if err != nil {
		return nil, fmt.Errorf("parse ingested_at: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, order_date, order_time,
		       pizza_category, pizza_size, pizza_name, quantity, total_price_cents,
		       hour, month, year, quarter, weekday, week
		FROM records WHERE dataset_key = ? ORDER BY seq`, key)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	ds := &core.Dataset{
		Key:        key,
		IngestedAt: ts,
		Rows:       make([]core.Row, 0, rowCount),
	}
	for rows.Next() {
		var (
			row       core.Row
			orderDate string
			orderTime string
			cents     int64
		)
		err := rows.Scan(&row.OrderID, &orderDate, &orderTime,
			&row.Category, &row.Size, &row.Name, &row.Quantity, &cents,
			&row.Hour, &row.Month, &row.Year, &row.Quarter, &row.Weekday, &row.Week)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		row.OrderDate, err = time.Parse(dateFormat, orderDate)
		if err != nil {
			return nil, fmt.Errorf("parse order_date: %w", err)
		}
		tod, err := time.Parse(timeFormat, orderTime)
		if err != nil {
			return nil, fmt.Errorf("parse order_time: %w", err)
		}
		row.OrderTime = core.TimeOfDay{Hour: tod.Hour(), Minute: tod.Minute(), Second: tod.Second()}
		row.TotalPrice = core.Money{Cents: cents}
		ds.Rows = append(ds.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return ds, nil
}

// List returns all stored datasets, oldest first.
func (r *SQLiteRegistry) List(ctx context.Context) ([]DatasetInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, ingested_at, row_count FROM datasets ORDER BY ingested_at`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var infos []DatasetInfo
	for rows.Next() {
		var (
			info       DatasetInfo
			ingestedAt string
		)
		if err := rows.Scan(&info.Key, &ingestedAt, &info.Rows); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		if info.IngestedAt, err = time.Parse(time.RFC3339Nano, ingestedAt); err != nil {
			return nil, fmt.Errorf("parse ingested_at: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate datasets: %w", err)
	}

	return infos, nil
}
