// Package ingest decodes uploaded CSV files into raw records and
// enforces the required column schema before any row is processed.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"pizzapulse/internal/core"
)

// Required column names, exact. Extra columns in an upload are ignored.
const (
	ColOrderID    = "order_id"
	ColOrderDate  = "order_date"
	ColOrderTime  = "order_time"
	ColCategory   = "pizza_category"
	ColSize       = "pizza_size"
	ColName       = "pizza_name"
	ColQuantity   = "quantity"
	ColTotalPrice = "total_price"
)

var requiredColumns = []string{
	ColOrderID,
	ColOrderDate,
	ColOrderTime,
	ColCategory,
	ColSize,
	ColName,
	ColQuantity,
	ColTotalPrice,
}

// Decode reads a CSV stream into raw records, preserving input order.
//
// The first line must be a header containing every required column;
// any absent column aborts with a SchemaError before row processing
// starts. An entirely empty stream is ErrNoInput; a header-only stream
// decodes to zero records.
func Decode(r io.Reader) ([]core.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, core.ErrNoInput
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &core.SchemaError{Missing: missing}
	}

	var records []core.RawRecord
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Structural row defects (wrong field count, unterminated
			// quote) are user input errors, same as a bad field value.
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &core.ParseError{Row: row, Err: err}
			}
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		records = append(records, core.RawRecord{
			OrderID:    rec[idx[ColOrderID]],
			OrderDate:  rec[idx[ColOrderDate]],
			OrderTime:  rec[idx[ColOrderTime]],
			Category:   rec[idx[ColCategory]],
			Size:       rec[idx[ColSize]],
			Name:       rec[idx[ColName]],
			Quantity:   rec[idx[ColQuantity]],
			TotalPrice: rec[idx[ColTotalPrice]],
		})
	}

	return records, nil
}
