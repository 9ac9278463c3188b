// pizzapulse-report runs the full pipeline once: it reads a CSV file,
// normalizes it, applies an optional filter, and prints the report
// snapshot as JSON to stdout.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"pizzapulse/internal/core"
	"pizzapulse/internal/ingest"
	"pizzapulse/internal/normalize"
	"pizzapulse/internal/report"
	"pizzapulse/internal/session"
)

const dateLayout = "2006-01-02"

func main() {
	var (
		input    = flag.String("input", "", "path to the pizza sales CSV file (required)")
		category = flag.String("category", core.AllCategories, "pizza category to filter on, or All")
		start    = flag.String("start", "", "filter start date (YYYY-MM-DD, inclusive)")
		end      = flag.String("end", "", "filter end date (YYYY-MM-DD, inclusive)")
	)
	flag.Parse()

	if err := run(*input, *category, *start, *end); err != nil {
		fmt.Fprintln(os.Stderr, "pizzapulse-report:", err)
		os.Exit(1)
	}
}

func run(input, category, start, end string) error {
	if input == "" {
		return errors.New("-input is required")
	}

	filter := core.Filter{Category: category}
	switch {
	case start == "" && end == "":
	case start == "" || end == "":
		return errors.New("-start and -end must be provided together")
	default:
		from, err := time.Parse(dateLayout, start)
		if err != nil {
			return fmt.Errorf("invalid -start date: %w", err)
		}
		to, err := time.Parse(dateLayout, end)
		if err != nil {
			return fmt.Errorf("invalid -end date: %w", err)
		}
		if to.Before(from) {
			return errors.New("-end must not precede -start")
		}
		filter.Dates = &core.DateRange{Start: from.UTC(), End: to.UTC()}
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	records, err := ingest.Decode(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	rows, err := normalize.Normalize(records)
	if err != nil {
		return err
	}

	ds := &core.Dataset{
		Key:        session.Key(raw),
		IngestedAt: time.Now().UTC(),
		Rows:       rows,
	}

	snap, err := report.BuildSnapshot(context.Background(), ds, filter)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
