package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/vendsight/internal/domain"
	"golang.org/x/sync/errgroup"
)

// loadDirWorkers caps concurrent file parses in LoadDir.
const loadDirWorkers = 4

// requiredColumns is the exact column set a sales batch must carry. Header
// matching is case-insensitive and ignores separators, so "Lead_Time_Days"
// and "lead time days" resolve to the same column.
var requiredColumns = []string{
	"Date",
	"Machine_ID",
	"Location_Type",
	"Product_ID",
	"Product_Name",
	"Category",
	"Units_Sold",
	"Lead_Time_Days",
	"Current_Stock_Level",
}

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"2/1/2006",
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

// Load reads one CSV batch into transaction records. There is no per-row
// recovery: a missing column, an unparseable value or a negative number
// fails the whole batch with a *domain.LoadError.
func Load(path string) ([]domain.TransactionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &domain.LoadError{File: path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &domain.LoadError{File: path, Err: fmt.Errorf("read header: %w", err)}
	}

	colIdx, err := mapColumns(header)
	if err != nil {
		return nil, &domain.LoadError{File: path, Err: err}
	}

	records := make([]domain.TransactionRecord, 0)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &domain.LoadError{File: path, Line: line, Err: err}
		}

		rec, err := parseRow(row, colIdx)
		if err != nil {
			return nil, &domain.LoadError{File: path, Line: line, Err: err}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, &domain.LoadError{File: path, Err: domain.ErrEmptyInput}
	}

	return records, nil
}

// LoadDir loads every *.csv under dir concurrently and merges the batches in
// filename order, so the merged encounter order is deterministic regardless
// of which file finishes parsing first.
func LoadDir(ctx context.Context, dir string) ([]domain.TransactionRecord, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, &domain.LoadError{File: dir, Err: err}
	}
	if len(paths) == 0 {
		return nil, &domain.LoadError{File: dir, Err: errors.New("no csv files in directory")}
	}
	sort.Strings(paths)

	batches := make([][]domain.TransactionRecord, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadDirWorkers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batch, err := Load(path)
			if err != nil {
				return err
			}
			batches[i] = batch
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]domain.TransactionRecord, 0)
	for _, batch := range batches {
		merged = append(merged, batch...)
	}
	return merged, nil
}

// mapColumns resolves every required column to its index in the header.
func mapColumns(header []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[normalizeColumnName(h)] = i
	}

	colIdx := make(map[string]int, len(requiredColumns))
	for _, col := range requiredColumns {
		idx, ok := byName[normalizeColumnName(col)]
		if !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
		colIdx[col] = idx
	}
	return colIdx, nil
}

func parseRow(row []string, colIdx map[string]int) (domain.TransactionRecord, error) {
	get := func(col string) (string, error) {
		idx := colIdx[col]
		if idx >= len(row) {
			return "", fmt.Errorf("row has no value for column %q", col)
		}
		return strings.TrimSpace(row[idx]), nil
	}

	var rec domain.TransactionRecord

	rawDate, err := get("Date")
	if err != nil {
		return rec, err
	}
	rec.Date, err = parseDate(rawDate)
	if err != nil {
		return rec, err
	}

	for col, dst := range map[string]*string{
		"Machine_ID":    &rec.MachineID,
		"Location_Type": &rec.LocationType,
		"Product_ID":    &rec.ProductID,
		"Product_Name":  &rec.ProductName,
		"Category":      &rec.Category,
	} {
		v, err := get(col)
		if err != nil {
			return rec, err
		}
		if v == "" {
			return rec, fmt.Errorf("empty value for column %q", col)
		}
		*dst = v
	}

	rec.UnitsSold, err = parseUnits(colIdx, row)
	if err != nil {
		return rec, err
	}

	rec.LeadTimeDays, err = parseNonNegativeFloat(row, colIdx, "Lead_Time_Days")
	if err != nil {
		return rec, err
	}

	rec.CurrentStockLevel, err = parseNonNegativeFloat(row, colIdx, "Current_Stock_Level")
	if err != nil {
		return rec, err
	}

	return rec, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

func parseUnits(colIdx map[string]int, row []string) (int, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(row[colIdx["Units_Sold"]]), ",", "")
	units, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("unparseable units_sold %q", raw)
	}
	if units < 0 {
		return 0, fmt.Errorf("negative units_sold %d", units)
	}
	return units, nil
}

func parseNonNegativeFloat(row []string, colIdx map[string]int, col string) (float64, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(row[colIdx[col]]), ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable %s %q", strings.ToLower(col), raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative %s %v", strings.ToLower(col), v)
	}
	return v, nil
}
