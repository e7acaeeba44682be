// Package export writes derived tables back out as CSV, the shape the
// original dashboard rendered as its order table.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/andresuchdata/vendsight/internal/domain"
)

var orderHeader = []string{
	"machine_id",
	"location_type",
	"product_name",
	"category",
	"current_stock_level",
	"recommended_stock_level",
	"order_quantity",
}

var policyHeader = []string{
	"machine_id",
	"location_type",
	"product_id",
	"product_name",
	"category",
	"total_units_sold",
	"active_days",
	"avg_daily_sales",
	"lead_time_days",
	"restock_frequency_days",
	"safety_stock",
	"recommended_stock_level",
}

// WriteOrderLines writes order recommendations to a CSV at path, creating
// parent directories as needed.
func WriteOrderLines(path string, lines []domain.OrderLine) error {
	return writeCSV(path, orderHeader, len(lines), func(i int) []string {
		l := lines[i]
		return []string{
			l.MachineID,
			l.LocationType,
			l.ProductName,
			l.Category,
			strconv.Itoa(l.CurrentStockLevel),
			strconv.Itoa(l.RecommendedStockLevel),
			strconv.Itoa(l.OrderQuantity),
		}
	})
}

// WritePolicies writes the full restock policy table to a CSV at path.
func WritePolicies(path string, policies []domain.RestockPolicy) error {
	return writeCSV(path, policyHeader, len(policies), func(i int) []string {
		p := policies[i]
		return []string{
			p.MachineID,
			p.LocationType,
			p.ProductID,
			p.ProductName,
			p.Category,
			strconv.Itoa(p.TotalUnitsSold),
			strconv.Itoa(p.ActiveDays),
			strconv.FormatFloat(p.AvgDailySales, 'f', 2, 64),
			strconv.FormatFloat(p.LeadTimeDays, 'f', 2, 64),
			strconv.Itoa(p.RestockFrequencyDays),
			strconv.Itoa(p.SafetyStock),
			strconv.Itoa(p.RecommendedStockLevel),
		}
	})
}

func writeCSV(path string, header []string, rows int, record func(i int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		if err := w.Write(record(i)); err != nil {
			return err
		}
	}

	return w.Error()
}
