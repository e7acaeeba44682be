// internal/domain/models.go
package domain

import "time"

// TransactionRecord is one raw sales row: one machine, one product, one day.
// The store holding these is read-only after load.
type TransactionRecord struct {
	Date              time.Time `json:"date"`
	MachineID         string    `json:"machine_id"`
	LocationType      string    `json:"location_type"`
	ProductID         string    `json:"product_id"`
	ProductName       string    `json:"product_name"`
	Category          string    `json:"category"`
	UnitsSold         int       `json:"units_sold"`
	LeadTimeDays      float64   `json:"lead_time_days"`
	CurrentStockLevel float64   `json:"current_stock_level"`
}

// SalesSummary is the per-(machine, location, product) reduction of the
// transaction log. ActiveDays counts distinct sale dates, not the span
// between first and last sale.
type SalesSummary struct {
	MachineID      string  `json:"machine_id"`
	LocationType   string  `json:"location_type"`
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Category       string  `json:"category"`
	TotalUnitsSold int     `json:"total_units_sold"`
	ActiveDays     int     `json:"active_days"`
	AvgDailySales  float64 `json:"avg_daily_sales"`
	LeadTimeDays   float64 `json:"lead_time_days"`
}

// RestockPolicy extends a sales summary with the derived stocking numbers.
type RestockPolicy struct {
	SalesSummary
	RestockFrequencyDays  int `json:"restock_frequency_days"`
	SafetyStock           int `json:"safety_stock"`
	RecommendedStockLevel int `json:"recommended_stock_level"`
}

// OrderLine joins a restock policy against the latest observed stock level.
// It carries only the narrow projection the presentation layer needs.
type OrderLine struct {
	MachineID             string `json:"machine_id"`
	LocationType          string `json:"location_type"`
	ProductName           string `json:"product_name"`
	Category              string `json:"category"`
	CurrentStockLevel     int    `json:"current_stock_level"`
	RecommendedStockLevel int    `json:"recommended_stock_level"`
	OrderQuantity         int    `json:"order_quantity"`
}

// SeriesPoint is total units sold on one date.
type SeriesPoint struct {
	Date      string `json:"date"`
	UnitsSold int    `json:"units_sold"`
}

// MachineSeriesPoint breaks the daily series down per machine selector.
type MachineSeriesPoint struct {
	Machine   string `json:"machine"`
	Date      string `json:"date"`
	UnitsSold int    `json:"units_sold"`
}

// ProductShare is total units sold for one product across the batch.
type ProductShare struct {
	ProductName string `json:"product_name"`
	UnitsSold   int    `json:"units_sold"`
}

// StockComparison pairs current against recommended stock for one product
// of the selected machine.
type StockComparison struct {
	ProductName           string `json:"product_name"`
	CurrentStockLevel     int    `json:"current_stock_level"`
	RecommendedStockLevel int    `json:"recommended_stock_level"`
}

// MachineSelector is one dropdown entry for the presentation layer.
type MachineSelector struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ViewResult bundles everything the presentation layer needs to render one
// selector state. The machine-only tables are empty in the ALL view and the
// product distribution is empty in a machine view.
type ViewResult struct {
	Selector        string               `json:"selector"`
	OverallSeries   []SeriesPoint        `json:"overall_series"`
	MachineSeries   []MachineSeriesPoint `json:"machine_series"`
	ProductShares   []ProductShare       `json:"product_distribution"`
	StockComparison []StockComparison    `json:"stock_comparison"`
	Orders          []OrderLine          `json:"orders"`
}
