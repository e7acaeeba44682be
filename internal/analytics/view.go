package analytics

import (
	"github.com/andresuchdata/vendsight/internal/domain"
)

// View resolves a selector against a snapshot. "ALL" (or an empty selector)
// yields the overall rollup; anything else is treated as a machine selector.
// When strict is false an unknown machine yields an empty result set; when
// strict is true it yields *domain.UnknownSelectorError.
func View(snap *Snapshot, selector string, strict bool) (domain.ViewResult, error) {
	if selector == "" || selector == domain.SelectorAll {
		return OverallView(snap), nil
	}
	return MachineView(snap, selector, strict)
}

// OverallView is the ALL rollup: the full daily series, the per-machine
// breakdown and the product distribution. The machine-only tables stay empty.
func OverallView(snap *Snapshot) domain.ViewResult {
	return domain.ViewResult{
		Selector:        domain.SelectorAll,
		OverallSeries:   snap.overallSeries,
		MachineSeries:   snap.machineSeries,
		ProductShares:   snap.productShares,
		StockComparison: []domain.StockComparison{},
		Orders:          []domain.OrderLine{},
	}
}

// MachineView is the single-machine slice: the machine's daily series, its
// stock comparison table and its order lines. Everything here is a filter
// over the snapshot's precomputed tables.
func MachineView(snap *Snapshot, selector string, strict bool) (domain.ViewResult, error) {
	if strict && !snap.HasSelector(selector) {
		return domain.ViewResult{}, &domain.UnknownSelectorError{Selector: selector}
	}

	series := make([]domain.SeriesPoint, 0)
	machineSeries := make([]domain.MachineSeriesPoint, 0)
	for _, p := range snap.machineSeries {
		if p.Machine != selector {
			continue
		}
		machineSeries = append(machineSeries, p)
		series = append(series, domain.SeriesPoint{Date: p.Date, UnitsSold: p.UnitsSold})
	}

	orders := make([]domain.OrderLine, 0)
	comparison := make([]domain.StockComparison, 0)
	for _, line := range snap.Orders {
		if line.SelectorValue(snap.SelectorKey) != selector {
			continue
		}
		orders = append(orders, line)
		comparison = append(comparison, domain.StockComparison{
			ProductName:           line.ProductName,
			CurrentStockLevel:     line.CurrentStockLevel,
			RecommendedStockLevel: line.RecommendedStockLevel,
		})
	}

	return domain.ViewResult{
		Selector:        selector,
		OverallSeries:   series,
		MachineSeries:   machineSeries,
		ProductShares:   []domain.ProductShare{},
		StockComparison: comparison,
		Orders:          orders,
	}, nil
}
