package analytics

import (
	"math"
	"time"

	"github.com/andresuchdata/vendsight/internal/domain"
)

// stockObservation is the chronologically last stock reading seen so far
// for one machine/product pair.
type stockObservation struct {
	date  time.Time
	level float64
}

// ResolveOrders joins each restock policy against the latest observed stock
// level for its machine/product pair and clips the order quantity at zero.
//
// "Latest" means: stable sort by date ascending, take the last row. The scan
// below reproduces that without sorting: a record replaces the current
// observation whenever its date is equal or later, so on tied dates the last
// row in encounter order wins.
func ResolveOrders(policies []domain.RestockPolicy, records []domain.TransactionRecord) ([]domain.OrderLine, error) {
	type pairKey struct {
		machineID string
		productID string
	}

	latest := make(map[pairKey]stockObservation, len(policies))
	for _, rec := range records {
		key := pairKey{rec.MachineID, rec.ProductID}
		obs, ok := latest[key]
		if !ok || !rec.Date.Before(obs.date) {
			latest[key] = stockObservation{date: rec.Date, level: rec.CurrentStockLevel}
		}
	}

	lines := make([]domain.OrderLine, 0, len(policies))
	for _, p := range policies {
		obs, ok := latest[pairKey{p.MachineID, p.ProductID}]
		if !ok {
			return nil, &domain.MissingStockLevelError{MachineID: p.MachineID, ProductID: p.ProductID}
		}

		current := int(math.Round(obs.level))
		qty := p.RecommendedStockLevel - current
		if qty < 0 {
			qty = 0
		}

		lines = append(lines, domain.OrderLine{
			MachineID:             p.MachineID,
			LocationType:          p.LocationType,
			ProductName:           p.ProductName,
			Category:              p.Category,
			CurrentStockLevel:     current,
			RecommendedStockLevel: p.RecommendedStockLevel,
			OrderQuantity:         qty,
		})
	}

	return lines, nil
}
