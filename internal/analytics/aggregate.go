package analytics

import (
	"github.com/andresuchdata/vendsight/internal/domain"
)

// summaryKey identifies one aggregation group.
type summaryKey struct {
	MachineID    string
	LocationType string
	ProductID    string
}

// Summarize groups transactions by (machine, location, product) and reduces
// each group to total units, distinct active days and mean lead time. The
// category is attached by a product-only lookup: a product's category is
// assumed constant across machines and is not validated here.
//
// Summaries come back in first-encounter order of their keys, so the same
// batch always produces the same table. The input is never mutated.
func Summarize(records []domain.TransactionRecord) ([]domain.SalesSummary, error) {
	if len(records) == 0 {
		return nil, domain.ErrEmptyInput
	}

	type group struct {
		productName string
		totalUnits  int
		days        map[string]struct{}
		leadSum     float64
		count       int
	}

	groups := make(map[summaryKey]*group)
	keyOrder := make([]summaryKey, 0)
	categories := make(map[string]string)

	for _, rec := range records {
		key := summaryKey{rec.MachineID, rec.LocationType, rec.ProductID}
		g, ok := groups[key]
		if !ok {
			g = &group{
				productName: rec.ProductName,
				days:        make(map[string]struct{}),
			}
			groups[key] = g
			keyOrder = append(keyOrder, key)
		}
		g.totalUnits += rec.UnitsSold
		g.days[rec.Date.Format(dateLayout)] = struct{}{}
		g.leadSum += rec.LeadTimeDays
		g.count++

		if _, ok := categories[rec.ProductID]; !ok {
			categories[rec.ProductID] = rec.Category
		}
	}

	summaries := make([]domain.SalesSummary, 0, len(keyOrder))
	for _, key := range keyOrder {
		g := groups[key]
		activeDays := len(g.days)
		summaries = append(summaries, domain.SalesSummary{
			MachineID:      key.MachineID,
			LocationType:   key.LocationType,
			ProductID:      key.ProductID,
			ProductName:    g.productName,
			Category:       categories[key.ProductID],
			TotalUnitsSold: g.totalUnits,
			ActiveDays:     activeDays,
			AvgDailySales:  roundTo(float64(g.totalUnits)/float64(activeDays), 2),
			LeadTimeDays:   g.leadSum / float64(g.count),
		})
	}

	return summaries, nil
}
