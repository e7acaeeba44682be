package analytics

import (
	"math"

	"github.com/andresuchdata/vendsight/internal/domain"
)

const (
	// restockWindowUnits is the unit volume one restock cycle should cover;
	// dividing it by average daily sales gives the visit frequency.
	restockWindowUnits = 12.0

	// Restock frequency is clamped to [min, max] days. The max doubles as
	// the slow-mover fallback when average daily sales rounds to zero.
	minRestockFrequencyDays = 2
	maxRestockFrequencyDays = 10

	// safetyStockFactor sizes the demand-variance buffer off average sales.
	safetyStockFactor = 0.2
)

// DerivePolicy turns one sales summary into a restock policy. Pure and
// deterministic; arithmetic edge cases resolve by policy rather than error,
// so a product with zero average sales simply gets the slow-mover ceiling.
func DerivePolicy(summary domain.SalesSummary) domain.RestockPolicy {
	if summary.ActiveDays > 0 {
		summary.AvgDailySales = roundTo(float64(summary.TotalUnitsSold)/float64(summary.ActiveDays), 2)
	}
	avg := summary.AvgDailySales

	freq := maxRestockFrequencyDays
	if avg > 0 {
		freq = clipInt(int(math.Round(restockWindowUnits/avg)), minRestockFrequencyDays, maxRestockFrequencyDays)
	}

	safety := int(math.Round(avg * safetyStockFactor))
	recommended := int(math.Round(avg*(float64(freq)+summary.LeadTimeDays) + float64(safety)))

	return domain.RestockPolicy{
		SalesSummary:          summary,
		RestockFrequencyDays:  freq,
		SafetyStock:           safety,
		RecommendedStockLevel: recommended,
	}
}

// DerivePolicies applies DerivePolicy across a summary table, keeping order.
func DerivePolicies(summaries []domain.SalesSummary) []domain.RestockPolicy {
	policies := make([]domain.RestockPolicy, 0, len(summaries))
	for _, s := range summaries {
		policies = append(policies, DerivePolicy(s))
	}
	return policies
}
