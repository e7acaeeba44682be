package analytics

import (
	"sort"

	"github.com/andresuchdata/vendsight/internal/domain"
)

// Snapshot is the immutable result of running the full pipeline over one
// transaction batch: the raw store plus every derived table, computed once.
// Queries only ever filter it, so concurrent readers need no locking; a new
// batch means a new Snapshot, never a mutation of this one.
type Snapshot struct {
	Records   []domain.TransactionRecord
	Summaries []domain.SalesSummary
	Policies  []domain.RestockPolicy
	Orders    []domain.OrderLine

	SelectorKey domain.SelectorKey

	overallSeries  []domain.SeriesPoint
	machineSeries  []domain.MachineSeriesPoint
	productShares  []domain.ProductShare
	selectorValues []string
	selectorSet    map[string]struct{}
}

// Build runs aggregation, policy derivation and order resolution over one
// batch, then precomputes the daily series and product distribution so the
// view resolver never has to re-aggregate per query.
func Build(records []domain.TransactionRecord, key domain.SelectorKey) (*Snapshot, error) {
	summaries, err := Summarize(records)
	if err != nil {
		return nil, err
	}

	policies := DerivePolicies(summaries)

	orders, err := ResolveOrders(policies, records)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Records:     records,
		Summaries:   summaries,
		Policies:    policies,
		Orders:      orders,
		SelectorKey: key,
	}
	snap.buildSeries()

	return snap, nil
}

// buildSeries materializes the chart tables: total units per date, units per
// date per machine selector, and total units per product. Series are sorted
// chronologically (and by selector / product name) while the selector list
// keeps first-appearance order, matching the dropdown the raw file implies.
func (s *Snapshot) buildSeries() {
	dailyTotals := make(map[string]int)
	machineTotals := make(map[string]map[string]int)
	productTotals := make(map[string]int)

	s.selectorSet = make(map[string]struct{})
	s.selectorValues = make([]string, 0)

	for _, rec := range s.Records {
		date := rec.Date.Format(dateLayout)
		dailyTotals[date] += rec.UnitsSold

		machine := rec.SelectorValue(s.SelectorKey)
		if _, ok := s.selectorSet[machine]; !ok {
			s.selectorSet[machine] = struct{}{}
			s.selectorValues = append(s.selectorValues, machine)
		}
		if machineTotals[machine] == nil {
			machineTotals[machine] = make(map[string]int)
		}
		machineTotals[machine][date] += rec.UnitsSold

		productTotals[rec.ProductName] += rec.UnitsSold
	}

	dates := make([]string, 0, len(dailyTotals))
	for date := range dailyTotals {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	s.overallSeries = make([]domain.SeriesPoint, 0, len(dates))
	for _, date := range dates {
		s.overallSeries = append(s.overallSeries, domain.SeriesPoint{Date: date, UnitsSold: dailyTotals[date]})
	}

	machines := make([]string, 0, len(machineTotals))
	for machine := range machineTotals {
		machines = append(machines, machine)
	}
	sort.Strings(machines)

	s.machineSeries = make([]domain.MachineSeriesPoint, 0)
	for _, machine := range machines {
		perDate := machineTotals[machine]
		machineDates := make([]string, 0, len(perDate))
		for date := range perDate {
			machineDates = append(machineDates, date)
		}
		sort.Strings(machineDates)
		for _, date := range machineDates {
			s.machineSeries = append(s.machineSeries, domain.MachineSeriesPoint{
				Machine:   machine,
				Date:      date,
				UnitsSold: perDate[date],
			})
		}
	}

	products := make([]string, 0, len(productTotals))
	for name := range productTotals {
		products = append(products, name)
	}
	sort.Strings(products)

	s.productShares = make([]domain.ProductShare, 0, len(products))
	for _, name := range products {
		s.productShares = append(s.productShares, domain.ProductShare{ProductName: name, UnitsSold: productTotals[name]})
	}
}

// SelectorValues lists the distinct machine selector values in the order
// they first appear in the batch.
func (s *Snapshot) SelectorValues() []string {
	return s.selectorValues
}

// HasSelector reports whether the selector matches a known machine.
func (s *Snapshot) HasSelector(selector string) bool {
	_, ok := s.selectorSet[selector]
	return ok
}
