package analytics

import (
	"testing"

	"github.com/andresuchdata/vendsight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureBatch() []domain.TransactionRecord {
	return []domain.TransactionRecord{
		record("2024-01-02", "VM-01", "Office", "P1", "Cola", "Drinks", 4, 3, 10),
		record("2024-01-01", "VM-02", "Gym", "P2", "Chips", "Snacks", 2, 2, 8),
		record("2024-01-01", "VM-01", "Office", "P1", "Cola", "Drinks", 6, 3, 4),
		record("2024-01-03", "VM-02", "Gym", "P1", "Cola", "Drinks", 1, 5, 3),
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	first, err := Build(fixtureBatch(), domain.SelectorByMachineID)
	require.NoError(t, err)
	second, err := Build(fixtureBatch(), domain.SelectorByMachineID)
	require.NoError(t, err)

	assert.Equal(t, first.Summaries, second.Summaries)
	assert.Equal(t, first.Policies, second.Policies)
	assert.Equal(t, first.Orders, second.Orders)
	assert.Equal(t, first.SelectorValues(), second.SelectorValues())
}

func TestBuildEmptyBatchFails(t *testing.T) {
	_, err := Build(nil, domain.SelectorByMachineID)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestSnapshotSelectorValuesFirstAppearanceOrder(t *testing.T) {
	snap, err := Build(fixtureBatch(), domain.SelectorByMachineID)
	require.NoError(t, err)

	assert.Equal(t, []string{"VM-01", "VM-02"}, snap.SelectorValues())
	assert.True(t, snap.HasSelector("VM-02"))
	assert.False(t, snap.HasSelector("VM-99"))
}

func TestSnapshotSelectorKeyLocationType(t *testing.T) {
	snap, err := Build(fixtureBatch(), domain.SelectorByLocationType)
	require.NoError(t, err)

	assert.Equal(t, []string{"Office", "Gym"}, snap.SelectorValues())

	view, err := MachineView(snap, "Office", false)
	require.NoError(t, err)
	require.Len(t, view.Orders, 1)
	assert.Equal(t, "Office", view.Orders[0].LocationType)
}

func TestOverallViewAggregatesWholeBatch(t *testing.T) {
	snap, err := Build(fixtureBatch(), domain.SelectorByMachineID)
	require.NoError(t, err)

	view := OverallView(snap)
	assert.Equal(t, domain.SelectorAll, view.Selector)

	require.Len(t, view.OverallSeries, 3)
	assert.Equal(t, domain.SeriesPoint{Date: "2024-01-01", UnitsSold: 8}, view.OverallSeries[0])
	assert.Equal(t, domain.SeriesPoint{Date: "2024-01-02", UnitsSold: 4}, view.OverallSeries[1])
	assert.Equal(t, domain.SeriesPoint{Date: "2024-01-03", UnitsSold: 1}, view.OverallSeries[2])

	require.Len(t, view.ProductShares, 2)
	assert.Equal(t, domain.ProductShare{ProductName: "Chips", UnitsSold: 2}, view.ProductShares[0])
	assert.Equal(t, domain.ProductShare{ProductName: "Cola", UnitsSold: 11}, view.ProductShares[1])

	// Machine-only tables are empty, not nil, in the rollup.
	assert.Empty(t, view.StockComparison)
	assert.Empty(t, view.Orders)
	assert.NotNil(t, view.StockComparison)
	assert.NotNil(t, view.Orders)
}

func TestMachineViewFiltersToSelector(t *testing.T) {
	snap, err := Build(fixtureBatch(), domain.SelectorByMachineID)
	require.NoError(t, err)

	view, err := MachineView(snap, "VM-02", false)
	require.NoError(t, err)
	assert.Equal(t, "VM-02", view.Selector)

	require.Len(t, view.OverallSeries, 2)
	assert.Equal(t, domain.SeriesPoint{Date: "2024-01-01", UnitsSold: 2}, view.OverallSeries[0])
	assert.Equal(t, domain.SeriesPoint{Date: "2024-01-03", UnitsSold: 1}, view.OverallSeries[1])

	require.Len(t, view.Orders, 2)
	for _, line := range view.Orders {
		assert.Equal(t, "VM-02", line.MachineID)
	}

	require.Len(t, view.StockComparison, 2)
	assert.Equal(t, view.Orders[0].ProductName, view.StockComparison[0].ProductName)
	assert.Equal(t, view.Orders[0].CurrentStockLevel, view.StockComparison[0].CurrentStockLevel)

	assert.Empty(t, view.ProductShares)
}

func TestMachineViewsPartitionTheOrderTable(t *testing.T) {
	snap, err := Build(fixtureBatch(), domain.SelectorByMachineID)
	require.NoError(t, err)

	var union []domain.OrderLine
	for _, selector := range snap.SelectorValues() {
		view, err := MachineView(snap, selector, false)
		require.NoError(t, err)
		union = append(union, view.Orders...)
	}

	assert.ElementsMatch(t, snap.Orders, union)
}

func TestViewUnknownSelector(t *testing.T) {
	snap, err := Build(fixtureBatch(), domain.SelectorByMachineID)
	require.NoError(t, err)

	// Tolerant mode: empty result, no error.
	view, err := View(snap, "VM-99", false)
	require.NoError(t, err)
	assert.Empty(t, view.OverallSeries)
	assert.Empty(t, view.Orders)

	// Strict mode: typed error.
	_, err = View(snap, "VM-99", true)
	var unknown *domain.UnknownSelectorError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "VM-99", unknown.Selector)
}

func TestViewEmptyAndAllSelectorsResolveToOverall(t *testing.T) {
	snap, err := Build(fixtureBatch(), domain.SelectorByMachineID)
	require.NoError(t, err)

	fromEmpty, err := View(snap, "", false)
	require.NoError(t, err)
	fromAll, err := View(snap, domain.SelectorAll, false)
	require.NoError(t, err)

	assert.Equal(t, fromAll, fromEmpty)
	assert.Equal(t, domain.SelectorAll, fromEmpty.Selector)
}
