package analytics

import (
	"testing"

	"github.com/andresuchdata/vendsight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrdersWorkedExample(t *testing.T) {
	records := []domain.TransactionRecord{
		record("2024-01-01", "VM-01", "Office", "P1", "Cola", "Drinks", 4, 3, 10),
		record("2024-01-02", "VM-01", "Office", "P1", "Cola", "Drinks", 6, 3, 4),
	}
	summaries, err := Summarize(records)
	require.NoError(t, err)
	policies := DerivePolicies(summaries)

	lines, err := ResolveOrders(policies, records)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	// Latest stock observation is day two's 4; recommended is 26.
	assert.Equal(t, 4, lines[0].CurrentStockLevel)
	assert.Equal(t, 26, lines[0].RecommendedStockLevel)
	assert.Equal(t, 22, lines[0].OrderQuantity)
}

func TestResolveOrdersUsesLatestObservationRegardlessOfRowOrder(t *testing.T) {
	records := []domain.TransactionRecord{
		record("2024-01-05", "VM-01", "Office", "P1", "Cola", "Drinks", 2, 3, 7),
		record("2024-01-01", "VM-01", "Office", "P1", "Cola", "Drinks", 4, 3, 10),
	}
	summaries, err := Summarize(records)
	require.NoError(t, err)

	lines, err := ResolveOrders(DerivePolicies(summaries), records)
	require.NoError(t, err)
	assert.Equal(t, 7, lines[0].CurrentStockLevel)
}

func TestResolveOrdersTiedDatesLastRowWins(t *testing.T) {
	records := []domain.TransactionRecord{
		record("2024-01-01", "VM-01", "Office", "P1", "Cola", "Drinks", 2, 3, 9),
		record("2024-01-01", "VM-01", "Office", "P1", "Cola", "Drinks", 3, 3, 5),
	}
	summaries, err := Summarize(records)
	require.NoError(t, err)

	lines, err := ResolveOrders(DerivePolicies(summaries), records)
	require.NoError(t, err)
	assert.Equal(t, 5, lines[0].CurrentStockLevel)
}

func TestResolveOrdersClipsNegativeQuantityToZero(t *testing.T) {
	// Ample stock on a slow mover: recommended stays below current.
	records := []domain.TransactionRecord{
		record("2024-01-01", "VM-01", "Office", "P1", "Cola", "Drinks", 1, 1, 200),
	}
	summaries, err := Summarize(records)
	require.NoError(t, err)

	lines, err := ResolveOrders(DerivePolicies(summaries), records)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 0, lines[0].OrderQuantity)
	assert.Greater(t, lines[0].CurrentStockLevel, lines[0].RecommendedStockLevel)
}

func TestResolveOrdersMissingObservationIsFatal(t *testing.T) {
	policies := []domain.RestockPolicy{{
		SalesSummary: domain.SalesSummary{MachineID: "VM-09", ProductID: "P9"},
	}}

	_, err := ResolveOrders(policies, nil)
	var missing *domain.MissingStockLevelError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "VM-09", missing.MachineID)
	assert.Equal(t, "P9", missing.ProductID)
}

func TestResolveOrdersKeepsPolicyOrder(t *testing.T) {
	records := []domain.TransactionRecord{
		record("2024-01-01", "VM-01", "Office", "P1", "Cola", "Drinks", 4, 3, 10),
		record("2024-01-01", "VM-02", "Gym", "P2", "Chips", "Snacks", 2, 2, 8),
	}
	summaries, err := Summarize(records)
	require.NoError(t, err)

	lines, err := ResolveOrders(DerivePolicies(summaries), records)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "VM-01", lines[0].MachineID)
	assert.Equal(t, "VM-02", lines[1].MachineID)
}
