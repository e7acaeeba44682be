package analytics

import (
	"testing"
	"time"

	"github.com/andresuchdata/vendsight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d string) time.Time {
	t, err := time.Parse("2006-01-02", d)
	if err != nil {
		panic(err)
	}
	return t
}

func record(date, machine, location, productID, productName, category string, units int, lead, stock float64) domain.TransactionRecord {
	return domain.TransactionRecord{
		Date:              day(date),
		MachineID:         machine,
		LocationType:      location,
		ProductID:         productID,
		ProductName:       productName,
		Category:          category,
		UnitsSold:         units,
		LeadTimeDays:      lead,
		CurrentStockLevel: stock,
	}
}

func TestSummarizeEmptyBatch(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)

	_, err = Summarize([]domain.TransactionRecord{})
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestSummarizeGroupsByMachineLocationProduct(t *testing.T) {
	records := []domain.TransactionRecord{
		record("2024-01-01", "VM-01", "Office", "P1", "Cola", "Drinks", 4, 3, 10),
		record("2024-01-02", "VM-01", "Office", "P1", "Cola", "Drinks", 6, 3, 4),
		record("2024-01-01", "VM-02", "Gym", "P1", "Cola", "Drinks", 2, 5, 8),
		record("2024-01-01", "VM-01", "Office", "P2", "Chips", "Snacks", 1, 2, 12),
	}

	summaries, err := Summarize(records)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// First-encounter order of group keys.
	assert.Equal(t, "VM-01", summaries[0].MachineID)
	assert.Equal(t, "P1", summaries[0].ProductID)
	assert.Equal(t, "VM-02", summaries[1].MachineID)
	assert.Equal(t, "P2", summaries[2].ProductID)

	assert.Equal(t, 10, summaries[0].TotalUnitsSold)
	assert.Equal(t, 2, summaries[0].ActiveDays)
	assert.Equal(t, 5.0, summaries[0].AvgDailySales)
	assert.Equal(t, 3.0, summaries[0].LeadTimeDays)

	assert.Equal(t, 2, summaries[1].TotalUnitsSold)
	assert.Equal(t, 1, summaries[1].ActiveDays)
	assert.Equal(t, 2.0, summaries[1].AvgDailySales)
}

func TestSummarizeActiveDaysCountsDistinctDates(t *testing.T) {
	records := []domain.TransactionRecord{
		record("2024-03-01", "VM-01", "Office", "P1", "Cola", "Drinks", 3, 2, 9),
		record("2024-03-01", "VM-01", "Office", "P1", "Cola", "Drinks", 2, 2, 7),
		record("2024-03-05", "VM-01", "Office", "P1", "Cola", "Drinks", 1, 2, 6),
	}

	summaries, err := Summarize(records)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	// Two distinct dates, not the three rows nor the five-day span.
	assert.Equal(t, 2, summaries[0].ActiveDays)
	assert.Equal(t, 6, summaries[0].TotalUnitsSold)
	assert.Equal(t, 3.0, summaries[0].AvgDailySales)
}

func TestSummarizeAvgDailySalesRoundsToTwoDecimals(t *testing.T) {
	records := []domain.TransactionRecord{
		record("2024-01-01", "VM-01", "Office", "P1", "Cola", "Drinks", 1, 2, 9),
		record("2024-01-02", "VM-01", "Office", "P1", "Cola", "Drinks", 1, 2, 8),
		record("2024-01-03", "VM-01", "Office", "P1", "Cola", "Drinks", 2, 2, 6),
	}

	summaries, err := Summarize(records)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	// 4 units over 3 days = 1.333... -> 1.33
	assert.Equal(t, 1.33, summaries[0].AvgDailySales)
}

func TestSummarizeLeadTimeIsMeanOfRows(t *testing.T) {
	records := []domain.TransactionRecord{
		record("2024-01-01", "VM-01", "Office", "P1", "Cola", "Drinks", 2, 2, 9),
		record("2024-01-02", "VM-01", "Office", "P1", "Cola", "Drinks", 2, 4, 8),
	}

	summaries, err := Summarize(records)
	require.NoError(t, err)
	assert.Equal(t, 3.0, summaries[0].LeadTimeDays)
}

func TestSummarizeCategoryLookupIsProductOnly(t *testing.T) {
	// Same product on two machines; the category comes from the product's
	// first appearance regardless of the machine.
	records := []domain.TransactionRecord{
		record("2024-01-01", "VM-01", "Office", "P1", "Cola", "Drinks", 2, 2, 9),
		record("2024-01-01", "VM-02", "Gym", "P1", "Cola", "", 3, 2, 5),
	}

	summaries, err := Summarize(records)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Drinks", summaries[0].Category)
	assert.Equal(t, "Drinks", summaries[1].Category)
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	records := []domain.TransactionRecord{
		record("2024-01-01", "VM-01", "Office", "P1", "Cola", "Drinks", 4, 3, 10),
		record("2024-01-02", "VM-01", "Office", "P1", "Cola", "Drinks", 6, 3, 4),
	}
	before := make([]domain.TransactionRecord, len(records))
	copy(before, records)

	_, err := Summarize(records)
	require.NoError(t, err)
	assert.Equal(t, before, records)
}
