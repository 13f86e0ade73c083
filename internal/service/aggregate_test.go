package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkjunho/labor-settlement/internal/model"
)

func md(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		panic(err)
	}
	return value
}

func priceOf(value int64) *int64 {
	return &value
}

func TestMonthRange(t *testing.T) {
	from, to, err := MonthRange("2024-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), to)

	from, to, err = MonthRange("2023-02")
	require.NoError(t, err)
	assert.Equal(t, 28, int(to.Sub(from).Hours()/24), "non-leap february spans 28 days")

	_, _, err = MonthRange("2024-2")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = MonthRange("2024-05-01")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTaxFor(t *testing.T) {
	assert.Equal(t, int64(7590), TaxFor(230000))
	assert.Equal(t, int64(0), TaxFor(0))
	assert.Equal(t, int64(33), TaxFor(1000))
	// 3.3% of 999 is 32.967, floored
	assert.Equal(t, int64(32), TaxFor(999))
}

func TestAggregateMixedSnapshotAndCurrentRate(t *testing.T) {
	teamID := uuid.New()
	siteID := uuid.New()
	worker := model.Worker{ID: uuid.New(), Name: "김철수", TeamID: teamID, UnitPrice: 160000}

	records := []model.WorkRecord{
		{SiteID: siteID, TeamID: teamID, WorkerID: worker.ID, ManDay: md("1.0"), UnitPrice: priceOf(150000)},
		{SiteID: siteID, TeamID: teamID, WorkerID: worker.ID, ManDay: md("0.5")},
	}

	entries := AggregateSettlements(teamID, "2024-05", []model.Worker{worker}, records)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, int64(230000), entry.GrossPay, "150000 snapshot + 0.5 x 160000 current")
	assert.Equal(t, int64(7590), entry.TaxAmount)
	assert.Equal(t, int64(222410), entry.NetPay)
	assert.True(t, entry.TotalManDay.Equal(md("1.5")))
	assert.Equal(t, siteID, entry.PrimarySiteID)
	assert.Equal(t, model.SettlementStatusPending, entry.Status)
	// two distinct rates contributed, so the shown price is a derived average
	assert.Equal(t, int64(153333), entry.UnitPrice)
}

func TestAggregateSingularUnitPrice(t *testing.T) {
	teamID := uuid.New()
	siteID := uuid.New()
	worker := model.Worker{ID: uuid.New(), Name: "이영희", TeamID: teamID, UnitPrice: 150000}

	records := []model.WorkRecord{
		{SiteID: siteID, TeamID: teamID, WorkerID: worker.ID, ManDay: md("1.0"), UnitPrice: priceOf(150000)},
		{SiteID: siteID, TeamID: teamID, WorkerID: worker.ID, ManDay: md("1.0")},
	}

	entries := AggregateSettlements(teamID, "2024-05", []model.Worker{worker}, records)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(150000), entries[0].UnitPrice,
		"snapshot and current rate agree, so the rate stays singular")
	assert.Equal(t, int64(300000), entries[0].GrossPay)
}

func TestAggregateWorkerWithoutEntries(t *testing.T) {
	teamID := uuid.New()
	idle := model.Worker{ID: uuid.New(), Name: "박민수", TeamID: teamID, UnitPrice: 170000}

	entries := AggregateSettlements(teamID, "2024-05", []model.Worker{idle}, nil)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.True(t, entry.TotalManDay.IsZero())
	assert.Zero(t, entry.GrossPay)
	assert.Zero(t, entry.TaxAmount)
	assert.Zero(t, entry.NetPay)
	assert.Zero(t, entry.UnitPrice)
	assert.Equal(t, uuid.Nil, entry.PrimarySiteID)
}

func TestAggregateNetPayInvariant(t *testing.T) {
	teamID := uuid.New()
	siteID := uuid.New()

	workers := make([]model.Worker, 0, 5)
	var records []model.WorkRecord
	prices := []int64{97000, 130000, 150000, 163500, 200001}
	manDays := []string{"0.5", "1.0", "1.5", "2.5", "21.0"}
	for i := range prices {
		worker := model.Worker{ID: uuid.New(), Name: "w", TeamID: teamID, UnitPrice: prices[i]}
		workers = append(workers, worker)
		records = append(records, model.WorkRecord{
			SiteID: siteID, TeamID: teamID, WorkerID: worker.ID, ManDay: md(manDays[i]),
		})
	}

	for _, entry := range AggregateSettlements(teamID, "2024-07", workers, records) {
		assert.Equal(t, entry.GrossPay-entry.TaxAmount, entry.NetPay)
		assert.Equal(t, entry.GrossPay*33/1000, entry.TaxAmount)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	teamID := uuid.New()
	siteA := uuid.New()
	siteB := uuid.New()
	worker := model.Worker{ID: uuid.New(), Name: "최지훈", TeamID: teamID, UnitPrice: 140000}

	records := []model.WorkRecord{
		{SiteID: siteA, TeamID: teamID, WorkerID: worker.ID, ManDay: md("1.0"), UnitPrice: priceOf(140000)},
		{SiteID: siteB, TeamID: teamID, WorkerID: worker.ID, ManDay: md("0.5")},
		{SiteID: siteA, TeamID: teamID, WorkerID: worker.ID, ManDay: md("1.0")},
	}

	first := AggregateSettlements(teamID, "2024-05", []model.Worker{worker}, records)
	second := AggregateSettlements(teamID, "2024-05", []model.Worker{worker}, records)
	assert.Equal(t, first, second)
}

func TestAggregatePrimarySite(t *testing.T) {
	teamID := uuid.New()
	siteA := uuid.New()
	siteB := uuid.New()
	worker := model.Worker{ID: uuid.New(), Name: "정우성", TeamID: teamID, UnitPrice: 150000}

	t.Run("majority wins", func(t *testing.T) {
		records := []model.WorkRecord{
			{SiteID: siteA, TeamID: teamID, WorkerID: worker.ID, ManDay: md("1.0")},
			{SiteID: siteB, TeamID: teamID, WorkerID: worker.ID, ManDay: md("2.0")},
		}
		entries := AggregateSettlements(teamID, "2024-05", []model.Worker{worker}, records)
		require.Len(t, entries, 1)
		assert.Equal(t, siteB, entries[0].PrimarySiteID)
	})

	t.Run("tie keeps first seen", func(t *testing.T) {
		records := []model.WorkRecord{
			{SiteID: siteB, TeamID: teamID, WorkerID: worker.ID, ManDay: md("1.0")},
			{SiteID: siteA, TeamID: teamID, WorkerID: worker.ID, ManDay: md("1.0")},
		}
		entries := AggregateSettlements(teamID, "2024-05", []model.Worker{worker}, records)
		require.Len(t, entries, 1)
		assert.Equal(t, siteB, entries[0].PrimarySiteID)
	})
}

func TestAggregateRosterOrderPreserved(t *testing.T) {
	teamID := uuid.New()
	first := model.Worker{ID: uuid.New(), Name: "강하늘", TeamID: teamID}
	second := model.Worker{ID: uuid.New(), Name: "나문희", TeamID: teamID}

	entries := AggregateSettlements(teamID, "2024-05", []model.Worker{first, second}, nil)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].WorkerID)
	assert.Equal(t, second.ID, entries[1].WorkerID)
}
