package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parkjunho/labor-settlement/internal/model"
)

// Tax withholding is the flat 3.3% rate for daily-labor contracts,
// floored to whole won: tax = floor(gross * 33 / 1000).
const (
	taxRateNumerator   = 33
	taxRateDenominator = 1000
)

// MonthRange resolves "YYYY-MM" to the half-open date interval
// [first day, first day of next month), calendar-aware for short months.
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidInput)
	}
	return start, start.AddDate(0, 1, 0), nil
}

func TaxFor(gross int64) int64 {
	if gross <= 0 {
		return 0
	}
	return gross * taxRateNumerator / taxRateDenominator
}

// workerTally accumulates one worker's month while walking the records.
type workerTally struct {
	totalManDay    decimal.Decimal
	snapshotAmount decimal.Decimal // sum of manDay * snapshot price
	missingManDay  decimal.Decimal // man-days with no snapshot, priced at the current rate last
	pricesSeen     map[int64]struct{}
	siteManDays    map[uuid.UUID]decimal.Decimal
	siteOrder      []uuid.UUID // first-seen order, tie-break for the primary site
}

func newWorkerTally() *workerTally {
	return &workerTally{
		totalManDay:    decimal.Zero,
		snapshotAmount: decimal.Zero,
		missingManDay:  decimal.Zero,
		pricesSeen:     make(map[int64]struct{}),
		siteManDays:    make(map[uuid.UUID]decimal.Decimal),
	}
}

func (t *workerTally) add(rec model.WorkRecord) {
	t.totalManDay = t.totalManDay.Add(rec.ManDay)

	if rec.UnitPrice != nil {
		price := *rec.UnitPrice
		t.snapshotAmount = t.snapshotAmount.Add(rec.ManDay.Mul(decimal.NewFromInt(price)))
		t.pricesSeen[price] = struct{}{}
	} else {
		t.missingManDay = t.missingManDay.Add(rec.ManDay)
	}

	if _, seen := t.siteManDays[rec.SiteID]; !seen {
		t.siteOrder = append(t.siteOrder, rec.SiteID)
	}
	t.siteManDays[rec.SiteID] = t.siteManDays[rec.SiteID].Add(rec.ManDay)
}

func (t *workerTally) primarySite() uuid.UUID {
	best := uuid.Nil
	bestManDay := decimal.Zero
	for _, siteID := range t.siteOrder {
		if t.siteManDays[siteID].GreaterThan(bestManDay) {
			best = siteID
			bestManDay = t.siteManDays[siteID]
		}
	}
	return best
}

// AggregateSettlements computes one settlement entry per roster worker from the
// month's flattened report records. It is a pure function: identical inputs
// yield identical output, and workers without records get zeroed entries.
//
// Pricing: entries carrying a snapshot are summed at that price; entries
// without one are priced at the worker's current rate. The displayed unit
// price is the single rate when every contributing entry agrees, otherwise
// round(gross / totalManDay), a derived average.
func AggregateSettlements(
	teamID uuid.UUID,
	month string,
	workers []model.Worker,
	records []model.WorkRecord,
) []model.SettlementEntry {
	tallies := make(map[uuid.UUID]*workerTally, len(workers))
	for _, rec := range records {
		tally, ok := tallies[rec.WorkerID]
		if !ok {
			tally = newWorkerTally()
			tallies[rec.WorkerID] = tally
		}
		tally.add(rec)
	}

	entries := make([]model.SettlementEntry, 0, len(workers))
	for _, worker := range workers {
		entry := model.SettlementEntry{
			WorkerID:    worker.ID,
			WorkerName:  worker.Name,
			TeamID:      teamID,
			Month:       month,
			TotalManDay: decimal.Zero,
			Status:      model.SettlementStatusPending,
		}

		tally, worked := tallies[worker.ID]
		if !worked {
			entries = append(entries, entry)
			continue
		}

		currentRate := decimal.NewFromInt(worker.UnitPrice)
		gross := tally.snapshotAmount.Add(tally.missingManDay.Mul(currentRate))
		grossPay := gross.IntPart()

		entry.TotalManDay = tally.totalManDay
		entry.GrossPay = grossPay
		entry.TaxAmount = TaxFor(grossPay)
		entry.NetPay = grossPay - entry.TaxAmount
		entry.UnitPrice = resolveUnitPrice(tally, worker.UnitPrice, gross)
		entry.PrimarySiteID = tally.primarySite()
		entries = append(entries, entry)
	}
	return entries
}

// resolveUnitPrice is singular only when every contributing entry priced the
// man-days identically; any disagreement degrades to a derived average.
func resolveUnitPrice(tally *workerTally, currentRate int64, gross decimal.Decimal) int64 {
	if tally.totalManDay.IsZero() {
		return 0
	}

	distinct := make(map[int64]struct{}, len(tally.pricesSeen)+1)
	for price := range tally.pricesSeen {
		distinct[price] = struct{}{}
	}
	if tally.missingManDay.IsPositive() {
		distinct[currentRate] = struct{}{}
	}

	if len(distinct) == 1 {
		for price := range distinct {
			return price
		}
	}
	return gross.Div(tally.totalManDay).Round(0).IntPart()
}
