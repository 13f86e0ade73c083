package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SettlementStatus string

const (
	SettlementStatusPending   SettlementStatus = "PENDING"
	SettlementStatusConfirmed SettlementStatus = "CONFIRMED"
	SettlementStatusPaid      SettlementStatus = "PAID"
)

// SettlementSource records whether a result set came from the persisted store
// or from a live recomputation. Saved entries shadow live computation until an
// explicit recompute, so callers always know which one they are looking at.
type SettlementSource string

const (
	SettlementSourceLive  SettlementSource = "LIVE"
	SettlementSourceSaved SettlementSource = "SAVED"
)

// SettlementEntry is the computed pay record for one worker for one month.
// netPay = grossPay - taxAmount, taxAmount = floor(grossPay * 0.033).
type SettlementEntry struct {
	WorkerID      uuid.UUID        `json:"worker_id"`
	WorkerName    string           `json:"worker_name"`
	TeamID        uuid.UUID        `json:"team_id"`
	Month         string           `json:"month"` // "YYYY-MM"
	TotalManDay   decimal.Decimal  `json:"total_man_day"`
	UnitPrice     int64            `json:"unit_price"` // singular rate if all entries agree, otherwise round(gross/manDays)
	GrossPay      int64            `json:"gross_pay"`
	TaxAmount     int64            `json:"tax_amount"`
	NetPay        int64            `json:"net_pay"`
	PrimarySiteID uuid.UUID        `json:"primary_site_id"` // site with the most man-days this month; Nil when no work
	Status        SettlementStatus `json:"status"`
	SavedAt       *time.Time       `json:"saved_at,omitempty"`
}

// Key is the composite upsert key for the persisted store.
func (e SettlementEntry) Key() string {
	return fmt.Sprintf("%s_%s", e.WorkerID, e.Month)
}

type SettlementResult struct {
	TeamID  uuid.UUID         `json:"team_id"`
	Month   string            `json:"month"`
	Source  SettlementSource  `json:"source"`
	Entries []SettlementEntry `json:"entries"`
}
