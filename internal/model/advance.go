package model

import (
	"time"

	"github.com/google/uuid"
)

// DeductionItem is one entry of the shared deduction catalog. Deactivating or
// deleting an item never deletes per-worker values stored under its id; it
// only excludes them from future totals.
type DeductionItem struct {
	ID        string `json:"id"` // stable slug, e.g. "rent", "phone"
	Label     string `json:"label"`
	SortOrder int    `json:"sort_order"`
	Active    bool   `json:"active"`
}

// Legacy value keys that predate the dynamic catalog. They count toward a
// worker's total whenever no catalog item claims the same id.
var LegacyDeductionKeys = []string{"rent", "utility", "meal", "prev_carryover"}

// AdvancePayment holds one worker's deduction line amounts for one month,
// keyed by deduction item id.
type AdvancePayment struct {
	WorkerID  uuid.UUID        `json:"worker_id"`
	TeamID    uuid.UUID        `json:"team_id"`
	Month     string           `json:"month"` // "YYYY-MM"
	Values    map[string]int64 `json:"values"`
	Memo      string           `json:"memo"`
	UpdatedAt time.Time        `json:"updated_at"`
}
