package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyReport is the sole source of "who worked where, how much, at what rate"
// for a single team, site and date. Entries keep their insertion order.
type DailyReport struct {
	ID        uuid.UUID     `json:"id"`
	WorkDate  time.Time     `json:"work_date"` // date only, UTC midnight
	SiteID    uuid.UUID     `json:"site_id"`
	TeamID    uuid.UUID     `json:"team_id"`
	Entries   []ReportEntry `json:"entries" gorm:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

type ReportEntry struct {
	WorkerID  uuid.UUID       `json:"worker_id"`
	ManDay    decimal.Decimal `json:"man_day"`
	UnitPrice *int64          `json:"unit_price,omitempty"` // price snapshotted at report time; nil means "price at the worker's current rate"
}

// WorkRecord is one report entry flattened with its report's date, site and
// team, the shape settlement and support aggregation consume. Record order
// follows work date, report creation and entry position, so "first seen"
// tie-breaks are stable across recomputation.
type WorkRecord struct {
	ReportID  uuid.UUID       `json:"report_id"`
	WorkDate  time.Time       `json:"work_date"`
	SiteID    uuid.UUID       `json:"site_id"`
	TeamID    uuid.UUID       `json:"team_id"`
	WorkerID  uuid.UUID       `json:"worker_id"`
	ManDay    decimal.Decimal `json:"man_day"`
	UnitPrice *int64          `json:"unit_price,omitempty"`
}
