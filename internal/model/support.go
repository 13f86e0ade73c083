package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupportRecord is one daily-report entry joined with its team's and site's
// company assignment, the input of cross-charge classification. External means
// the worker's home team and the site's owning company differ.
type SupportRecord struct {
	WorkDate        string          `json:"work_date"` // "YYYY-MM-DD"
	TeamID          uuid.UUID       `json:"team_id"`
	TeamName        string          `json:"team_name"`
	TeamCompanyID   uuid.UUID       `json:"team_company_id"`
	TeamCompanyName string          `json:"team_company_name"`
	SupportRate     int64           `json:"support_rate"`
	SiteID          uuid.UUID       `json:"site_id"`
	SiteName        string          `json:"site_name"`
	SiteCompanyID   uuid.UUID       `json:"site_company_id"`
	SiteCompanyName string          `json:"site_company_name"`
	WorkerID        uuid.UUID       `json:"worker_id"`
	WorkerName      string          `json:"worker_name"`
	ManDay          decimal.Decimal `json:"man_day"`
	External        bool            `json:"external"`
}

type SupportCell struct {
	TeamID uuid.UUID       `json:"team_id"`
	SiteID uuid.UUID       `json:"site_id"`
	ManDay decimal.Decimal `json:"man_day"`
	Amount int64           `json:"amount"` // manDay * team support rate, accumulated
}

type SupportRow struct {
	TeamID      uuid.UUID       `json:"team_id"`
	TeamName    string          `json:"team_name"`
	Cells       []SupportCell   `json:"cells"` // aligned with SupportMatrix.Sites
	TotalManDay decimal.Decimal `json:"total_man_day"`
	TotalAmount int64           `json:"total_amount"`
}

type SupportSite struct {
	SiteID      uuid.UUID `json:"site_id"`
	SiteName    string    `json:"site_name"`
	CompanyName string    `json:"company_name"`
}

// SupportMatrix is the team x site cross-charge view for one month. Columns
// are sorted by the site's company name, then site name.
type SupportMatrix struct {
	Month   string          `json:"month"`
	Sites   []SupportSite   `json:"sites"`
	Rows    []SupportRow    `json:"rows"`
	Records []SupportRecord `json:"records"`
}
