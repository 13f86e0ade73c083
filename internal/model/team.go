package model

import "github.com/google/uuid"

type BillingModel string

const (
	BillingModelPerManDay BillingModel = "PER_MAN_DAY"
	BillingModelFixed     BillingModel = "FIXED"
)

type Company struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Team struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	CompanyID    uuid.UUID    `json:"company_id"`
	SupportRate  int64        `json:"support_rate"` // KRW per man-day billed for support work
	BillingModel BillingModel `json:"billing_model"`
	Description  string       `json:"description"`
}

type SiteStatus string

const (
	SiteStatusActive SiteStatus = "ACTIVE"
	SiteStatusClosed SiteStatus = "CLOSED"
)

type Site struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CompanyID uuid.UUID  `json:"company_id"`
	Status    SiteStatus `json:"status"`
}
