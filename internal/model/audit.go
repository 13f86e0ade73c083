package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditCategory string

const (
	AuditCategorySettlement AuditCategory = "SETTLEMENT"
	AuditCategoryAdvance    AuditCategory = "ADVANCE"
	AuditCategoryCatalog    AuditCategory = "CATALOG"
	AuditCategoryReport     AuditCategory = "REPORT"
	AuditCategoryRoster     AuditCategory = "ROSTER"
)

// AuditLog is append-only: written once by mutating operations, queried
// read-only by admins.
type AuditLog struct {
	ID        uuid.UUID      `json:"id"`
	Actor     string         `json:"actor"`
	Action    string         `json:"action"`
	Category  AuditCategory  `json:"category"`
	Target    string         `json:"target"`
	Detail    map[string]any `json:"detail"`
	CreatedAt time.Time      `json:"created_at"`
}
