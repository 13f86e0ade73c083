package model

import (
	"time"

	"github.com/google/uuid"
)

type SalaryModel string

const (
	SalaryModelDaily   SalaryModel = "DAILY"
	SalaryModelWeekly  SalaryModel = "WEEKLY"
	SalaryModelMonthly SalaryModel = "MONTHLY"
	SalaryModelSupport SalaryModel = "SUPPORT"
	SalaryModelService SalaryModel = "SERVICE"
)

type Worker struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Position    string      `json:"position"` // free-text rank label ("팀장", "기사", ...), resolved to a Role via config
	TeamID      uuid.UUID   `json:"team_id"`
	UnitPrice   int64       `json:"unit_price"` // KRW per man-day, current rate
	SalaryModel SalaryModel `json:"salary_model"`
	AccountID   *uuid.UUID  `json:"account_id,omitempty"` // linked login account, if any
	CreatedAt   time.Time   `json:"created_at"`
}
