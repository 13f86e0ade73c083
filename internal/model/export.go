package model

import "github.com/google/uuid"

// SettlementBook is the input of the settlement workbook export: one team's
// month with per-worker deduction totals merged in.
type SettlementBook struct {
	TeamName   string
	Month      string
	Source     SettlementSource
	Entries    []SettlementEntry
	SiteNames  map[uuid.UUID]string
	Deductions map[uuid.UUID]int64 // total deduction per worker
}

// PayslipLine is one deduction line on a payslip, catalog order.
type PayslipLine struct {
	Label  string
	Amount int64
}

// Payslip is the input of the single-worker PDF export.
type Payslip struct {
	WorkerName      string
	TeamName        string
	Month           string
	Entry           SettlementEntry
	PrimarySiteName string
	Lines           []PayslipLine
	TotalDeduction  int64
	Balance         int64 // net pay minus deductions
}
