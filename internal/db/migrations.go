package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS companies (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL UNIQUE
	);`,
	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		company_id UUID NOT NULL REFERENCES companies(id),
		support_rate BIGINT NOT NULL DEFAULT 0,
		billing_model VARCHAR(16) NOT NULL DEFAULT 'PER_MAN_DAY',
		description TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS sites (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		company_id UUID NOT NULL REFERENCES companies(id),
		status VARCHAR(16) NOT NULL DEFAULT 'ACTIVE'
	);`,
	`CREATE TABLE IF NOT EXISTS workers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(64) NOT NULL,
		position VARCHAR(64) NOT NULL DEFAULT '',
		team_id UUID NOT NULL REFERENCES teams(id),
		unit_price BIGINT NOT NULL DEFAULT 0,
		salary_model VARCHAR(16) NOT NULL DEFAULT 'DAILY',
		account_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_workers_team_id ON workers (team_id);`,
	`CREATE TABLE IF NOT EXISTS daily_reports (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		work_date DATE NOT NULL,
		site_id UUID NOT NULL REFERENCES sites(id),
		team_id UUID NOT NULL REFERENCES teams(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_daily_reports_team_date ON daily_reports (team_id, work_date);`,
	`CREATE INDEX IF NOT EXISTS idx_daily_reports_date ON daily_reports (work_date);`,
	`CREATE TABLE IF NOT EXISTS report_entries (
		report_id UUID NOT NULL REFERENCES daily_reports(id) ON DELETE CASCADE,
		position INT NOT NULL,
		worker_id UUID NOT NULL REFERENCES workers(id),
		man_day NUMERIC(6,2) NOT NULL,
		unit_price BIGINT,
		PRIMARY KEY (report_id, position)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_report_entries_worker_id ON report_entries (worker_id);`,
	`CREATE TABLE IF NOT EXISTS settlements (
		settlement_key VARCHAR(64) PRIMARY KEY,
		worker_id UUID NOT NULL REFERENCES workers(id),
		team_id UUID NOT NULL REFERENCES teams(id),
		month CHAR(7) NOT NULL,
		total_man_day NUMERIC(8,2) NOT NULL,
		unit_price BIGINT NOT NULL,
		gross_pay BIGINT NOT NULL,
		tax_amount BIGINT NOT NULL,
		net_pay BIGINT NOT NULL,
		primary_site_id UUID,
		status VARCHAR(16) NOT NULL DEFAULT 'PENDING',
		saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_settlements_team_month ON settlements (team_id, month);`,
	`CREATE TABLE IF NOT EXISTS deduction_items (
		id VARCHAR(64) PRIMARY KEY,
		label VARCHAR(128) NOT NULL,
		sort_order INT NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS advances (
		worker_id UUID NOT NULL REFERENCES workers(id),
		team_id UUID NOT NULL REFERENCES teams(id),
		month CHAR(7) NOT NULL,
		values_json JSONB NOT NULL DEFAULT '{}',
		memo TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (worker_id, month)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_advances_team_month ON advances (team_id, month);`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		actor VARCHAR(128) NOT NULL,
		action VARCHAR(64) NOT NULL,
		category VARCHAR(32) NOT NULL,
		target VARCHAR(128) NOT NULL DEFAULT '',
		detail JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_category ON audit_logs (category, created_at);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
