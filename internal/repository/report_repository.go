package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkjunho/labor-settlement/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) CreateReport(ctx context.Context, report model.DailyReport) (*model.DailyReport, error) {
	saved := report
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row struct {
			ID        uuid.UUID
			CreatedAt time.Time
		}
		if err := tx.Raw(`
			INSERT INTO daily_reports (work_date, site_id, team_id)
			VALUES (?, ?, ?)
			RETURNING id, created_at
		`, report.WorkDate, report.SiteID, report.TeamID).Scan(&row).Error; err != nil {
			return err
		}
		saved.ID = row.ID
		saved.CreatedAt = row.CreatedAt
		return insertEntries(tx, row.ID, report.Entries)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateReport is the explicit-edit path: it replaces the report's entries
// wholesale so insertion order stays authoritative.
func (r *ReportRepository) UpdateReport(ctx context.Context, report model.DailyReport) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`
			UPDATE daily_reports
			SET work_date = ?, site_id = ?, team_id = ?
			WHERE id = ?
		`, report.WorkDate, report.SiteID, report.TeamID, report.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Exec(`DELETE FROM report_entries WHERE report_id = ?`, report.ID).Error; err != nil {
			return err
		}
		return insertEntries(tx, report.ID, report.Entries)
	})
}

func insertEntries(tx *gorm.DB, reportID uuid.UUID, entries []model.ReportEntry) error {
	for i, entry := range entries {
		if err := tx.Exec(`
			INSERT INTO report_entries (report_id, position, worker_id, man_day, unit_price)
			VALUES (?, ?, ?, ?, ?)
		`, reportID, i, entry.WorkerID, entry.ManDay, entry.UnitPrice).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ReportRepository) GetReport(ctx context.Context, id uuid.UUID) (*model.DailyReport, error) {
	var report model.DailyReport
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, work_date, site_id, team_id, created_at
		FROM daily_reports
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&report).Error; err != nil {
		return nil, err
	}
	if report.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	if err := r.db.WithContext(ctx).Raw(`
		SELECT worker_id, man_day, unit_price
		FROM report_entries
		WHERE report_id = ?
		ORDER BY position ASC
	`, id).Scan(&report.Entries).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) ListReports(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]model.DailyReport, error) {
	var reports []model.DailyReport
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, work_date, site_id, team_id, created_at
		FROM daily_reports
		WHERE team_id = ?
			AND work_date >= ?
			AND work_date < ?
		ORDER BY work_date ASC, created_at ASC
	`, teamID, from, to).Scan(&reports).Error; err != nil {
		return nil, err
	}

	for i := range reports {
		if err := r.db.WithContext(ctx).Raw(`
			SELECT worker_id, man_day, unit_price
			FROM report_entries
			WHERE report_id = ?
			ORDER BY position ASC
		`, reports[i].ID).Scan(&reports[i].Entries).Error; err != nil {
			return nil, err
		}
	}
	return reports, nil
}

// ListWorkRecords flattens a team's report entries for the period. Ordering by
// work date, report creation and entry position keeps "first seen" stable so
// recomputation is deterministic.
func (r *ReportRepository) ListWorkRecords(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]model.WorkRecord, error) {
	var records []model.WorkRecord
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			dr.id AS report_id,
			dr.work_date,
			dr.site_id,
			dr.team_id,
			re.worker_id,
			re.man_day,
			re.unit_price
		FROM daily_reports dr
		JOIN report_entries re ON re.report_id = dr.id
		WHERE dr.team_id = ?
			AND dr.work_date >= ?
			AND dr.work_date < ?
		ORDER BY dr.work_date ASC, dr.created_at ASC, re.position ASC
	`, teamID, from, to).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListSupportRecords flattens every report entry of the period with the
// current team and site company assignment, the cross-charge input.
func (r *ReportRepository) ListSupportRecords(ctx context.Context, from, to time.Time) ([]model.SupportRecord, error) {
	var records []model.SupportRecord
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			TO_CHAR(dr.work_date, 'YYYY-MM-DD') AS work_date,
			t.id AS team_id,
			t.name AS team_name,
			t.company_id AS team_company_id,
			tc.name AS team_company_name,
			t.support_rate,
			s.id AS site_id,
			s.name AS site_name,
			s.company_id AS site_company_id,
			sc.name AS site_company_name,
			w.id AS worker_id,
			w.name AS worker_name,
			re.man_day
		FROM daily_reports dr
		JOIN report_entries re ON re.report_id = dr.id
		JOIN teams t ON t.id = dr.team_id
		JOIN companies tc ON tc.id = t.company_id
		JOIN sites s ON s.id = dr.site_id
		JOIN companies sc ON sc.id = s.company_id
		JOIN workers w ON w.id = re.worker_id
		WHERE dr.work_date >= ?
			AND dr.work_date < ?
		ORDER BY dr.work_date ASC, dr.created_at ASC, re.position ASC
	`, from, to).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
