package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/parkjunho/labor-settlement/internal/model"
	"github.com/parkjunho/labor-settlement/internal/repository"
)

type ReportService struct {
	reports *repository.ReportRepository
	roster  *repository.RosterRepository
	audit   auditRecorder
}

func NewReportService(
	reports *repository.ReportRepository,
	roster *repository.RosterRepository,
	auditRepo *repository.AuditRepository,
	log zerolog.Logger,
) *ReportService {
	return &ReportService{
		reports: reports,
		roster:  roster,
		audit:   auditRecorder{repo: auditRepo, log: log},
	}
}

func (s *ReportService) validate(ctx context.Context, report model.DailyReport) error {
	if report.WorkDate.IsZero() {
		return fmt.Errorf("%w: work_date is required", ErrInvalidInput)
	}
	if len(report.Entries) == 0 {
		return fmt.Errorf("%w: report has no entries", ErrInvalidInput)
	}
	if _, err := s.roster.GetTeam(ctx, report.TeamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: team", ErrInvalidInput)
		}
		return err
	}
	if _, err := s.roster.GetSite(ctx, report.SiteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: site", ErrInvalidInput)
		}
		return err
	}
	for i, entry := range report.Entries {
		if entry.WorkerID == uuid.Nil {
			return fmt.Errorf("%w: entry %d has no worker", ErrInvalidInput, i)
		}
		if !entry.ManDay.IsPositive() {
			return fmt.Errorf("%w: entry %d man_day must be positive", ErrInvalidInput, i)
		}
		if entry.UnitPrice != nil && *entry.UnitPrice < 0 {
			return fmt.Errorf("%w: entry %d unit price is negative", ErrInvalidInput, i)
		}
	}
	return nil
}

func (s *ReportService) Create(ctx context.Context, principal model.Principal, report model.DailyReport) (*model.DailyReport, error) {
	if !principal.CanManage(report.TeamID) {
		return nil, ErrPermissionDenied
	}
	if err := s.validate(ctx, report); err != nil {
		return nil, err
	}
	saved, err := s.reports.CreateReport(ctx, report)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, principal, model.AuditCategoryReport, "create", saved.ID.String(),
		map[string]any{"team_id": report.TeamID.String(), "work_date": report.WorkDate.Format("2006-01-02")})
	return saved, nil
}

// Update is the explicit-edit path. A saved settlement for the affected month
// does not change until it is recomputed; the edit alone never leaks through.
func (s *ReportService) Update(ctx context.Context, principal model.Principal, report model.DailyReport) error {
	if report.ID == uuid.Nil {
		return fmt.Errorf("%w: report id is required", ErrInvalidInput)
	}
	existing, err := s.reports.GetReport(ctx, report.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !principal.CanManage(existing.TeamID) || !principal.CanManage(report.TeamID) {
		return ErrPermissionDenied
	}
	if err := s.validate(ctx, report); err != nil {
		return err
	}
	if err := s.reports.UpdateReport(ctx, report); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.audit.record(ctx, principal, model.AuditCategoryReport, "update", report.ID.String(), nil)
	return nil
}

func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*model.DailyReport, error) {
	report, err := s.reports.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

func (s *ReportService) ListByTeamMonth(ctx context.Context, teamID uuid.UUID, month string) ([]model.DailyReport, error) {
	if teamID == uuid.Nil {
		return nil, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	from, to, err := MonthRange(month)
	if err != nil {
		return nil, err
	}
	return s.reports.ListReports(ctx, teamID, from, to)
}
