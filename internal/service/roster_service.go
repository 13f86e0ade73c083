package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/parkjunho/labor-settlement/internal/config"
	"github.com/parkjunho/labor-settlement/internal/model"
	"github.com/parkjunho/labor-settlement/internal/repository"
)

type RosterService struct {
	roster  *repository.RosterRepository
	roleMap map[string]model.Role
	audit   auditRecorder
}

func NewRosterService(
	roster *repository.RosterRepository,
	auditRepo *repository.AuditRepository,
	cfg *config.Config,
	log zerolog.Logger,
) *RosterService {
	return &RosterService{
		roster:  roster,
		roleMap: cfg.RoleMap,
		audit:   auditRecorder{repo: auditRepo, log: log},
	}
}

// ResolveRole maps a free-text position label to an internal role through the
// configured table. Unmapped labels are an error, never a silent default.
func (s *RosterService) ResolveRole(position string) (model.Role, error) {
	role, ok := s.roleMap[strings.TrimSpace(position)]
	if !ok {
		return "", fmt.Errorf("%w: position %q has no role mapping", ErrInvalidInput, position)
	}
	return role, nil
}

func (s *RosterService) validateWorker(ctx context.Context, worker model.Worker) error {
	if strings.TrimSpace(worker.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if worker.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price is negative", ErrInvalidInput)
	}
	switch worker.SalaryModel {
	case model.SalaryModelDaily, model.SalaryModelWeekly, model.SalaryModelMonthly,
		model.SalaryModelSupport, model.SalaryModelService:
	default:
		return fmt.Errorf("%w: unknown salary model %q", ErrInvalidInput, worker.SalaryModel)
	}
	if _, err := s.ResolveRole(worker.Position); err != nil {
		return err
	}
	if _, err := s.roster.GetTeam(ctx, worker.TeamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: team", ErrInvalidInput)
		}
		return err
	}
	return nil
}

func (s *RosterService) CreateWorker(ctx context.Context, principal model.Principal, worker model.Worker) (*model.Worker, error) {
	if !principal.CanManage(worker.TeamID) {
		return nil, ErrPermissionDenied
	}
	if err := s.validateWorker(ctx, worker); err != nil {
		return nil, err
	}
	saved, err := s.roster.CreateWorker(ctx, worker)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, principal, model.AuditCategoryRoster, "worker.create", saved.ID.String(),
		map[string]any{"name": worker.Name, "team_id": worker.TeamID.String()})
	return saved, nil
}

func (s *RosterService) UpdateWorker(ctx context.Context, principal model.Principal, worker model.Worker) error {
	if worker.ID == uuid.Nil {
		return fmt.Errorf("%w: worker id is required", ErrInvalidInput)
	}
	existing, err := s.roster.GetWorker(ctx, worker.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !principal.CanManage(existing.TeamID) || !principal.CanManage(worker.TeamID) {
		return ErrPermissionDenied
	}
	if err := s.validateWorker(ctx, worker); err != nil {
		return err
	}
	if err := s.roster.UpdateWorker(ctx, worker); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.audit.record(ctx, principal, model.AuditCategoryRoster, "worker.update", worker.ID.String(), nil)
	return nil
}

func (s *RosterService) ListWorkers(ctx context.Context, teamID uuid.UUID) ([]model.Worker, error) {
	if teamID == uuid.Nil {
		return nil, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	return s.roster.ListWorkersByTeam(ctx, teamID)
}

func (s *RosterService) ListTeams(ctx context.Context) ([]model.Team, error) {
	return s.roster.ListTeams(ctx)
}

func (s *RosterService) CreateTeam(ctx context.Context, principal model.Principal, team model.Team) (*model.Team, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(team.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if team.SupportRate < 0 {
		return nil, fmt.Errorf("%w: support rate is negative", ErrInvalidInput)
	}
	switch team.BillingModel {
	case model.BillingModelPerManDay, model.BillingModelFixed:
	default:
		return nil, fmt.Errorf("%w: unknown billing model %q", ErrInvalidInput, team.BillingModel)
	}
	saved, err := s.roster.CreateTeam(ctx, team)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, principal, model.AuditCategoryRoster, "team.create", saved.ID.String(),
		map[string]any{"name": team.Name})
	return saved, nil
}

func (s *RosterService) ListSites(ctx context.Context) ([]model.Site, error) {
	return s.roster.ListSites(ctx)
}

func (s *RosterService) CreateSite(ctx context.Context, principal model.Principal, site model.Site) (*model.Site, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(site.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if site.Status == "" {
		site.Status = model.SiteStatusActive
	}
	switch site.Status {
	case model.SiteStatusActive, model.SiteStatusClosed:
	default:
		return nil, fmt.Errorf("%w: unknown site status %q", ErrInvalidInput, site.Status)
	}
	saved, err := s.roster.CreateSite(ctx, site)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, principal, model.AuditCategoryRoster, "site.create", saved.ID.String(),
		map[string]any{"name": site.Name})
	return saved, nil
}

func (s *RosterService) ListCompanies(ctx context.Context) ([]model.Company, error) {
	return s.roster.ListCompanies(ctx)
}

func (s *RosterService) CreateCompany(ctx context.Context, principal model.Principal, company model.Company) (*model.Company, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(company.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	saved, err := s.roster.CreateCompany(ctx, company)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, principal, model.AuditCategoryRoster, "company.create", saved.ID.String(),
		map[string]any{"name": company.Name})
	return saved, nil
}
