package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkjunho/labor-settlement/internal/model"
)

type RosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListWorkersByTeam(ctx context.Context, teamID uuid.UUID) ([]model.Worker, error) {
	var workers []model.Worker
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, position, team_id, unit_price, salary_model, account_id, created_at
		FROM workers
		WHERE team_id = ?
		ORDER BY name ASC, id ASC
	`, teamID).Scan(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *RosterRepository) GetWorker(ctx context.Context, id uuid.UUID) (*model.Worker, error) {
	var worker model.Worker
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, position, team_id, unit_price, salary_model, account_id, created_at
		FROM workers
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&worker).Error; err != nil {
		return nil, err
	}
	if worker.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &worker, nil
}

func (r *RosterRepository) CreateWorker(ctx context.Context, worker model.Worker) (*model.Worker, error) {
	var saved model.Worker
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO workers (name, position, team_id, unit_price, salary_model, account_id)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, name, position, team_id, unit_price, salary_model, account_id, created_at
	`, worker.Name, worker.Position, worker.TeamID, worker.UnitPrice, worker.SalaryModel, worker.AccountID).
		Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *RosterRepository) UpdateWorker(ctx context.Context, worker model.Worker) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE workers
		SET name = ?, position = ?, team_id = ?, unit_price = ?, salary_model = ?, account_id = ?
		WHERE id = ?
	`, worker.Name, worker.Position, worker.TeamID, worker.UnitPrice, worker.SalaryModel, worker.AccountID, worker.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RosterRepository) ListTeams(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, company_id, support_rate, billing_model, description
		FROM teams
		ORDER BY name ASC
	`).Scan(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *RosterRepository) GetTeam(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, company_id, support_rate, billing_model, description
		FROM teams
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&team).Error; err != nil {
		return nil, err
	}
	if team.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &team, nil
}

func (r *RosterRepository) CreateTeam(ctx context.Context, team model.Team) (*model.Team, error) {
	var saved model.Team
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO teams (name, company_id, support_rate, billing_model, description)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, name, company_id, support_rate, billing_model, description
	`, team.Name, team.CompanyID, team.SupportRate, team.BillingModel, team.Description).
		Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *RosterRepository) ListSites(ctx context.Context) ([]model.Site, error) {
	var sites []model.Site
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, company_id, status
		FROM sites
		ORDER BY name ASC
	`).Scan(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

func (r *RosterRepository) GetSite(ctx context.Context, id uuid.UUID) (*model.Site, error) {
	var site model.Site
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, company_id, status
		FROM sites
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&site).Error; err != nil {
		return nil, err
	}
	if site.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &site, nil
}

func (r *RosterRepository) CreateSite(ctx context.Context, site model.Site) (*model.Site, error) {
	var saved model.Site
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sites (name, company_id, status)
		VALUES (?, ?, ?)
		RETURNING id, name, company_id, status
	`, site.Name, site.CompanyID, site.Status).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *RosterRepository) ListCompanies(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name
		FROM companies
		ORDER BY name ASC
	`).Scan(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *RosterRepository) CreateCompany(ctx context.Context, company model.Company) (*model.Company, error) {
	var saved model.Company
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO companies (name)
		VALUES (?)
		RETURNING id, name
	`, company.Name).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
