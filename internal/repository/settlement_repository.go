package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkjunho/labor-settlement/internal/model"
)

type SettlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// ListSaved returns the persisted entries for team+month, empty when the month
// has never been saved.
func (r *SettlementRepository) ListSaved(ctx context.Context, teamID uuid.UUID, month string) ([]model.SettlementEntry, error) {
	var entries []model.SettlementEntry
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			s.worker_id,
			w.name AS worker_name,
			s.team_id,
			s.month,
			s.total_man_day,
			s.unit_price,
			s.gross_pay,
			s.tax_amount,
			s.net_pay,
			COALESCE(s.primary_site_id, '00000000-0000-0000-0000-000000000000') AS primary_site_id,
			s.status,
			s.saved_at
		FROM settlements s
		JOIN workers w ON w.id = s.worker_id
		WHERE s.team_id = ? AND s.month = ?
		ORDER BY w.name ASC, s.worker_id ASC
	`, teamID, month).Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertBatch writes one batch of entries, keyed by workerID_month, in a
// single transaction.
func (r *SettlementRepository) UpsertBatch(ctx context.Context, entries []model.SettlementEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			var primarySite *uuid.UUID
			if entry.PrimarySiteID != uuid.Nil {
				siteID := entry.PrimarySiteID
				primarySite = &siteID
			}
			if err := tx.Exec(`
				INSERT INTO settlements (
					settlement_key,
					worker_id,
					team_id,
					month,
					total_man_day,
					unit_price,
					gross_pay,
					tax_amount,
					net_pay,
					primary_site_id,
					status,
					saved_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
				ON CONFLICT (settlement_key) DO UPDATE SET
					total_man_day = EXCLUDED.total_man_day,
					unit_price = EXCLUDED.unit_price,
					gross_pay = EXCLUDED.gross_pay,
					tax_amount = EXCLUDED.tax_amount,
					net_pay = EXCLUDED.net_pay,
					primary_site_id = EXCLUDED.primary_site_id,
					status = EXCLUDED.status,
					saved_at = NOW()
			`,
				entry.Key(),
				entry.WorkerID,
				entry.TeamID,
				entry.Month,
				entry.TotalManDay,
				entry.UnitPrice,
				entry.GrossPay,
				entry.TaxAmount,
				entry.NetPay,
				primarySite,
				entry.Status,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteMonth drops every persisted entry for team+month, including rows for
// workers no longer on the roster.
func (r *SettlementRepository) DeleteMonth(ctx context.Context, teamID uuid.UUID, month string) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM settlements WHERE team_id = ? AND month = ?
	`, teamID, month).Error
}

func (r *SettlementRepository) UpdateStatus(ctx context.Context, workerID uuid.UUID, month string, status model.SettlementStatus) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE settlements
		SET status = ?
		WHERE settlement_key = ?
	`, status, fmt.Sprintf("%s_%s", workerID, month))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
