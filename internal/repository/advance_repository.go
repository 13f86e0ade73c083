package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/parkjunho/labor-settlement/internal/model"
)

type AdvanceRepository struct {
	db *gorm.DB
}

func NewAdvanceRepository(db *gorm.DB) *AdvanceRepository {
	return &AdvanceRepository{db: db}
}

type advanceRow struct {
	WorkerID   uuid.UUID
	TeamID     uuid.UUID
	Month      string
	ValuesJSON []byte
	Memo       string
	UpdatedAt  time.Time
}

func (row advanceRow) toModel() (model.AdvancePayment, error) {
	values := map[string]int64{}
	if len(row.ValuesJSON) > 0 {
		if err := json.Unmarshal(row.ValuesJSON, &values); err != nil {
			return model.AdvancePayment{}, err
		}
	}
	return model.AdvancePayment{
		WorkerID:  row.WorkerID,
		TeamID:    row.TeamID,
		Month:     row.Month,
		Values:    values,
		Memo:      row.Memo,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *AdvanceRepository) ListByTeam(ctx context.Context, teamID uuid.UUID, month string) ([]model.AdvancePayment, error) {
	var rows []advanceRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT a.worker_id, a.team_id, a.month, a.values_json, a.memo, a.updated_at
		FROM advances a
		JOIN workers w ON w.id = a.worker_id
		WHERE a.team_id = ? AND a.month = ?
		ORDER BY w.name ASC, a.worker_id ASC
	`, teamID, month).Scan(&rows).Error; err != nil {
		return nil, err
	}

	advances := make([]model.AdvancePayment, 0, len(rows))
	for _, row := range rows {
		advance, err := row.toModel()
		if err != nil {
			return nil, err
		}
		advances = append(advances, advance)
	}
	return advances, nil
}

func (r *AdvanceRepository) Get(ctx context.Context, workerID uuid.UUID, month string) (*model.AdvancePayment, error) {
	var row advanceRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT worker_id, team_id, month, values_json, memo, updated_at
		FROM advances
		WHERE worker_id = ? AND month = ?
		LIMIT 1
	`, workerID, month).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.WorkerID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	advance, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &advance, nil
}

func (r *AdvanceRepository) Upsert(ctx context.Context, advance model.AdvancePayment) error {
	values, err := json.Marshal(advance.Values)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO advances (worker_id, team_id, month, values_json, memo, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW())
		ON CONFLICT (worker_id, month) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			values_json = EXCLUDED.values_json,
			memo = EXCLUDED.memo,
			updated_at = NOW()
	`, advance.WorkerID, advance.TeamID, advance.Month, values, advance.Memo).Error
}

func (r *AdvanceRepository) ListDeductionItems(ctx context.Context) ([]model.DeductionItem, error) {
	var items []model.DeductionItem
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, label, sort_order, active
		FROM deduction_items
		ORDER BY sort_order ASC, id ASC
	`).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateDeductionItem reports a concurrent insert of the same id as
// gorm.ErrDuplicatedKey so callers can treat it like any other duplicate.
func (r *AdvanceRepository) CreateDeductionItem(ctx context.Context, item model.DeductionItem) error {
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO deduction_items (id, label, sort_order, active)
		VALUES (?, ?, ?, ?)
	`, item.ID, item.Label, item.SortOrder, item.Active).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return gorm.ErrDuplicatedKey
	}
	return err
}

func (r *AdvanceRepository) RenameDeductionItem(ctx context.Context, id, label string) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE deduction_items SET label = ? WHERE id = ?
	`, label, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AdvanceRepository) SetDeductionItemActive(ctx context.Context, id string, active bool) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE deduction_items SET active = ? WHERE id = ?
	`, active, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteDeductionItem removes the catalog row only. Historical per-worker
// values stored under the item id stay in place; they simply stop counting
// toward totals.
func (r *AdvanceRepository) DeleteDeductionItem(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM deduction_items WHERE id = ?
	`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
