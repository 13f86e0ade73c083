package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkjunho/labor-settlement/internal/model"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, entry model.AuditLog) error {
	detail := entry.Detail
	if detail == nil {
		detail = map[string]any{}
	}
	payload, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO audit_logs (actor, action, category, target, detail)
		VALUES (?, ?, ?, ?, ?)
	`, entry.Actor, entry.Action, entry.Category, entry.Target, payload).Error
}

type auditRow struct {
	ID        uuid.UUID
	Actor     string
	Action    string
	Category  string
	Target    string
	Detail    []byte
	CreatedAt time.Time
}

func (r *AuditRepository) List(ctx context.Context, category string, from, to time.Time, limit int) ([]model.AuditLog, error) {
	baseQuery := `
		SELECT id, actor, action, category, target, detail, created_at
		FROM audit_logs
		WHERE created_at >= ? AND created_at < ?
	`
	args := []interface{}{from, to}
	if category != "" {
		baseQuery += " AND category = ?"
		args = append(args, category)
	}
	baseQuery += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	var rows []auditRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	logs := make([]model.AuditLog, 0, len(rows))
	for _, row := range rows {
		detail := map[string]any{}
		if len(row.Detail) > 0 {
			if err := json.Unmarshal(row.Detail, &detail); err != nil {
				return nil, err
			}
		}
		logs = append(logs, model.AuditLog{
			ID:        row.ID,
			Actor:     row.Actor,
			Action:    row.Action,
			Category:  model.AuditCategory(row.Category),
			Target:    row.Target,
			Detail:    detail,
			CreatedAt: row.CreatedAt,
		})
	}
	return logs, nil
}
