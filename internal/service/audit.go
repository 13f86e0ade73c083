package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/parkjunho/labor-settlement/internal/model"
	"github.com/parkjunho/labor-settlement/internal/repository"
)

// auditRecorder appends audit entries best-effort: a failed append is logged,
// never turned into an operation failure.
type auditRecorder struct {
	repo *repository.AuditRepository
	log  zerolog.Logger
}

func (a *auditRecorder) record(ctx context.Context, principal model.Principal, category model.AuditCategory, action, target string, detail map[string]any) {
	if a.repo == nil {
		return
	}
	entry := model.AuditLog{
		Actor:    principal.Name,
		Action:   action,
		Category: category,
		Target:   target,
		Detail:   detail,
	}
	if entry.Actor == "" {
		entry.Actor = principal.UserID.String()
	}
	if err := a.repo.Append(ctx, entry); err != nil {
		a.log.Warn().Err(err).Str("action", action).Msg("audit append failed")
	}
}

type AuditService struct {
	repo *repository.AuditRepository
}

func NewAuditService(repo *repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// List is read-only and admin-only; there is no update or delete path.
func (s *AuditService) List(ctx context.Context, principal model.Principal, category string, month string, limit int) ([]model.AuditLog, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	var from, to time.Time
	if month != "" {
		var err error
		from, to, err = MonthRange(month)
		if err != nil {
			return nil, err
		}
	} else {
		to = time.Now().UTC().Add(24 * time.Hour)
		from = to.AddDate(-1, 0, 0)
	}

	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	return s.repo.List(ctx, category, from, to, limit)
}
