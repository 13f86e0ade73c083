package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/parkjunho/labor-settlement/internal/model"
	"github.com/parkjunho/labor-settlement/internal/repository"
)

// DeductionTotal sums a worker's stored values over the active catalog items.
// Legacy keys predating the catalog count whenever no catalog item claims the
// same id; values under inactive or deleted items stay stored but contribute
// nothing.
func DeductionTotal(values map[string]int64, catalog []model.DeductionItem) int64 {
	claimed := make(map[string]struct{}, len(catalog))
	var total int64
	for _, item := range catalog {
		claimed[item.ID] = struct{}{}
		if item.Active {
			total += values[item.ID]
		}
	}
	for _, key := range model.LegacyDeductionKeys {
		if _, ok := claimed[key]; !ok {
			total += values[key]
		}
	}
	return total
}

// DeductionLines expands a worker's values into labelled lines in catalog
// order, active items only, zero-amount lines skipped.
func DeductionLines(values map[string]int64, catalog []model.DeductionItem) []model.PayslipLine {
	var lines []model.PayslipLine
	for _, item := range catalog {
		if !item.Active {
			continue
		}
		if amount := values[item.ID]; amount != 0 {
			lines = append(lines, model.PayslipLine{Label: item.Label, Amount: amount})
		}
	}
	claimed := make(map[string]struct{}, len(catalog))
	for _, item := range catalog {
		claimed[item.ID] = struct{}{}
	}
	for _, key := range model.LegacyDeductionKeys {
		if _, ok := claimed[key]; ok {
			continue
		}
		if amount := values[key]; amount != 0 {
			lines = append(lines, model.PayslipLine{Label: key, Amount: amount})
		}
	}
	return lines
}

type AdvanceLedger struct {
	Advance model.AdvancePayment
	Total   int64
}

// advanceLedgerStore is the full ledger surface, reads plus catalog writes,
// satisfied by the advance repository.
type advanceLedgerStore interface {
	advanceStore
	Upsert(ctx context.Context, advance model.AdvancePayment) error
	CreateDeductionItem(ctx context.Context, item model.DeductionItem) error
	RenameDeductionItem(ctx context.Context, id, label string) error
	SetDeductionItemActive(ctx context.Context, id string, active bool) error
	DeleteDeductionItem(ctx context.Context, id string) error
}

type AdvanceService struct {
	advances advanceLedgerStore
	roster   rosterStore
	audit    auditRecorder
}

func NewAdvanceService(
	advances advanceLedgerStore,
	roster rosterStore,
	auditRepo *repository.AuditRepository,
	log zerolog.Logger,
) *AdvanceService {
	return &AdvanceService{
		advances: advances,
		roster:   roster,
		audit:    auditRecorder{repo: auditRepo, log: log},
	}
}

// ListForTeam returns the team's advance records for the month with totals
// computed against the current catalog. Totals are never stored
// pre-aggregated; catalog changes apply retroactively on the next read.
func (s *AdvanceService) ListForTeam(ctx context.Context, teamID uuid.UUID, month string) ([]AdvanceLedger, int64, error) {
	if teamID == uuid.Nil {
		return nil, 0, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if _, _, err := MonthRange(month); err != nil {
		return nil, 0, err
	}

	catalog, err := s.advances.ListDeductionItems(ctx)
	if err != nil {
		return nil, 0, err
	}
	advances, err := s.advances.ListByTeam(ctx, teamID, month)
	if err != nil {
		return nil, 0, err
	}

	ledgers := make([]AdvanceLedger, 0, len(advances))
	var grandTotal int64
	for _, advance := range advances {
		total := DeductionTotal(advance.Values, catalog)
		ledgers = append(ledgers, AdvanceLedger{Advance: advance, Total: total})
		grandTotal += total
	}
	return ledgers, grandTotal, nil
}

func (s *AdvanceService) Upsert(ctx context.Context, principal model.Principal, advance model.AdvancePayment) error {
	if advance.WorkerID == uuid.Nil {
		return fmt.Errorf("%w: worker_id is required", ErrInvalidInput)
	}
	if _, _, err := MonthRange(advance.Month); err != nil {
		return err
	}
	worker, err := s.roster.GetWorker(ctx, advance.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !principal.CanManage(worker.TeamID) {
		return ErrPermissionDenied
	}
	advance.TeamID = worker.TeamID
	for key, amount := range advance.Values {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: empty deduction key", ErrInvalidInput)
		}
		if amount < 0 {
			return fmt.Errorf("%w: deduction %q is negative", ErrInvalidInput, key)
		}
	}

	if err := s.advances.Upsert(ctx, advance); err != nil {
		return err
	}
	s.audit.record(ctx, principal, model.AuditCategoryAdvance, "upsert", fmt.Sprintf("%s/%s", advance.WorkerID, advance.Month), nil)
	return nil
}

func (s *AdvanceService) Catalog(ctx context.Context) ([]model.DeductionItem, error) {
	return s.advances.ListDeductionItems(ctx)
}

var deductionItemID = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

func (s *AdvanceService) AddItem(ctx context.Context, principal model.Principal, item model.DeductionItem) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	item.ID = strings.TrimSpace(item.ID)
	item.Label = strings.TrimSpace(item.Label)
	if !deductionItemID.MatchString(item.ID) {
		return fmt.Errorf("%w: item id must be a lowercase slug", ErrInvalidInput)
	}
	if item.Label == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidInput)
	}

	existing, err := s.advances.ListDeductionItems(ctx)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID == item.ID {
			return fmt.Errorf("%w: %s", ErrCatalogItemInUse, item.ID)
		}
	}

	if err := s.advances.CreateDeductionItem(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrCatalogItemInUse, item.ID)
		}
		return err
	}
	s.audit.record(ctx, principal, model.AuditCategoryCatalog, "add", item.ID, map[string]any{"label": item.Label})
	return nil
}

func (s *AdvanceService) RenameItem(ctx context.Context, principal model.Principal, id, label string) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidInput)
	}
	if err := s.advances.RenameDeductionItem(ctx, id, label); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.audit.record(ctx, principal, model.AuditCategoryCatalog, "rename", id, map[string]any{"label": label})
	return nil
}

func (s *AdvanceService) ToggleItem(ctx context.Context, principal model.Principal, id string, active bool) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	if err := s.advances.SetDeductionItemActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.audit.record(ctx, principal, model.AuditCategoryCatalog, "toggle", id, map[string]any{"active": active})
	return nil
}

// DeleteItem removes the catalog entry only; stored per-worker values under
// the id survive and simply stop counting.
func (s *AdvanceService) DeleteItem(ctx context.Context, principal model.Principal, id string) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	if err := s.advances.DeleteDeductionItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.audit.record(ctx, principal, model.AuditCategoryCatalog, "delete", id, nil)
	return nil
}
