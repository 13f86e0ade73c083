package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/parkjunho/labor-settlement/internal/config"
	"github.com/parkjunho/labor-settlement/internal/model"
	"github.com/parkjunho/labor-settlement/internal/repository"
)

// Persistence surfaces the settlement flow consumes, satisfied by the
// repository types.
type rosterStore interface {
	GetWorker(ctx context.Context, id uuid.UUID) (*model.Worker, error)
	ListWorkersByTeam(ctx context.Context, teamID uuid.UUID) ([]model.Worker, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*model.Team, error)
	ListTeams(ctx context.Context) ([]model.Team, error)
	GetSite(ctx context.Context, id uuid.UUID) (*model.Site, error)
	ListSites(ctx context.Context) ([]model.Site, error)
}

type workRecordStore interface {
	ListWorkRecords(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]model.WorkRecord, error)
}

type settlementStore interface {
	ListSaved(ctx context.Context, teamID uuid.UUID, month string) ([]model.SettlementEntry, error)
	UpsertBatch(ctx context.Context, entries []model.SettlementEntry) error
	DeleteMonth(ctx context.Context, teamID uuid.UUID, month string) error
	UpdateStatus(ctx context.Context, workerID uuid.UUID, month string, status model.SettlementStatus) error
}

type advanceStore interface {
	ListDeductionItems(ctx context.Context) ([]model.DeductionItem, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID, month string) ([]model.AdvancePayment, error)
	Get(ctx context.Context, workerID uuid.UUID, month string) (*model.AdvancePayment, error)
}

type SettlementExporter interface {
	GenerateSettlement(book model.SettlementBook) ([]byte, error)
}

type PayslipGenerator interface {
	Generate(payslip model.Payslip) ([]byte, error)
}

type GenerateFileResult struct {
	FileName string
	Content  []byte
}

type SettlementService struct {
	roster      rosterStore
	reports     workRecordStore
	settlements settlementStore
	advances    advanceStore
	excel       SettlementExporter
	payslip     PayslipGenerator
	audit       auditRecorder
	batchSize   int
}

func NewSettlementService(
	roster rosterStore,
	reports workRecordStore,
	settlements settlementStore,
	advances advanceStore,
	auditRepo *repository.AuditRepository,
	excel SettlementExporter,
	payslip PayslipGenerator,
	cfg *config.Config,
	log zerolog.Logger,
) *SettlementService {
	return &SettlementService{
		roster:      roster,
		reports:     reports,
		settlements: settlements,
		advances:    advances,
		excel:       excel,
		payslip:     payslip,
		audit:       auditRecorder{repo: auditRepo, log: log},
		batchSize:   cfg.Settlement.SaveBatchSize,
	}
}

// Get returns the team's settlement for the month. Entries already persisted
// shadow live computation: they come back verbatim with Source = SAVED, and
// only an explicit Recompute replaces them. A month never saved is computed
// live from the daily reports.
func (s *SettlementService) Get(ctx context.Context, teamID uuid.UUID, month string) (*model.SettlementResult, error) {
	if teamID == uuid.Nil {
		return nil, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if _, _, err := MonthRange(month); err != nil {
		return nil, err
	}
	if _, err := s.roster.GetTeam(ctx, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	saved, err := s.settlements.ListSaved(ctx, teamID, month)
	if err != nil {
		return nil, err
	}
	if len(saved) > 0 {
		return &model.SettlementResult{
			TeamID:  teamID,
			Month:   month,
			Source:  model.SettlementSourceSaved,
			Entries: saved,
		}, nil
	}

	entries, err := s.computeLive(ctx, teamID, month)
	if err != nil {
		return nil, err
	}
	return &model.SettlementResult{
		TeamID:  teamID,
		Month:   month,
		Source:  model.SettlementSourceLive,
		Entries: entries,
	}, nil
}

func (s *SettlementService) computeLive(ctx context.Context, teamID uuid.UUID, month string) ([]model.SettlementEntry, error) {
	from, to, err := MonthRange(month)
	if err != nil {
		return nil, err
	}
	workers, err := s.roster.ListWorkersByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	records, err := s.reports.ListWorkRecords(ctx, teamID, from, to)
	if err != nil {
		return nil, err
	}
	return AggregateSettlements(teamID, month, workers, records), nil
}

// Save persists the given entries as the month's settlement of record. Saving
// is the approval gate: once saved, later report edits do not leak into the
// settlement until someone recomputes deliberately. Every entry must satisfy
// the withholding arithmetic, so a persisted month can never serve amounts
// the aggregation would not produce.
func (s *SettlementService) Save(ctx context.Context, principal model.Principal, teamID uuid.UUID, month string, entries []model.SettlementEntry) error {
	if !principal.CanManage(teamID) {
		return ErrPermissionDenied
	}
	if _, _, err := MonthRange(month); err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: no entries to save", ErrInvalidInput)
	}
	for i := range entries {
		if entries[i].WorkerID == uuid.Nil {
			return fmt.Errorf("%w: entry %d has no worker", ErrInvalidInput, i)
		}
		if entries[i].TaxAmount != TaxFor(entries[i].GrossPay) {
			return fmt.Errorf("%w: entry %d tax amount does not match the 3.3%% withholding", ErrInvalidInput, i)
		}
		if entries[i].NetPay != entries[i].GrossPay-entries[i].TaxAmount {
			return fmt.Errorf("%w: entry %d net pay does not match gross minus tax", ErrInvalidInput, i)
		}
		entries[i].TeamID = teamID
		entries[i].Month = month
		switch entries[i].Status {
		case "":
			entries[i].Status = model.SettlementStatusPending
		case model.SettlementStatusPending, model.SettlementStatusConfirmed, model.SettlementStatusPaid:
		default:
			return fmt.Errorf("%w: entry %d has unknown status %q", ErrInvalidInput, i, entries[i].Status)
		}
	}

	if err := s.saveBatched(ctx, entries); err != nil {
		return err
	}
	s.audit.record(ctx, principal, model.AuditCategorySettlement, "save", fmt.Sprintf("%s/%s", teamID, month),
		map[string]any{"entries": len(entries)})
	return nil
}

// saveBatched submits entries in sequential transactions of batchSize. A
// failing batch leaves earlier batches committed; the error names the batch so
// the caller can tell how far the save got.
func (s *SettlementService) saveBatched(ctx context.Context, entries []model.SettlementEntry) error {
	total := (len(entries) + s.batchSize - 1) / s.batchSize
	for start := 0; start < len(entries); start += s.batchSize {
		end := start + s.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := s.settlements.UpsertBatch(ctx, entries[start:end]); err != nil {
			return fmt.Errorf("settlement save batch %d/%d failed: %w", start/s.batchSize+1, total, err)
		}
	}
	return nil
}

// Recompute discards the saved shadow for team+month: the month's persisted
// rows are deleted first, so entries for workers no longer on the roster drop
// out instead of lingering next to the recomputed set, then the live
// aggregation is saved as the new shadow.
func (s *SettlementService) Recompute(ctx context.Context, principal model.Principal, teamID uuid.UUID, month string) (*model.SettlementResult, error) {
	if !principal.CanManage(teamID) {
		return nil, ErrPermissionDenied
	}
	entries, err := s.computeLive(ctx, teamID, month)
	if err != nil {
		return nil, err
	}
	if err := s.settlements.DeleteMonth(ctx, teamID, month); err != nil {
		return nil, err
	}
	if err := s.saveBatched(ctx, entries); err != nil {
		return nil, err
	}
	s.audit.record(ctx, principal, model.AuditCategorySettlement, "recompute", fmt.Sprintf("%s/%s", teamID, month),
		map[string]any{"entries": len(entries)})
	return &model.SettlementResult{
		TeamID:  teamID,
		Month:   month,
		Source:  model.SettlementSourceSaved,
		Entries: entries,
	}, nil
}

// GetAll fans out one aggregation per team. Requests run unordered in
// parallel; the first failure cancels the rest and rejects the whole call.
// Results come back sorted by team name for stable output.
func (s *SettlementService) GetAll(ctx context.Context, month string) ([]model.SettlementResult, error) {
	if _, _, err := MonthRange(month); err != nil {
		return nil, err
	}
	teams, err := s.roster.ListTeams(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	results := make(map[uuid.UUID]*model.SettlementResult, len(teams))

	group, groupCtx := errgroup.WithContext(ctx)
	for _, team := range teams {
		group.Go(func() error {
			result, err := s.Get(groupCtx, team.ID, month)
			if err != nil {
				return err
			}
			mu.Lock()
			results[team.ID] = result
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	ordered := make([]model.SettlementResult, 0, len(teams))
	for _, team := range teams {
		if result, ok := results[team.ID]; ok {
			ordered = append(ordered, *result)
		}
	}
	return ordered, nil
}

func (s *SettlementService) UpdateStatus(ctx context.Context, principal model.Principal, workerID uuid.UUID, month string, status model.SettlementStatus) error {
	switch status {
	case model.SettlementStatusPending, model.SettlementStatusConfirmed, model.SettlementStatusPaid:
	default:
		return fmt.Errorf("%w: unknown settlement status", ErrInvalidInput)
	}
	worker, err := s.roster.GetWorker(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !principal.CanManage(worker.TeamID) {
		return ErrPermissionDenied
	}
	if err := s.settlements.UpdateStatus(ctx, workerID, month, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.audit.record(ctx, principal, model.AuditCategorySettlement, "status", fmt.Sprintf("%s/%s", workerID, month),
		map[string]any{"status": string(status)})
	return nil
}

// ExportExcel renders the team's month as a workbook, deduction totals
// included so the sheet shows the actual payout balance.
func (s *SettlementService) ExportExcel(ctx context.Context, teamID uuid.UUID, month string) (*GenerateFileResult, error) {
	result, err := s.Get(ctx, teamID, month)
	if err != nil {
		return nil, err
	}
	team, err := s.roster.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	book := model.SettlementBook{
		TeamName:   team.Name,
		Month:      month,
		Source:     result.Source,
		Entries:    result.Entries,
		SiteNames:  map[uuid.UUID]string{},
		Deductions: map[uuid.UUID]int64{},
	}

	sites, err := s.roster.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	for _, site := range sites {
		book.SiteNames[site.ID] = site.Name
	}

	catalog, err := s.advances.ListDeductionItems(ctx)
	if err != nil {
		return nil, err
	}
	advances, err := s.advances.ListByTeam(ctx, teamID, month)
	if err != nil {
		return nil, err
	}
	for _, advance := range advances {
		book.Deductions[advance.WorkerID] = DeductionTotal(advance.Values, catalog)
	}

	content, err := s.excel.GenerateSettlement(book)
	if err != nil {
		return nil, err
	}
	fileName := fmt.Sprintf("settlement-%s-%s.xlsx", sanitizeFileName(team.Name), month)
	return &GenerateFileResult{FileName: fileName, Content: content}, nil
}

// Payslip renders one worker's month as a PDF, using the same saved-shadow
// rule as Get so the slip matches what the team screen shows.
func (s *SettlementService) Payslip(ctx context.Context, principal model.Principal, workerID uuid.UUID, month string) (*GenerateFileResult, error) {
	worker, err := s.roster.GetWorker(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsWorker() && principal.UserID != workerID {
		return nil, ErrPermissionDenied
	}

	result, err := s.Get(ctx, worker.TeamID, month)
	if err != nil {
		return nil, err
	}
	var entry *model.SettlementEntry
	for i := range result.Entries {
		if result.Entries[i].WorkerID == workerID {
			entry = &result.Entries[i]
			break
		}
	}
	if entry == nil {
		return nil, ErrNotFound
	}

	team, err := s.roster.GetTeam(ctx, worker.TeamID)
	if err != nil {
		return nil, err
	}

	payslip := model.Payslip{
		WorkerName: worker.Name,
		TeamName:   team.Name,
		Month:      month,
		Entry:      *entry,
	}
	if entry.PrimarySiteID != uuid.Nil {
		if site, err := s.roster.GetSite(ctx, entry.PrimarySiteID); err == nil {
			payslip.PrimarySiteName = site.Name
		}
	}

	catalog, err := s.advances.ListDeductionItems(ctx)
	if err != nil {
		return nil, err
	}
	advance, err := s.advances.Get(ctx, workerID, month)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if advance != nil {
		payslip.Lines = DeductionLines(advance.Values, catalog)
		payslip.TotalDeduction = DeductionTotal(advance.Values, catalog)
	}
	payslip.Balance = entry.NetPay - payslip.TotalDeduction

	content, err := s.payslip.Generate(payslip)
	if err != nil {
		return nil, err
	}
	fileName := fmt.Sprintf("payslip-%s-%s.pdf", sanitizeFileName(worker.Name), month)
	return &GenerateFileResult{FileName: fileName, Content: content}, nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		case r >= 0xAC00 && r <= 0xD7A3: // Hangul syllables stay readable in file names
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
