package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/parkjunho/labor-settlement/internal/config"
	"github.com/parkjunho/labor-settlement/internal/model"
)

type fakeRoster struct {
	teams   []model.Team
	workers map[uuid.UUID][]model.Worker
	sites   []model.Site
}

func (f *fakeRoster) GetWorker(_ context.Context, id uuid.UUID) (*model.Worker, error) {
	for _, list := range f.workers {
		for _, w := range list {
			if w.ID == id {
				worker := w
				return &worker, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoster) ListWorkersByTeam(_ context.Context, teamID uuid.UUID) ([]model.Worker, error) {
	return f.workers[teamID], nil
}

func (f *fakeRoster) GetTeam(_ context.Context, id uuid.UUID) (*model.Team, error) {
	for _, t := range f.teams {
		if t.ID == id {
			team := t
			return &team, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoster) ListTeams(_ context.Context) ([]model.Team, error) { return f.teams, nil }

func (f *fakeRoster) GetSite(_ context.Context, id uuid.UUID) (*model.Site, error) {
	for _, s := range f.sites {
		if s.ID == id {
			site := s
			return &site, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoster) ListSites(_ context.Context) ([]model.Site, error) { return f.sites, nil }

type fakeReports struct {
	records map[uuid.UUID][]model.WorkRecord
}

func (f *fakeReports) ListWorkRecords(_ context.Context, teamID uuid.UUID, _, _ time.Time) ([]model.WorkRecord, error) {
	return f.records[teamID], nil
}

type fakeSettlements struct {
	saved       map[string][]model.SettlementEntry
	batches     [][]model.SettlementEntry
	deletes     []string
	failOnBatch int // 1-based batch index that fails, 0 = never
}

func newFakeSettlements() *fakeSettlements {
	return &fakeSettlements{saved: map[string][]model.SettlementEntry{}}
}

func savedKey(teamID uuid.UUID, month string) string {
	return teamID.String() + "/" + month
}

func (f *fakeSettlements) ListSaved(_ context.Context, teamID uuid.UUID, month string) ([]model.SettlementEntry, error) {
	return f.saved[savedKey(teamID, month)], nil
}

func (f *fakeSettlements) UpsertBatch(_ context.Context, entries []model.SettlementEntry) error {
	if f.failOnBatch > 0 && len(f.batches)+1 >= f.failOnBatch {
		return errors.New("deadlock detected")
	}
	f.batches = append(f.batches, entries)
	for _, entry := range entries {
		key := savedKey(entry.TeamID, entry.Month)
		replaced := false
		for i := range f.saved[key] {
			if f.saved[key][i].WorkerID == entry.WorkerID {
				f.saved[key][i] = entry
				replaced = true
			}
		}
		if !replaced {
			f.saved[key] = append(f.saved[key], entry)
		}
	}
	return nil
}

func (f *fakeSettlements) DeleteMonth(_ context.Context, teamID uuid.UUID, month string) error {
	key := savedKey(teamID, month)
	f.deletes = append(f.deletes, key)
	delete(f.saved, key)
	return nil
}

func (f *fakeSettlements) UpdateStatus(_ context.Context, workerID uuid.UUID, month string, status model.SettlementStatus) error {
	for key := range f.saved {
		for i := range f.saved[key] {
			if f.saved[key][i].WorkerID == workerID && f.saved[key][i].Month == month {
				f.saved[key][i].Status = status
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func newSettlementFixture(batchSize int) (*SettlementService, *fakeRoster, *fakeReports, *fakeSettlements) {
	roster := &fakeRoster{workers: map[uuid.UUID][]model.Worker{}}
	reports := &fakeReports{records: map[uuid.UUID][]model.WorkRecord{}}
	settlements := newFakeSettlements()
	cfg := &config.Config{Settlement: config.SettlementConfig{SaveBatchSize: batchSize}}
	svc := NewSettlementService(roster, reports, settlements, &fakeAdvanceStore{}, nil, nil, nil, cfg, zerolog.Nop())
	return svc, roster, reports, settlements
}

func TestGetComputesLiveWhenNothingSaved(t *testing.T) {
	svc, roster, reports, _ := newSettlementFixture(450)
	teamID := uuid.New()
	siteID := uuid.New()
	worker := model.Worker{ID: uuid.New(), Name: "김철수", TeamID: teamID, UnitPrice: 150000}
	roster.teams = []model.Team{{ID: teamID, Name: "철근A팀"}}
	roster.workers[teamID] = []model.Worker{worker}
	reports.records[teamID] = []model.WorkRecord{
		{SiteID: siteID, TeamID: teamID, WorkerID: worker.ID, ManDay: md("2.0")},
	}

	result, err := svc.Get(context.Background(), teamID, "2024-05")
	require.NoError(t, err)
	assert.Equal(t, model.SettlementSourceLive, result.Source)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, int64(300000), result.Entries[0].GrossPay)
}

func TestSavedEntriesShadowReportEdits(t *testing.T) {
	svc, roster, reports, _ := newSettlementFixture(450)
	teamID := uuid.New()
	siteID := uuid.New()
	worker := model.Worker{ID: uuid.New(), Name: "김철수", TeamID: teamID, UnitPrice: 150000}
	roster.teams = []model.Team{{ID: teamID, Name: "철근A팀"}}
	roster.workers[teamID] = []model.Worker{worker}
	reports.records[teamID] = []model.WorkRecord{
		{SiteID: siteID, TeamID: teamID, WorkerID: worker.ID, ManDay: md("2.0")},
	}
	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	ctx := context.Background()

	live, err := svc.Get(ctx, teamID, "2024-05")
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, admin, teamID, "2024-05", live.Entries))

	// a report edit after the save
	reports.records[teamID] = []model.WorkRecord{
		{SiteID: siteID, TeamID: teamID, WorkerID: worker.ID, ManDay: md("5.0")},
	}

	got, err := svc.Get(ctx, teamID, "2024-05")
	require.NoError(t, err)
	assert.Equal(t, model.SettlementSourceSaved, got.Source)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, int64(300000), got.Entries[0].GrossPay, "the saved month is served verbatim")

	// only an explicit recompute picks up the edit
	recomputed, err := svc.Recompute(ctx, admin, teamID, "2024-05")
	require.NoError(t, err)
	assert.Equal(t, model.SettlementSourceSaved, recomputed.Source)
	require.Len(t, recomputed.Entries, 1)
	assert.Equal(t, int64(750000), recomputed.Entries[0].GrossPay)

	got, err = svc.Get(ctx, teamID, "2024-05")
	require.NoError(t, err)
	assert.Equal(t, int64(750000), got.Entries[0].GrossPay)
}

func TestRecomputeDropsDepartedWorkers(t *testing.T) {
	svc, roster, reports, settlements := newSettlementFixture(450)
	teamID := uuid.New()
	siteID := uuid.New()
	current := model.Worker{ID: uuid.New(), Name: "이영희", TeamID: teamID, UnitPrice: 150000}
	roster.teams = []model.Team{{ID: teamID, Name: "철근A팀"}}
	roster.workers[teamID] = []model.Worker{current}
	reports.records[teamID] = []model.WorkRecord{
		{SiteID: siteID, TeamID: teamID, WorkerID: current.ID, ManDay: md("1.0")},
	}

	departed := uuid.New()
	settlements.saved[savedKey(teamID, "2024-05")] = []model.SettlementEntry{
		{WorkerID: departed, TeamID: teamID, Month: "2024-05", GrossPay: 100000, TaxAmount: 3300, NetPay: 96700, Status: model.SettlementStatusPending},
	}

	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	result, err := svc.Recompute(context.Background(), admin, teamID, "2024-05")
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, current.ID, result.Entries[0].WorkerID)

	saved, err := settlements.ListSaved(context.Background(), teamID, "2024-05")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, current.ID, saved[0].WorkerID, "the departed worker's stale row is gone")
	assert.Len(t, settlements.deletes, 1)
}

func TestSaveRejectsTaxMismatch(t *testing.T) {
	svc, _, _, settlements := newSettlementFixture(450)
	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}

	entries := []model.SettlementEntry{
		{WorkerID: uuid.New(), GrossPay: 230000, TaxAmount: 0, NetPay: 230000},
	}
	err := svc.Save(context.Background(), admin, uuid.New(), "2024-05", entries)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, settlements.batches, "nothing reaches the store")
}

func TestSaveRejectsUnknownStatus(t *testing.T) {
	svc, _, _, settlements := newSettlementFixture(450)
	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}

	entries := []model.SettlementEntry{
		{WorkerID: uuid.New(), GrossPay: 230000, TaxAmount: 7590, NetPay: 222410, Status: "APPROVED"},
	}
	err := svc.Save(context.Background(), admin, uuid.New(), "2024-05", entries)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, settlements.batches)
}

func TestSaveDefaultsStatusToPending(t *testing.T) {
	svc, _, _, settlements := newSettlementFixture(450)
	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	teamID := uuid.New()

	entries := []model.SettlementEntry{
		{WorkerID: uuid.New(), GrossPay: 230000, TaxAmount: 7590, NetPay: 222410},
	}
	require.NoError(t, svc.Save(context.Background(), admin, teamID, "2024-05", entries))

	saved, err := settlements.ListSaved(context.Background(), teamID, "2024-05")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, model.SettlementStatusPending, saved[0].Status)
}

func TestSaveBatchFailureNamesBatch(t *testing.T) {
	svc, _, _, settlements := newSettlementFixture(1)
	settlements.failOnBatch = 3
	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}

	entries := []model.SettlementEntry{
		{WorkerID: uuid.New(), GrossPay: 100000, TaxAmount: 3300, NetPay: 96700},
		{WorkerID: uuid.New(), GrossPay: 100000, TaxAmount: 3300, NetPay: 96700},
		{WorkerID: uuid.New(), GrossPay: 100000, TaxAmount: 3300, NetPay: 96700},
	}
	err := svc.Save(context.Background(), admin, uuid.New(), "2024-05", entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settlement save batch 3/3 failed")
	assert.Len(t, settlements.batches, 2, "earlier batches stay committed")
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "철근A팀", want: "철근A팀"},
		{input: "team/1", want: "team-1"},
		{input: "  김 철수  ", want: "김-철수"},
		{input: "a_b-c", want: "a_b-c"},
		{input: "///", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFileName(tt.input), "input %q", tt.input)
	}
}
