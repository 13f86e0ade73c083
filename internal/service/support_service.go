package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parkjunho/labor-settlement/internal/model"
	"github.com/parkjunho/labor-settlement/internal/repository"
)

type SupportExporter interface {
	GenerateSupportMatrix(matrix model.SupportMatrix) ([]byte, error)
}

// BuildSupportMatrix classifies every record by company-id equality and folds
// it into a team x site matrix. Classification is derived from the current
// team/site company assignment alone; no stored flag is consulted, so the
// matrix always reflects today's assignments. Row totals equal the sum of the
// row's cells by construction.
func BuildSupportMatrix(month string, records []model.SupportRecord) model.SupportMatrix {
	type cellKey struct {
		teamID uuid.UUID
		siteID uuid.UUID
	}

	cellManDays := make(map[cellKey]decimal.Decimal)
	teamOrder := make([]uuid.UUID, 0)
	teamNames := make(map[uuid.UUID]string)
	teamRates := make(map[uuid.UUID]int64)
	siteSeen := make(map[uuid.UUID]model.SupportSite)

	for i := range records {
		rec := &records[i]
		rec.External = rec.TeamCompanyID != rec.SiteCompanyID

		key := cellKey{teamID: rec.TeamID, siteID: rec.SiteID}
		cellManDays[key] = cellManDays[key].Add(rec.ManDay)

		if _, ok := teamNames[rec.TeamID]; !ok {
			teamOrder = append(teamOrder, rec.TeamID)
			teamNames[rec.TeamID] = rec.TeamName
			teamRates[rec.TeamID] = rec.SupportRate
		}
		if _, ok := siteSeen[rec.SiteID]; !ok {
			siteSeen[rec.SiteID] = model.SupportSite{
				SiteID:      rec.SiteID,
				SiteName:    rec.SiteName,
				CompanyName: rec.SiteCompanyName,
			}
		}
	}

	sites := make([]model.SupportSite, 0, len(siteSeen))
	for _, site := range siteSeen {
		sites = append(sites, site)
	}
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].CompanyName != sites[j].CompanyName {
			return sites[i].CompanyName < sites[j].CompanyName
		}
		return sites[i].SiteName < sites[j].SiteName
	})

	sort.Slice(teamOrder, func(i, j int) bool {
		return teamNames[teamOrder[i]] < teamNames[teamOrder[j]]
	})

	rows := make([]model.SupportRow, 0, len(teamOrder))
	for _, teamID := range teamOrder {
		row := model.SupportRow{
			TeamID:      teamID,
			TeamName:    teamNames[teamID],
			TotalManDay: decimal.Zero,
		}
		rate := decimal.NewFromInt(teamRates[teamID])
		for _, site := range sites {
			manDay := cellManDays[cellKey{teamID: teamID, siteID: site.SiteID}]
			cell := model.SupportCell{
				TeamID: teamID,
				SiteID: site.SiteID,
				ManDay: manDay,
				Amount: manDay.Mul(rate).IntPart(),
			}
			row.Cells = append(row.Cells, cell)
			row.TotalManDay = row.TotalManDay.Add(manDay)
			row.TotalAmount += cell.Amount
		}
		rows = append(rows, row)
	}

	return model.SupportMatrix{
		Month:   month,
		Sites:   sites,
		Rows:    rows,
		Records: records,
	}
}

type SupportService struct {
	reports *repository.ReportRepository
	excel   SupportExporter
}

func NewSupportService(reports *repository.ReportRepository, excel SupportExporter) *SupportService {
	return &SupportService{reports: reports, excel: excel}
}

func (s *SupportService) Matrix(ctx context.Context, month string) (*model.SupportMatrix, error) {
	from, to, err := MonthRange(month)
	if err != nil {
		return nil, err
	}
	records, err := s.reports.ListSupportRecords(ctx, from, to)
	if err != nil {
		return nil, err
	}
	matrix := BuildSupportMatrix(month, records)
	return &matrix, nil
}

func (s *SupportService) ExportExcel(ctx context.Context, month string) (*GenerateFileResult, error) {
	matrix, err := s.Matrix(ctx, month)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.GenerateSupportMatrix(*matrix)
	if err != nil {
		return nil, err
	}
	return &GenerateFileResult{
		FileName: fmt.Sprintf("support-matrix-%s.xlsx", month),
		Content:  content,
	}, nil
}
