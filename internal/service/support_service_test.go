package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkjunho/labor-settlement/internal/model"
)

func TestBuildSupportMatrixCellAndTotals(t *testing.T) {
	teamID := uuid.New()
	teamCompany := uuid.New()
	siteCompany := uuid.New()
	siteID := uuid.New()

	record := func(manDay string) model.SupportRecord {
		return model.SupportRecord{
			WorkDate:        "2024-05-02",
			TeamID:          teamID,
			TeamName:        "철근A팀",
			TeamCompanyID:   teamCompany,
			TeamCompanyName: "대한건설",
			SupportRate:     100000,
			SiteID:          siteID,
			SiteName:        "성수 현장",
			SiteCompanyID:   siteCompany,
			SiteCompanyName: "한강종합",
			WorkerName:      "김철수",
			ManDay:          md(manDay),
		}
	}

	matrix := BuildSupportMatrix("2024-05", []model.SupportRecord{
		record("1.0"), record("1.0"), record("1.0"),
	})

	require.Len(t, matrix.Rows, 1)
	require.Len(t, matrix.Rows[0].Cells, 1)

	cell := matrix.Rows[0].Cells[0]
	assert.True(t, cell.ManDay.Equal(md("3.0")))
	assert.Equal(t, int64(300000), cell.Amount, "3.0 man-days at rate 100000")
	assert.True(t, matrix.Rows[0].TotalManDay.Equal(md("3.0")))
	assert.Equal(t, int64(300000), matrix.Rows[0].TotalAmount)

	for _, rec := range matrix.Records {
		assert.True(t, rec.External, "team and site belong to different companies")
	}
}

func TestBuildSupportMatrixClassification(t *testing.T) {
	company := uuid.New()
	other := uuid.New()

	records := []model.SupportRecord{
		{
			TeamID: uuid.New(), TeamName: "목수팀", TeamCompanyID: company,
			SiteID: uuid.New(), SiteName: "자체 현장", SiteCompanyID: company,
			ManDay: md("1.0"),
		},
		{
			TeamID: uuid.New(), TeamName: "전기팀", TeamCompanyID: company,
			SiteID: uuid.New(), SiteName: "외부 현장", SiteCompanyID: other,
			ManDay: md("1.0"),
		},
	}

	matrix := BuildSupportMatrix("2024-05", records)
	require.Len(t, matrix.Records, 2)
	assert.False(t, matrix.Records[0].External)
	assert.True(t, matrix.Records[1].External)
}

func TestBuildSupportMatrixRowTotalEqualsCellSum(t *testing.T) {
	teamID := uuid.New()
	company := uuid.New()

	records := []model.SupportRecord{
		{TeamID: teamID, TeamName: "팀", TeamCompanyID: company, SupportRate: 130000,
			SiteID: uuid.New(), SiteName: "현장1", SiteCompanyID: uuid.New(), ManDay: md("1.5")},
		{TeamID: teamID, TeamName: "팀", TeamCompanyID: company, SupportRate: 130000,
			SiteID: uuid.New(), SiteName: "현장2", SiteCompanyID: uuid.New(), ManDay: md("0.5")},
		{TeamID: teamID, TeamName: "팀", TeamCompanyID: company, SupportRate: 130000,
			SiteID: uuid.New(), SiteName: "현장3", SiteCompanyID: uuid.New(), ManDay: md("2.5")},
	}

	matrix := BuildSupportMatrix("2024-05", records)
	require.Len(t, matrix.Rows, 1)

	row := matrix.Rows[0]
	var cellAmountSum int64
	cellManDaySum := md("0")
	for _, cell := range row.Cells {
		cellAmountSum += cell.Amount
		cellManDaySum = cellManDaySum.Add(cell.ManDay)
	}
	assert.Equal(t, cellAmountSum, row.TotalAmount)
	assert.True(t, cellManDaySum.Equal(row.TotalManDay))
}

func TestBuildSupportMatrixColumnOrder(t *testing.T) {
	teamID := uuid.New()
	company := uuid.New()

	records := []model.SupportRecord{
		{TeamID: teamID, TeamName: "팀", TeamCompanyID: company,
			SiteID: uuid.New(), SiteName: "나 현장", SiteCompanyID: uuid.New(), SiteCompanyName: "다사", ManDay: md("1.0")},
		{TeamID: teamID, TeamName: "팀", TeamCompanyID: company,
			SiteID: uuid.New(), SiteName: "나 현장", SiteCompanyID: uuid.New(), SiteCompanyName: "가사", ManDay: md("1.0")},
		{TeamID: teamID, TeamName: "팀", TeamCompanyID: company,
			SiteID: uuid.New(), SiteName: "가 현장", SiteCompanyID: uuid.New(), SiteCompanyName: "가사", ManDay: md("1.0")},
	}

	matrix := BuildSupportMatrix("2024-05", records)
	require.Len(t, matrix.Sites, 3)
	assert.Equal(t, "가사", matrix.Sites[0].CompanyName)
	assert.Equal(t, "가 현장", matrix.Sites[0].SiteName)
	assert.Equal(t, "가사", matrix.Sites[1].CompanyName)
	assert.Equal(t, "나 현장", matrix.Sites[1].SiteName)
	assert.Equal(t, "다사", matrix.Sites[2].CompanyName)
}

func TestBuildSupportMatrixRowOrderByTeamName(t *testing.T) {
	company := uuid.New()
	site := uuid.New()

	records := []model.SupportRecord{
		{TeamID: uuid.New(), TeamName: "나팀", TeamCompanyID: company,
			SiteID: site, SiteName: "현장", SiteCompanyID: uuid.New(), ManDay: md("1.0")},
		{TeamID: uuid.New(), TeamName: "가팀", TeamCompanyID: company,
			SiteID: site, SiteName: "현장", SiteCompanyID: uuid.New(), ManDay: md("1.0")},
	}

	matrix := BuildSupportMatrix("2024-05", records)
	require.Len(t, matrix.Rows, 2)
	assert.Equal(t, "가팀", matrix.Rows[0].TeamName)
	assert.Equal(t, "나팀", matrix.Rows[1].TeamName)
}
