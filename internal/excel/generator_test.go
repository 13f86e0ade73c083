package excel

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/parkjunho/labor-settlement/internal/model"
)

func TestGenerateSettlement(t *testing.T) {
	workerID := uuid.New()
	siteID := uuid.New()

	book := model.SettlementBook{
		TeamName: "철근A팀",
		Month:    "2024-05",
		Source:   model.SettlementSourceSaved,
		Entries: []model.SettlementEntry{
			{
				WorkerID:      workerID,
				WorkerName:    "김철수",
				TotalManDay:   decimal.NewFromFloat(1.5),
				UnitPrice:     153333,
				GrossPay:      230000,
				TaxAmount:     7590,
				NetPay:        222410,
				PrimarySiteID: siteID,
				Status:        model.SettlementStatusConfirmed,
			},
		},
		SiteNames:  map[uuid.UUID]string{siteID: "성수 현장"},
		Deductions: map[uuid.UUID]int64{workerID: 50000},
	}

	content, err := NewGenerator().GenerateSettlement(book)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	get := func(cell string) string {
		value, err := file.GetCellValue("정산", cell)
		require.NoError(t, err)
		return value
	}

	assert.Equal(t, "철근A팀", get("B1"))
	assert.Equal(t, "2024-05", get("B2"))
	assert.Equal(t, "저장본", get("B3"))
	assert.Equal(t, "1.5", get("B4"))
	assert.Equal(t, "230000", get("B5"))
	assert.Equal(t, "222410", get("B6"))
	assert.Equal(t, "50000", get("B7"))

	assert.Equal(t, "성명", get("A9"))
	assert.Equal(t, "김철수", get("A10"))
	assert.Equal(t, "230000", get("D10"))
	assert.Equal(t, "7590", get("E10"))
	assert.Equal(t, "222410", get("F10"))
	assert.Equal(t, "50000", get("G10"))
	assert.Equal(t, "172410", get("H10"), "net pay minus deductions")
	assert.Equal(t, "성수 현장", get("I10"))
	assert.Equal(t, "확정", get("J10"))
}

func TestGenerateSupportMatrix(t *testing.T) {
	teamID := uuid.New()
	siteID := uuid.New()

	matrix := model.SupportMatrix{
		Month: "2024-05",
		Sites: []model.SupportSite{
			{SiteID: siteID, SiteName: "성수 현장", CompanyName: "한강종합"},
		},
		Rows: []model.SupportRow{
			{
				TeamID:   teamID,
				TeamName: "철근A팀",
				Cells: []model.SupportCell{
					{TeamID: teamID, SiteID: siteID, ManDay: decimal.NewFromInt(3), Amount: 300000},
				},
				TotalManDay: decimal.NewFromInt(3),
				TotalAmount: 300000,
			},
		},
		Records: []model.SupportRecord{
			{
				WorkDate: "2024-05-02", TeamID: teamID, TeamName: "철근A팀",
				TeamCompanyName: "대한건설", SiteID: siteID, SiteName: "성수 현장",
				SiteCompanyName: "한강종합", WorkerName: "김철수",
				ManDay: decimal.NewFromInt(1), External: true,
			},
		},
	}

	content, err := NewGenerator().GenerateSupportMatrix(matrix)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	assert.ElementsMatch(t, []string{"지원내역", "상세"}, file.GetSheetList())

	value, err := file.GetCellValue("지원내역", "B4")
	require.NoError(t, err)
	assert.Equal(t, "3.0공수 / 300000원", value)

	value, err = file.GetCellValue("상세", "H2")
	require.NoError(t, err)
	assert.Equal(t, "지원", value)
}
