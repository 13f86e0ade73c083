package excel

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/parkjunho/labor-settlement/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateSettlement writes one team's monthly settlement: a summary block
// followed by one row per worker with deduction totals and payout balance.
func (g *Generator) GenerateSettlement(book model.SettlementBook) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "정산"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	var totalManDay decimal.Decimal
	var totalGross, totalNet, totalDeduction int64
	for _, entry := range book.Entries {
		totalManDay = totalManDay.Add(entry.TotalManDay)
		totalGross += entry.GrossPay
		totalNet += entry.NetPay
		totalDeduction += book.Deductions[entry.WorkerID]
	}

	set("A1", "팀")
	set("B1", book.TeamName)
	set("A2", "정산월")
	set("B2", book.Month)
	set("A3", "구분")
	set("B3", sourceLabel(book.Source))
	set("A4", "총 공수")
	set("B4", formatManDay(totalManDay))
	set("A5", "총 지급액")
	set("B5", totalGross)
	set("A6", "총 실지급액")
	set("B6", totalNet)
	set("A7", "총 공제액")
	set("B7", totalDeduction)

	tableRow := 9
	headers := []string{"성명", "공수", "단가", "지급액", "세액(3.3%)", "실지급액", "공제계", "차감지급액", "주현장", "상태"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, entry := range book.Entries {
		row := tableRow + 1 + i
		deduction := book.Deductions[entry.WorkerID]
		set(fmt.Sprintf("A%d", row), entry.WorkerName)
		set(fmt.Sprintf("B%d", row), formatManDay(entry.TotalManDay))
		set(fmt.Sprintf("C%d", row), entry.UnitPrice)
		set(fmt.Sprintf("D%d", row), entry.GrossPay)
		set(fmt.Sprintf("E%d", row), entry.TaxAmount)
		set(fmt.Sprintf("F%d", row), entry.NetPay)
		set(fmt.Sprintf("G%d", row), deduction)
		set(fmt.Sprintf("H%d", row), entry.NetPay-deduction)
		set(fmt.Sprintf("I%d", row), book.SiteNames[entry.PrimarySiteID])
		set(fmt.Sprintf("J%d", row), statusLabel(entry.Status))
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "H", 13)
	_ = file.SetColWidth(sheet, "I", "I", 24)
	_ = file.SetColWidth(sheet, "J", "J", 10)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateSupportMatrix writes the month's cross-charge data: the team x site
// matrix sheet plus a flat sheet of every contributing record.
func (g *Generator) GenerateSupportMatrix(matrix model.SupportMatrix) ([]byte, error) {
	file := excelize.NewFile()

	matrixSheet := "지원내역"
	file.SetSheetName("Sheet1", matrixSheet)
	if err := g.writeMatrix(file, matrixSheet, matrix); err != nil {
		return nil, err
	}

	recordSheet := "상세"
	file.NewSheet(recordSheet)
	if err := g.writeRecords(file, recordSheet, matrix); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeMatrix(file *excelize.File, sheet string, matrix model.SupportMatrix) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "정산월")
	set("B1", matrix.Month)

	headerRow := 3
	set(fmt.Sprintf("A%d", headerRow), "팀")
	for i, site := range matrix.Sites {
		cell, _ := excelize.CoordinatesToCellName(i+2, headerRow)
		set(cell, fmt.Sprintf("%s (%s)", site.SiteName, site.CompanyName))
	}
	totalCol := len(matrix.Sites) + 2
	cell, _ := excelize.CoordinatesToCellName(totalCol, headerRow)
	set(cell, "합계")

	for r, row := range matrix.Rows {
		rowNum := headerRow + 1 + r
		set(fmt.Sprintf("A%d", rowNum), row.TeamName)
		for cIdx, cellValue := range row.Cells {
			name, _ := excelize.CoordinatesToCellName(cIdx+2, rowNum)
			if cellValue.ManDay.IsZero() {
				continue
			}
			set(name, fmt.Sprintf("%s공수 / %d원", formatManDay(cellValue.ManDay), cellValue.Amount))
		}
		name, _ := excelize.CoordinatesToCellName(totalCol, rowNum)
		set(name, fmt.Sprintf("%s공수 / %d원", formatManDay(row.TotalManDay), row.TotalAmount))
	}

	_ = file.SetColWidth(sheet, "A", "A", 16)
	return nil
}

func (g *Generator) writeRecords(file *excelize.File, sheet string, matrix model.SupportMatrix) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"일자", "팀", "팀 소속사", "현장", "현장 소속사", "성명", "공수", "구분"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, rec := range matrix.Records {
		row := i + 2
		set(fmt.Sprintf("A%d", row), rec.WorkDate)
		set(fmt.Sprintf("B%d", row), rec.TeamName)
		set(fmt.Sprintf("C%d", row), rec.TeamCompanyName)
		set(fmt.Sprintf("D%d", row), rec.SiteName)
		set(fmt.Sprintf("E%d", row), rec.SiteCompanyName)
		set(fmt.Sprintf("F%d", row), rec.WorkerName)
		set(fmt.Sprintf("G%d", row), formatManDay(rec.ManDay))
		set(fmt.Sprintf("H%d", row), classificationLabel(rec.External))
	}

	_ = file.SetColWidth(sheet, "A", "A", 12)
	_ = file.SetColWidth(sheet, "B", "F", 18)
	return nil
}

func sourceLabel(source model.SettlementSource) string {
	if source == model.SettlementSourceSaved {
		return "저장본"
	}
	return "실시간 집계"
}

func statusLabel(status model.SettlementStatus) string {
	switch status {
	case model.SettlementStatusPaid:
		return "지급완료"
	case model.SettlementStatusConfirmed:
		return "확정"
	default:
		return "대기"
	}
}

func classificationLabel(external bool) string {
	if external {
		return "지원"
	}
	return "자체"
}

func formatManDay(value decimal.Decimal) string {
	return value.StringFixed(1)
}
