package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/parkjunho/labor-settlement/internal/model"
)

type Generator struct {
	fontName string
	fontData []byte
}

// NewGenerator loads a TTF with Hangul coverage from disk; payslips are
// unreadable without one, so an empty or missing font is a startup error.
func NewGenerator(fontPath string) (*Generator, error) {
	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("pdf font path is required")
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf font: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("font data is empty")
	}
	return &Generator{fontName: "Payslip", fontData: data}, nil
}

func (g *Generator) Generate(payslip model.Payslip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.AddUTF8FontFromBytes(g.fontName, "", g.fontData)
	pdf.AddUTF8FontFromBytes(g.fontName, "B", g.fontData)

	pdf.SetFont(g.fontName, "B", 15)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s 급여명세서", payslip.Month), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s / %s", payslip.TeamName, payslip.WorkerName), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "근무 내역", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("총 공수: %s", payslip.Entry.TotalManDay.StringFixed(1)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("단가: %s원", formatWon(payslip.Entry.UnitPrice)), "", 1, "L", false, 0, "")
	if payslip.PrimarySiteName != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("주현장: %s", payslip.PrimarySiteName), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "지급 내역", "", 1, "L", false, 0, "")
	drawAmountRow(pdf, g.fontName, "지급액", payslip.Entry.GrossPay, true)
	drawAmountRow(pdf, g.fontName, "세액 (3.3%)", -payslip.Entry.TaxAmount, false)
	drawAmountRow(pdf, g.fontName, "실지급액", payslip.Entry.NetPay, true)
	pdf.Ln(2)

	if len(payslip.Lines) > 0 {
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "공제 내역", "", 1, "L", false, 0, "")
		for _, line := range payslip.Lines {
			drawAmountRow(pdf, g.fontName, line.Label, -line.Amount, false)
		}
		drawAmountRow(pdf, g.fontName, "공제계", -payslip.TotalDeduction, true)
		pdf.Ln(2)
	}

	pdf.SetFont(g.fontName, "B", 13)
	pdf.CellFormat(0, 10, fmt.Sprintf("차감 지급액: %s원", formatWon(payslip.Balance)), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawAmountRow(pdf *gofpdf.Fpdf, fontName, label string, amount int64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont(fontName, style, 11)
	pdf.CellFormat(110, 7, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, formatWon(amount)+"원", "1", 1, "R", false, 0, "")
}

// formatWon adds thousands separators; amounts are whole won.
func formatWon(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var out strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	if negative {
		return "-" + out.String()
	}
	return out.String()
}
