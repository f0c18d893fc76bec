package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/Dan9191/cashflow-service/internal/models"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// ForecastXLSX renders a forecast as a workbook with summary, predictions and drivers sheets.
func ForecastXLSX(req *models.ForecastRequest, resp *models.ForecastResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	predictionsSheet := "predictions"
	driversSheet := "drivers"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, s := range []string{predictionsSheet, driversSheet} {
		if _, err := f.NewSheet(s); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", s, err)
		}
	}

	_ = f.SetCellValue(summarySheet, "A1", "Cash Flow Forecast")
	_ = f.SetCellValue(summarySheet, "A3", "Business")
	_ = f.SetCellValue(summarySheet, "B3", req.BusinessID)
	_ = f.SetCellValue(summarySheet, "A4", "Request ID")
	_ = f.SetCellValue(summarySheet, "B4", resp.RequestID)
	_ = f.SetCellValue(summarySheet, "A5", "Strategy")
	_ = f.SetCellValue(summarySheet, "B5", resp.Strategy)
	_ = f.SetCellValue(summarySheet, "A6", "Fell back")
	_ = f.SetCellValue(summarySheet, "B6", resp.FellBack)
	_ = f.SetCellValue(summarySheet, "A7", "Horizon (days)")
	_ = f.SetCellValue(summarySheet, "B7", len(resp.Predictions))
	_ = f.SetCellValue(summarySheet, "A8", "Summary")
	_ = f.SetCellValue(summarySheet, "B8", resp.Explainability.Summary)

	var revenue, expense float64
	for _, p := range resp.Predictions {
		revenue += p.Revenue
		expense += p.Expense
	}
	_ = f.SetCellValue(summarySheet, "A9", "Total revenue")
	_ = f.SetCellValue(summarySheet, "B9", revenue)
	_ = f.SetCellValue(summarySheet, "A10", "Total expense")
	_ = f.SetCellValue(summarySheet, "B10", expense)
	_ = f.SetCellValue(summarySheet, "A11", "Net")
	_ = f.SetCellValue(summarySheet, "B11", revenue-expense)

	headers := []string{"Date", "Revenue", "Expense", "Net", "Confidence", "Lower bound", "Upper bound"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(predictionsSheet, cell, h)
	}
	for i, p := range resp.Predictions {
		row := i + 2
		_ = f.SetCellValue(predictionsSheet, fmt.Sprintf("A%d", row), p.Date.String())
		_ = f.SetCellValue(predictionsSheet, fmt.Sprintf("B%d", row), p.Revenue)
		_ = f.SetCellValue(predictionsSheet, fmt.Sprintf("C%d", row), p.Expense)
		_ = f.SetCellFormula(predictionsSheet, fmt.Sprintf("D%d", row), fmt.Sprintf("B%d-C%d", row, row))
		_ = f.SetCellValue(predictionsSheet, fmt.Sprintf("E%d", row), p.Confidence)
		_ = f.SetCellValue(predictionsSheet, fmt.Sprintf("F%d", row), p.LowerBound)
		_ = f.SetCellValue(predictionsSheet, fmt.Sprintf("G%d", row), p.UpperBound)
	}

	_ = f.SetCellValue(driversSheet, "A1", "Feature")
	_ = f.SetCellValue(driversSheet, "B1", "Weight")
	for i, d := range resp.Explainability.Drivers {
		row := i + 2
		_ = f.SetCellValue(driversSheet, fmt.Sprintf("A%d", row), d.Feature)
		_ = f.SetCellValue(driversSheet, fmt.Sprintf("B%d", row), d.Weight)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// CreditPDF renders a credit analysis as a one-document report.
func CreditPDF(req *models.CreditRequest, a *models.CreditAnalysis) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, tr("Credit Analysis Report"))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)

	line := func(label, value string) {
		pdf.Cell(0, 6, tr(fmt.Sprintf("%s: %s", label, value)))
		pdf.Ln(5)
	}
	line("Business", req.BusinessName)
	line("Industry", strings.ToUpper(req.IndustryType))
	line("Credit score", fmt.Sprintf("%d/900 (%s)", a.CreditScore, a.CreditStatus))
	line("Financial health", fmt.Sprintf("%d/100", a.FinancialHealthScore))
	line("Rating", a.CreditRating)
	line("Loan eligibility", a.LoanEligibility)
	line("Maximum loan (INR)", fmt.Sprintf("%.2f", a.MaxLoanAmount))
	if a.IndicativeRate != nil {
		line("Indicative rate", fmt.Sprintf("%.2f%% p.a.", *a.IndicativeRate))
	}
	line("Generated", a.AnalysisTimestamp.Format(time.RFC3339))

	section := func(title string, items []string) {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, tr(title))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		for _, it := range items {
			pdf.MultiCell(0, 5, tr("- "+it), "", "L", false)
		}
	}
	section("Risk factors", a.RiskFactors)
	section("Recommendations", a.Recommendations)
	section("Suggested products", a.SuggestedProducts)

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Assessment")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, tr(plainText(a.Assessment)), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// plainText strips the markdown markers the core fonts cannot render.
func plainText(md string) string {
	r := strings.NewReplacer("### ", "", "**", "", "₹", "INR ")
	return r.Replace(md)
}
