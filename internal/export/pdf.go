package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"tendersdz/models"

	"github.com/jung-kurt/gofpdf"
)

// TenderSheet пишет карточку тендера с позициями в PDF
func TenderSheet(w io.Writer, tender models.Tender, clientName string, items []models.TenderItem, generated time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(tender.Title))
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 10)
	fields := [][2]string{
		{"Reference", models.Deref(tender.ReferenceNo)},
		{"Client", clientName},
		{"Status", tender.Status.Label()},
		{"Currency", tender.Currency},
		{"Submission deadline", deadlineText(tender.SubmissionDeadline)},
	}
	for _, f := range fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 6, f[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(f[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	colWidths := []float64{12, 24, 88, 20, 20, 26}
	headers := []string{"#", "Category", "Description", "Qty", "UoM", "Authenticity"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if len(items) == 0 {
		pdf.CellFormat(sum(colWidths), 8, "No items", "1", 1, "C", false, 0, "")
	}
	for i, item := range items {
		authenticity := "no"
		if item.AuthenticityRequired {
			authenticity = "required"
		}
		cells := []string{
			strconv.Itoa(i + 1),
			string(item.Category),
			tr(item.Description),
			strconv.FormatFloat(item.Qty, 'f', -1, 64),
			tr(item.UOM),
			authenticity,
		}
		for j, text := range cells {
			align := "L"
			if j == 0 || j == 3 {
				align = "R"
			}
			pdf.CellFormat(colWidths[j], 7, text, "1", 0, align, false, 0, "")
		}
		pdf.Ln(7)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, fmt.Sprintf("Generated %s", generated.Format("2006-01-02 15:04")))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func deadlineText(ts *models.Timestamp) string {
	if ts == nil {
		return "-"
	}
	return ts.Date()
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
