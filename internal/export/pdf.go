package export

import (
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
)

// ExportPDF writes the draft as an A4 PDF and returns the file path.
func (e *Exporter) ExportPDF(ctx context.Context, draft *entity.DraftInvoice) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, e.companyName)
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 10, e.documentTitle(draft))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	meta := [][2]string{
		{"Delivery Address", draft.DeliveryAddress},
		{"Payment Mode", draft.ModeOfPayment},
		{"Reference", draft.Reference},
	}
	for _, kv := range meta {
		if kv[1] == "" {
			continue
		}
		pdf.CellFormat(40, 6, kv[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Item table
	pdf.SetFont("Arial", "B", 10)
	widths := []float64{12, 88, 20, 30, 30}
	headers := []string{"#", "Product", "Qty", "Rate", "Amount"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for i, item := range draft.Items {
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, item.Rate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, item.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	totals := draft.ComputeTotals()
	labelWidth := widths[0] + widths[1] + widths[2] + widths[3]
	rows := [][2]string{
		{"Subtotal", totals.Subtotal.StringFixed(2)},
		{"Tax", totals.Tax.StringFixed(2)},
		{"Grand Total", totals.GrandTotal.StringFixed(2)},
	}
	for i, row := range rows {
		if i == len(rows)-1 {
			pdf.SetFont("Arial", "B", 10)
		}
		pdf.CellFormat(labelWidth, 6, row[0], "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, row[1], "1", 1, "R", false, 0, "")
	}

	path := e.outputPath(draft, "pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to save pdf: %w", err)
	}

	e.logger.Info("PDF export written",
		zap.String("draft_id", draft.ID),
		zap.String("path", path),
		zap.Int("items", len(draft.Items)))
	return path, nil
}
