package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
)

const sheetName = "Sheet1"

// ExportExcel writes the draft as an .xlsx workbook and returns the file
// path. Layout: heading, meta block, one row per line item, totals block.
func (e *Exporter) ExportExcel(ctx context.Context, draft *entity.DraftInvoice) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file := excelize.NewFile()
	defer file.Close()

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("failed to create style: %w", err)
	}

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheetName, cell, value)
	}

	set("A1", e.companyName)
	set("A2", e.documentTitle(draft))
	_ = file.SetCellStyle(sheetName, "A1", "A2", bold)

	set("A4", "Delivery Address")
	set("B4", draft.DeliveryAddress)
	set("A5", "Payment Mode")
	set("B5", draft.ModeOfPayment)
	set("A6", "Reference")
	set("B6", draft.Reference)

	// Item table header
	headerRow := 8
	headers := []string{"#", "Product", "Quantity", "Rate", "Amount"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		set(cell, h)
	}
	hStart, _ := excelize.CoordinatesToCellName(1, headerRow)
	hEnd, _ := excelize.CoordinatesToCellName(len(headers), headerRow)
	_ = file.SetCellStyle(sheetName, hStart, hEnd, bold)

	row := headerRow + 1
	for i, item := range draft.Items {
		set(fmt.Sprintf("A%d", row), i+1)
		set(fmt.Sprintf("B%d", row), item.ProductName)
		set(fmt.Sprintf("C%d", row), item.Quantity)
		set(fmt.Sprintf("D%d", row), item.Rate.InexactFloat64())
		set(fmt.Sprintf("E%d", row), item.TotalAmount.InexactFloat64())
		row++
	}

	totals := draft.ComputeTotals()
	row++
	set(fmt.Sprintf("D%d", row), "Subtotal")
	set(fmt.Sprintf("E%d", row), totals.Subtotal.InexactFloat64())
	row++
	set(fmt.Sprintf("D%d", row), "Tax")
	set(fmt.Sprintf("E%d", row), totals.Tax.InexactFloat64())
	row++
	set(fmt.Sprintf("D%d", row), "Grand Total")
	set(fmt.Sprintf("E%d", row), totals.GrandTotal.InexactFloat64())

	path := e.outputPath(draft, "xlsx")
	if err := file.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Excel export written",
		zap.String("draft_id", draft.ID),
		zap.String("path", path),
		zap.Int("items", len(draft.Items)))
	return path, nil
}
