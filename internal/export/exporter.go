// Package export renders a draft invoice to downloadable Excel and PDF
// documents. Rendering works off the draft alone so exports are available
// before and after persisting.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/entity"
)

// Config holds exporter configuration
type Config struct {
	OutputDir   string
	CompanyName string
}

// Exporter writes invoice documents to the configured output directory.
type Exporter struct {
	outputDir   string
	companyName string
	logger      *zap.Logger
}

// NewExporter creates a new exporter, ensuring the output directory exists
func NewExporter(cfg Config, logger *zap.Logger) (*Exporter, error) {
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("export output directory is required")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &Exporter{
		outputDir:   cfg.OutputDir,
		companyName: cfg.CompanyName,
		logger:      logger,
	}, nil
}

// outputPath derives a collision-free file name for one export.
func (e *Exporter) outputPath(draft *entity.DraftInvoice, ext string) string {
	name := fmt.Sprintf("%s_%s_%s.%s",
		draft.InvoiceType,
		draft.ID,
		time.Now().Format("20060102_150405"),
		ext)
	return filepath.Join(e.outputDir, name)
}

// documentTitle is the heading printed on every export.
func (e *Exporter) documentTitle(draft *entity.DraftInvoice) string {
	title := "Invoice"
	if draft.IsQuotation() {
		title = "Quotation"
	}
	if draft.InvoiceNumber > 0 {
		return fmt.Sprintf("%s #%d", title, draft.InvoiceNumber)
	}
	return title + " (draft)"
}
