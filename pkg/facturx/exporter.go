package facturx

import (
	"context"
	"io"

	"github.com/rezonia/facturx/internal/export"
	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/pdfa"
)

// Exporter implements the full export flow using the internal pipeline
type Exporter struct {
	pipeline *export.Pipeline
}

// NewExporter creates an exporter with production defaults
func NewExporter() *Exporter {
	return &Exporter{pipeline: export.NewPipeline()}
}

// Result is the outcome of one export
type Result struct {
	// PDF is the final hybrid document
	PDF []byte
	// XML is the CII payload embedded in PDF
	XML string
	// Report lists the compliance markers of PDF
	Report pdfa.Report
}

// Export renders the invoice and produces the compliant hybrid PDF
func (e *Exporter) Export(ctx context.Context, inv *Invoice, profile Profile) (*Result, error) {
	return e.wrap(e.pipeline.Export(ctx, inv, profile))
}

// ExportInto embeds into an already-rendered PDF read from r
func (e *Exporter) ExportInto(ctx context.Context, inv *Invoice, r io.Reader, profile Profile) (*Result, error) {
	pdfBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewPDFLoadError("failed to read input PDF", err)
	}
	return e.wrap(e.pipeline.ExportWithPDF(ctx, inv, pdfBytes, profile))
}

// GenerateXML produces only the CII XML payload
func (e *Exporter) GenerateXML(inv *Invoice, profile Profile) string {
	return e.pipeline.GenerateXML(inv, profile)
}

// Validate reports the compliance markers of an existing PDF
func (e *Exporter) Validate(pdfBytes []byte) pdfa.Report {
	return e.pipeline.Validate(pdfBytes)
}

// ExtractXML reads back the embedded invoice XML from a Factur-X PDF
func ExtractXML(pdfBytes []byte) ([]byte, error) {
	return pdfa.ExtractXML(pdfBytes)
}

func (e *Exporter) wrap(r *export.Result) (*Result, error) {
	if r.Error != nil {
		return nil, r.Error
	}
	return &Result{PDF: r.PDF, XML: r.XML, Report: r.Report}, nil
}
