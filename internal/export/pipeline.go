package export

import (
	"context"
	"time"

	"github.com/rezonia/facturx/internal/cii"
	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/pdfa"
	"github.com/rezonia/facturx/internal/render"
)

// Option configures a pipeline
type Option func(*Pipeline)

// WithRenderer replaces the visual PDF renderer
func WithRenderer(r *render.Renderer) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.renderer = r
		}
	}
}

// WithClock injects the timestamp source used by the embedder
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.embedder.Now = now
		}
	}
}

// WithUUIDSource injects the UUID generator used for XMP identifiers
func WithUUIDSource(newUUID func() string) Option {
	return func(p *Pipeline) {
		if newUUID != nil {
			p.embedder.NewUUID = newUUID
		}
	}
}

// Pipeline chains render -> generate -> embed -> validate for a single
// invoice document. Pipelines hold no per-call state; one instance can
// serve concurrent exports of different documents.
type Pipeline struct {
	renderer  *render.Renderer
	generator *cii.Generator
	embedder  *pdfa.Embedder
	validator *pdfa.Validator
}

// NewPipeline creates an export pipeline with production defaults
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		renderer:  render.NewRenderer(),
		generator: cii.NewGenerator(),
		embedder:  pdfa.NewEmbedder(),
		validator: pdfa.NewValidator(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the outcome of one export
type Result struct {
	PDF    []byte
	XML    string
	Report pdfa.Report
	Error  error
}

// Export renders the invoice visually, then produces the Factur-X
// compliant PDF and its compliance report.
func (p *Pipeline) Export(ctx context.Context, inv *model.Invoice, profile model.Profile) *Result {
	pdfBytes, err := p.renderer.Render(inv)
	if err != nil {
		return &Result{Error: err}
	}
	return p.ExportWithPDF(ctx, inv, pdfBytes, profile)
}

// ExportWithPDF augments an already-rendered PDF instead of rendering
// one. The input buffer is never mutated.
func (p *Pipeline) ExportWithPDF(ctx context.Context, inv *model.Invoice, pdfBytes []byte, profile model.Profile) *Result {
	if err := ctx.Err(); err != nil {
		return &Result{Error: err}
	}

	xml := p.generator.Generate(inv, profile)

	out, err := p.embedder.Embed(pdfBytes, []byte(xml), pdfa.EmbedOptions{
		Profile:       profile,
		InvoiceNumber: inv.Number,
	})
	if err != nil {
		return &Result{XML: xml, Error: err}
	}

	return &Result{
		PDF:    out,
		XML:    xml,
		Report: p.validator.Validate(out),
	}
}

// GenerateXML produces only the CII XML payload
func (p *Pipeline) GenerateXML(inv *model.Invoice, profile model.Profile) string {
	return p.generator.Generate(inv, profile)
}

// Validate reports the compliance markers of an existing PDF
func (p *Pipeline) Validate(pdfBytes []byte) pdfa.Report {
	return p.validator.Validate(pdfBytes)
}
