// Package facturx provides a public API for producing Factur-X
// compliant e-invoices.
//
// A Factur-X invoice is a hybrid document: a human-readable PDF/A-3
// file that embeds the machine-readable UN/CEFACT Cross-Industry-Invoice
// XML as factur-x.xml.
//
// Example usage:
//
//	exporter := facturx.NewExporter()
//	result, err := exporter.Export(ctx, invoice, facturx.ProfileEN16931)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("facture.pdf", result.PDF, 0o644)
package facturx

import "github.com/rezonia/facturx/internal/model"

// Re-export core types for public API
type (
	Invoice    = model.Invoice
	LineItem   = model.LineItem
	Party      = model.Party
	Section    = model.Section
	Subsection = model.Subsection
	Totals     = model.Totals
	Profile    = model.Profile
)

// Re-export conformance profiles
const (
	ProfileMinimum  = model.ProfileMinimum
	ProfileBasic    = model.ProfileBasic
	ProfileEN16931  = model.ProfileEN16931
	ProfileExtended = model.ProfileExtended
)

// Re-export error types
type (
	PDFLoadError = model.PDFLoadError
	ExportError  = model.ExportError
)

// ParseProfile maps a profile name to a Profile, defaulting to EN 16931
func ParseProfile(name string) Profile {
	return model.ParseProfile(name)
}
