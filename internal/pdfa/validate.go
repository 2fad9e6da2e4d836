package pdfa

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/rezonia/facturx/internal/model"
)

// Report lists which of the four Factur-X compliance markers a PDF
// carries. Valid is the conjunction of the four booleans; Errors holds
// one entry per missing marker, or a single entry when the PDF could
// not be parsed at all.
type Report struct {
	Valid           bool     `json:"valid"`
	HasXML          bool     `json:"has_xml"`
	HasXMPMetadata  bool     `json:"has_xmp_metadata"`
	HasAF           bool     `json:"has_af"`
	HasOutputIntent bool     `json:"has_output_intent"`
	Errors          []string `json:"errors,omitempty"`
}

// Validator re-parses produced PDFs and reports compliance markers.
// It shares no state with the embedder and is safe for concurrent use.
type Validator struct{}

// NewValidator creates a new compliance validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate inspects the catalog markers the embedder writes. It never
// returns an error: a parse failure is reported inside the Report.
// Validating the same bytes twice yields identical reports.
func (v *Validator) Validate(pdfBytes []byte) Report {
	var report Report

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(pdfBytes), conf)
	if err != nil {
		report.Errors = []string{"not a parseable PDF: " + err.Error()}
		return report
	}

	xref := ctx.XRefTable
	catalog, err := xref.Catalog()
	if err != nil {
		report.Errors = []string{"document catalog missing"}
		return report
	}

	if _, ok := embeddedFileSpecRef(xref, catalog); ok {
		report.HasXML = true
	} else {
		report.Errors = append(report.Errors, "missing embedded factur-x.xml attachment")
	}

	if _, ok := streamEntry(xref, catalog, "Metadata"); ok {
		report.HasXMPMetadata = true
	} else {
		report.Errors = append(report.Errors, "missing XMP metadata stream")
	}

	if af, ok := arrayEntry(xref, catalog, "AF"); ok && len(af) > 0 {
		report.HasAF = true
	} else {
		report.Errors = append(report.Errors, "missing /AF associated files entry")
	}

	if intents, ok := arrayEntry(xref, catalog, "OutputIntents"); ok && len(intents) > 0 {
		report.HasOutputIntent = true
	} else {
		report.Errors = append(report.Errors, "missing PDF/A output intent")
	}

	report.Valid = report.HasXML && report.HasXMPMetadata && report.HasAF && report.HasOutputIntent
	return report
}

// ExtractXML reads back the embedded invoice XML from a Factur-X PDF.
func ExtractXML(pdfBytes []byte) ([]byte, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(pdfBytes), conf)
	if err != nil {
		return nil, model.NewPDFLoadError("input is not a parseable PDF", err)
	}

	xref := ctx.XRefTable
	catalog, err := xref.Catalog()
	if err != nil {
		return nil, model.NewPDFLoadError("document catalog missing", err)
	}

	fsRef, ok := embeddedFileSpecRef(xref, catalog)
	if !ok {
		return nil, model.NewExportError("extract", "no embedded invoice attachment", nil)
	}

	fsDict, err := xref.DereferenceDict(*fsRef)
	if err != nil || fsDict == nil {
		return nil, model.NewExportError("extract", "file spec is not a dictionary", err)
	}

	ef, ok := dictEntry(xref, fsDict, "EF")
	if !ok {
		return nil, model.NewExportError("extract", "file spec has no embedded file entry", nil)
	}

	sd, ok := streamEntry(xref, ef, "F")
	if !ok {
		return nil, model.NewExportError("extract", "embedded file stream missing", nil)
	}

	if err := sd.Decode(); err != nil {
		return nil, model.NewExportError("extract", "failed to decode embedded file stream", err)
	}
	return sd.Content, nil
}
