package pdfa

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/filter"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/rezonia/facturx/internal/model"
)

// AttachmentName is the embedded file name mandated by the Factur-X spec
const AttachmentName = "factur-x.xml"

const (
	creatorTool = "rezonia facturx"
	producer    = "rezonia facturx / pdfcpu"
)

// EmbedOptions selects the conformance profile and carries the invoice
// number used in document metadata.
type EmbedOptions struct {
	Profile       model.Profile
	InvoiceNumber string
}

// Embedder turns a rendered PDF into a PDF/A-3 Factur-X hybrid by
// attaching the CII XML and rewriting the catalog. Now and NewUUID are
// injectable so tests can pin timestamps and the XMP
// DocumentID/InstanceID; production wiring keeps the defaults.
//
// Each call opens its own in-memory document handle and releases it
// when the output buffer has been produced; an Embedder holds no state
// between calls and is safe for concurrent use.
type Embedder struct {
	Now     func() time.Time
	NewUUID func() string
}

// NewEmbedder creates an embedder with wall-clock time and random UUIDs
func NewEmbedder() *Embedder {
	return &Embedder{
		Now:     time.Now,
		NewUUID: uuid.NewString,
	}
}

// Embed attaches the invoice XML to pdfBytes and declares PDF/A-3
// conformance. The only hard failure is an unparseable input PDF; a
// missing or unexpectedly shaped catalog structure is skipped, not
// fatal. The input buffer is never mutated.
func (e *Embedder) Embed(pdfBytes, xml []byte, opts EmbedOptions) ([]byte, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	// PDF/A-3 forbids compressed object streams and xref streams
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	ctx, err := api.ReadContext(bytes.NewReader(pdfBytes), conf)
	if err != nil {
		return nil, model.NewPDFLoadError("input is not a parseable PDF", err)
	}

	now := e.Now()

	if err := e.attachXML(ctx.XRefTable, xml, now); err != nil {
		return nil, err
	}
	e.registerAssociatedFiles(ctx.XRefTable)
	if err := e.setXMPMetadata(ctx.XRefTable, opts, now); err != nil {
		return nil, err
	}
	if err := e.setOutputIntent(ctx.XRefTable); err != nil {
		return nil, err
	}
	e.setMarkInfo(ctx.XRefTable)
	e.setDocumentInfo(ctx.XRefTable, opts, now)

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, model.NewExportError("embed", "failed to serialize PDF", err)
	}
	return buf.Bytes(), nil
}

// attachXML registers factur-x.xml as the single entry of the
// catalog's EmbeddedFiles name tree, tagged AFRelationship=Alternative.
func (e *Embedder) attachXML(xref *pdfmodel.XRefTable, xml []byte, now time.Time) error {
	stamp := types.StringLiteral(types.DateString(now))

	sd := types.StreamDict{
		Dict: types.Dict(map[string]types.Object{
			"Type":    types.Name("EmbeddedFile"),
			"Subtype": types.Name("application/xml"),
			"Filter":  types.Name(filter.Flate),
			"Params": types.Dict(map[string]types.Object{
				"CreationDate": stamp,
				"ModDate":      stamp,
				"Size":         types.Integer(len(xml)),
			}),
		}),
		Content:        xml,
		FilterPipeline: []types.PDFFilter{{Name: filter.Flate}},
	}
	if err := sd.Encode(); err != nil {
		return model.NewExportError("embed", "failed to encode embedded file stream", err)
	}

	efRef, err := xref.IndRefForNewObject(sd)
	if err != nil {
		return model.NewExportError("embed", "failed to register embedded file stream", err)
	}

	fileSpec := types.Dict(map[string]types.Object{
		"Type":           types.Name("Filespec"),
		"F":              types.StringLiteral(AttachmentName),
		"UF":             types.StringLiteral(AttachmentName),
		"Desc":           types.StringLiteral("Factur-X invoice"),
		"AFRelationship": types.Name("Alternative"),
		"EF": types.Dict(map[string]types.Object{
			"F":  *efRef,
			"UF": *efRef,
		}),
	})
	fsRef, err := xref.IndRefForNewObject(fileSpec)
	if err != nil {
		return model.NewExportError("embed", "failed to register file spec", err)
	}

	catalog, err := xref.Catalog()
	if err != nil {
		return model.NewPDFLoadError("document catalog missing", err)
	}

	names, ok := dictEntry(xref, catalog, "Names")
	if !ok {
		names = types.Dict(map[string]types.Object{})
		catalog.Update("Names", names)
	}
	names.Update("EmbeddedFiles", types.Dict(map[string]types.Object{
		"Names": types.Array{types.StringLiteral(AttachmentName), *fsRef},
	}))
	return nil
}

// registerAssociatedFiles duplicates the embedded file-spec reference
// into a top-level /AF array. PDF/A-3 validators require /AF in
// addition to the EmbeddedFiles tree; the walk re-reads the tree rather
// than trusting attachXML, and re-stamps AFRelationship on the file
// spec in case an intermediate rewrite dropped it. If the tree does
// not have the expected shape the step is skipped.
func (e *Embedder) registerAssociatedFiles(xref *pdfmodel.XRefTable) {
	catalog, err := xref.Catalog()
	if err != nil {
		return
	}
	fsRef, ok := embeddedFileSpecRef(xref, catalog)
	if !ok {
		return
	}
	catalog.Update("AF", types.Array{*fsRef})

	if fsDict, err := xref.DereferenceDict(*fsRef); err == nil && fsDict != nil {
		fsDict.Update("AFRelationship", types.Name("Alternative"))
	}
}

// setXMPMetadata builds the XMP packet and installs it as the
// catalog's Metadata stream. XMP streams stay uncompressed so viewers
// can scan for them without decoding.
func (e *Embedder) setXMPMetadata(xref *pdfmodel.XRefTable, opts EmbedOptions, now time.Time) error {
	packet := BuildXMP(XMPData{
		Title:       "Facture " + opts.InvoiceNumber,
		Author:      creatorTool,
		Description: "Factur-X invoice " + opts.InvoiceNumber,
		CreatorTool: creatorTool,
		Date:        now,
		DocumentID:  e.NewUUID(),
		InstanceID:  e.NewUUID(),
		Profile:     opts.Profile,
	})

	sd := types.StreamDict{
		Dict: types.Dict(map[string]types.Object{
			"Type":    types.Name("Metadata"),
			"Subtype": types.Name("XML"),
		}),
		Content: packet,
	}
	if err := sd.Encode(); err != nil {
		return model.NewExportError("embed", "failed to encode metadata stream", err)
	}

	ref, err := xref.IndRefForNewObject(sd)
	if err != nil {
		return model.NewExportError("embed", "failed to register metadata stream", err)
	}

	catalog, err := xref.Catalog()
	if err != nil {
		return model.NewPDFLoadError("document catalog missing", err)
	}
	catalog.Update("Metadata", *ref)
	return nil
}

// setOutputIntent declares a GTS_PDFA1 output intent with an sRGB
// condition identifier. PDF/A mandates a declared intent; no ICC
// profile stream is embedded.
func (e *Embedder) setOutputIntent(xref *pdfmodel.XRefTable) error {
	intent := types.Dict(map[string]types.Object{
		"Type":                      types.Name("OutputIntent"),
		"S":                         types.Name("GTS_PDFA1"),
		"OutputConditionIdentifier": types.StringLiteral("sRGB"),
		"Info":                      types.StringLiteral("sRGB IEC61966-2.1"),
		"RegistryName":              types.StringLiteral("http://www.color.org"),
	})

	ref, err := xref.IndRefForNewObject(intent)
	if err != nil {
		return model.NewExportError("embed", "failed to register output intent", err)
	}

	catalog, err := xref.Catalog()
	if err != nil {
		return model.NewPDFLoadError("document catalog missing", err)
	}
	catalog.Update("OutputIntents", types.Array{*ref})
	return nil
}

func (e *Embedder) setMarkInfo(xref *pdfmodel.XRefTable) {
	catalog, err := xref.Catalog()
	if err != nil {
		return
	}
	catalog.Update("MarkInfo", types.Dict(map[string]types.Object{
		"Marked": types.Boolean(true),
	}))
}

// setDocumentInfo mirrors the XMP fields into the document info dict
// for viewers that ignore XMP.
func (e *Embedder) setDocumentInfo(xref *pdfmodel.XRefTable, opts EmbedOptions, now time.Time) {
	stamp := types.StringLiteral(types.DateString(now))
	fields := map[string]types.Object{
		"Title":        types.StringLiteral("Facture " + opts.InvoiceNumber),
		"Subject":      types.StringLiteral("Factur-X invoice " + opts.InvoiceNumber),
		"Keywords":     types.StringLiteral("Facture, Factur-X, " + string(opts.Profile)),
		"Creator":      types.StringLiteral(creatorTool),
		"Producer":     types.StringLiteral(producer),
		"CreationDate": stamp,
		"ModDate":      stamp,
	}

	if xref.Info != nil {
		if d, err := xref.DereferenceDict(*xref.Info); err == nil && d != nil {
			for k, v := range fields {
				d.Update(k, v)
			}
			return
		}
	}

	if ref, err := xref.IndRefForNewObject(types.Dict(fields)); err == nil {
		xref.Info = ref
	}
}
