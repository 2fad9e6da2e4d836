package export_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/export"
	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/money"
	"github.com/rezonia/facturx/internal/pdfa"
)

func sampleInvoice() *model.Invoice {
	return &model.Invoice{
		Number:    "F-2025-0042",
		IssueDate: "15/03/2025",
		DueDate:   "15/04/2025",
		Seller: model.Party{
			Name:  "Bâtir SARL",
			City:  "75011 Paris",
			TaxID: "FR32123456789",
		},
		Buyer: model.Party{
			Name: "Client SA",
			City: "69002 Lyon",
		},
		Sections: []model.Section{
			{
				Subsections: []model.Subsection{
					{
						Lines: []model.LineItem{
							{
								Designation: "Prestation",
								Quantity:    money.MustFromString("10"),
								UnitPrice:   money.MustFromString("100"),
								VATRate:     money.MustFromString("20"),
								Total:       money.MustFromString("1000"),
							},
						},
					},
				},
			},
		},
		Totals: model.Totals{
			Subtotal:     money.MustFromString("1000"),
			VATAmount:    money.MustFromString("200"),
			TotalWithVAT: money.MustFromString("1200"),
		},
	}
}

func findText(t *testing.T, doc *etree.Document, path string) string {
	t.Helper()
	el := doc.FindElement(path)
	require.NotNil(t, el, "element not found: %s", path)
	return el.Text()
}

func TestExport_FullPipeline(t *testing.T) {
	p := export.NewPipeline()

	result := p.Export(context.Background(), sampleInvoice(), model.ProfileEN16931)
	require.NoError(t, result.Error)

	assert.True(t, bytes.HasPrefix(result.PDF, []byte("%PDF")))
	assert.Contains(t, result.XML, "rsm:CrossIndustryInvoice")
	assert.True(t, result.Report.Valid, result.Report.Errors)

	// the PDF carries exactly the XML the generator produced
	extracted, err := pdfa.ExtractXML(result.PDF)
	require.NoError(t, err)
	assert.Equal(t, result.XML, string(extracted))
}

func TestExport_DepositTotals(t *testing.T) {
	inv := sampleInvoice()
	inv.Totals.Deposit = money.MustFromString("300")

	result := export.NewPipeline().Export(context.Background(), inv, model.ProfileEN16931)
	require.NoError(t, result.Error)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(result.XML))

	assert.Equal(t, "1200.00", findText(t, doc, "//ram:GrandTotalAmount"))
	assert.Equal(t, "300.00", findText(t, doc, "//ram:TotalPrepaidAmount"))
	assert.Equal(t, "900.00", findText(t, doc, "//ram:DuePayableAmount"))
}

func TestExport_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := export.NewPipeline().Export(ctx, sampleInvoice(), model.ProfileEN16931)
	require.Error(t, result.Error)
	assert.ErrorIs(t, result.Error, context.Canceled)
}

func TestExportWithPDF_BadInput(t *testing.T) {
	result := export.NewPipeline().ExportWithPDF(context.Background(), sampleInvoice(), []byte("junk"), model.ProfileEN16931)
	require.Error(t, result.Error)
	assert.NotEmpty(t, result.XML, "XML generation happens before embedding")
}

func TestExport_InjectedSources(t *testing.T) {
	fixed := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	p := export.NewPipeline(
		export.WithClock(func() time.Time { return fixed }),
		export.WithUUIDSource(func() string { return "11111111-aaaa-4bbb-8ccc-222222222222" }),
	)

	result := p.Export(context.Background(), sampleInvoice(), model.ProfileEN16931)
	require.NoError(t, result.Error)

	assert.Contains(t, string(result.PDF), "uuid:11111111-aaaa-4bbb-8ccc-222222222222")
	assert.Contains(t, string(result.PDF), "2025-03-15T10:00:00Z")
}

func TestGenerateXML(t *testing.T) {
	xml := export.NewPipeline().GenerateXML(sampleInvoice(), model.ProfileBasic)
	assert.Contains(t, xml, "urn:factur-x.eu:1p0:basic")
}

func TestValidate_Delegation(t *testing.T) {
	report := export.NewPipeline().Validate([]byte("junk"))
	assert.False(t, report.Valid)
}
