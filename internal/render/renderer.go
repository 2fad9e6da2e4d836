package render

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/money"
)

// Renderer produces the human-readable invoice PDF that the embedder
// augments. The layout is intentionally plain: header, party blocks,
// one table block per section, totals box. The codec itself never
// touches layout; it only consumes the bytes produced here.
type Renderer struct{}

// NewRenderer creates a new visual PDF renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render lays out the invoice on A4 portrait and returns the PDF bytes.
func (r *Renderer) Render(inv *model.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // core fonts are cp1252
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(120, 10, tr("FACTURE "+inv.Number))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(120, 6, tr("Date d'émission : "+inv.IssueDate))
	pdf.Ln(5)
	pdf.Cell(120, 6, tr("Date d'échéance : "+inv.DueDate))
	pdf.Ln(10)

	r.addParty(pdf, tr, "Émetteur", inv.Seller)
	r.addParty(pdf, tr, "Client", inv.Buyer)

	if inv.ProjectTitle != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(190, 7, tr("Objet : "+inv.ProjectTitle))
		pdf.Ln(9)
	}

	for _, sec := range inv.Sections {
		r.addSection(pdf, tr, sec)
	}

	r.addTotals(pdf, tr, inv.Totals)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, model.NewExportError("render", "pdf layout failed", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) addParty(pdf *gofpdf.Fpdf, tr func(string) string, label string, p model.Party) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(190, 6, tr(label))
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{p.Name, p.Address, p.City, p.Phone, p.Email, p.TaxID} {
		if line == "" {
			continue
		}
		pdf.Cell(190, 5, tr(line))
		pdf.Ln(4)
	}
	pdf.Ln(4)
}

func (r *Renderer) addSection(pdf *gofpdf.Fpdf, tr func(string) string, sec model.Section) {
	if sec.Title != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(190, 8, tr(sec.Title))
		pdf.Ln(8)
	}

	for _, sub := range sec.Subsections {
		if sub.Title != "" {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.Cell(190, 6, tr(sub.Title))
			pdf.Ln(6)
		}
		r.addLineTable(pdf, tr, sub.Lines)
	}
	pdf.Ln(3)
}

func (r *Renderer) addLineTable(pdf *gofpdf.Fpdf, tr func(string) string, lines []model.LineItem) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(90, 6, tr("Désignation"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 6, tr("Qté"), "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 6, "PU HT", "1", 0, "R", true, 0, "")
	pdf.CellFormat(20, 6, "TVA %", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 6, "Total HT", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range lines {
		pdf.CellFormat(90, 6, tr(line.Designation), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, money.FormatQuantity(line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, money.Format(line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, money.FormatRate(line.VATRate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, money.Format(line.Total), "1", 1, "R", false, 0, "")
	}
}

func (r *Renderer) addTotals(pdf *gofpdf.Fpdf, tr func(string) string, t model.Totals) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)

	row := func(label, amount string, bold bool) {
		if bold {
			pdf.SetFont("Helvetica", "B", 10)
		} else {
			pdf.SetFont("Helvetica", "", 10)
		}
		pdf.CellFormat(130, 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr(label), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, amount+" EUR", "", 1, "R", false, 0, "")
	}

	row("Total HT", money.Format(t.Subtotal), false)
	row("TVA", money.Format(t.VATAmount), false)
	if money.IsPositive(t.Deposit) {
		row("Acompte déduit", "-"+money.Format(t.Deposit), false)
	}
	row("Net à payer", money.Format(t.TotalWithVAT), true)
}
