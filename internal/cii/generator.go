package cii

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/money"
)

// UN/CEFACT CII namespaces
const (
	NamespaceRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NamespaceRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NamespaceQDT = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
	NamespaceUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
)

// TypeCodeCommercialInvoice is the UNTDID 1001 code for a commercial invoice
const TypeCodeCommercialInvoice = "380"

var nonAlnumPattern = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Generator builds EN16931 Cross-Industry-Invoice XML from an invoice
// document. It is stateless and safe for concurrent use.
type Generator struct{}

// NewGenerator creates a new CII generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate serializes the invoice as CII XML for the given profile.
// It is pure and total: malformed dates are normalized best-effort and
// missing optional fields are omitted rather than reported as errors.
// Amounts and totals are taken as given, never recomputed.
func (g *Generator) Generate(inv *model.Invoice, profile model.Profile) string {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", NamespaceRSM)
	root.CreateAttr("xmlns:ram", NamespaceRAM)
	root.CreateAttr("xmlns:qdt", NamespaceQDT)
	root.CreateAttr("xmlns:udt", NamespaceUDT)

	g.addDocumentContext(root, profile)
	g.addExchangedDocument(root, inv)
	g.addTradeTransaction(root, inv)

	doc.Indent(2)
	xml, _ := doc.WriteToString() // in-memory serialization cannot fail
	return xml
}

func (g *Generator) addDocumentContext(root *etree.Element, profile model.Profile) {
	ctx := root.CreateElement("rsm:ExchangedDocumentContext")
	guideline := ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	addText(guideline, "ram:ID", profile.GuidelineID())
}

func (g *Generator) addExchangedDocument(root *etree.Element, inv *model.Invoice) {
	doc := root.CreateElement("rsm:ExchangedDocument")
	addText(doc, "ram:ID", DocumentID(inv.Number))
	addText(doc, "ram:TypeCode", TypeCodeCommercialInvoice)
	addDate(doc, "ram:IssueDateTime", inv.IssueDate)
}

func (g *Generator) addTradeTransaction(root *etree.Element, inv *model.Invoice) {
	txn := root.CreateElement("rsm:SupplyChainTradeTransaction")

	agreement := txn.CreateElement("ram:ApplicableHeaderTradeAgreement")
	addText(agreement, "ram:BuyerReference", inv.ProjectTitle)
	g.addParty(agreement, "ram:SellerTradeParty", inv.Seller)
	g.addParty(agreement, "ram:BuyerTradeParty", inv.Buyer)

	// Mandatory in the CII schema even when no delivery data is carried
	txn.CreateElement("ram:ApplicableHeaderTradeDelivery")

	g.addSettlement(txn, inv)

	for i, line := range inv.FlattenLines() {
		g.addLineItem(txn, i+1, line)
	}
}

func (g *Generator) addParty(parent *etree.Element, tag string, p model.Party) {
	party := parent.CreateElement(tag)
	addText(party, "ram:Name", p.Name)

	if p.Phone != "" || p.Email != "" {
		contact := party.CreateElement("ram:DefinedTradeContact")
		if p.Phone != "" {
			phone := contact.CreateElement("ram:TelephoneUniversalCommunication")
			addText(phone, "ram:CompleteNumber", p.Phone)
		}
		if p.Email != "" {
			email := contact.CreateElement("ram:EmailURIUniversalCommunication")
			addText(email, "ram:URIID", p.Email)
		}
	}

	addr := party.CreateElement("ram:PostalTradeAddress")
	postcode, cityName := SplitCity(p.City)
	addText(addr, "ram:PostcodeCode", postcode)
	addText(addr, "ram:LineOne", p.Address)
	addText(addr, "ram:CityName", cityName)
	addText(addr, "ram:CountryID", "FR")

	if p.TaxID != "" {
		reg := party.CreateElement("ram:SpecifiedTaxRegistration")
		id := reg.CreateElement("ram:ID")
		id.CreateAttr("schemeID", "VA")
		id.SetText(p.TaxID)
	}
}

func (g *Generator) addSettlement(txn *etree.Element, inv *model.Invoice) {
	settlement := txn.CreateElement("ram:ApplicableHeaderTradeSettlement")
	addText(settlement, "ram:InvoiceCurrencyCode", "EUR")

	// Single aggregate VAT block, caller-supplied amounts
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	addText(tax, "ram:CalculatedAmount", money.Format(inv.Totals.VATAmount))
	addText(tax, "ram:TypeCode", "VAT")
	addText(tax, "ram:BasisAmount", money.Format(inv.Totals.Subtotal))
	addText(tax, "ram:CategoryCode", "S")
	if rate, ok := sharedVATRate(inv); ok {
		addText(tax, "ram:RateApplicablePercent", money.FormatRate(rate))
	}

	terms := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
	if inv.DueDate != "" {
		addText(terms, "ram:Description", "Paiement à réception, au plus tard le "+inv.DueDate)
		addDate(terms, "ram:DueDateDateTime", inv.DueDate)
	} else {
		addText(terms, "ram:Description", "Paiement à réception")
	}

	sum := settlement.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	addText(sum, "ram:LineTotalAmount", money.Format(inv.Totals.Subtotal))
	addText(sum, "ram:TaxBasisTotalAmount", money.Format(inv.Totals.Subtotal))
	taxTotal := sum.CreateElement("ram:TaxTotalAmount")
	taxTotal.CreateAttr("currencyID", "EUR")
	taxTotal.SetText(money.Format(inv.Totals.VATAmount))
	// Grand total is the pre-deposit gross (EN16931 BT-112):
	// line total + VAT, i.e. the due amount plus any prepaid deposit.
	addText(sum, "ram:GrandTotalAmount", money.Format(inv.Totals.TotalWithVAT.Add(inv.Totals.Deposit)))
	if money.IsPositive(inv.Totals.Deposit) {
		addText(sum, "ram:TotalPrepaidAmount", money.Format(inv.Totals.Deposit))
	}
	addText(sum, "ram:DuePayableAmount", money.Format(inv.Totals.TotalWithVAT))
}

func (g *Generator) addLineItem(txn *etree.Element, lineID int, line model.LineItem) {
	item := txn.CreateElement("ram:IncludedSupplyChainTradeLineItem")

	docLine := item.CreateElement("ram:AssociatedDocumentLineDocument")
	addText(docLine, "ram:LineID", strconv.Itoa(lineID))

	product := item.CreateElement("ram:SpecifiedTradeProduct")
	addText(product, "ram:Name", line.Designation)

	agreement := item.CreateElement("ram:SpecifiedLineTradeAgreement")
	price := agreement.CreateElement("ram:NetPriceProductTradePrice")
	addText(price, "ram:ChargeAmount", money.Format(line.UnitPrice))

	delivery := item.CreateElement("ram:SpecifiedLineTradeDelivery")
	qty := delivery.CreateElement("ram:BilledQuantity")
	qty.CreateAttr("unitCode", "C62")
	qty.SetText(money.FormatQuantity(line.Quantity))

	settlement := item.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	addText(tax, "ram:TypeCode", "VAT")
	addText(tax, "ram:CategoryCode", "S")
	addText(tax, "ram:RateApplicablePercent", money.FormatRate(line.VATRate))
	sum := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	addText(sum, "ram:LineTotalAmount", money.Format(line.Total))
}

// DocumentID derives the CII document identifier from an invoice
// number by stripping every non-alphanumeric character.
func DocumentID(number string) string {
	return nonAlnumPattern.ReplaceAllString(number, "")
}

// NormalizeDate converts DD/MM/YYYY or YYYY-MM-DD into the compact
// 102-format YYYYMMDD. The conversion is format-only: there is no
// calendar validation and malformed input passes through best-effort.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) == 3 {
			return parts[2] + parts[1] + parts[0]
		}
	}
	return strings.ReplaceAll(s, "-", "")
}

// SplitCity splits a combined "postcode city" string on the first
// space. Without a space the postcode is empty and the whole string is
// the city name.
func SplitCity(city string) (postcode, name string) {
	parts := strings.SplitN(strings.TrimSpace(city), " ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "", parts[0]
}

// sharedVATRate returns the rate common to all leaf lines, if there is
// exactly one. The header tax block only names a rate when it is
// unambiguous.
func sharedVATRate(inv *model.Invoice) (decimal.Decimal, bool) {
	lines := inv.FlattenLines()
	if len(lines) == 0 {
		return decimal.Zero, false
	}
	rate := lines[0].VATRate
	for _, l := range lines[1:] {
		if !l.VATRate.Equal(rate) {
			return decimal.Zero, false
		}
	}
	return rate, true
}

// addText appends a child element with text content, omitting the
// element entirely when the text is empty.
func addText(parent *etree.Element, tag, text string) {
	if text == "" {
		return
	}
	el := parent.CreateElement(tag)
	el.SetText(text)
}

// addDate appends a 102-format date child, omitted when empty.
func addDate(parent *etree.Element, tag, date string) {
	normalized := NormalizeDate(date)
	if normalized == "" {
		return
	}
	wrapper := parent.CreateElement(tag)
	dts := wrapper.CreateElement("udt:DateTimeString")
	dts.CreateAttr("format", "102")
	dts.SetText(normalized)
}
