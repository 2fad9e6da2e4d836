package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Profile identifies a Factur-X conformance profile.
// It selects the guideline ID embedded in the XML and the conformance
// level written into the XMP packet. All profiles currently serialize
// the same field set; per-profile minimal-field enforcement is a known
// simplification.
type Profile string

const (
	ProfileMinimum  Profile = "MINIMUM"
	ProfileBasic    Profile = "BASIC"
	ProfileEN16931  Profile = "EN16931"
	ProfileExtended Profile = "EXTENDED"
)

// ParseProfile parses a profile name, case-insensitive.
// Unknown names fall back to EN16931.
func ParseProfile(s string) Profile {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MINIMUM":
		return ProfileMinimum
	case "BASIC":
		return ProfileBasic
	case "EXTENDED":
		return ProfileExtended
	default:
		return ProfileEN16931
	}
}

// GuidelineID returns the CII guideline parameter for this profile.
func (p Profile) GuidelineID() string {
	return "urn:factur-x.eu:1p0:" + strings.ToLower(string(p))
}

// Party represents a seller or buyer on the invoice.
// City combines postcode and city name in one string ("75001 Paris").
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

// LineItem is a leaf billing line. Total is trusted as
// round2(Quantity * UnitPrice); the codec never recomputes it.
type LineItem struct {
	Designation string          `json:"designation"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Total       decimal.Decimal `json:"total"`
}

// Subsection groups an ordered list of line items.
type Subsection struct {
	Title string     `json:"title"`
	Lines []LineItem `json:"lines"`
}

// Section groups an ordered list of subsections.
type Section struct {
	Title       string       `json:"title"`
	Subsections []Subsection `json:"subsections"`
}

// Totals carries the document-level amounts, already computed upstream.
// Invariant (trusted, not derived here): TotalWithVAT == round2(Subtotal + VATAmount - Deposit).
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	VATAmount    decimal.Decimal `json:"vat_amount"`
	Deposit      decimal.Decimal `json:"deposit"`
	TotalWithVAT decimal.Decimal `json:"total_with_vat"`
}

// Invoice is the in-memory invoice document consumed by the codec.
// It is constructed once upstream and passed immutably; no component
// in this module mutates it.
type Invoice struct {
	Number       string    `json:"number"`
	IssueDate    string    `json:"issue_date"`
	DueDate      string    `json:"due_date"`
	Seller       Party     `json:"seller"`
	Buyer        Party     `json:"buyer"`
	ProjectTitle string    `json:"project_title,omitempty"`
	Sections     []Section `json:"sections"`
	Totals       Totals    `json:"totals"`
}

// FlattenLines returns all leaf lines in depth-first traversal order
// (section, then subsection, then line), which defines LineID 1..N.
func (inv *Invoice) FlattenLines() []LineItem {
	var lines []LineItem
	for _, sec := range inv.Sections {
		for _, sub := range sec.Subsections {
			lines = append(lines, sub.Lines...)
		}
	}
	return lines
}
