package pdfa

import (
	"time"

	"github.com/beevik/etree"

	"github.com/rezonia/facturx/internal/model"
)

// XMP namespaces
const (
	nsRDF           = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsPDFAID        = "http://www.aiim.org/pdfa/ns/id/"
	nsDC            = "http://purl.org/dc/elements/1.1/"
	nsXMP           = "http://ns.adobe.com/xap/1.0/"
	nsXMPMM         = "http://ns.adobe.com/xap/1.0/mm/"
	nsPDFAExtension = "http://www.aiim.org/pdfa/ns/extension/"
	nsPDFASchema    = "http://www.aiim.org/pdfa/ns/schema#"
	nsPDFAProperty  = "http://www.aiim.org/pdfa/ns/property#"
	nsFacturX       = "urn:factur-x:pdfa:CrossIndustryDocument:invoice:1p0#"
)

// XMPData carries everything the XMP packet needs. DocumentID and
// InstanceID are two independent UUIDs supplied by the embedder's
// injected generator.
type XMPData struct {
	Title       string
	Author      string
	Description string
	CreatorTool string
	Date        time.Time
	DocumentID  string
	InstanceID  string
	Profile     model.Profile
}

// BuildXMP renders the PDF/A-3 XMP metadata packet: PDF/A
// identification (part 3, conformance B), Dublin Core, XMP basic, XMP
// media management, the Factur-X extension schema declaration and the
// Factur-X property block itself.
func BuildXMP(d XMPData) []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xpacket", `begin="`+"\uFEFF"+`" id="W5M0MpCehiHzreSzNTczkc9d"`)

	meta := doc.CreateElement("x:xmpmeta")
	meta.CreateAttr("xmlns:x", "adobe:ns:meta/")
	rdf := meta.CreateElement("rdf:RDF")
	rdf.CreateAttr("xmlns:rdf", nsRDF)

	addPDFAIdentification(rdf)
	addDublinCore(rdf, d)
	addXMPBasic(rdf, d)
	addMediaManagement(rdf, d)
	addFacturXSchema(rdf)
	addFacturXProperties(rdf, d.Profile)

	doc.CreateProcInst("xpacket", `end="w"`)

	doc.Indent(2)
	packet, _ := doc.WriteToBytes() // in-memory serialization cannot fail
	return packet
}

func newDescription(rdf *etree.Element, prefix, ns string) *etree.Element {
	desc := rdf.CreateElement("rdf:Description")
	desc.CreateAttr("rdf:about", "")
	desc.CreateAttr("xmlns:"+prefix, ns)
	return desc
}

func addPDFAIdentification(rdf *etree.Element) {
	desc := newDescription(rdf, "pdfaid", nsPDFAID)
	desc.CreateElement("pdfaid:part").SetText("3")
	desc.CreateElement("pdfaid:conformance").SetText("B")
}

func addDublinCore(rdf *etree.Element, d XMPData) {
	desc := newDescription(rdf, "dc", nsDC)

	title := desc.CreateElement("dc:title").CreateElement("rdf:Alt").CreateElement("rdf:li")
	title.CreateAttr("xml:lang", "x-default")
	title.SetText(d.Title)

	creator := desc.CreateElement("dc:creator").CreateElement("rdf:Seq").CreateElement("rdf:li")
	creator.SetText(d.Author)

	description := desc.CreateElement("dc:description").CreateElement("rdf:Alt").CreateElement("rdf:li")
	description.CreateAttr("xml:lang", "x-default")
	description.SetText(d.Description)
}

func addXMPBasic(rdf *etree.Element, d XMPData) {
	desc := newDescription(rdf, "xmp", nsXMP)
	stamp := d.Date.Format(time.RFC3339)
	desc.CreateElement("xmp:CreatorTool").SetText(d.CreatorTool)
	desc.CreateElement("xmp:CreateDate").SetText(stamp)
	desc.CreateElement("xmp:ModifyDate").SetText(stamp)
	desc.CreateElement("xmp:MetadataDate").SetText(stamp)
}

func addMediaManagement(rdf *etree.Element, d XMPData) {
	desc := newDescription(rdf, "xmpMM", nsXMPMM)
	desc.CreateElement("xmpMM:DocumentID").SetText("uuid:" + d.DocumentID)
	desc.CreateElement("xmpMM:InstanceID").SetText("uuid:" + d.InstanceID)
}

// addFacturXSchema declares the custom fx: property set so PDF/A
// validators accept the non-standard namespace.
func addFacturXSchema(rdf *etree.Element) {
	desc := newDescription(rdf, "pdfaExtension", nsPDFAExtension)
	desc.CreateAttr("xmlns:pdfaSchema", nsPDFASchema)
	desc.CreateAttr("xmlns:pdfaProperty", nsPDFAProperty)

	schema := desc.CreateElement("pdfaExtension:schemas").
		CreateElement("rdf:Bag").
		CreateElement("rdf:li")
	schema.CreateAttr("rdf:parseType", "Resource")
	schema.CreateElement("pdfaSchema:schema").SetText("Factur-X PDFA Extension Schema")
	schema.CreateElement("pdfaSchema:namespaceURI").SetText(nsFacturX)
	schema.CreateElement("pdfaSchema:prefix").SetText("fx")

	properties := schema.CreateElement("pdfaSchema:property").CreateElement("rdf:Seq")
	for _, p := range []struct {
		name, description string
	}{
		{"DocumentFileName", "Name of the embedded XML invoice file"},
		{"DocumentType", "INVOICE"},
		{"Version", "The actual version of the Factur-X XML schema"},
		{"ConformanceLevel", "The conformance level of the embedded Factur-X data"},
	} {
		li := properties.CreateElement("rdf:li")
		li.CreateAttr("rdf:parseType", "Resource")
		li.CreateElement("pdfaProperty:name").SetText(p.name)
		li.CreateElement("pdfaProperty:valueType").SetText("Text")
		li.CreateElement("pdfaProperty:category").SetText("external")
		li.CreateElement("pdfaProperty:description").SetText(p.description)
	}
}

func addFacturXProperties(rdf *etree.Element, profile model.Profile) {
	desc := newDescription(rdf, "fx", nsFacturX)
	desc.CreateElement("fx:DocumentFileName").SetText(AttachmentName)
	desc.CreateElement("fx:DocumentType").SetText("INVOICE")
	desc.CreateElement("fx:Version").SetText("1.0")
	desc.CreateElement("fx:ConformanceLevel").SetText(string(profile))
}
