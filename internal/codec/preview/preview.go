// Package preview renders a human readable export of a document (XML, JSON or
// a PDF cover sheet). It is not the authority format; see package cocotangki.
package preview

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/anhardeni/tps40-merak-sub001/internal/codec/cocotangki"
	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/shopspring/decimal"
)

// Format names accepted by Render
const (
	FormatXML  = "xml"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// Export is the preview shape of a document
type Export struct {
	XMLName      xml.Name     `xml:"documentExport" json:"-"`
	RefNumber    string       `xml:"refNumber" json:"refNumber"`
	Status       string       `xml:"status" json:"status"`
	Header       Header       `xml:"header" json:"header"`
	Transmission Transmission `xml:"transmission" json:"transmission"`
	LineItems    []LineItem   `xml:"lineItems>lineItem" json:"lineItems"`
}

// Header holds the voyage and location data
type Header struct {
	DocumentType string `xml:"documentType" json:"documentType"`
	Terminal     string `xml:"terminal" json:"terminal"`
	Warehouse    string `xml:"warehouse" json:"warehouse"`
	Conveyance   string `xml:"conveyance,omitempty" json:"conveyance,omitempty"`
	VesselName   string `xml:"vesselName" json:"vesselName"`
	Voyage       string `xml:"voyage" json:"voyage"`
	CallSign     string `xml:"callSign,omitempty" json:"callSign,omitempty"`
	PortOfLoad   string `xml:"portOfLoading,omitempty" json:"portOfLoading,omitempty"`
	PortTransit  string `xml:"portOfTransit,omitempty" json:"portOfTransit,omitempty"`
	PortDischarg string `xml:"portOfDischarge,omitempty" json:"portOfDischarge,omitempty"`
	Arrival      string `xml:"arrival,omitempty" json:"arrival,omitempty"`
	GateIn       string `xml:"gateIn,omitempty" json:"gateIn,omitempty"`
	GateOut      string `xml:"gateOut,omitempty" json:"gateOut,omitempty"`
}

// Transmission is the current projection of the last send attempt
type Transmission struct {
	State  string `xml:"state" json:"state"`
	SentAt string `xml:"sentAt,omitempty" json:"sentAt,omitempty"`
	Error  string `xml:"error,omitempty" json:"error,omitempty"`
}

// LineItem is one tank in the preview
type LineItem struct {
	Sequence     int    `xml:"sequence,attr" json:"sequence"`
	TankNumber   string `xml:"tankNumber" json:"tankNumber"`
	Activity     int    `xml:"activity" json:"activity"`
	InOutDocType string `xml:"inOutDocumentType" json:"inOutDocumentType"`
	InOutDocNo   string `xml:"inOutDocumentNumber,omitempty" json:"inOutDocumentNumber,omitempty"`
	Content      string `xml:"content,omitempty" json:"content,omitempty"`
	Consignee    string `xml:"consignee,omitempty" json:"consignee,omitempty"`
	Quantity     string `xml:"quantity" json:"quantity"`
	Unit         string `xml:"unit,omitempty" json:"unit,omitempty"`
	Capacity     string `xml:"capacity" json:"capacity"`
	Volume       string `xml:"volume" json:"volume"`
	Gross        string `xml:"grossWeight" json:"grossWeight"`
	Net          string `xml:"netWeight" json:"netWeight"`
	Notes        string `xml:"notes,omitempty" json:"notes,omitempty"`
	// Fields holding more decimals than the authority accepts; shown unrounded
	ExcessPrecision []string `xml:"excessPrecision>field,omitempty" json:"excessPrecision,omitempty"`
}

// Build maps a document to its preview shape
func Build(doc *models.Document) Export {
	exp := Export{
		RefNumber: doc.RefNumber,
		Status:    doc.Status,
		Header: Header{
			DocumentType: doc.KdDok,
			Terminal:     doc.KdTps,
			Warehouse:    doc.KdGudang,
			Conveyance:   doc.KdAngkut,
			VesselName:   doc.NmAngkut,
			Voyage:       doc.NoVoyFlight,
			CallSign:     doc.CallSign,
			PortOfLoad:   doc.KdPelMuat,
			PortTransit:  doc.KdPelTransit,
			PortDischarg: doc.KdPelBongkar,
			Arrival:      joinDateTime(doc.TglTiba, doc.JamTiba),
			GateIn:       joinDateTime(doc.TglGateIn, doc.JamGateIn),
			GateOut:      joinDateTime(doc.TglGateOut, doc.JamGateOut),
		},
		Transmission: Transmission{
			State: doc.CocotangkiStatus.String(),
			Error: doc.CocotangkiError,
		},
		LineItems: []LineItem{},
	}
	if doc.CocotangkiSentAt != nil {
		exp.Transmission.SentAt = doc.CocotangkiSentAt.UTC().Format(time.RFC3339)
	}

	for i, t := range cocotangki.SortedItems(doc.Tangki) {
		item := LineItem{
			Sequence:     i + 1,
			TankNumber:   t.NoTangki,
			Activity:     t.SeqAktivitas,
			InOutDocType: t.KdDokInout,
			InOutDocNo:   t.NoDokInout,
			Content:      t.JenisIsi,
			Consignee:    t.Consignee,
			Unit:         t.KdSatuan,
			Notes:        t.Keterangan,
		}
		item.Quantity = item.amount("quantity", t.JmlSatuan, models.QuantityPlaces)
		item.Capacity = item.amount("capacity", t.Kapasitas, models.QuantityPlaces)
		item.Volume = item.amount("volume", t.Volume, models.QuantityPlaces)
		item.Gross = item.amount("grossWeight", t.Bruto, models.DimensionPlaces)
		item.Net = item.amount("netWeight", t.Netto, models.DimensionPlaces)
		exp.LineItems = append(exp.LineItems, item)
	}
	return exp
}

// amount renders d at the transmitted precision. A value that would need
// rounding keeps all its digits and is flagged instead.
func (li *LineItem) amount(field string, d decimal.Decimal, places int32) string {
	if cocotangki.FitsPrecision(d, places) {
		return d.StringFixed(places)
	}
	li.ExcessPrecision = append(li.ExcessPrecision, field)
	return d.String()
}

func (li LineItem) hasExcess(field string) bool {
	for _, f := range li.ExcessPrecision {
		if f == field {
			return true
		}
	}
	return false
}

func joinDateTime(date, clock string) string {
	if date == "" {
		return ""
	}
	if clock == "" {
		return date
	}
	return date + " " + clock
}

// XML renders the preview as indented XML
func XML(doc *models.Document) ([]byte, error) {
	out, err := xml.MarshalIndent(Build(doc), "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// JSON renders the preview as indented JSON
func JSON(doc *models.Document) ([]byte, error) {
	return json.MarshalIndent(Build(doc), "", "  ")
}

// Render dispatches on format and returns the body with its content type
func Render(doc *models.Document, format string) ([]byte, string, error) {
	switch format {
	case FormatXML, "":
		b, err := XML(doc)
		return b, "application/xml", err
	case FormatJSON:
		b, err := JSON(doc)
		return b, "application/json", err
	case FormatPDF:
		b, err := PDF(doc)
		return b, "application/pdf", err
	}
	return nil, "", fmt.Errorf("unsupported preview format %q", format)
}
