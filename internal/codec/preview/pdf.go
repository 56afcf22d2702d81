package preview

import (
	"bytes"
	"fmt"

	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// PDF renders a printable cover sheet with a QR code of the ref number
func PDF(doc *models.Document) ([]byte, error) {
	exp := Build(doc)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	qrPng, err := qrcode.Encode(exp.RefNumber, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR: %w", err)
	}
	imgOptions := gofpdf.ImageOptions{
		ImageType: "PNG",
		ReadDpi:   true,
	}
	_ = pdf.RegisterImageOptionsReader("ref_qr", imgOptions, bytes.NewReader(qrPng))
	pdf.ImageOptions("ref_qr", 160, 12, 35, 35, false, imgOptions, 0, "")

	// Title
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(140, 10, "CoCoTangki", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(140, 7, "Ref: "+exp.RefNumber, "", 1, "L", false, 0, "")
	pdf.CellFormat(140, 7, "Transmission: "+exp.Transmission.State, "", 1, "L", false, 0, "")
	pdf.Ln(12)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	h := exp.Header
	pdf.SetFont("Arial", "", 10)
	for _, row := range [][2]string{
		{"Document type", h.DocumentType},
		{"Terminal (TPS)", h.Terminal},
		{"Warehouse", h.Warehouse},
		{"Vessel", h.VesselName},
		{"Voyage", h.Voyage},
		{"Call sign", h.CallSign},
		{"Arrival", h.Arrival},
		{"Gate in", h.GateIn},
		{"Gate out", h.GateOut},
	} {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 6, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Line items table
	widths := []float64{10, 30, 25, 30, 30, 20, 35}
	headers := []string{"#", "Tank", "Doc", "Quantity", "Capacity", "Unit", "Consignee"}
	pdf.SetFont("Arial", "B", 9)
	for i, title := range headers {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	flagged := false
	for _, li := range exp.LineItems {
		if li.hasExcess("quantity") {
			li.Quantity += "*"
		}
		if li.hasExcess("capacity") {
			li.Capacity += "*"
		}
		flagged = flagged || len(li.ExcessPrecision) > 0
		cells := []string{
			fmt.Sprintf("%d", li.Sequence),
			li.TankNumber,
			li.InOutDocType,
			li.Quantity,
			li.Capacity,
			li.Unit,
			li.Consignee,
		}
		for i, c := range cells {
			align := "L"
			if i == 0 || i == 3 || i == 4 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, tr(c), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(exp.LineItems) == 0 {
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 6, "No line items", "", 1, "L", false, 0, "")
	}
	if flagged {
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, "* more decimals than CoCoTangki accepts, shown unrounded", "", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
