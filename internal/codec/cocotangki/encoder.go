// Package cocotangki renders documents in the Beacukai CoCoTangki XML format.
package cocotangki

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// SchemaError means the encoder could not produce schema-conformant output.
// It indicates a defect upstream (validation should have caught it).
type SchemaError struct {
	Field  string
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("cocotangki schema: %s: %s", e.Field, e.Detail)
}

// Filename is the upload file name announced to the authority
func Filename(refNumber string) string {
	return refNumber + ".xml"
}

// Encode renders the document and its line items. The output depends only
// on the document: identical input yields byte-identical XML.
func Encode(doc *models.Document) ([]byte, error) {
	if doc == nil {
		return nil, &SchemaError{Field: TagDocument, Detail: "document is nil"}
	}

	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	x.WriteSettings.CanonicalEndTags = true

	root := x.CreateElement(TagDocument)
	root.CreateAttr("xmlns", Namespace)
	body := root.CreateElement(TagCocotangki)

	header := body.CreateElement(TagHeader)
	for _, f := range []struct{ tag, value string }{
		{TagKdDok, doc.KdDok},
		{TagKdTps, doc.KdTps},
		{TagNmAngkut, doc.NmAngkut},
		{TagNoVoyFlight, doc.NoVoyFlight},
		{TagCallSign, doc.CallSign},
		{TagTglTiba, doc.TglTiba},
		{TagKdGudang, doc.KdGudang},
		{TagRefNumber, doc.RefNumber},
		{TagKdAngkut, doc.KdAngkut},
		{TagJamTiba, doc.JamTiba},
		{TagKdPelMuat, doc.KdPelMuat},
		{TagKdPelTransit, doc.KdPelTransit},
		{TagKdPelBongkar, doc.KdPelBongkar},
		{TagTglGateIn, doc.TglGateIn},
		{TagJamGateIn, doc.JamGateIn},
		{TagTglGateOut, doc.TglGateOut},
		{TagJamGateOut, doc.JamGateOut},
	} {
		header.CreateElement(f.tag).SetText(f.value)
	}

	detil := body.CreateElement(TagDetil)
	for _, t := range SortedItems(doc.Tangki) {
		if err := encodeTangki(detil.CreateElement(TagTangki), t); err != nil {
			return nil, err
		}
	}

	// free text is sent as entered, even when it is only blanks
	indent := etree.NewIndentSettings()
	indent.Spaces = 2
	indent.PreserveLeafWhitespace = true
	x.IndentWithSettings(indent)
	return x.WriteToBytes()
}

func encodeTangki(el *etree.Element, t models.Tangki) error {
	text := func(tag, value string) {
		el.CreateElement(tag).SetText(value)
	}
	var err error
	number := func(tag string, d decimal.Decimal, places int32) {
		if err != nil {
			return
		}
		var s string
		if s, err = fixed(tag, d, places); err == nil {
			text(tag, s)
		}
	}

	text(TagNoTangki, t.NoTangki)
	number(TagJmlSatuan, t.JmlSatuan, models.QuantityPlaces)
	text(TagKdSatuan, t.KdSatuan)
	number(TagKapasitas, t.Kapasitas, models.QuantityPlaces)
	text(TagSeqAktivitas, strconv.Itoa(t.SeqAktivitas))
	text(TagKdDokInout, t.KdDokInout)
	text(TagNoDokInout, t.NoDokInout)
	text(TagTglDokInout, t.TglDokInout)
	text(TagKdSarAngkutInout, t.KdSarAngkutInout)
	text(TagNoBlAwb, t.NoBlAwb)
	text(TagTglBlAwb, t.TglBlAwb)
	text(TagJenisIsi, t.JenisIsi)
	text(TagConsignee, t.Consignee)
	text(TagKdKemasan, t.KdKemasan)
	number(TagVolume, t.Volume, models.QuantityPlaces)
	number(TagPanjang, t.Panjang, models.DimensionPlaces)
	number(TagLebar, t.Lebar, models.DimensionPlaces)
	number(TagTinggi, t.Tinggi, models.DimensionPlaces)
	number(TagBerat, t.Berat, models.DimensionPlaces)
	number(TagBruto, t.Bruto, models.DimensionPlaces)
	number(TagNetto, t.Netto, models.DimensionPlaces)
	text(TagKeterangan, t.Keterangan)

	if err != nil {
		return fmt.Errorf("tangki %s: %w", t.NoTangki, err)
	}
	return nil
}

// fixed renders d with exactly places decimals. A value that would need
// rounding is rejected instead of silently changed.
func fixed(tag string, d decimal.Decimal, places int32) (string, error) {
	if !d.Round(places).Equal(d) {
		return "", &SchemaError{Field: tag, Detail: fmt.Sprintf("%s has more than %d decimals", d.String(), places)}
	}
	return d.StringFixed(places), nil
}

// FitsPrecision reports whether d can be rendered at places decimals without rounding
func FitsPrecision(d decimal.Decimal, places int32) bool {
	return d.Round(places).Equal(d)
}

// SortedItems returns line items in stored sequence order (Urutan, then ID)
// without modifying the input slice.
func SortedItems(items []models.Tangki) []models.Tangki {
	sorted := make([]models.Tangki, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Urutan != sorted[j].Urutan {
			return sorted[i].Urutan < sorted[j].Urutan
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
