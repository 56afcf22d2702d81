package cocotangki

import (
	"strings"
	"testing"

	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *models.Document {
	return &models.Document{
		ID:          1,
		RefNumber:   "TPSO251101000001",
		KdDok:       "1",
		KdTps:       "MRK1",
		KdGudang:    "GD01",
		NmAngkut:    "MT SINAR MERAK",
		NoVoyFlight: "V.025",
		CallSign:    "YBCD",
		TglTiba:     "20251101",
		JamTiba:     "083000",
		Tangki: []models.Tangki{
			{
				ID:           10,
				NoTangki:     "TK-001",
				SeqAktivitas: 1,
				KdDokInout:   "BC16",
				JmlSatuan:    decimal.RequireFromString("100.000"),
				Kapasitas:    decimal.RequireFromString("200.000"),
				KdSatuan:     "LITER",
			},
		},
	}
}

func parse(t *testing.T, out []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	return doc
}

func TestEncodeExampleDocument(t *testing.T) {
	out, err := Encode(sampleDocument())
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, s, `<DOCUMENT xmlns="cocotangki.xsd">`)
	assert.Contains(t, s, "<JML_SATUAN>100.000</JML_SATUAN>")
	assert.Contains(t, s, "<KAPASITAS>200.000</KAPASITAS>")
	assert.Contains(t, s, "<KD_SATUAN>LITER</KD_SATUAN>")
	assert.Contains(t, s, "<PANJANG>0.00</PANJANG>")
	assert.NotContains(t, s, "<JML_SATUAN>100</JML_SATUAN>")
	assert.NotContains(t, s, "<JML_SATUAN>100.0</JML_SATUAN>")

	x := parse(t, out)
	ref := x.FindElement("/DOCUMENT/COCOTANGKI/HEADER/REF_NUMBER")
	require.NotNil(t, ref)
	assert.Equal(t, "TPSO251101000001", ref.Text())
}

func TestEncodeDetailBlocksFollowStoredOrder(t *testing.T) {
	doc := sampleDocument()
	doc.Tangki = []models.Tangki{
		{ID: 5, Urutan: 3, NoTangki: "TK-C", KdDokInout: "BC16"},
		{ID: 9, Urutan: 1, NoTangki: "TK-A", KdDokInout: "BC16"},
		{ID: 2, Urutan: 2, NoTangki: "TK-B2", KdDokInout: "BC16"},
		{ID: 1, Urutan: 2, NoTangki: "TK-B1", KdDokInout: "BC16"},
	}

	out, err := Encode(doc)
	require.NoError(t, err)

	blocks := parse(t, out).FindElements("/DOCUMENT/COCOTANGKI/DETIL/TANGKI")
	require.Len(t, blocks, len(doc.Tangki))

	var got []string
	for _, b := range blocks {
		got = append(got, b.FindElement("NO_TANGKI").Text())
	}
	assert.Equal(t, []string{"TK-A", "TK-B1", "TK-B2", "TK-C"}, got)

	// input slice untouched
	assert.Equal(t, "TK-C", doc.Tangki[0].NoTangki)
}

func TestEncodeIsDeterministic(t *testing.T) {
	doc := sampleDocument()
	for i := 0; i < 4; i++ {
		doc.Tangki = append(doc.Tangki, models.Tangki{
			ID:         uint(20 + i),
			Urutan:     i,
			NoTangki:   "TK-10" + string(rune('0'+i)),
			KdDokInout: "BC16",
			JmlSatuan:  decimal.NewFromFloat(1.5),
		})
	}

	first, err := Encode(doc)
	require.NoError(t, err)
	second, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeZeroItems(t *testing.T) {
	doc := sampleDocument()
	doc.Tangki = nil

	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Empty(t, parse(t, out).FindElements("//TANGKI"))
}

func TestEncodeEscapesFreeText(t *testing.T) {
	doc := sampleDocument()
	doc.NmAngkut = `MT "A&B" <Express>`
	doc.Tangki[0].Consignee = "PT Minyak & Gas <Persero>"

	out, err := Encode(doc)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "A&B")
	assert.Contains(t, s, "&amp;")
	assert.Contains(t, s, "&lt;Persero&gt;")

	x := parse(t, out)
	assert.Equal(t, doc.NmAngkut, x.FindElement("//NM_ANGKUT").Text())
	assert.Equal(t, doc.Tangki[0].Consignee, x.FindElement("//CONSIGNEE").Text())
}

func TestEncodeKeepsBlankFreeText(t *testing.T) {
	doc := sampleDocument()
	doc.Tangki[0].Keterangan = "  "
	doc.Tangki[0].JenisIsi = "\t"

	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<KETERANGAN>  </KETERANGAN>")

	x := parse(t, out)
	assert.Equal(t, "  ", x.FindElement("//KETERANGAN").Text())
	assert.Equal(t, "\t", x.FindElement("//JENIS_ISI").Text())
}

func TestEncodeRejectsExcessPrecision(t *testing.T) {
	doc := sampleDocument()
	doc.Tangki[0].Berat = decimal.RequireFromString("12.345")

	_, err := Encode(doc)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, TagBerat, schemaErr.Field)

	doc.Tangki[0].Berat = decimal.RequireFromString("12.3400")
	_, err = Encode(doc)
	assert.NoError(t, err)
}

func TestEncodeNil(t *testing.T) {
	_, err := Encode(nil)
	var schemaErr *SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "TPSO251101000001.xml", Filename("TPSO251101000001"))
}
