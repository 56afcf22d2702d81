package validation

import (
	"strings"
	"testing"

	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *models.Document {
	return &models.Document{
		RefNumber:    "TPSO251101000001",
		KdDok:        "1",
		KdTps:        "MRK1",
		KdGudang:     "GD01",
		KdAngkut:     "KPL",
		NmAngkut:     "MT SINAR MERAK",
		NoVoyFlight:  "V.025",
		CallSign:     "YBCD",
		KdPelMuat:    "SGSIN",
		KdPelBongkar: "IDMRK",
		TglTiba:      "20251101",
		JamTiba:      "083000",
		Tangki: []models.Tangki{
			{
				NoTangki:   "TK-001",
				KdDokInout: "BC16",
				JmlSatuan:  decimal.RequireFromString("100.000"),
				Kapasitas:  decimal.RequireFromString("200.000"),
				KdSatuan:   "LITER",
				KdKemasan:  "VQ",
				JenisIsi:   "CPO",
				Consignee:  "PT Minyak Merak",
			},
		},
	}
}

func hasMessage(list []string, fragment string) bool {
	for _, m := range list {
		if strings.Contains(m, fragment) {
			return true
		}
	}
	return false
}

func TestValidDocument(t *testing.T) {
	res := Validate(validDocument())
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestZeroLineItems(t *testing.T) {
	doc := validDocument()
	doc.Tangki = nil

	res := Validate(doc)
	assert.False(t, res.Valid)
	require.NotEmpty(t, res.Errors)
	assert.True(t, hasMessage(res.Errors, "no tangki"))
}

func TestQuantityExceedsCapacity(t *testing.T) {
	doc := validDocument()
	doc.Tangki[0].JmlSatuan = decimal.RequireFromString("250.5")

	res := Validate(doc)
	assert.False(t, res.Valid)
	assert.True(t, hasMessage(res.Errors, "quantity 250.500 exceeds capacity 200.000"))
}

func TestZeroCapacityIsNotCompared(t *testing.T) {
	doc := validDocument()
	doc.Tangki[0].Kapasitas = decimal.Zero

	res := Validate(doc)
	assert.True(t, res.Valid)
}

func TestMissingRequiredFields(t *testing.T) {
	doc := validDocument()
	doc.KdTps = ""
	doc.NmAngkut = ""
	doc.Tangki[0].KdDokInout = ""
	doc.Tangki[0].NoTangki = ""

	res := Validate(doc)
	assert.False(t, res.Valid)
	assert.True(t, hasMessage(res.Errors, "KD_TPS"))
	assert.True(t, hasMessage(res.Errors, "NM_ANGKUT"))
	assert.True(t, hasMessage(res.Errors, "KD_DOK_INOUT"))
	assert.True(t, hasMessage(res.Errors, "NO_TANGKI"))
}

func TestNegativeAndOverPrecision(t *testing.T) {
	doc := validDocument()
	doc.Tangki[0].Berat = decimal.RequireFromString("-1")
	doc.Tangki[0].Volume = decimal.RequireFromString("1.0005")

	res := Validate(doc)
	assert.False(t, res.Valid)
	assert.True(t, hasMessage(res.Errors, "BERAT must not be negative"))
	assert.True(t, hasMessage(res.Errors, "VOLUME has more than 3 decimals"))
}

func TestMalformedDates(t *testing.T) {
	doc := validDocument()
	doc.TglTiba = "2025-11-01"
	doc.JamTiba = "25:00"

	res := Validate(doc)
	assert.False(t, res.Valid)
	assert.True(t, hasMessage(res.Errors, "TGL_TIBA must be a date"))
	assert.True(t, hasMessage(res.Errors, "JAM_TIBA must be a time"))
}

func TestWarningsDoNotBlock(t *testing.T) {
	doc := validDocument()
	doc.CallSign = ""
	doc.Tangki[0].Consignee = ""
	doc.TglGateIn = "20251030"
	doc.TglGateOut = "20251029"

	res := Validate(doc)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.True(t, hasMessage(res.Warnings, "CALL_SIGN"))
	assert.True(t, hasMessage(res.Warnings, "CONSIGNEE"))
	assert.True(t, hasMessage(res.Warnings, "gate-in date 20251030 is before arrival"))
	assert.True(t, hasMessage(res.Warnings, "gate-out date 20251029 is before gate-in"))
}

func TestNilDocument(t *testing.T) {
	res := Validate(nil)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Errors)
}
