// Package validation decides whether a loaded document may be transmitted.
// It performs no I/O.
package validation

import (
	"fmt"
	"time"

	"github.com/anhardeni/tps40-merak-sub001/internal/codec/cocotangki"
	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "20060102"
	timeLayout = "150405"
)

// Result of a validation run. Errors block a send, warnings never do.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type collector struct {
	errors   []string
	warnings []string
}

func (c *collector) errorf(format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *collector) warnf(format string, args ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// Validate checks a document and its line items
func Validate(doc *models.Document) Result {
	c := &collector{}

	if doc == nil {
		c.errorf("document is missing")
		return c.result()
	}

	validateHeader(c, doc)

	if len(doc.Tangki) == 0 {
		c.errorf("document has no tangki line items")
	}
	for i, t := range cocotangki.SortedItems(doc.Tangki) {
		validateTangki(c, i+1, t)
	}

	return c.result()
}

func (c *collector) result() Result {
	r := Result{
		Errors:   c.errors,
		Warnings: c.warnings,
	}
	if r.Errors == nil {
		r.Errors = []string{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	r.Valid = len(r.Errors) == 0
	return r
}

func validateHeader(c *collector, doc *models.Document) {
	for _, f := range []struct{ name, value string }{
		{"ref number", doc.RefNumber},
		{"document type (KD_DOK)", doc.KdDok},
		{"TPS code (KD_TPS)", doc.KdTps},
		{"warehouse code (KD_GUDANG)", doc.KdGudang},
		{"vessel name (NM_ANGKUT)", doc.NmAngkut},
		{"voyage number (NO_VOY_FLIGHT)", doc.NoVoyFlight},
		{"arrival date (TGL_TIBA)", doc.TglTiba},
	} {
		if f.value == "" {
			c.errorf("%s is required", f.name)
		}
	}

	for _, f := range []struct{ name, value string }{
		{"call sign (CALL_SIGN)", doc.CallSign},
		{"conveyance code (KD_ANGKUT)", doc.KdAngkut},
		{"port of loading (KD_PEL_MUAT)", doc.KdPelMuat},
		{"port of discharge (KD_PEL_BONGKAR)", doc.KdPelBongkar},
	} {
		if f.value == "" {
			c.warnf("%s is empty", f.name)
		}
	}

	tiba := checkDate(c, "TGL_TIBA", doc.TglTiba)
	gateIn := checkDate(c, "TGL_GATE_IN", doc.TglGateIn)
	gateOut := checkDate(c, "TGL_GATE_OUT", doc.TglGateOut)
	checkClock(c, "JAM_TIBA", doc.JamTiba)
	checkClock(c, "JAM_GATE_IN", doc.JamGateIn)
	checkClock(c, "JAM_GATE_OUT", doc.JamGateOut)

	if tiba != nil && gateIn != nil && gateIn.Before(*tiba) {
		c.warnf("gate-in date %s is before arrival date %s", doc.TglGateIn, doc.TglTiba)
	}
	if gateIn != nil && gateOut != nil && gateOut.Before(*gateIn) {
		c.warnf("gate-out date %s is before gate-in date %s", doc.TglGateOut, doc.TglGateIn)
	}
}

func validateTangki(c *collector, n int, t models.Tangki) {
	label := fmt.Sprintf("tangki #%d", n)
	if t.NoTangki != "" {
		label = fmt.Sprintf("tangki #%d (%s)", n, t.NoTangki)
	}

	if t.NoTangki == "" {
		c.errorf("%s: tank number (NO_TANGKI) is required", label)
	}
	if t.KdDokInout == "" {
		c.errorf("%s: in/out document type (KD_DOK_INOUT) is required", label)
	}

	quantities := []struct {
		name   string
		value  decimal.Decimal
		places int32
	}{
		{"JML_SATUAN", t.JmlSatuan, models.QuantityPlaces},
		{"KAPASITAS", t.Kapasitas, models.QuantityPlaces},
		{"VOLUME", t.Volume, models.QuantityPlaces},
		{"PANJANG", t.Panjang, models.DimensionPlaces},
		{"LEBAR", t.Lebar, models.DimensionPlaces},
		{"TINGGI", t.Tinggi, models.DimensionPlaces},
		{"BERAT", t.Berat, models.DimensionPlaces},
		{"BRUTO", t.Bruto, models.DimensionPlaces},
		{"NETTO", t.Netto, models.DimensionPlaces},
	}
	for _, q := range quantities {
		if q.value.IsNegative() {
			c.errorf("%s: %s must not be negative (%s)", label, q.name, q.value.String())
		}
		if !cocotangki.FitsPrecision(q.value, q.places) {
			c.errorf("%s: %s has more than %d decimals (%s)", label, q.name, q.places, q.value.String())
		}
	}

	if !t.Kapasitas.IsZero() && t.JmlSatuan.GreaterThan(t.Kapasitas) {
		c.errorf("%s: quantity %s exceeds capacity %s",
			label,
			t.JmlSatuan.StringFixed(models.QuantityPlaces),
			t.Kapasitas.StringFixed(models.QuantityPlaces))
	}
	if !t.Netto.IsZero() && !t.Bruto.IsZero() && t.Netto.GreaterThan(t.Bruto) {
		c.warnf("%s: net weight exceeds gross weight", label)
	}

	checkDate(c, label+" TGL_DOK_INOUT", t.TglDokInout)
	checkDate(c, label+" TGL_BL_AWB", t.TglBlAwb)

	for _, f := range []struct{ name, value string }{
		{"consignee (CONSIGNEE)", t.Consignee},
		{"content (JENIS_ISI)", t.JenisIsi},
		{"unit (KD_SATUAN)", t.KdSatuan},
		{"packaging (KD_KEMASAN)", t.KdKemasan},
	} {
		if f.value == "" {
			c.warnf("%s: %s is empty", label, f.name)
		}
	}
}

// checkDate reports a malformed YYYYMMDD value; empty values are not checked
func checkDate(c *collector, field, value string) *time.Time {
	if value == "" {
		return nil
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		c.errorf("%s must be a date in YYYYMMDD format, got %q", field, value)
		return nil
	}
	return &d
}

func checkClock(c *collector, field, value string) {
	if value == "" {
		return
	}
	if _, err := time.Parse(timeLayout, value); err != nil {
		c.errorf("%s must be a time in HHMMSS format, got %q", field, value)
	}
}
