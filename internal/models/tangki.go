package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Fixed precision of numeric line item fields
const (
	QuantityPlaces  int32 = 3 // volumetric / mass quantities and capacity
	DimensionPlaces int32 = 2 // physical dimensions and weights
)

// Tangki is one tank (bulk cargo) line item of a Document
type Tangki struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	DocumentID uint `gorm:"column:document_id;not null;index" json:"documentId"`
	Urutan     int  `gorm:"column:urutan;not null;default:0" json:"urutan"` // stored order of detail blocks

	NoTangki     string `gorm:"column:no_tangki;type:varchar(30);not null;uniqueIndex:idx_tangki_activity" json:"noTangki"`
	SeqAktivitas int    `gorm:"column:seq_aktivitas;not null;uniqueIndex:idx_tangki_activity" json:"seqAktivitas"`

	KdDokInout       string `gorm:"column:kd_dok_inout;type:varchar(10);not null;index" json:"kdDokInout"`
	NoDokInout       string `gorm:"column:no_dok_inout;type:varchar(50)" json:"noDokInout"`
	TglDokInout      string `gorm:"column:tgl_dok_inout;type:varchar(8)" json:"tglDokInout"`
	KdSarAngkutInout string `gorm:"column:kd_sar_angkut_inout;type:varchar(10)" json:"kdSarAngkutInout"`
	NoBlAwb          string `gorm:"column:no_bl_awb;type:varchar(50)" json:"noBlAwb"`
	TglBlAwb         string `gorm:"column:tgl_bl_awb;type:varchar(8)" json:"tglBlAwb"`

	JenisIsi   string `gorm:"column:jenis_isi;type:varchar(100)" json:"jenisIsi"`
	Consignee  string `gorm:"column:consignee;type:varchar(150)" json:"consignee"`
	KdSatuan   string `gorm:"column:kd_satuan;type:varchar(10)" json:"kdSatuan"`
	KdKemasan  string `gorm:"column:kd_kemasan;type:varchar(10)" json:"kdKemasan"`
	Keterangan string `gorm:"column:keterangan;type:text" json:"keterangan"`

	JmlSatuan decimal.Decimal `gorm:"column:jml_satuan;type:numeric(18,3);not null;default:0" json:"jmlSatuan"`
	Kapasitas decimal.Decimal `gorm:"column:kapasitas;type:numeric(18,3);not null;default:0" json:"kapasitas"`
	Volume    decimal.Decimal `gorm:"column:volume;type:numeric(18,3);not null;default:0" json:"volume"`

	Panjang decimal.Decimal `gorm:"column:panjang;type:numeric(12,2);not null;default:0" json:"panjang"`
	Lebar   decimal.Decimal `gorm:"column:lebar;type:numeric(12,2);not null;default:0" json:"lebar"`
	Tinggi  decimal.Decimal `gorm:"column:tinggi;type:numeric(12,2);not null;default:0" json:"tinggi"`
	Berat   decimal.Decimal `gorm:"column:berat;type:numeric(18,2);not null;default:0" json:"berat"`
	Bruto   decimal.Decimal `gorm:"column:bruto;type:numeric(18,2);not null;default:0" json:"bruto"`
	Netto   decimal.Decimal `gorm:"column:netto;type:numeric(18,2);not null;default:0" json:"netto"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	DokInout *DocumentType `gorm:"foreignKey:KdDokInout;references:Code;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"dokInout,omitempty"`
}

// TableName specifies the table name
func (Tangki) TableName() string {
	return "tangki"
}

// GetEntityID implements AuditableEntity
func (t Tangki) GetEntityID() string {
	return fmt.Sprintf("%d", t.ID)
}

// GetEntityType implements AuditableEntity
func (t Tangki) GetEntityType() string {
	return "tangki"
}
