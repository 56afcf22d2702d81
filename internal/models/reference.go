package models

// Reference catalogs are maintained by the CRUD screens. The pipeline only
// reads them by code and never re-derives a code from a name.

// DocumentType is a customs document type (header KD_DOK and line item in/out documents)
type DocumentType struct {
	Code      string `gorm:"primaryKey;type:varchar(10)" json:"code"`
	Name      string `gorm:"type:varchar(150);not null" json:"name"`
	Direction string `gorm:"type:varchar(8)" json:"direction"` // in, out, or empty for header types
}

func (DocumentType) TableName() string { return "document_types" }

// Tps is a bonded storage terminal under customs control
type Tps struct {
	Code string `gorm:"primaryKey;type:varchar(10)" json:"code"`
	Name string `gorm:"type:varchar(150);not null" json:"name"`
}

func (Tps) TableName() string { return "tps" }

// Warehouse belongs to a TPS
type Warehouse struct {
	Code    string `gorm:"primaryKey;type:varchar(10)" json:"code"`
	Name    string `gorm:"type:varchar(150);not null" json:"name"`
	TpsCode string `gorm:"type:varchar(10);index" json:"tpsCode"`
}

func (Warehouse) TableName() string { return "warehouses" }

// Conveyance is a means of transport (vessel, truck, pipeline)
type Conveyance struct {
	Code string `gorm:"primaryKey;type:varchar(10)" json:"code"`
	Name string `gorm:"type:varchar(150);not null" json:"name"`
}

func (Conveyance) TableName() string { return "conveyances" }

// Unit is a quantity unit code (LITER, KGM, ...)
type Unit struct {
	Code string `gorm:"primaryKey;type:varchar(10)" json:"code"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

func (Unit) TableName() string { return "units" }

// Packaging is a packaging type code
type Packaging struct {
	Code string `gorm:"primaryKey;type:varchar(10)" json:"code"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

func (Packaging) TableName() string { return "packagings" }
