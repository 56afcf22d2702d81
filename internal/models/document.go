package models

import (
	"fmt"
	"time"
)

// Document lifecycle status values (owned by the entry screens, not the pipeline)
const (
	DocumentStatusDraft     = "draft"
	DocumentStatusSubmitted = "submitted"
	DocumentStatusApproved  = "approved"
	DocumentStatusRejected  = "rejected"
)

// Document is the CoCoTangki header: one vessel call at a bonded terminal
// with its tank line items.
type Document struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RefNumber string `gorm:"column:ref_number;type:varchar(16);uniqueIndex;not null" json:"refNumber"`

	KdDok    string `gorm:"column:kd_dok;type:varchar(10);index" json:"kdDok"`       // document type code
	KdTps    string `gorm:"column:kd_tps;type:varchar(10);index" json:"kdTps"`       // terminal / TPS code
	KdGudang string `gorm:"column:kd_gudang;type:varchar(10);index" json:"kdGudang"` // warehouse code
	KdAngkut string `gorm:"column:kd_angkut;type:varchar(10)" json:"kdAngkut"`       // conveyance code
	NmAngkut string `gorm:"column:nm_angkut;type:varchar(100)" json:"nmAngkut"`      // vessel name

	NoVoyFlight  string `gorm:"column:no_voy_flight;type:varchar(20)" json:"noVoyFlight"`
	CallSign     string `gorm:"column:call_sign;type:varchar(20)" json:"callSign"`
	KdPelMuat    string `gorm:"column:kd_pel_muat;type:varchar(10)" json:"kdPelMuat"`
	KdPelTransit string `gorm:"column:kd_pel_transit;type:varchar(10)" json:"kdPelTransit"`
	KdPelBongkar string `gorm:"column:kd_pel_bongkar;type:varchar(10)" json:"kdPelBongkar"`

	// Dates are YYYYMMDD, times HHMMSS, exactly as the authority expects them
	TglTiba    string `gorm:"column:tgl_tiba;type:varchar(8)" json:"tglTiba"`
	JamTiba    string `gorm:"column:jam_tiba;type:varchar(6)" json:"jamTiba"`
	TglGateIn  string `gorm:"column:tgl_gate_in;type:varchar(8)" json:"tglGateIn"`
	JamGateIn  string `gorm:"column:jam_gate_in;type:varchar(6)" json:"jamGateIn"`
	TglGateOut string `gorm:"column:tgl_gate_out;type:varchar(8)" json:"tglGateOut"`
	JamGateOut string `gorm:"column:jam_gate_out;type:varchar(6)" json:"jamGateOut"`

	Status string `gorm:"column:status;type:varchar(16);default:'draft';index" json:"status"`

	// Transmission projection: always the latest attempt, history lives in transmission_logs
	CocotangkiStatus   TransmissionState `gorm:"column:cocotangki_status;type:varchar(16);index" json:"cocotangkiStatus"`
	CocotangkiSentAt   *time.Time        `gorm:"column:cocotangki_sent_at" json:"cocotangkiSentAt,omitempty"`
	CocotangkiError    string            `gorm:"column:cocotangki_error;type:text" json:"cocotangkiError,omitempty"`
	CocotangkiResponse string            `gorm:"column:cocotangki_response;type:text" json:"cocotangkiResponse,omitempty"`

	// Claim of the attempt currently talking to the authority; NULL when idle
	CocotangkiAttemptID *string    `gorm:"column:cocotangki_attempt_id;type:varchar(36)" json:"-"`
	CocotangkiClaimedAt *time.Time `gorm:"column:cocotangki_claimed_at" json:"-"`

	CreatedBy string    `gorm:"column:created_by;type:varchar(100)" json:"createdBy"`
	UpdatedBy string    `gorm:"column:updated_by;type:varchar(100)" json:"updatedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Tangki []Tangki `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"tangki,omitempty"`
}

// TableName specifies the table name
func (Document) TableName() string {
	return "documents"
}

// GetEntityID implements AuditableEntity
func (d Document) GetEntityID() string {
	return fmt.Sprintf("%d", d.ID)
}

// GetEntityType implements AuditableEntity
func (d Document) GetEntityType() string {
	return "document"
}
