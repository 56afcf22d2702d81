package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Transmission log outcomes
const (
	TransmissionPending = "pending"
	TransmissionSuccess = "success"
	TransmissionFailed  = "failed"
)

// ErrImmutableLog is returned when something tries to rewrite transmission history
var ErrImmutableLog = errors.New("transmission log entries are append-only")

// TransmissionLog records one send attempt. Rows are written once and never changed.
type TransmissionLog struct {
	ID              uint      `gorm:"primaryKey;<-:create" json:"id"`
	AttemptID       string    `gorm:"type:varchar(36);uniqueIndex;not null;<-:create" json:"attemptId"`
	DocumentID      uint      `gorm:"not null;index;<-:create" json:"documentId"`
	RefNumber       string    `gorm:"type:varchar(16);index;<-:create" json:"refNumber"`
	Format          string    `gorm:"type:varchar(20);not null;<-:create" json:"format"`
	Outcome         string    `gorm:"type:varchar(10);not null;index;<-:create" json:"outcome"`
	RequestPayload  string    `gorm:"type:text;<-:create" json:"requestPayload"`
	ResponsePayload string    `gorm:"type:text;<-:create" json:"responsePayload"`
	HTTPStatus      int       `gorm:"<-:create" json:"httpStatus"`
	ResponseTimeMs  int64     `gorm:"not null;default:0;<-:create" json:"responseTimeMs"`
	PayloadSize     int       `gorm:"not null;default:0;<-:create" json:"payloadSize"`
	Actor           string    `gorm:"type:varchar(100);<-:create" json:"actor"`
	ErrorMessage    string    `gorm:"type:text;<-:create" json:"errorMessage,omitempty"`
	CreatedAt       time.Time `gorm:"index;<-:create" json:"createdAt"`

	Document *Document `gorm:"foreignKey:DocumentID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName specifies the table name
func (TransmissionLog) TableName() string {
	return "transmission_logs"
}

// BeforeUpdate rejects any update of a stored attempt
func (l *TransmissionLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableLog
}

// BeforeDelete rejects deleting a stored attempt
func (l *TransmissionLog) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableLog
}
