package models

import "time"

// SoapCallLog is the diagnostic log of ad hoc SOAP calls (connectivity tests,
// status checks). It is unrelated to document transmission history.
type SoapCallLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ServiceName  string    `gorm:"type:varchar(50);index" json:"serviceName"`
	Operation    string    `gorm:"type:varchar(50);not null" json:"operation"`
	Endpoint     string    `gorm:"type:varchar(255)" json:"endpoint"`
	Request      string    `gorm:"type:text" json:"request"`
	Response     string    `gorm:"type:text" json:"response"`
	HTTPStatus   int       `json:"httpStatus"`
	DurationMs   int64     `json:"durationMs"`
	Success      bool      `gorm:"index" json:"success"`
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	Metadata     JSONB     `gorm:"type:jsonb" json:"metadata,omitempty"`
	Actor        string    `gorm:"type:varchar(100)" json:"actor"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name
func (SoapCallLog) TableName() string {
	return "soap_call_logs"
}
