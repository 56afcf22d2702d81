package models

import "time"

// ServiceCredential holds the encrypted login for one external service.
// The pipeline looks it up by service name; there is no foreign key.
type ServiceCredential struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ServiceName      string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"serviceName"`
	Username         string     `gorm:"type:varchar(100)" json:"username"`
	SecretCiphertext []byte     `gorm:"column:secret_ciphertext" json:"-"`
	Endpoint         string     `gorm:"type:varchar(255)" json:"endpoint"`
	IsActive         bool       `gorm:"default:false" json:"isActive"`
	IsTestMode       bool       `gorm:"default:false" json:"isTestMode"`
	UsageCount       int64      `gorm:"default:0" json:"usageCount"`
	LastUsedAt       *time.Time `json:"lastUsedAt,omitempty"`
	LastTestedAt     *time.Time `json:"lastTestedAt,omitempty"`
	LastTestOK       *bool      `json:"lastTestOk,omitempty"`
	LastTestResult   string     `gorm:"type:text" json:"lastTestResult,omitempty"`
	CreatedBy        string     `gorm:"type:varchar(100)" json:"createdBy"`
	UpdatedBy        string     `gorm:"type:varchar(100)" json:"updatedBy"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// TableName specifies the table name
func (ServiceCredential) TableName() string {
	return "service_credentials"
}
