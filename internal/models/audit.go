package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditableEntity is implemented by models whose mutations are audited
type AuditableEntity interface {
	GetEntityID() string
	GetEntityType() string
}

// AuditLog keeps before/after snapshots of a mutation for compliance review
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	EntityType string         `gorm:"type:varchar(30);not null;index:idx_audit_entity" json:"entityType"`
	EntityID   string         `gorm:"type:varchar(50);not null;index:idx_audit_entity" json:"entityId"`
	Action     string         `gorm:"type:varchar(20);not null" json:"action"` // create, update, delete
	Before     datatypes.JSON `json:"before,omitempty"`
	After      datatypes.JSON `json:"after,omitempty"`
	Actor      string         `gorm:"type:varchar(100)" json:"actor"`
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
