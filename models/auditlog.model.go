package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of admin actions
type AuditLog struct {
	gorm.Model
	AdminID    uint           `gorm:"index;not null" json:"adminId"`
	ActionType string         `gorm:"not null" json:"actionType"` // e.g. GENERATE_CERTIFICATE
	TargetType string         `gorm:"type:varchar(50)" json:"targetType"`
	TargetID   uint           `gorm:"index" json:"targetId"`
	Details    datatypes.JSON `json:"details"`
	IPAddress  string         `gorm:"type:varchar(45)" json:"ipAddress"`
}
