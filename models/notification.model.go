package models

import "gorm.io/gorm"

// Notification is an in-app message for a user
type Notification struct {
	gorm.Model
	RecipientID uint   `gorm:"index;not null" json:"recipientId"`
	Title       string `gorm:"not null" json:"title"`
	Message     string `gorm:"type:text" json:"message"`
	Type        string `gorm:"type:varchar(50)" json:"type"` // application_status, payment, certificate
	IsRead      bool   `gorm:"default:false" json:"isRead"`
}
