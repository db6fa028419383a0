package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	Name      string `gorm:"default:''" json:"name"`
	Email     string `gorm:"unique;not null" json:"email"`
	Phone     string `gorm:"default:''" json:"phone"`
	Role      string `gorm:"default:'USER'" json:"role"` // USER, ADMIN
	Password  string `gorm:"not null" json:"-"`
	Education string `json:"education"`
	Skills    string `json:"skills"`
	LastLogin *time.Time `json:"lastLogin"`
	IsDeleted bool   `gorm:"default:false" json:"-"`
}
