package models

import "gorm.io/gorm"

// Payment order states
const (
	OrderCreated  = "created"
	OrderCaptured = "captured"
	OrderFailed   = "failed"
)

// Payment is one gateway order attempt for an application
type Payment struct {
	gorm.Model
	ApplicationID uint `gorm:"index;not null" json:"applicationId"`
	UserID        uint `gorm:"index;not null" json:"userId"`

	GatewayOrderID   string `gorm:"type:varchar(100);uniqueIndex;not null" json:"gatewayOrderId"`
	GatewayPaymentID string `gorm:"type:varchar(100)" json:"gatewayPaymentId"`
	GatewaySignature string `gorm:"type:varchar(255)" json:"gatewaySignature"`

	Amount         int    `gorm:"not null" json:"amount"`
	OriginalAmount int    `gorm:"not null" json:"originalAmount"`
	DiscountAmount int    `gorm:"default:0" json:"discountAmount"`
	Currency       string `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	Status         string `gorm:"type:varchar(20);default:'created'" json:"status"` // created, captured, failed

	CouponID *uint `gorm:"index" json:"couponId"`

	Application Application `gorm:"foreignKey:ApplicationID" json:"-"`
	User        User        `gorm:"foreignKey:UserID" json:"-"`
}
