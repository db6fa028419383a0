package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DiscountPercentage = "percentage"
	DiscountFlat       = "flat"

	CouponActive   = "active"
	CouponInactive = "inactive"
)

// Coupon is a discount code with global and per-user use caps
type Coupon struct {
	gorm.Model
	Code          string `gorm:"uniqueIndex;not null" json:"code"`
	DiscountType  string `gorm:"type:varchar(20);not null" json:"discountType"` // percentage, flat
	DiscountValue int    `gorm:"not null" json:"discountValue"`

	MaxUses        int `gorm:"default:0" json:"maxUses"` // 0 for unlimited
	MaxUsesPerUser int `gorm:"default:1" json:"maxUsesPerUser"`
	CurrentUses    int `gorm:"default:0" json:"currentUses"`

	ExpiryDate time.Time `gorm:"not null" json:"expiryDate"`
	Status     string    `gorm:"type:varchar(20);default:'active'" json:"status"`

	// Plan amounts this code can be applied to, e.g. [399,599,999]
	ApplicableAmounts datatypes.JSON `json:"applicableAmounts"`

	CreatedByID uint `json:"createdBy"`
}

// AppliesTo reports whether the coupon covers the given plan amount.
func (cp *Coupon) AppliesTo(amount int) bool {
	var amounts []int
	if len(cp.ApplicableAmounts) == 0 {
		return false
	}
	if err := json.Unmarshal(cp.ApplicableAmounts, &amounts); err != nil {
		return false
	}
	for _, a := range amounts {
		if a == amount {
			return true
		}
	}
	return false
}

// CouponUsage is the immutable redemption ledger. Per-user cap checks count
// these rows rather than trusting a mutable counter.
type CouponUsage struct {
	gorm.Model
	CouponID       uint `gorm:"index;not null" json:"couponId"`
	UserID         uint `gorm:"index;not null" json:"userId"`
	ApplicationID  uint `gorm:"index;not null" json:"applicationId"`
	DiscountAmount int  `gorm:"not null" json:"discountAmount"`

	Coupon Coupon `gorm:"foreignKey:CouponID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}
