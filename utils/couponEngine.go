package utils

import (
	"errors"
	"strings"
	"time"

	"internhub/models"

	"gorm.io/gorm"
)

var (
	ErrCouponNotFound      = errors.New("invalid coupon code")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponExhausted     = errors.New("coupon usage limit reached")
	ErrCouponAlreadyUsed   = errors.New("you have already used this coupon")
	ErrCouponNotApplicable = errors.New("coupon not applicable for this plan")
)

// ValidateCoupon checks a code against expiry, global cap, per-user cap and
// the plan amount. Pure read; the per-user cap counts CouponUsage rows.
func ValidateCoupon(db *gorm.DB, code string, userID uint, amount int) (*models.Coupon, error) {
	var coupon models.Coupon
	err := db.Where("code = ? AND status = ?", strings.ToUpper(strings.TrimSpace(code)), models.CouponActive).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	if coupon.ExpiryDate.Before(time.Now()) {
		return nil, ErrCouponExpired
	}

	if coupon.MaxUses > 0 && coupon.CurrentUses >= coupon.MaxUses {
		return nil, ErrCouponExhausted
	}

	var userUsageCount int64
	if err := db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).
		Count(&userUsageCount).Error; err != nil {
		return nil, err
	}
	if coupon.MaxUsesPerUser > 0 && userUsageCount >= int64(coupon.MaxUsesPerUser) {
		return nil, ErrCouponAlreadyUsed
	}

	if !coupon.AppliesTo(amount) {
		return nil, ErrCouponNotApplicable
	}

	return &coupon, nil
}

// ComputeDiscount returns the discount and the final payable amount.
// Percentage discounts are floored; the final amount never goes below zero.
func ComputeDiscount(coupon *models.Coupon, baseAmount int) (discount int, final int) {
	if coupon.DiscountType == models.DiscountPercentage {
		discount = baseAmount * coupon.DiscountValue / 100
	} else {
		discount = coupon.DiscountValue
	}
	if discount > baseAmount {
		discount = baseAmount
	}
	final = baseAmount - discount
	return discount, final
}

// RedeemCoupon consumes one use of the coupon and writes the usage ledger
// row. The increment is a conditional update at the storage layer so
// concurrent checkouts cannot push CurrentUses past MaxUses, and an existing
// usage row for the application makes the call a no-op so webhook retries
// cannot double-redeem.
func RedeemCoupon(db *gorm.DB, couponID, userID, applicationID uint, discountAmount int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.CouponUsage
		err := tx.Where("coupon_id = ? AND application_id = ?", couponID, applicationID).First(&existing).Error
		if err == nil {
			return nil // already redeemed for this application
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		res := tx.Model(&models.Coupon{}).
			Where("id = ? AND (max_uses = 0 OR current_uses < max_uses)", couponID).
			UpdateColumn("current_uses", gorm.Expr("current_uses + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCouponExhausted
		}

		return tx.Create(&models.CouponUsage{
			CouponID:       couponID,
			UserID:         userID,
			ApplicationID:  applicationID,
			DiscountAmount: discountAmount,
		}).Error
	})
}
