package utils

import (
	"testing"
	"time"

	"internhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestValidateCoupon(t *testing.T) {
	db := setupTestDb(t, "coupon_validate")

	coupon := models.Coupon{
		Code:              "SAVE10",
		DiscountType:      models.DiscountPercentage,
		DiscountValue:     10,
		MaxUses:           2,
		MaxUsesPerUser:    1,
		ExpiryDate:        time.Now().Add(24 * time.Hour),
		Status:            models.CouponActive,
		ApplicableAmounts: datatypes.JSON([]byte(`[399,599,999]`)),
	}
	require.NoError(t, db.Create(&coupon).Error)

	t.Run("ValidCode", func(t *testing.T) {
		got, err := ValidateCoupon(db, "save10", 1, 999)
		require.NoError(t, err)
		assert.Equal(t, coupon.ID, got.ID)
	})

	t.Run("UnknownCode", func(t *testing.T) {
		_, err := ValidateCoupon(db, "NOPE", 1, 999)
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})

	t.Run("NotApplicableAmount", func(t *testing.T) {
		_, err := ValidateCoupon(db, "SAVE10", 1, 1299)
		assert.ErrorIs(t, err, ErrCouponNotApplicable)
	})

	t.Run("Expired", func(t *testing.T) {
		expired := models.Coupon{
			Code:              "OLD",
			DiscountType:      models.DiscountFlat,
			DiscountValue:     50,
			MaxUsesPerUser:    1,
			ExpiryDate:        time.Now().Add(-time.Hour),
			Status:            models.CouponActive,
			ApplicableAmounts: datatypes.JSON([]byte(`[999]`)),
		}
		require.NoError(t, db.Create(&expired).Error)

		_, err := ValidateCoupon(db, "OLD", 1, 999)
		assert.ErrorIs(t, err, ErrCouponExpired)
	})

	t.Run("PerUserCap", func(t *testing.T) {
		require.NoError(t, db.Create(&models.CouponUsage{
			CouponID:       coupon.ID,
			UserID:         7,
			ApplicationID:  100,
			DiscountAmount: 99,
		}).Error)

		_, err := ValidateCoupon(db, "SAVE10", 7, 999)
		assert.ErrorIs(t, err, ErrCouponAlreadyUsed)

		// A different user is still fine
		_, err = ValidateCoupon(db, "SAVE10", 8, 999)
		assert.NoError(t, err)
	})
}

func TestComputeDiscount(t *testing.T) {
	t.Run("PercentageFlooring", func(t *testing.T) {
		coupon := &models.Coupon{DiscountType: models.DiscountPercentage, DiscountValue: 10}
		discount, final := ComputeDiscount(coupon, 999)
		assert.Equal(t, 99, discount) // 99.9 floors to 99
		assert.Equal(t, 900, final)
	})

	t.Run("FlatClampedToAmount", func(t *testing.T) {
		coupon := &models.Coupon{DiscountType: models.DiscountFlat, DiscountValue: 500}
		discount, final := ComputeDiscount(coupon, 399)
		assert.Equal(t, 399, discount)
		assert.Equal(t, 0, final)
	})

	t.Run("FullPercentage", func(t *testing.T) {
		coupon := &models.Coupon{DiscountType: models.DiscountPercentage, DiscountValue: 100}
		discount, final := ComputeDiscount(coupon, 599)
		assert.Equal(t, 599, discount)
		assert.Equal(t, 0, final)
	})
}

func TestRedeemCoupon(t *testing.T) {
	db := setupTestDb(t, "coupon_redeem")

	coupon := models.Coupon{
		Code:              "LIMIT1",
		DiscountType:      models.DiscountFlat,
		DiscountValue:     100,
		MaxUses:           1,
		MaxUsesPerUser:    1,
		ExpiryDate:        time.Now().Add(24 * time.Hour),
		Status:            models.CouponActive,
		ApplicableAmounts: datatypes.JSON([]byte(`[999]`)),
	}
	require.NoError(t, db.Create(&coupon).Error)

	require.NoError(t, RedeemCoupon(db, coupon.ID, 1, 10, 100))

	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, 1, reloaded.CurrentUses)

	t.Run("IdempotentPerApplication", func(t *testing.T) {
		// Same application again: no-op, counter unchanged.
		require.NoError(t, RedeemCoupon(db, coupon.ID, 1, 10, 100))

		db.First(&reloaded, coupon.ID)
		assert.Equal(t, 1, reloaded.CurrentUses)

		var usageCount int64
		db.Model(&models.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&usageCount)
		assert.EqualValues(t, 1, usageCount)
	})

	t.Run("GlobalCapEnforced", func(t *testing.T) {
		err := RedeemCoupon(db, coupon.ID, 2, 11, 100)
		assert.ErrorIs(t, err, ErrCouponExhausted)

		db.First(&reloaded, coupon.ID)
		assert.Equal(t, 1, reloaded.CurrentUses)
	})

	t.Run("UnlimitedCoupon", func(t *testing.T) {
		unlimited := models.Coupon{
			Code:              "FOREVER",
			DiscountType:      models.DiscountFlat,
			DiscountValue:     10,
			MaxUses:           0,
			MaxUsesPerUser:    10,
			ExpiryDate:        time.Now().Add(24 * time.Hour),
			Status:            models.CouponActive,
			ApplicableAmounts: datatypes.JSON([]byte(`[999]`)),
		}
		require.NoError(t, db.Create(&unlimited).Error)

		for i := 0; i < 5; i++ {
			require.NoError(t, RedeemCoupon(db, unlimited.ID, 3, uint(20+i), 10))
		}

		var got models.Coupon
		db.First(&got, unlimited.ID)
		assert.Equal(t, 5, got.CurrentUses)
	})
}

func TestDefaultAmountForDuration(t *testing.T) {
	assert.Equal(t, 399, DefaultAmountForDuration(1))
	assert.Equal(t, 599, DefaultAmountForDuration(3))
	assert.Equal(t, 999, DefaultAmountForDuration(6))
	assert.Equal(t, 999, DefaultAmountForDuration(12))
}
