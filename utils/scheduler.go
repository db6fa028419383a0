package utils

import (
	"log"
	"time"

	"internhub/database"
	"internhub/models"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializeMaintenanceScheduler sets up the daily housekeeping jobs.
func InitializeMaintenanceScheduler() {
	log.Println("[MAINTENANCE-SCHEDULER] Initializing maintenance scheduler...")

	c := cron.New()

	// Run daily at 9 AM to sweep expired coupons and stale orders
	c.AddFunc("0 9 * * *", func() {
		log.Println("[MAINTENANCE-SCHEDULER] Running daily maintenance sweep...")
		DeactivateExpiredCoupons()
		FailStaleOrders()
	})

	c.Start()
	log.Println("[MAINTENANCE-SCHEDULER] Maintenance scheduler started - runs daily at 9 AM")
}

// DeactivateExpiredCoupons flips coupons past their expiry to inactive so the
// validation path stops offering them.
func DeactivateExpiredCoupons() {
	db := database.Database.Db
	endOfYesterday := now.BeginningOfDay()

	result := db.Model(&models.Coupon{}).
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", models.CouponActive, endOfYesterday).
		Update("status", models.CouponInactive)
	if result.Error != nil {
		log.Printf("[MAINTENANCE-SCHEDULER] Error deactivating expired coupons: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[MAINTENANCE-SCHEDULER] Deactivated %d expired coupons", result.RowsAffected)
	}
}

// FailStaleOrders marks gateway orders that were created but never verified
// within 24 hours as failed, so the applicant can retry with a fresh order.
func FailStaleOrders() {
	db := database.Database.Db
	cutoff := time.Now().Add(-24 * time.Hour)

	var stale []models.Payment
	if err := db.Where("status = ? AND created_at < ?", models.OrderCreated, cutoff).Find(&stale).Error; err != nil {
		log.Printf("[MAINTENANCE-SCHEDULER] Error fetching stale orders: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	log.Printf("[MAINTENANCE-SCHEDULER] Failing %d stale orders", len(stale))
	for _, payment := range stale {
		if err := db.Model(&models.Payment{}).Where("id = ?", payment.ID).
			Update("status", models.OrderFailed).Error; err != nil {
			log.Printf("[MAINTENANCE-SCHEDULER] Error failing order %s: %v", payment.GatewayOrderID, err)
			continue
		}

		// Only downgrade the application if nothing got verified meanwhile.
		db.Model(&models.Application{}).
			Where("id = ? AND payment_status = ?", payment.ApplicationID, models.PaymentProcessing).
			Update("payment_status", models.PaymentFailed)
	}
}
