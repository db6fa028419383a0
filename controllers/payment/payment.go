package paymentController

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"internhub/config"
	"internhub/database"
	"internhub/middleware"
	"internhub/models"
	"internhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Gateway is swappable so tests can stub order creation.
var Gateway utils.OrderClient = utils.RazorpayClient{}

type couponRequest struct {
	Code          string `json:"code"`
	ApplicationID uint   `json:"applicationId"`
}

// ValidateCouponForApplication previews a coupon against an application
// without consuming a use.
func ValidateCouponForApplication(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	var reqData couponRequest
	if err := c.BodyParser(&reqData); err != nil || reqData.Code == "" || reqData.ApplicationID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Coupon code and application id are required!", nil)
	}

	db := database.Database.Db

	var application models.Application
	if err := db.Where("id = ? AND user_id = ?", reqData.ApplicationID, userID).First(&application).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Application not found!", nil)
	}

	coupon, err := utils.ValidateCoupon(db, reqData.Code, userID, application.Amount)
	if err != nil {
		if errors.Is(err, utils.ErrCouponNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	}

	discount, final := utils.ComputeDiscount(coupon, application.Amount)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon is valid.", fiber.Map{
		"code":           coupon.Code,
		"discountType":   coupon.DiscountType,
		"discountValue":  coupon.DiscountValue,
		"originalAmount": application.Amount,
		"discountAmount": discount,
		"finalAmount":    final,
	})
}

type createOrderRequest struct {
	ApplicationID uint   `json:"applicationId"`
	CouponCode    string `json:"couponCode"`
}

// CreateOrder opens a gateway order for an application. Coupons are applied
// here but only consumed on verification.
func CreateOrder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	var reqData createOrderRequest
	if err := c.BodyParser(&reqData); err != nil || reqData.ApplicationID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Application id is required!", nil)
	}

	db := database.Database.Db

	var application models.Application
	if err := db.Where("id = ? AND user_id = ?", reqData.ApplicationID, userID).First(&application).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Application not found!", nil)
	}

	if application.PaymentStatus == models.PaymentVerified {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment already completed for this application!", nil)
	}
	if config.AppConfig.OrderRequiresSelection && application.Status != models.StatusSelected {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Payment opens once your application is selected!", nil)
	}

	amount := application.Amount
	if amount == 0 {
		amount = utils.DefaultAmountForDuration(application.Duration)
	}

	var couponID *uint
	discount := 0
	final := amount
	if reqData.CouponCode != "" {
		coupon, err := utils.ValidateCoupon(db, reqData.CouponCode, userID, amount)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
		}
		discount, final = utils.ComputeDiscount(coupon, amount)
		couponID = &coupon.ID
	}

	receipt := fmt.Sprintf("app_%d", application.ID)
	order, err := Gateway.CreateOrder(final, "INR", receipt, map[string]string{
		"applicationId": fmt.Sprintf("%d", application.ID),
		"domain":        application.PreferredDomain,
	})
	if err != nil {
		log.Printf("Gateway order creation failed for application %d: %v", application.ID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to create payment order!", nil)
	}

	payment := models.Payment{
		ApplicationID:  application.ID,
		UserID:         userID,
		GatewayOrderID: order.ID,
		Amount:         final,
		OriginalAmount: amount,
		DiscountAmount: discount,
		Currency:       "INR",
		Status:         models.OrderCreated,
		CouponID:       couponID,
	}
	if err := db.Create(&payment).Error; err != nil {
		log.Printf("Error saving payment order: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment order!", nil)
	}

	db.Model(&application).Updates(map[string]interface{}{
		"gateway_order_id": order.ID,
		"payment_status":   models.PaymentProcessing,
		"amount":           amount,
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Order created successfully.", fiber.Map{
		"orderId":        order.ID,
		"amount":         final,
		"originalAmount": amount,
		"discountAmount": discount,
		"currency":       "INR",
		"keyId":          config.AppConfig.GatewayKeyID,
	})
}

type verifyPaymentRequest struct {
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	GatewaySignature string `json:"gatewaySignature"`
}

// VerifyPayment checks the checkout signature and finalizes the payment.
// Safe to call more than once: an already verified payment is acknowledged
// without side effects.
func VerifyPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	var reqData verifyPaymentRequest
	if err := c.BodyParser(&reqData); err != nil ||
		reqData.GatewayOrderID == "" || reqData.GatewayPaymentID == "" || reqData.GatewaySignature == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Order id, payment id and signature are required!", nil)
	}

	db := database.Database.Db

	var payment models.Payment
	if err := db.Where("gateway_order_id = ? AND user_id = ?", reqData.GatewayOrderID, userID).First(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment order not found!", nil)
	}

	// Idempotent: a captured payment is already done.
	if payment.Status == models.OrderCaptured {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment already verified.", fiber.Map{
			"gatewayOrderId": payment.GatewayOrderID,
			"status":         payment.Status,
		})
	}

	if !utils.VerifyPaymentSignature(reqData.GatewayOrderID, reqData.GatewayPaymentID, reqData.GatewaySignature) {
		db.Model(&payment).Update("status", models.OrderFailed)
		db.Model(&models.Application{}).Where("id = ?", payment.ApplicationID).
			Update("payment_status", models.PaymentFailed)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment signature verification failed!", nil)
	}

	return finalizePayment(c, &payment, reqData.GatewayPaymentID, reqData.GatewaySignature)
}

// finalizePayment flips the payment and application to their verified states
// and redeems the coupon exactly once.
func finalizePayment(c *fiber.Ctx, payment *models.Payment, gatewayPaymentID, signature string) error {
	db := database.Database.Db

	var redeemErr error
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(map[string]interface{}{
			"status":             models.OrderCaptured,
			"gateway_payment_id": gatewayPaymentID,
			"gateway_signature":  signature,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Application{}).Where("id = ?", payment.ApplicationID).Updates(map[string]interface{}{
			"payment_status":     models.PaymentVerified,
			"status":             models.StatusApproved,
			"transaction_id":     gatewayPaymentID,
			"gateway_payment_id": gatewayPaymentID,
			"gateway_signature":  signature,
		}).Error; err != nil {
			return err
		}

		if payment.CouponID != nil {
			if redeemErr = utils.RedeemCoupon(tx, *payment.CouponID, payment.UserID, payment.ApplicationID, payment.DiscountAmount); redeemErr != nil {
				// The order was priced with this coupon already; keep the
				// payment, the ledger row just will not exist.
				log.Printf("Coupon redemption failed for payment %d: %v", payment.ID, redeemErr)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error finalizing payment %d: %v", payment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to finalize payment!", nil)
	}

	if redeemErr != nil {
		utils.RecordAudit(0, "COUPON_REDEEM_FAILED", "payment", payment.ID, fiber.Map{
			"couponId": *payment.CouponID,
			"error":    redeemErr.Error(),
		}, c.IP())
	}

	var application models.Application
	if err := db.First(&application, payment.ApplicationID).Error; err == nil {
		utils.CreateNotification(application.UserID, "Payment Verified",
			"Your payment has been verified successfully.", "payment")
		utils.SendPaymentConfirmationEmail(application.Email, application.Name, payment.Amount, gatewayPaymentID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified successfully.", fiber.Map{
		"gatewayOrderId": payment.GatewayOrderID,
		"status":         models.OrderCaptured,
	})
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// GatewayWebhook handles asynchronous capture events from the gateway. The
// signature covers the raw body. Duplicate deliveries are acknowledged with
// 200 so the gateway stops retrying.
func GatewayWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Razorpay-Signature")

	if !utils.VerifyWebhookSignature(body, signature) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook signature!", nil)
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook payload!", nil)
	}

	if payload.Event != "payment.captured" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Event ignored.", nil)
	}

	orderID := payload.Payload.Payment.Entity.OrderID
	paymentID := payload.Payload.Payment.Entity.ID

	db := database.Database.Db

	var payment models.Payment
	if err := db.Where("gateway_order_id = ?", orderID).First(&payment).Error; err != nil {
		// Unknown order: acknowledge so the gateway does not retry forever.
		log.Printf("Webhook for unknown order %s", orderID)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Order not found, acknowledged.", nil)
	}

	if payment.Status == models.OrderCaptured {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Already processed.", nil)
	}

	return finalizePayment(c, &payment, paymentID, signature)
}

// GetPaymentHistory lists the user's payment attempts.
func GetPaymentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	var payments []models.Payment
	if err := database.Database.Db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully.", payments)
}
