package paymentController_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"internhub/config"
	paymentController "internhub/controllers/payment"
	"internhub/database"
	"internhub/middleware"
	"internhub/models"
	"internhub/routers/paymentRoutes"
	"internhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fakeGateway returns deterministic orders without network access.
type fakeGateway struct {
	orders int
}

func (f *fakeGateway) CreateOrder(amount int, currency, receipt string, notes map[string]string) (*utils.GatewayOrder, error) {
	f.orders++
	return &utils.GatewayOrder{
		ID:       fmt.Sprintf("order_test_%d", f.orders),
		Amount:   amount * 100,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func setupPaymentTest(t *testing.T, name string) (*fiber.App, *gorm.DB) {
	t.Helper()

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "file:"+name+"?mode=memory&cache=shared")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("GATEWAY_KEY_SECRET", "test-gateway-secret")
	t.Setenv("GATEWAY_WEBHOOK_SECRET", "test-webhook-secret")
	t.Setenv("ORDER_REQUIRES_SELECTION", "true")

	config.LoadConfig()
	database.ConnectDb()

	paymentController.Gateway = &fakeGateway{}
	t.Cleanup(func() { paymentController.Gateway = utils.RazorpayClient{} })

	app := fiber.New()
	paymentRoutes.SetupPaymentRoutes(app)
	return app, database.Database.Db
}

func seedUserAndApplication(t *testing.T, db *gorm.DB, status string) (models.User, models.Application, string) {
	t.Helper()

	user := models.User{Name: "Student", Email: fmt.Sprintf("s%d@test.in", time.Now().UnixNano()), Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	application := models.Application{
		UserID:          user.ID,
		Name:            "Student",
		Email:           user.Email,
		Phone:           "9999999999",
		College:         "Test College",
		PreferredDomain: "Web Development",
		Duration:        3,
		Amount:          599,
		Status:          status,
		PaymentStatus:   models.PaymentPending,
	}
	require.NoError(t, db.Create(&application).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	return user, application, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func checkoutSignature(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.GatewayKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrder(t *testing.T) {
	app, db := setupPaymentTest(t, "pay_create")

	t.Run("RequiresSelection", func(t *testing.T) {
		_, application, token := seedUserAndApplication(t, db, models.StatusNew)
		code, body := doJSON(t, app, "POST", "/payments/order", token,
			fiber.Map{"applicationId": application.ID})
		assert.Equal(t, fiber.StatusForbidden, code)
		assert.False(t, body["status"].(bool))
	})

	t.Run("CreatesOrderForSelected", func(t *testing.T) {
		_, application, token := seedUserAndApplication(t, db, models.StatusSelected)
		code, body := doJSON(t, app, "POST", "/payments/order", token,
			fiber.Map{"applicationId": application.ID})
		require.Equal(t, fiber.StatusCreated, code)

		data := body["data"].(map[string]interface{})
		assert.EqualValues(t, 599, data["amount"])

		var reloaded models.Application
		require.NoError(t, db.First(&reloaded, application.ID).Error)
		assert.Equal(t, models.PaymentProcessing, reloaded.PaymentStatus)
		assert.NotEmpty(t, reloaded.GatewayOrderID)
	})

	t.Run("AppliesCoupon", func(t *testing.T) {
		require.NoError(t, db.Create(&models.Coupon{
			Code:              "SAVE10",
			DiscountType:      models.DiscountPercentage,
			DiscountValue:     10,
			MaxUsesPerUser:    1,
			ExpiryDate:        time.Now().Add(24 * time.Hour),
			Status:            models.CouponActive,
			ApplicableAmounts: datatypes.JSON([]byte(`[399,599,999]`)),
		}).Error)

		_, application, token := seedUserAndApplication(t, db, models.StatusSelected)
		code, body := doJSON(t, app, "POST", "/payments/order", token,
			fiber.Map{"applicationId": application.ID, "couponCode": "SAVE10"})
		require.Equal(t, fiber.StatusCreated, code)

		data := body["data"].(map[string]interface{})
		assert.EqualValues(t, 540, data["amount"]) // 599 - floor(59.9)
		assert.EqualValues(t, 59, data["discountAmount"])

		// Coupon not consumed until verification
		var coupon models.Coupon
		db.Where("code = ?", "SAVE10").First(&coupon)
		assert.Equal(t, 0, coupon.CurrentUses)
	})
}

func TestVerifyPayment(t *testing.T) {
	app, db := setupPaymentTest(t, "pay_verify")

	coupon := models.Coupon{
		Code:              "FLAT100",
		DiscountType:      models.DiscountFlat,
		DiscountValue:     100,
		MaxUsesPerUser:    1,
		ExpiryDate:        time.Now().Add(24 * time.Hour),
		Status:            models.CouponActive,
		ApplicableAmounts: datatypes.JSON([]byte(`[599]`)),
	}
	require.NoError(t, db.Create(&coupon).Error)

	user, application, token := seedUserAndApplication(t, db, models.StatusSelected)

	payment := models.Payment{
		ApplicationID:  application.ID,
		UserID:         user.ID,
		GatewayOrderID: "order_verify_1",
		Amount:         499,
		OriginalAmount: 599,
		DiscountAmount: 100,
		Status:         models.OrderCreated,
		CouponID:       &coupon.ID,
	}
	require.NoError(t, db.Create(&payment).Error)

	t.Run("RejectsBadSignature", func(t *testing.T) {
		code, _ := doJSON(t, app, "POST", "/payments/verify", token, fiber.Map{
			"gatewayOrderId":   "order_verify_1",
			"gatewayPaymentId": "pay_1",
			"gatewaySignature": "bogus",
		})
		assert.Equal(t, fiber.StatusBadRequest, code)

		var reloaded models.Payment
		db.First(&reloaded, payment.ID)
		assert.Equal(t, models.OrderFailed, reloaded.Status)

		// Reset for the happy path
		db.Model(&reloaded).Update("status", models.OrderCreated)
		db.Model(&models.Application{}).Where("id = ?", application.ID).
			Update("payment_status", models.PaymentProcessing)
	})

	t.Run("VerifiesAndRedeems", func(t *testing.T) {
		code, _ := doJSON(t, app, "POST", "/payments/verify", token, fiber.Map{
			"gatewayOrderId":   "order_verify_1",
			"gatewayPaymentId": "pay_1",
			"gatewaySignature": checkoutSignature("order_verify_1", "pay_1"),
		})
		require.Equal(t, fiber.StatusOK, code)

		var reloadedPayment models.Payment
		db.First(&reloadedPayment, payment.ID)
		assert.Equal(t, models.OrderCaptured, reloadedPayment.Status)

		var reloadedApp models.Application
		db.First(&reloadedApp, application.ID)
		assert.Equal(t, models.PaymentVerified, reloadedApp.PaymentStatus)
		assert.Equal(t, models.StatusApproved, reloadedApp.Status)
		assert.Equal(t, "pay_1", reloadedApp.TransactionID)

		var reloadedCoupon models.Coupon
		db.First(&reloadedCoupon, coupon.ID)
		assert.Equal(t, 1, reloadedCoupon.CurrentUses)
	})

	t.Run("SecondVerifyIsIdempotent", func(t *testing.T) {
		code, body := doJSON(t, app, "POST", "/payments/verify", token, fiber.Map{
			"gatewayOrderId":   "order_verify_1",
			"gatewayPaymentId": "pay_1",
			"gatewaySignature": checkoutSignature("order_verify_1", "pay_1"),
		})
		require.Equal(t, fiber.StatusOK, code)
		assert.Contains(t, body["message"], "already")

		var usageCount int64
		db.Model(&models.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&usageCount)
		assert.EqualValues(t, 1, usageCount)

		var reloadedCoupon models.Coupon
		db.First(&reloadedCoupon, coupon.ID)
		assert.Equal(t, 1, reloadedCoupon.CurrentUses)
	})
}

func TestVerifyPaymentCouponExhausted(t *testing.T) {
	app, db := setupPaymentTest(t, "pay_exhausted")

	coupon := models.Coupon{
		Code:              "LAST1",
		DiscountType:      models.DiscountFlat,
		DiscountValue:     100,
		MaxUses:           1,
		CurrentUses:       1,
		MaxUsesPerUser:    1,
		ExpiryDate:        time.Now().Add(24 * time.Hour),
		Status:            models.CouponActive,
		ApplicableAmounts: datatypes.JSON([]byte(`[599]`)),
	}
	require.NoError(t, db.Create(&coupon).Error)

	user, application, token := seedUserAndApplication(t, db, models.StatusSelected)

	payment := models.Payment{
		ApplicationID:  application.ID,
		UserID:         user.ID,
		GatewayOrderID: "order_exhausted_1",
		Amount:         499,
		OriginalAmount: 599,
		DiscountAmount: 100,
		Status:         models.OrderCreated,
		CouponID:       &coupon.ID,
	}
	require.NoError(t, db.Create(&payment).Error)

	code, _ := doJSON(t, app, "POST", "/payments/verify", token, fiber.Map{
		"gatewayOrderId":   "order_exhausted_1",
		"gatewayPaymentId": "pay_ex_1",
		"gatewaySignature": checkoutSignature("order_exhausted_1", "pay_ex_1"),
	})
	require.Equal(t, fiber.StatusOK, code)

	// The payment stays captured even though the coupon could not be redeemed.
	var reloadedPayment models.Payment
	db.First(&reloadedPayment, payment.ID)
	assert.Equal(t, models.OrderCaptured, reloadedPayment.Status)

	var usageCount int64
	db.Model(&models.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&usageCount)
	assert.EqualValues(t, 0, usageCount)

	// The failure lands in the audit trail so an admin can reconcile it.
	var audit models.AuditLog
	require.NoError(t, db.Where("action_type = ? AND target_id = ?",
		"COUPON_REDEEM_FAILED", payment.ID).First(&audit).Error)
	assert.Equal(t, "payment", audit.TargetType)
}

func TestGatewayWebhook(t *testing.T) {
	app, db := setupPaymentTest(t, "pay_webhook")

	user, application, _ := seedUserAndApplication(t, db, models.StatusSelected)

	payment := models.Payment{
		ApplicationID:  application.ID,
		UserID:         user.ID,
		GatewayOrderID: "order_hook_1",
		Amount:         599,
		OriginalAmount: 599,
		Status:         models.OrderCreated,
	}
	require.NoError(t, db.Create(&payment).Error)

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_hook_1","order_id":"order_hook_1"}}}}`)
	mac := hmac.New(sha256.New, []byte(config.AppConfig.GatewayWebhookSecret))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	post := func(sig string) int {
		req := httptest.NewRequest("POST", "/payments/webhook", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Razorpay-Signature", sig)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	t.Run("RejectsBadSignature", func(t *testing.T) {
		assert.Equal(t, fiber.StatusBadRequest, post("bogus"))
	})

	t.Run("CapturesPayment", func(t *testing.T) {
		require.Equal(t, fiber.StatusOK, post(signature))

		var reloaded models.Payment
		db.First(&reloaded, payment.ID)
		assert.Equal(t, models.OrderCaptured, reloaded.Status)

		var reloadedApp models.Application
		db.First(&reloadedApp, application.ID)
		assert.Equal(t, models.PaymentVerified, reloadedApp.PaymentStatus)
	})

	t.Run("DuplicateDeliveryAcknowledged", func(t *testing.T) {
		assert.Equal(t, fiber.StatusOK, post(signature))
	})
}
