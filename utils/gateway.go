package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"internhub/config"

	"github.com/go-resty/resty/v2"
)

// GatewayOrder is the subset of the payment gateway order response we use.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// OrderClient creates orders on the payment gateway.
type OrderClient interface {
	CreateOrder(amount int, currency, receipt string, notes map[string]string) (*GatewayOrder, error)
}

// RazorpayClient talks to the Razorpay orders API with basic auth.
type RazorpayClient struct{}

func (RazorpayClient) CreateOrder(amount int, currency, receipt string, notes map[string]string) (*GatewayOrder, error) {
	client := resty.New().SetBaseURL(config.AppConfig.GatewayBaseURL)
	resp, err := client.R().
		SetBasicAuth(config.AppConfig.GatewayKeyID, config.AppConfig.GatewayKeySecret).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"amount":   amount * 100, // gateway expects paise
			"currency": currency,
			"receipt":  receipt,
			"notes":    notes,
		}).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("gateway order request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("gateway order failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	var order GatewayOrder
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		return nil, fmt.Errorf("invalid gateway response: %w", err)
	}
	return &order, nil
}

// VerifyPaymentSignature checks the checkout callback signature, an
// HMAC-SHA256 of "orderId|paymentId" keyed with the gateway secret.
func VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.GatewayKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the webhook signature over the raw body.
func VerifyWebhookSignature(body []byte, signature string) bool {
	secret := config.AppConfig.GatewayWebhookSecret
	if secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
