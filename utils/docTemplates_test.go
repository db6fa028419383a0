package utils

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"internhub/config"
	"internhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberToWords(t *testing.T) {
	cases := map[int]string{
		0:       "Zero",
		7:       "Seven",
		40:      "Forty",
		99:      "Ninety Nine",
		100:     "One Hundred",
		399:     "Three Hundred Ninety Nine",
		599:     "Five Hundred Ninety Nine",
		999:     "Nine Hundred Ninety Nine",
		1000:    "One Thousand",
		2500:    "Two Thousand Five Hundred",
		100000:  "One Lakh",
		2550399: "Twenty Five Lakh Fifty Thousand Three Hundred Ninety Nine",
	}
	for amount, want := range cases {
		assert.Equal(t, want, NumberToWords(amount), "amount %d", amount)
	}
}

func TestValidatePDF(t *testing.T) {
	t.Run("TooSmall", func(t *testing.T) {
		assert.Error(t, ValidatePDF([]byte("%PDF-1.4 tiny")))
	})

	t.Run("WrongMagic", func(t *testing.T) {
		data := bytes.Repeat([]byte("A"), 2000)
		assert.Error(t, ValidatePDF(data))
	})

	t.Run("Valid", func(t *testing.T) {
		data := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte("x"), 2000)...)
		assert.NoError(t, ValidatePDF(data))
	})
}

func TestRenderDocumentHTML(t *testing.T) {
	setupTestDb(t, "doc_templates")

	issue := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	app := &models.Application{
		Name:              "Asha Verma",
		College:           "NIT Trichy",
		PreferredDomain:   "Web Development",
		Duration:          3,
		Amount:            599,
		GatewayPaymentID:  "pay_ABC123",
		GatewayOrderID:    "order_XYZ789",
		DocumentIssueDate: &issue,
	}
	doc := &models.Document{VerificationID: "ver-1234"}

	data, err := BuildDocData(app, doc)
	require.NoError(t, err)
	assert.Equal(t, "15 March 2026", data.IssueDate)
	assert.True(t, strings.HasSuffix(data.VerificationURL, "/verify/ver-1234"))
	assert.True(t, strings.HasPrefix(string(data.QRDataURL), "data:image/png;base64,"))
	assert.Equal(t, "Five Hundred Ninety Nine", data.AmountInWords)

	for _, kind := range []string{
		models.KindOfferLetter, models.KindCertificate, models.KindLOC, models.KindPaymentSlip,
	} {
		html, err := RenderDocumentHTML(kind, data)
		require.NoError(t, err, kind)
		assert.Contains(t, html, "Asha Verma", kind)
		assert.Contains(t, html, "ver-1234", kind)
	}

	slip, err := RenderDocumentHTML(models.KindPaymentSlip, data)
	require.NoError(t, err)
	assert.Contains(t, slip, "pay_ABC123")
	assert.Contains(t, slip, "Five Hundred Ninety Nine")
}

func TestPaymentSignatures(t *testing.T) {
	setupTestDb(t, "signatures")

	sign := func(payload string) string {
		mac := hmac.New(sha256.New, []byte(config.AppConfig.GatewayKeySecret))
		mac.Write([]byte(payload))
		return hex.EncodeToString(mac.Sum(nil))
	}

	t.Run("CheckoutSignature", func(t *testing.T) {
		good := sign("order_1|pay_1")
		assert.True(t, VerifyPaymentSignature("order_1", "pay_1", good))
		assert.False(t, VerifyPaymentSignature("order_1", "pay_2", good))
		assert.False(t, VerifyPaymentSignature("order_1", "pay_1", "deadbeef"))
	})

	t.Run("WebhookSignature", func(t *testing.T) {
		t.Setenv("GATEWAY_WEBHOOK_SECRET", "hook-secret")
		config.LoadConfig()

		body := []byte(`{"event":"payment.captured"}`)
		mac := hmac.New(sha256.New, []byte("hook-secret"))
		mac.Write(body)
		good := hex.EncodeToString(mac.Sum(nil))

		assert.True(t, VerifyWebhookSignature(body, good))
		assert.False(t, VerifyWebhookSignature([]byte(`tampered`), good))
	})
}
