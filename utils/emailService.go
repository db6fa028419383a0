package utils

import (
	"fmt"
	"log"

	"internhub/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Generic Send Email
func SendEmail(to, subject, htmlBody string) error {
	if config.AppConfig.SendgridKey == "" {
		log.Printf("Email skipped (no API key configured): %s -> %s", subject, to)
		return nil
	}

	from := mail.NewEmail("InternHub", config.AppConfig.EmailSender)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("Email provider rejected message to %s: %d %s", to, resp.StatusCode, resp.Body)
		return fmt.Errorf("email send failed with status %d", resp.StatusCode)
	}
	return nil
}

// HTML wrapper shared by all triggers
func getEmailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1F3A60; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A1A2E; line-height: 1.6; }
			.content h2 { color: #1F3A60; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #1F3A60; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #1F3A60; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>INTERNHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 InternHub. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Application received
func SendApplicationReceivedEmail(email, name, domain string) {
	subject := "Application Received"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your internship application for the <strong>%s</strong> domain.</p>
		<p>Our team will review it shortly. You can track the status from your dashboard.</p>
	`, name, domain)

	go SendEmail(email, subject, getEmailTemplate("Application Received", body))
}

// 2. Status change
func SendStatusUpdateEmail(email, name, status string) {
	subject := "Application Status Updated"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your internship application status has been updated to <strong>%s</strong>.</p>
		<p>Login to your dashboard to see what comes next.</p>
	`, name, status)

	go SendEmail(email, subject, getEmailTemplate("Status Update", body))
}

// 3. Payment confirmation
func SendPaymentConfirmationEmail(email, name string, amount int, reference string) {
	subject := "Payment Confirmed"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your payment of <strong>&#8377;%d</strong>.</p>
		<div class="info-box">
			<strong>Payment Reference:</strong> %s
		</div>
		<p>Your payment slip will be available in the documents section.</p>
	`, name, amount, reference)

	go SendEmail(email, subject, getEmailTemplate("Payment Confirmed", body))
}

// 4. Documents ready
func SendDocumentsReadyEmail(email, name string) {
	subject := "Your Internship Documents Are Ready"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your internship documents have been generated and are ready to download.</p>
		<a href="%s" class="btn">View Documents</a>
	`, name, config.AppConfig.FrontendURL+"/documents")

	go SendEmail(email, subject, getEmailTemplate("Documents Ready", body))
}

// 5. Certificate issued
func SendCertificateIssuedEmail(email, name, verificationURL string) {
	subject := "Certificate Issued"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! Your internship completion certificate has been issued.</p>
		<p>Anyone can verify your certificate at the link below.</p>
		<a href="%s" class="btn">Verify Certificate</a>
	`, name, verificationURL)

	go SendEmail(email, subject, getEmailTemplate("Congratulations!", body))
}
