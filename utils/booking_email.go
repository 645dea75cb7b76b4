package utils

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"os"
	"strings"
)

// SendBookingConfirmationEmail notifies a guest that their reservation is
// confirmed. When SMTP is not configured the mail is logged instead of
// sent, so development environments work without a mail server.
func SendBookingConfirmationEmail(recipientEmail, name, referenceCode, checkIn, checkOut string, totalAmount float64) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := EnvOrDefault("SMTP_FROM_NAME", "Hotel Back Office")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		slog.Info("[MOCK EMAIL] booking confirmation",
			"to", recipientEmail, "reference", referenceCode,
			"check_in", checkIn, "check_out", checkOut)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	name = safe(name)
	referenceCode = safe(referenceCode)

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	subject := fmt.Sprintf("Booking %s confirmed", referenceCode)
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your reservation %s is confirmed.\n"+
			"Check-in:  %s\n"+
			"Check-out: %s\n"+
			"Total:     %.2f\n\n"+
			"We look forward to your stay.\n",
		name, referenceCode, checkIn, checkOut, totalAmount,
	)

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + recipientEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(addr, auth, smtpUser, to, []byte(msg))
}
