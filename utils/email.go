package utils

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/chnm/relcensus-backend/config"
)

var (
	smtpHost      string
	smtpPort      string
	smtpUsername  string
	smtpPassword  string
	smtpFromName  string
	smtpFromEmail string
	adminSiteURL  string
)

// InitMailer takes the SMTP settings and the admin site base URL used in
// email links. Without it SendEmail stays a logged no-op.
func InitMailer(cfg *config.Config) {
	smtpHost = cfg.SMTPHost
	smtpPort = cfg.SMTPPort
	smtpUsername = cfg.SMTPUsername
	smtpPassword = cfg.SMTPPassword
	smtpFromName = cfg.SMTPFromName
	smtpFromEmail = cfg.SMTPFromEmail
	adminSiteURL = cfg.AdminSiteURL
}

// SendEmail delivers one message via SMTP with STARTTLS. When SMTP is not
// configured it logs and returns nil so workflow notifications degrade to
// in-app only.
func SendEmail(to, subject, body string) error {
	if smtpHost == "" || smtpUsername == "" || smtpPassword == "" {
		log.Printf("⚠️ SMTP not configured, skipping email to %s (%s)", to, subject)
		return nil
	}

	if smtpFromEmail == "" {
		smtpFromEmail = smtpUsername
	}

	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         smtpHost,
	}

	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", smtpUsername, smtpPassword, smtpHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := client.Mail(smtpFromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	fromHeader := smtpFromEmail
	if smtpFromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", smtpFromName, smtpFromEmail)
	}

	msg := strings.Join([]string{
		"From: " + fromHeader,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("failed to quit SMTP session: %w", err)
	}

	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}

// SendAssignmentEmail notifies a transcriber that a schedule was assigned to them.
func SendAssignmentEmail(to, scheduleTitle, resourceID string) error {
	subject := fmt.Sprintf("Census schedule assigned: %s", scheduleTitle)
	body := fmt.Sprintf(
		"A census schedule has been assigned to you for transcription.\n\n"+
			"Schedule: %s (resource %s)\n\n"+
			"Open it here: %s/schedules/%s\n",
		scheduleTitle, resourceID, adminSiteURL, resourceID,
	)
	return SendEmail(to, subject, body)
}

// SendReviewRequestEmail notifies a reviewer that a schedule is ready for review.
func SendReviewRequestEmail(to, scheduleTitle, resourceID string) error {
	subject := fmt.Sprintf("Census schedule ready for review: %s", scheduleTitle)
	body := fmt.Sprintf(
		"A transcribed census schedule is waiting for review.\n\n"+
			"Schedule: %s (resource %s)\n\n"+
			"Open it here: %s/schedules/%s\n",
		scheduleTitle, resourceID, adminSiteURL, resourceID,
	)
	return SendEmail(to, subject, body)
}
