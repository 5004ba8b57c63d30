package services

import (
	"encoding/base64"
	"fmt"
	"strings"

	"pstn-call-report/internal/config"
	"pstn-call-report/internal/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EmailService handles email sending via SendGrid
type EmailService struct {
	apiKey    string
	fromEmail string
	client    *sendgrid.Client
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.EmailConfig) *EmailService {
	client := sendgrid.NewSendClient(cfg.APIKey)
	return &EmailService{
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		client:    client,
	}
}

// SendReportEmail sends one distribution bundle with its rendered xlsx
// attachment. Delivery failures are returned to the caller; they never
// roll back or re-trigger report generation.
func (s *EmailService) SendReportEmail(bundle models.DistributionBundle, xlsxData []byte) error {
	from := mail.NewEmail("Call Reports", s.fromEmail)
	to := mail.NewEmail("", bundle.Recipient)

	plainTextContent := htmlToText(bundle.Body)
	message := mail.NewSingleEmail(from, bundle.Subject, to, plainTextContent, bundle.Body)

	if len(xlsxData) > 0 {
		attachment := mail.NewAttachment()
		attachment.SetContent(base64.StdEncoding.EncodeToString(xlsxData))
		attachment.SetType(xlsxContentType)
		attachment.SetFilename(bundle.Filename)
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	response, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid API error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

// htmlToText flattens the HTML body into the plain-text alternative part
func htmlToText(body string) string {
	return strings.ReplaceAll(body, "<br>", "\n")
}
