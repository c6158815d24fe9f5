// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/config"
)

// Service handles all email operations
type Service struct {
	config    *config.Config
	templates map[string]*template.Template
	client    *http.Client
	logger    *logrus.Logger
}

// NewService creates a new email service
func NewService(cfg *config.Config, logger *logrus.Logger) (*Service, error) {
	service := &Service{
		config:    cfg,
		templates: make(map[string]*template.Template),
		logger:    logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	if err := service.loadTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	return service, nil
}

// SendEmail sends an email using the configured provider
func (s *Service) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.External.Email.Provider {
	case "smtp":
		return s.sendSMTPEmail(email)
	case "resend":
		return s.sendResendEmail(ctx, email)
	case "sendgrid":
		return s.sendSendGridEmail(ctx, email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.External.Email.Provider)
	}
}

// SendOrderConfirmation sends the order confirmation to the buyer
func (s *Service) SendOrderConfirmation(ctx context.Context, data OrderConfirmationData) error {
	data.TemplateData = GetBaseTemplateData(
		s.config.External.Email.FromName,
		s.config.App.SiteURL,
	)

	htmlContent, err := s.renderTemplate("order_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{data.Email},
		Subject:     fmt.Sprintf("Order Confirmation - %s", data.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
	})
}

// SendInquiryNotification forwards a sponsorship inquiry to the
// partnerships inbox
func (s *Service) SendInquiryNotification(ctx context.Context, data InquiryNotificationData) error {
	data.TemplateData = GetBaseTemplateData(
		s.config.External.Email.FromName,
		s.config.App.SiteURL,
	)

	htmlContent, err := s.renderTemplate("inquiry_notify", data)
	if err != nil {
		return fmt.Errorf("failed to render inquiry template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{s.config.External.Email.InquiryInbox},
		Subject:     fmt.Sprintf("New sponsorship inquiry from %s", data.Name),
		HTMLContent: htmlContent,
		Type:        EmailTypeInquiryNotify,
	})
}

// loadTemplates parses the built-in email templates
func (s *Service) loadTemplates() error {
	sources := map[string]string{
		"order_confirmation": orderConfirmationTemplate,
		"inquiry_notify":     inquiryNotifyTemplate,
	}

	for name, source := range sources {
		tmpl, err := template.New(name).Parse(source)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		s.templates[name] = tmpl
	}
	return nil
}

// renderTemplate renders an email template with data
func (s *Service) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

const orderConfirmationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">Thank you for your order!</h1>
        <p>Your order <strong>{{.OrderNumber}}</strong> was placed on {{.OrderDate}}.</p>
        <table style="width: 100%; border-collapse: collapse;">
            {{range .Items}}
            <tr>
                <td style="padding: 8px 0; border-bottom: 1px solid #eee;">{{.Name}} &times; {{.Quantity}}</td>
                <td style="padding: 8px 0; border-bottom: 1px solid #eee; text-align: right;">{{.Total}}</td>
            </tr>
            {{end}}
            <tr>
                <td style="padding: 8px 0;">Shipping ({{.ShippingMethod}})</td>
                <td style="padding: 8px 0; text-align: right;">{{.ShippingCost}}</td>
            </tr>
            <tr>
                <td style="padding: 8px 0; font-weight: bold;">Total</td>
                <td style="padding: 8px 0; text-align: right; font-weight: bold;">{{.Total}} {{.Currency}}</td>
            </tr>
        </table>
        <p>We will email you again once your order ships.</p>
        <p>Best regards,<br>{{.SiteName}}</p>
        <hr>
        <p style="font-size: 12px; color: #666;">
            &copy; {{.Year}} {{.SiteName}}. All rights reserved.
        </p>
    </div>
</body>
</html>`

const inquiryNotifyTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">New sponsorship inquiry</h1>
        <p><strong>From:</strong> {{.Name}}{{if .Company}} ({{.Company}}){{end}}</p>
        <p><strong>Email:</strong> {{.Email}}</p>
        {{if .Budget}}<p><strong>Budget:</strong> {{.Budget}}</p>{{end}}
        <p><strong>Submitted:</strong> {{.SubmittedAt}}</p>
        <hr>
        <p style="white-space: pre-wrap;">{{.Message}}</p>
    </div>
</body>
</html>`
