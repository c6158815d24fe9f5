// internal/pkg/email/types.go
package email

import (
	"time"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeInquiryReceived   EmailType = "inquiry_received"
	EmailTypeInquiryNotify     EmailType = "inquiry_notify"
)

// Email represents an email message
type Email struct {
	To          []string  `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"html_content"`
	Type        EmailType `json:"type"`
}

// TemplateData contains common data for all email templates
type TemplateData struct {
	SiteName string `json:"site_name"`
	SiteURL  string `json:"site_url"`
	Year     int    `json:"year"`
}

// OrderConfirmationData contains data for the order confirmation email
type OrderConfirmationData struct {
	TemplateData
	OrderNumber    string      `json:"order_number"`
	OrderDate      string      `json:"order_date"`
	Email          string      `json:"email"`
	Items          []OrderLine `json:"items"`
	Subtotal       string      `json:"subtotal"`
	ShippingCost   string      `json:"shipping_cost"`
	Total          string      `json:"total"`
	Currency       string      `json:"currency"`
	ShippingMethod string      `json:"shipping_method"`
}

// OrderLine represents one purchased item in the confirmation email
type OrderLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// InquiryNotificationData contains data for the sponsorship inquiry
// notification sent to the partnerships inbox
type InquiryNotificationData struct {
	TemplateData
	Name        string `json:"name"`
	Company     string `json:"company"`
	Email       string `json:"email"`
	Budget      string `json:"budget"`
	Message     string `json:"message"`
	SubmittedAt string `json:"submitted_at"`
}

// GetBaseTemplateData returns common template data
func GetBaseTemplateData(siteName, siteURL string) TemplateData {
	return TemplateData{
		SiteName: siteName,
		SiteURL:  siteURL,
		Year:     time.Now().Year(),
	}
}
