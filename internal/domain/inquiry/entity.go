// internal/domain/inquiry/entity.go
package inquiry

import (
	"time"

	"gorm.io/gorm"
)

// InquiryStatus represents where an inquiry sits in the review pipeline
type InquiryStatus string

const (
	InquiryStatusNew      InquiryStatus = "new"
	InquiryStatusReviewed InquiryStatus = "reviewed"
	InquiryStatusArchived InquiryStatus = "archived"
)

// Inquiry is a sponsorship or partnership inquiry submitted through the
// site. There is no account behind it; the sender is just a name and email.
type Inquiry struct {
	ID      uint          `gorm:"primaryKey" json:"id"`
	Name    string        `gorm:"not null;size:200" json:"name"`
	Company string        `gorm:"size:200" json:"company"`
	Email   string        `gorm:"not null;size:255" json:"email"`
	Budget  string        `gorm:"size:100" json:"budget"`
	Message string        `gorm:"type:text;not null" json:"message"`
	Status  InquiryStatus `gorm:"not null;default:'new'" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Inquiry) TableName() string { return "inquiries" }

// SubmitRequest is the public submission payload
type SubmitRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Company string `json:"company" binding:"max=200"`
	Email   string `json:"email" binding:"required,email"`
	Budget  string `json:"budget" binding:"max=100"`
	Message string `json:"message" binding:"required,max=5000"`
}
