// internal/domain/inquiry/service.go
package inquiry

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/email"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no inquiry matches the lookup.
var ErrNotFound = errors.New("inquiry not found")

// notifier forwards new inquiries to the partnerships inbox.
type notifier interface {
	SendInquiryNotification(ctx context.Context, data email.InquiryNotificationData) error
}

// Service handles sponsorship inquiry submissions
type Service struct {
	db     *gorm.DB
	mailer notifier
	logger *logrus.Logger
}

// NewService creates a new inquiry service
func NewService(db *gorm.DB, mailer notifier, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		mailer: mailer,
		logger: logger,
	}
}

// Submit stores a new inquiry and notifies the partnerships inbox. The
// notification is best-effort; a mail failure never loses the inquiry.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*Inquiry, error) {
	record := &Inquiry{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Budget:  req.Budget,
		Message: req.Message,
		Status:  InquiryStatusNew,
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to store inquiry: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"inquiry_id": record.ID,
		"company":    record.Company,
	}).Info("Sponsorship inquiry received")

	if s.mailer != nil {
		data := email.InquiryNotificationData{
			Name:        record.Name,
			Company:     record.Company,
			Email:       record.Email,
			Budget:      record.Budget,
			Message:     record.Message,
			SubmittedAt: record.CreatedAt.UTC().Format("2006-01-02 15:04 MST"),
		}
		if err := s.mailer.SendInquiryNotification(ctx, data); err != nil {
			s.logger.WithError(err).WithField("inquiry_id", record.ID).Warn("Failed to send inquiry notification")
		}
	}

	return record, nil
}

// List returns inquiries for the ops dashboard, newest first.
func (s *Service) List(ctx context.Context, status InquiryStatus, limit, offset int) ([]Inquiry, int64, error) {
	query := s.db.WithContext(ctx).Model(&Inquiry{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inquiries: %w", err)
	}

	var inquiries []Inquiry
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&inquiries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, total, nil
}

// UpdateStatus moves an inquiry through the review pipeline.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status InquiryStatus) error {
	switch status {
	case InquiryStatusNew, InquiryStatusReviewed, InquiryStatusArchived:
	default:
		return fmt.Errorf("invalid inquiry status: %s", status)
	}

	result := s.db.WithContext(ctx).Model(&Inquiry{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update inquiry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
