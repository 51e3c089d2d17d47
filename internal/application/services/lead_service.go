package services

import (
	"context"
	"strings"

	"github.com/ettle-app/ettle-go/internal/domain/forms"
	"github.com/ettle-app/ettle-go/internal/domain/user"
	"github.com/ettle-app/ettle-go/internal/infrastructure/email"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	userRepo "github.com/ettle-app/ettle-go/internal/infrastructure/persistence/user"
	"github.com/ettle-app/ettle-go/pkg/config"
)

// LeadService captures landing-page email signups and sends the welcome
// email. The email service is optional; without it capture still works.
type LeadService struct {
	leads     *userRepo.LeadRepository
	email     email.Service
	signupURL string
	logger    *logging.ChanneledLogger
}

// NewLeadService creates the lead service. emailSvc may be nil.
func NewLeadService(leads *userRepo.LeadRepository, emailSvc email.Service, signupURL string, logger *logging.ChanneledLogger) *LeadService {
	return &LeadService{leads: leads, email: emailSvc, signupURL: signupURL, logger: logger}
}

// Capture stores a lead by email. A repeat signup refreshes the existing row
// and does not resend the welcome email.
func (s *LeadService) Capture(ctx context.Context, rawEmail string) (*user.Lead, error) {
	address := strings.ToLower(strings.TrimSpace(rawEmail))
	if !forms.IsValidEmail(address) {
		return nil, ErrInvalidEmail
	}

	lead, created, err := s.leads.UpsertByEmail(ctx, address)
	if err != nil {
		return nil, err
	}

	if created && s.email != nil && config.EmailSendLeads {
		// Fire and forget; a failed welcome email never fails the capture.
		go func(to string) {
			if err := s.email.SendLeadWelcomeEmail(to, s.signupURL); err != nil {
				s.logger.Email().Warn("Welcome email failed", "leadId", lead.ID, "error", err.Error())
				return
			}
			s.logger.Email().Info("Welcome email sent", "leadId", lead.ID)
		}(address)
	}

	s.logger.System().Info("Lead captured", "leadId", lead.ID, "created", created)
	return lead, nil
}
