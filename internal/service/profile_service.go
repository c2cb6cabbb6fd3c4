package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/repository"
	apperrors "github.com/spec-kit/field-service/pkg/util/errorutil"
)

// Profile is a technician plus HR details that are not stored per record.
type Profile struct {
	Technician            domain.Technician
	Department            string
	JoinDate              string
	PerformanceRating     float64
	CompletedTicketsTotal int
	CertificationLevel    string
	LastLogin             time.Time
}

// ProfileUpdateResult echoes what changed.
type ProfileUpdateResult struct {
	UpdatedFields []string
	UpdatedAt     time.Time
	Persisted     bool
}

// ProfileService reads and edits the caller's profile.
type ProfileService struct {
	technicians repository.TechnicianRepository
	tickets     repository.TicketRepository
	clock       Clock
}

// NewProfileService constructs the service.
func NewProfileService(technicians repository.TechnicianRepository, tickets repository.TicketRepository, clock Clock) *ProfileService {
	return &ProfileService{technicians: technicians, tickets: tickets, clock: clock}
}

// Get returns the caller's profile.
func (s *ProfileService) Get(ctx context.Context, technicianID int64) *Profile {
	technician := s.technicians.GetByID(ctx, technicianID)
	completed := domain.TicketStatusCompleted
	tickets := s.tickets.List(ctx, repository.TicketFilter{TechnicianID: technicianID, Status: &completed})
	return &Profile{
		Technician:            technician,
		Department:            "Field Service",
		JoinDate:              "2020-01-15",
		PerformanceRating:     4.8,
		CompletedTicketsTotal: len(tickets),
		CertificationLevel:    "Senior Technician",
		LastLogin:             s.clock.now(),
	}
}

// Update applies a partial profile edit.
func (s *ProfileService) Update(ctx context.Context, technicianID int64, update domain.ProfileUpdate) (*ProfileUpdateResult, error) {
	if update.Empty() {
		return nil, apperrors.NewValidationError("no updatable fields supplied", map[string]any{
			"allowed": []string{"full_name", "phone", "email", "specializations"},
		})
	}
	if update.FullName != nil && strings.TrimSpace(*update.FullName) == "" {
		return nil, apperrors.NewValidationError("full_name must not be empty", nil)
	}
	if update.Email != nil && *update.Email != "" {
		if _, err := mail.ParseAddress(*update.Email); err != nil {
			return nil, apperrors.NewValidationError("email is invalid", map[string]any{"email": *update.Email})
		}
	}
	persisted := s.technicians.UpdateProfile(ctx, technicianID, update)
	return &ProfileUpdateResult{
		UpdatedFields: update.Fields(),
		UpdatedAt:     s.clock.now(),
		Persisted:     persisted,
	}, nil
}
