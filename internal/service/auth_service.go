package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/auth"
	"github.com/spec-kit/field-service/internal/config"
	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/fallback"
	"github.com/spec-kit/field-service/internal/repository"
	apperrors "github.com/spec-kit/field-service/pkg/util/errorutil"
)

// AuthService coordinates login, sign-up and OTP flows.
type AuthService struct {
	technicians repository.TechnicianRepository
	otps        repository.OTPRepository
	tokens      *auth.TokenManager
	credentials *auth.Credentials
	cfg         config.AuthConfig
	logger      *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	TechnicianRepo repository.TechnicianRepository
	OTPRepo        repository.OTPRepository
	Tokens         *auth.TokenManager
	Credentials    *auth.Credentials
	Logger         *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		technicians: deps.TechnicianRepo,
		otps:        deps.OTPRepo,
		tokens:      deps.Tokens,
		credentials: deps.Credentials,
		cfg:         cfg,
		logger:      logger,
	}
}

// AuthResult is handed back by every successful authentication.
type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Technician  domain.Technician
	// Persisted is false when a sign-up could not be written to storage.
	Persisted bool
}

// SignupInput carries registration fields.
type SignupInput struct {
	FullName   string
	EmployeeID string
	Phone      string
	Email      string
}

// OTPDispatch describes a code that was issued.
type OTPDispatch struct {
	Contact   string
	Code      string
	ExpiresIn time.Duration
	Stored    bool
}

// Login checks the configured demo account.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if !s.credentials.Match(username, password) {
		return nil, apperrors.NewUnauthorized("Invalid username or password")
	}
	technician := s.technicians.GetByID(ctx, s.cfg.DemoTechnicianID)
	return s.issue(technician, map[string]any{
		"sub":      subject(technician.ID),
		"username": username,
		"role":     domain.RoleTechnician,
	}, true)
}

// Signup registers a technician and logs them in. The response echoes the
// submitted identity even when storage could not record it.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.EmployeeID = strings.TrimSpace(input.EmployeeID)
	missing := []string{}
	if input.FullName == "" {
		missing = append(missing, "full_name")
	}
	if input.EmployeeID == "" {
		missing = append(missing, "employee_id")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}

	technician := domain.Technician{
		EmployeeID:      input.EmployeeID,
		FullName:        input.FullName,
		Email:           input.Email,
		Phone:           input.Phone,
		Role:            domain.RoleTechnician,
		Specializations: []string{},
	}
	persisted := s.technicians.Create(ctx, technician)
	if stored, ok := s.technicians.GetByEmployeeID(ctx, input.EmployeeID); ok {
		technician.ID = stored.ID
	} else {
		technician.ID = fallback.SignupTechnicianID
	}
	if !persisted {
		s.logger.Warn("signup not persisted", zap.String("employee_id", input.EmployeeID))
	}

	return s.issue(technician, map[string]any{
		"sub":         subject(technician.ID),
		"employee_id": input.EmployeeID,
		"role":        domain.RoleTechnician,
	}, persisted)
}

// SendOTP stores a login code for contact.
func (s *AuthService) SendOTP(ctx context.Context, contact string) (*OTPDispatch, error) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return nil, apperrors.NewValidationError("contact is required", nil)
	}
	code := s.cfg.DemoOTP
	stored := s.otps.Save(ctx, contact, code, s.cfg.OTPTTL())
	return &OTPDispatch{Contact: contact, Code: code, ExpiresIn: s.cfg.OTPTTL(), Stored: stored}, nil
}

// VerifyOTP accepts the stored code or the demo code and logs the owner of
// contact in.
func (s *AuthService) VerifyOTP(ctx context.Context, contact, otp string) (*AuthResult, error) {
	contact = strings.TrimSpace(contact)
	otp = strings.TrimSpace(otp)
	if otp == "" || !s.otpValid(ctx, contact, otp) {
		return nil, apperrors.NewValidationError("Invalid OTP", nil)
	}

	technician, found := s.technicians.GetByPhone(ctx, contact)
	if !found {
		technician = s.technicians.GetByID(ctx, fallback.OTPTechnicianID)
	}
	technician.Phone = contact

	return s.issue(technician, map[string]any{
		"sub":          subject(technician.ID),
		"contact":      contact,
		"otp_verified": true,
		"role":         domain.RoleTechnician,
	}, true)
}

func (s *AuthService) otpValid(ctx context.Context, contact, otp string) bool {
	if otp == s.cfg.DemoOTP {
		return true
	}
	if contact == "" {
		return false
	}
	stored, ok := s.otps.Lookup(ctx, contact)
	return ok && stored == otp
}

func (s *AuthService) issue(technician domain.Technician, claims map[string]any, persisted bool) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(claims)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{AccessToken: token, ExpiresAt: expiresAt, Technician: technician, Persisted: persisted}, nil
}

func subject(id int64) string {
	return strconv.FormatInt(id, 10)
}
