package dto

import (
	"fmt"
	"time"

	"github.com/spec-kit/field-service/internal/service"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest payload.
type SignupRequest struct {
	FullName   string `json:"full_name"`
	EmployeeID string `json:"employee_id"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// SendOTPRequest payload.
type SendOTPRequest struct {
	Contact string `json:"contact"`
}

// VerifyOTPRequest payload.
type VerifyOTPRequest struct {
	Contact string `json:"contact"`
	OTP     string `json:"otp"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	TokenType    string  `json:"token_type"`
	ExpiresAt    string  `json:"expires_at"`
	TechnicianID int64   `json:"technician_id"`
	FullName     string  `json:"full_name"`
	Role         string  `json:"role"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Persisted    *bool   `json:"persisted,omitempty"`
}

// NewAuthResponse shapes a login result.
func NewAuthResponse(res *service.AuthResult) AuthResponse {
	employeeID := res.Technician.EmployeeID
	return AuthResponse{
		AccessToken:  res.AccessToken,
		TokenType:    "bearer",
		ExpiresAt:    Timestamp(res.ExpiresAt),
		TechnicianID: res.Technician.ID,
		FullName:     res.Technician.FullName,
		Role:         res.Technician.Role,
		EmployeeID:   &employeeID,
	}
}

// SendOTPResponse reports an issued code.
type SendOTPResponse struct {
	Message   string `json:"message"`
	Contact   string `json:"contact"`
	OTP       string `json:"otp"`
	ExpiresIn string `json:"expires_in"`
}

// NewSendOTPResponse shapes an OTP dispatch.
func NewSendOTPResponse(d *service.OTPDispatch) SendOTPResponse {
	return SendOTPResponse{
		Message:   "OTP sent successfully",
		Contact:   d.Contact,
		OTP:       d.Code,
		ExpiresIn: fmt.Sprintf("%d minutes", int(d.ExpiresIn/time.Minute)),
	}
}
