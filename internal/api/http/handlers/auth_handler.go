package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-service/internal/api/dto"
	"github.com/spec-kit/field-service/internal/service"
)

// AuthHandler exposes login, sign-up and OTP endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.service.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAuthResponse(res))
}

// Signup POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.service.Signup(c.UserContext(), service.SignupInput{
		FullName:   req.FullName,
		EmployeeID: req.EmployeeID,
		Phone:      req.Phone,
		Email:      req.Email,
	})
	if err != nil {
		return err
	}
	body := dto.NewAuthResponse(res)
	body.Persisted = &res.Persisted
	return c.Status(http.StatusCreated).JSON(body)
}

// SendOTP POST /auth/send-otp.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	dispatch, err := h.service.SendOTP(c.UserContext(), req.Contact)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSendOTPResponse(dispatch))
}

// VerifyOTP POST /auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.service.VerifyOTP(c.UserContext(), req.Contact, req.OTP)
	if err != nil {
		return err
	}
	body := dto.NewAuthResponse(res)
	body.EmployeeID = nil
	body.Phone = &req.Contact
	return c.JSON(body)
}
