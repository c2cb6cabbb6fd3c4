package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-service/internal/api/dto"
	"github.com/spec-kit/field-service/internal/service"
)

// ProfileHandler serves the caller's profile.
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: profileService}
}

// Get GET /profile/.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	p := h.service.Get(c.UserContext(), technicianID)
	return c.JSON(fiber.Map{"profile": dto.ProfileResponse{
		TechnicianResponse:    dto.NewTechnicianResponse(p.Technician),
		Department:            p.Department,
		JoinDate:              p.JoinDate,
		PerformanceRating:     p.PerformanceRating,
		CompletedTicketsTotal: p.CompletedTicketsTotal,
		CertificationLevel:    p.CertificationLevel,
		LastLogin:             dto.Timestamp(p.LastLogin),
	}})
}

// Update PUT /profile/.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	var req dto.ProfileUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.service.Update(c.UserContext(), technicianID, req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":        "Profile updated successfully",
		"updated_fields": res.UpdatedFields,
		"updated_at":     dto.Timestamp(res.UpdatedAt),
		"persisted":      res.Persisted,
	})
}
