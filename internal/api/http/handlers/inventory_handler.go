package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-service/internal/api/dto"
	"github.com/spec-kit/field-service/internal/service"
)

// InventoryHandler serves parts stock and requests.
type InventoryHandler struct {
	service *service.InventoryService
}

// NewInventoryHandler constructs handler.
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: inventoryService}
}

// Parts GET /inventory/parts?category=&location=.
func (h *InventoryHandler) Parts(c *fiber.Ctx) error {
	catalog := h.service.Parts(c.UserContext(), c.Query("category"), c.Query("location"))
	return c.JSON(fiber.Map{
		"parts":       dto.NewPartList(catalog.Parts),
		"total_count": len(catalog.Parts),
		"categories":  catalog.Categories,
		"locations":   catalog.Locations,
	})
}

// RequestParts POST /inventory/request.
func (h *InventoryHandler) RequestParts(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	var req dto.PartsRequestPayload
	if err := parseBody(c, &req); err != nil {
		return err
	}
	request, stored, err := h.service.RequestParts(c.UserContext(), technicianID, req.Lines(), req.Reason)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":            "Parts request submitted successfully",
		"request_id":         request.RequestID,
		"technician_id":      request.TechnicianID,
		"parts_requested":    request.PartsCount,
		"estimated_delivery": request.EstimatedDelivery,
		"status":             request.Status,
		"reason":             request.Reason,
		"submitted_at":       dto.Timestamp(request.SubmittedAt),
		"persisted":          stored,
	})
}

// Requests GET /inventory/requests?status=.
func (h *InventoryHandler) Requests(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	requests := h.service.Requests(c.UserContext(), technicianID, c.Query("status"))
	items := make([]dto.PartsRequestResponse, 0, len(requests))
	for _, r := range requests {
		items = append(items, dto.NewPartsRequestResponse(r))
	}
	return c.JSON(fiber.Map{
		"requests":    items,
		"total_count": len(items),
	})
}
