package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-service/internal/api/dto"
	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/service"
)

const photosFormField = "photos"

// TicketsHandler manages the technician's ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListAssigned GET /tickets/assigned.
func (h *TicketsHandler) ListAssigned(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	page, err := h.service.ListAssigned(c.UserContext(), technicianID, service.TicketListFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"tickets":     dto.NewTicketList(page.Tickets),
		"total_count": page.TotalCount,
		"limit":       page.Limit,
		"offset":      page.Offset,
	})
}

// ListCompleted GET /tickets/completed.
func (h *TicketsHandler) ListCompleted(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	page, err := h.service.ListCompleted(c.UserContext(), technicianID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"tickets":     dto.NewTicketList(page.Tickets),
		"total_count": page.TotalCount,
	})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ticket": dto.NewTicketDetailResponse(*ticket)})
}

// UpdateStatus PUT /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	change, err := h.service.UpdateStatus(c.UserContext(), technicianID, domain.StatusUpdate{
		TicketID:      ticketID,
		Status:        domain.TicketStatus(req.Status),
		Notes:         req.Notes,
		WorkPerformed: req.WorkPerformed,
		PartsUsed:     dto.PartUsagesToDomain(req.PartsUsed),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":        "Ticket status updated successfully",
		"ticket_id":      change.TicketID,
		"new_status":     change.Status,
		"updated_at":     dto.Timestamp(change.UpdatedAt),
		"notes":          change.Update.Notes,
		"work_performed": change.Update.WorkPerformed,
		"parts_used":     dto.PartUsagesFromDomain(change.Update.PartsUsed),
		"persisted":      change.Persisted,
	})
}

// CaptureLocation POST /tickets/:id/location.
func (h *TicketsHandler) CaptureLocation(c *fiber.Ctx) error {
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.LocationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	loc, err := h.service.CaptureLocation(c.UserContext(), ticketID, req.Latitude, req.Longitude)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":     "Location captured successfully",
		"ticket_id":   loc.TicketID,
		"latitude":    loc.Latitude,
		"longitude":   loc.Longitude,
		"captured_at": dto.Timestamp(loc.CapturedAt),
		"address":     loc.Address,
	})
}

// UploadPhotos POST /tickets/:id/photos. Multipart files under "photos"
// are counted; without them a default batch is assumed.
func (h *TicketsHandler) UploadPhotos(c *fiber.Ctx) error {
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	count := 0
	if form, err := c.MultipartForm(); err == nil {
		count = len(form.File[photosFormField])
	}
	upload := h.service.UploadPhotos(c.UserContext(), ticketID, count)
	return c.JSON(fiber.Map{
		"message":     "Photos uploaded successfully",
		"ticket_id":   upload.TicketID,
		"photo_count": len(upload.URLs),
		"photo_urls":  upload.URLs,
		"uploaded_at": dto.Timestamp(upload.UploadedAt),
	})
}

// CaptureSignature POST /tickets/:id/signature.
func (h *TicketsHandler) CaptureSignature(c *fiber.Ctx) error {
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	sig, err := h.service.CaptureSignature(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":       "Customer signature captured successfully",
		"ticket_id":     sig.TicketID,
		"signature_url": sig.URL,
		"captured_at":   dto.Timestamp(sig.CapturedAt),
		"customer_name": sig.CustomerName,
	})
}

// AddParts POST /tickets/:id/parts.
func (h *TicketsHandler) AddParts(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.PartsUsedRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	added, err := h.service.AddParts(c.UserContext(), technicianID, ticketID, dto.PartUsagesToDomain(req.Parts))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":     "Parts information updated successfully",
		"ticket_id":   added.TicketID,
		"parts_added": len(added.Parts),
		"total_cost":  added.TotalCost,
		"parts":       dto.PartUsagesFromDomain(added.Parts),
		"updated_at":  dto.Timestamp(added.UpdatedAt),
	})
}
