package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/events"
	"github.com/spec-kit/field-service/internal/repository"
	apperrors "github.com/spec-kit/field-service/pkg/util/errorutil"
)

const (
	defaultTicketLimit  = 10
	photoBaseURL        = "https://example.com/photos"
	signatureBaseURL    = "https://example.com/signatures"
	defaultPhotoCount   = 3
	maxLatitude         = 90.0
	maxLongitude        = 180.0
	unknownCustomerName = "Customer"
)

// TicketService coordinates ticket workflows for the signed-in technician.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      Clock
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      Clock
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		clock:      deps.Clock,
	}
}

// TicketListFilter describes listing parameters. Status is matched by
// storage; Priority is matched here, case-insensitively.
type TicketListFilter struct {
	Status   string
	Priority string
	Limit    int
	Offset   int
}

// TicketPage is one window over the matching tickets. TotalCount counts
// every match before the window is applied.
type TicketPage struct {
	Tickets    []domain.Ticket
	TotalCount int
	Limit      int
	Offset     int
}

// StatusChange is the outcome of a status update.
type StatusChange struct {
	TicketID  int64
	Status    domain.TicketStatus
	UpdatedAt time.Time
	Update    domain.StatusUpdate
	Persisted bool
}

// LocationCapture records where the technician was.
type LocationCapture struct {
	TicketID   int64
	Latitude   float64
	Longitude  float64
	Address    string
	CapturedAt time.Time
}

// PhotoUpload lists stored photo URLs.
type PhotoUpload struct {
	TicketID   int64
	URLs       []string
	UploadedAt time.Time
}

// SignatureCapture records the customer's sign-off.
type SignatureCapture struct {
	TicketID     int64
	URL          string
	CustomerName string
	CapturedAt   time.Time
}

// PartsAdded summarizes parts consumed on a ticket.
type PartsAdded struct {
	TicketID  int64
	Parts     []domain.PartUsage
	TotalCost float64
	UpdatedAt time.Time
}

// ListAssigned returns the technician's tickets, filtered then paginated.
func (s *TicketService) ListAssigned(ctx context.Context, technicianID int64, filter TicketListFilter) (*TicketPage, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, apperrors.NewValidationError("limit and offset must not be negative", nil)
	}
	if filter.Limit == 0 {
		filter.Limit = defaultTicketLimit
	}

	repoFilter := repository.TicketFilter{TechnicianID: technicianID}
	if strings.TrimSpace(filter.Status) != "" {
		status := domain.NormalizeStatus(filter.Status)
		repoFilter.Status = &status
	}
	tickets := s.tickets.List(ctx, repoFilter)

	if priority := strings.TrimSpace(filter.Priority); priority != "" {
		matched := make([]domain.Ticket, 0, len(tickets))
		for _, ticket := range tickets {
			if strings.EqualFold(string(ticket.Priority), priority) {
				matched = append(matched, ticket)
			}
		}
		tickets = matched
	}

	return &TicketPage{
		Tickets:    repository.Paginate(tickets, filter.Offset, filter.Limit),
		TotalCount: len(tickets),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// ListCompleted returns completed tickets only.
func (s *TicketService) ListCompleted(ctx context.Context, technicianID int64, limit, offset int) (*TicketPage, error) {
	return s.ListAssigned(ctx, technicianID, TicketListFilter{
		Status: string(domain.TicketStatusCompleted),
		Limit:  limit,
		Offset: offset,
	})
}

// GetTicket returns one ticket or NOT_FOUND.
func (s *TicketService) GetTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, ok := s.tickets.GetByID(ctx, ticketID)
	if !ok {
		return nil, apperrors.NewNotFound("Ticket", map[string]any{"ticket_id": ticketID})
	}
	return &ticket, nil
}

// UpdateStatus writes the normalized status. Any status may replace any
// other. Completing a ticket stamps completed_at.
func (s *TicketService) UpdateStatus(ctx context.Context, technicianID int64, update domain.StatusUpdate) (*StatusChange, error) {
	update.Status = domain.NormalizeStatus(string(update.Status))
	if update.Status == "" {
		return nil, apperrors.NewValidationError("status is required", nil)
	}
	ticket, err := s.GetTicket(ctx, update.TicketID)
	if err != nil {
		return nil, err
	}

	now := s.clock.now()
	var completedAt *time.Time
	if update.Status == domain.TicketStatusCompleted {
		completedAt = &now
	}
	persisted := s.tickets.UpdateStatus(ctx, update.TicketID, update.Status, completedAt)
	if !persisted {
		s.logger.Warn("ticket status not persisted", zap.Int64("ticket_id", update.TicketID), zap.String("status", string(update.Status)))
	}
	if update.PartsUsed == nil {
		update.PartsUsed = []domain.PartUsage{}
	}

	s.publishEvent(ctx, events.NewEvent(events.EventTicketStatusChanged, technicianID, update.TicketID, now, events.TicketStatusChangedPayload{
		TicketNumber: ticket.TicketNumber,
		OldStatus:    ticket.Status,
		NewStatus:    update.Status,
		Notes:        update.Notes,
		Persisted:    persisted,
	}))
	if len(update.PartsUsed) > 0 {
		s.publishEvent(ctx, events.NewEvent(events.EventPartsUsed, technicianID, update.TicketID, now, events.PartsUsedPayload{
			PartsCount: len(update.PartsUsed),
			TotalCost:  totalCost(update.PartsUsed),
		}))
	}

	return &StatusChange{
		TicketID:  update.TicketID,
		Status:    update.Status,
		UpdatedAt: now,
		Update:    update,
		Persisted: persisted,
	}, nil
}

// CaptureLocation validates and stamps a coordinate pair.
func (s *TicketService) CaptureLocation(ctx context.Context, ticketID int64, latitude, longitude *float64) (*LocationCapture, error) {
	if latitude == nil || longitude == nil {
		return nil, apperrors.NewValidationError("latitude and longitude are required", nil)
	}
	if *latitude < -maxLatitude || *latitude > maxLatitude || *longitude < -maxLongitude || *longitude > maxLongitude {
		return nil, apperrors.NewValidationError("coordinates out of range", map[string]any{
			"latitude":  *latitude,
			"longitude": *longitude,
		})
	}
	return &LocationCapture{
		TicketID:   ticketID,
		Latitude:   *latitude,
		Longitude:  *longitude,
		Address:    fmt.Sprintf("Approximate address for %v, %v", *latitude, *longitude),
		CapturedAt: s.clock.now(),
	}, nil
}

// UploadPhotos assigns URLs for count photos; a non-positive count is
// treated as the default batch.
func (s *TicketService) UploadPhotos(ctx context.Context, ticketID int64, count int) *PhotoUpload {
	if count <= 0 {
		count = defaultPhotoCount
	}
	urls := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		urls = append(urls, fmt.Sprintf("%s/%d_%d.jpg", photoBaseURL, ticketID, i))
	}
	return &PhotoUpload{TicketID: ticketID, URLs: urls, UploadedAt: s.clock.now()}
}

// CaptureSignature records the sign-off for a known ticket.
func (s *TicketService) CaptureSignature(ctx context.Context, ticketID int64) (*SignatureCapture, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	name := ticket.CustomerName
	if name == "" {
		name = unknownCustomerName
	}
	return &SignatureCapture{
		TicketID:     ticketID,
		URL:          fmt.Sprintf("%s/%d_signature.png", signatureBaseURL, ticketID),
		CustomerName: name,
		CapturedAt:   s.clock.now(),
	}, nil
}

// AddParts totals the parts used on a ticket and announces them.
func (s *TicketService) AddParts(ctx context.Context, technicianID, ticketID int64, parts []domain.PartUsage) (*PartsAdded, error) {
	if len(parts) == 0 {
		return nil, apperrors.NewValidationError("parts are required", nil)
	}
	for i, part := range parts {
		if part.Quantity < 0 || part.Cost < 0 {
			return nil, apperrors.NewValidationError("quantity and cost must not be negative", map[string]any{"index": i})
		}
	}
	now := s.clock.now()
	total := totalCost(parts)
	s.publishEvent(ctx, events.NewEvent(events.EventPartsUsed, technicianID, ticketID, now, events.PartsUsedPayload{
		PartsCount: len(parts),
		TotalCost:  total,
	}))
	return &PartsAdded{TicketID: ticketID, Parts: parts, TotalCost: total, UpdatedAt: now}, nil
}

func totalCost(parts []domain.PartUsage) float64 {
	var total float64
	for _, part := range parts {
		total += part.LineCost()
	}
	return total
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
