package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/events"
	"github.com/spec-kit/field-service/internal/repository"
	apperrors "github.com/spec-kit/field-service/pkg/util/errorutil"
)

const partsDeliveryLead = 48 * time.Hour

// PartsCatalog is the filtered parts list plus the facets of the full list.
type PartsCatalog struct {
	Parts      []domain.Part
	Categories []string
	Locations  []string
}

// InventoryService lists stock and records parts requests.
type InventoryService struct {
	inventory  repository.InventoryRepository
	requests   repository.PartsRequestRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      Clock
}

// InventoryDependencies bundles requirements for the inventory service.
type InventoryDependencies struct {
	InventoryRepo    repository.InventoryRepository
	PartsRequestRepo repository.PartsRequestRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
	Clock            Clock
}

// NewInventoryService constructs the service.
func NewInventoryService(deps InventoryDependencies) *InventoryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		inventory:  deps.InventoryRepo,
		requests:   deps.PartsRequestRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		clock:      deps.Clock,
	}
}

// Parts filters the catalog by category and location, ignoring case.
func (s *InventoryService) Parts(ctx context.Context, category, location string) *PartsCatalog {
	all := s.inventory.ListParts(ctx)
	category = strings.TrimSpace(category)
	location = strings.TrimSpace(location)

	parts := make([]domain.Part, 0, len(all))
	categories := map[string]struct{}{}
	locations := map[string]struct{}{}
	for _, part := range all {
		categories[part.Category] = struct{}{}
		locations[part.Location] = struct{}{}
		if category != "" && !strings.EqualFold(part.Category, category) {
			continue
		}
		if location != "" && !strings.EqualFold(part.Location, location) {
			continue
		}
		parts = append(parts, part)
	}
	return &PartsCatalog{Parts: parts, Categories: sortedKeys(categories), Locations: sortedKeys(locations)}
}

// RequestParts records a replenishment request as pending approval.
func (s *InventoryService) RequestParts(ctx context.Context, technicianID int64, lines []domain.PartsRequestLine, reason string) (*domain.PartsRequest, bool, error) {
	if len(lines) == 0 {
		return nil, false, apperrors.NewValidationError("parts are required", nil)
	}
	for i, line := range lines {
		if line.PartID <= 0 || line.Quantity <= 0 {
			return nil, false, apperrors.NewValidationError("each part needs a part_id and a positive quantity", map[string]any{"index": i})
		}
	}

	now := s.clock.now()
	request := domain.PartsRequest{
		RequestID:         "REQ" + now.Format("20060102150405"),
		TechnicianID:      technicianID,
		Status:            domain.PartsRequestPending,
		Lines:             lines,
		PartsCount:        len(lines),
		Reason:            reason,
		SubmittedAt:       now,
		EstimatedDelivery: now.Add(partsDeliveryLead).Format(time.DateOnly),
	}
	stored := s.requests.Save(ctx, request)
	if !stored {
		s.logger.Warn("parts request not stored", zap.String("request_id", request.RequestID))
	}

	if s.dispatcher != nil {
		event := events.NewEvent(events.EventPartsRequested, technicianID, 0, now, events.PartsRequestedPayload{
			RequestID:  request.RequestID,
			PartsCount: request.PartsCount,
			Reason:     reason,
		})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return &request, stored, nil
}

// Requests lists the technician's requests, optionally by status.
func (s *InventoryService) Requests(ctx context.Context, technicianID int64, status string) []domain.PartsRequest {
	all := s.requests.ListForTechnician(ctx, technicianID)
	status = strings.TrimSpace(status)
	if status == "" {
		return all
	}
	out := make([]domain.PartsRequest, 0, len(all))
	for _, request := range all {
		if string(request.Status) == status {
			out = append(out, request)
		}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
