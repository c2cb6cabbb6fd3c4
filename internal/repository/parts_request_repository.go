package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/fallback"
	"github.com/spec-kit/field-service/internal/persistence"
)

var errRedisNotConfigured = errors.New("redis client not configured")

// PartsRequestRepository keeps each technician's replenishment requests in
// a Redis list, oldest first.
type PartsRequestRepository interface {
	Save(ctx context.Context, request domain.PartsRequest) bool
	ListForTechnician(ctx context.Context, technicianID int64) []domain.PartsRequest
}

type partsRequestRepository struct {
	redis *persistence.Redis
	db    *Resilient
}

// NewPartsRequestRepository builds the Redis-backed request log.
func NewPartsRequestRepository(redis *persistence.Redis, db *Resilient) PartsRequestRepository {
	return &partsRequestRepository{redis: redis, db: db}
}

type partsRequestRecord struct {
	RequestID         string            `json:"request_id"`
	TechnicianID      int64             `json:"technician_id"`
	Status            string            `json:"status"`
	Lines             []partsLineRecord `json:"parts"`
	PartsCount        int               `json:"parts_count"`
	Reason            string            `json:"reason,omitempty"`
	SubmittedAt       string            `json:"submitted_at"`
	EstimatedDelivery string            `json:"estimated_delivery,omitempty"`
	DeliveredAt       string            `json:"delivered_at,omitempty"`
}

type partsLineRecord struct {
	PartID   int64  `json:"part_id"`
	Quantity int    `json:"quantity"`
	Urgency  string `json:"urgency,omitempty"`
}

func partsRequestKey(technicianID int64) string {
	return fmt.Sprintf("parts_requests:%d", technicianID)
}

func (r *partsRequestRepository) Save(ctx context.Context, request domain.PartsRequest) bool {
	payload, err := json.Marshal(toPartsRecord(request))
	if err != nil {
		return false
	}
	return Attempt(ctx, r.db, "parts_requests.save", false, func(ctx context.Context) (bool, error) {
		if r.redis == nil || r.redis.Client == nil {
			return false, errRedisNotConfigured
		}
		if err := r.redis.Client.RPush(ctx, partsRequestKey(request.TechnicianID), payload).Err(); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (r *partsRequestRepository) ListForTechnician(ctx context.Context, technicianID int64) []domain.PartsRequest {
	return Attempt(ctx, r.db, "parts_requests.list", fallback.PartsRequests(technicianID), func(ctx context.Context) ([]domain.PartsRequest, error) {
		if r.redis == nil || r.redis.Client == nil {
			return nil, errRedisNotConfigured
		}
		entries, err := r.redis.Client.LRange(ctx, partsRequestKey(technicianID), 0, -1).Result()
		if err != nil {
			return nil, err
		}
		out := make([]domain.PartsRequest, 0, len(entries))
		for _, entry := range entries {
			var record partsRequestRecord
			if err := json.Unmarshal([]byte(entry), &record); err != nil {
				continue
			}
			out = append(out, fromPartsRecord(record))
		}
		return out, nil
	})
}

func toPartsRecord(request domain.PartsRequest) partsRequestRecord {
	record := partsRequestRecord{
		RequestID:         request.RequestID,
		TechnicianID:      request.TechnicianID,
		Status:            string(request.Status),
		Lines:             make([]partsLineRecord, 0, len(request.Lines)),
		PartsCount:        request.PartsCount,
		Reason:            request.Reason,
		SubmittedAt:       persistence.FormatTimestamp(request.SubmittedAt),
		EstimatedDelivery: request.EstimatedDelivery,
	}
	for _, line := range request.Lines {
		record.Lines = append(record.Lines, partsLineRecord{PartID: line.PartID, Quantity: line.Quantity, Urgency: line.Urgency})
	}
	if request.DeliveredAt != nil {
		record.DeliveredAt = persistence.FormatTimestamp(*request.DeliveredAt)
	}
	return record
}

func fromPartsRecord(record partsRequestRecord) domain.PartsRequest {
	request := domain.PartsRequest{
		RequestID:         record.RequestID,
		TechnicianID:      record.TechnicianID,
		Status:            domain.PartsRequestStatus(record.Status),
		Lines:             make([]domain.PartsRequestLine, 0, len(record.Lines)),
		PartsCount:        record.PartsCount,
		Reason:            record.Reason,
		EstimatedDelivery: record.EstimatedDelivery,
	}
	for _, line := range record.Lines {
		request.Lines = append(request.Lines, domain.PartsRequestLine{PartID: line.PartID, Quantity: line.Quantity, Urgency: line.Urgency})
	}
	if t, err := persistence.ParseTimestamp(record.SubmittedAt); err == nil {
		request.SubmittedAt = t
	}
	if record.DeliveredAt != "" {
		if t, err := persistence.ParseTimestamp(record.DeliveredAt); err == nil {
			request.DeliveredAt = &t
		}
	}
	return request
}
