package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/fallback"
	"github.com/spec-kit/field-service/internal/persistence"
	"github.com/spec-kit/field-service/internal/persistence/persistencetest"
)

func downDB() *Resilient {
	return NewResilient(persistencetest.Down(), zap.NewNop(), nil)
}

func unreachableRedis() *persistence.Redis {
	return &persistence.Redis{Client: redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})}
}

func TestTechnicianGetByIDFallsBackToSameSeed(t *testing.T) {
	repo := NewTechnicianRepository(downDB())
	tech := repo.GetByID(context.Background(), 2)
	if tech.ID != 2 || tech.FullName != "Jane Tech" {
		t.Fatalf("unexpected technician %+v", tech)
	}
	if len(tech.Specializations) != 2 {
		t.Fatalf("expected specializations, got %v", tech.Specializations)
	}
}

func TestTechnicianGetByIDUnknownUsesDefault(t *testing.T) {
	repo := NewTechnicianRepository(downDB())
	if tech := repo.GetByID(context.Background(), 999); tech.ID != fallback.DefaultTechnicianID {
		t.Fatalf("expected default technician, got %d", tech.ID)
	}

	// An empty live answer resolves the same way.
	repo = NewTechnicianRepository(NewResilient(persistencetest.Rows(), zap.NewNop(), nil))
	if tech := repo.GetByID(context.Background(), 3); tech.ID != 3 {
		t.Fatalf("expected seed 3, got %d", tech.ID)
	}
}

func TestTechnicianGetByIDPrefersLiveRow(t *testing.T) {
	store := persistencetest.Rows(persistence.Row{
		"id": int64(2), "employee_id": "EMP002", "full_name": "Jane Live", "role": "technician",
		"specializations": []any{"HVAC"}, "experience_years": int64(4),
	})
	repo := NewTechnicianRepository(NewResilient(store, zap.NewNop(), nil))
	tech := repo.GetByID(context.Background(), 2)
	if tech.FullName != "Jane Live" || tech.Specializations[0] != "HVAC" {
		t.Fatalf("expected live technician, got %+v", tech)
	}
}

func TestTechnicianUpdateProfileBuildsSet(t *testing.T) {
	store := &persistencetest.Store{}
	repo := NewTechnicianRepository(NewResilient(store, zap.NewNop(), nil))
	name := "John T."
	ok := repo.UpdateProfile(context.Background(), 1, domain.ProfileUpdate{FullName: &name, Specializations: []string{"Pumps"}})
	if !ok {
		t.Fatal("expected update to succeed")
	}
	execs := store.Execs()
	if len(execs) != 1 {
		t.Fatalf("expected one statement, got %d", len(execs))
	}
	if !strings.Contains(execs[0].Statement, "full_name=$1") || !strings.Contains(execs[0].Statement, "specializations=$2::jsonb") || !strings.Contains(execs[0].Statement, "id=$3") {
		t.Fatalf("unexpected statement %q", execs[0].Statement)
	}
	if execs[0].Args[1] != `["Pumps"]` {
		t.Fatalf("unexpected specializations arg %v", execs[0].Args[1])
	}
}

func TestTechnicianUpdateProfileFailureReported(t *testing.T) {
	repo := NewTechnicianRepository(downDB())
	phone := "1"
	if repo.UpdateProfile(context.Background(), 1, domain.ProfileUpdate{Phone: &phone}) {
		t.Fatal("expected failed write to be reported")
	}
}

func TestTicketListFallbackAppliesFilter(t *testing.T) {
	repo := NewTicketRepository(downDB())
	all := repo.List(context.Background(), TicketFilter{TechnicianID: 1})
	if len(all) != 2 {
		t.Fatalf("expected two seed tickets, got %d", len(all))
	}
	status := domain.TicketStatusInProgress
	filtered := repo.List(context.Background(), TicketFilter{TechnicianID: 1, Status: &status})
	if len(filtered) != 1 || filtered[0].ID != 2 {
		t.Fatalf("expected ticket 2 only, got %+v", filtered)
	}
	if none := repo.List(context.Background(), TicketFilter{TechnicianID: 42}); len(none) != 0 {
		t.Fatalf("expected no tickets for unknown technician, got %d", len(none))
	}
}

func TestTicketListPushesFilterToStorage(t *testing.T) {
	store := persistencetest.Rows()
	repo := NewTicketRepository(NewResilient(store, zap.NewNop(), nil))
	status := domain.TicketStatusCompleted
	if got := repo.List(context.Background(), TicketFilter{TechnicianID: 1, Status: &status}); len(got) != 0 {
		t.Fatalf("empty live result must not fall back, got %d", len(got))
	}
	q := store.Queries()[0]
	if !strings.Contains(q.Statement, "status=$2") || q.Args[1] != "COMPLETED" {
		t.Fatalf("status filter not sent to storage: %q %v", q.Statement, q.Args)
	}
}

func TestTicketGetByID(t *testing.T) {
	repo := NewTicketRepository(downDB())
	ticket, ok := repo.GetByID(context.Background(), 3)
	if !ok || ticket.CompletedAt == nil || ticket.Status != domain.TicketStatusCompleted {
		t.Fatalf("expected seed ticket 3, got %+v %v", ticket, ok)
	}
	if _, ok := repo.GetByID(context.Background(), 77); ok {
		t.Fatal("expected unknown ticket to be missing")
	}
}

func TestNotificationsNewestFirst(t *testing.T) {
	repo := NewNotificationRepository(downDB())
	items := repo.ListForTechnician(context.Background(), 1)
	if len(items) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.After(items[i-1].CreatedAt) {
			t.Fatalf("notifications out of order at %d: %v after %v", i, items[i].CreatedAt, items[i-1].CreatedAt)
		}
	}
	if items[0].ID != 1 {
		t.Fatalf("expected newest notification 1 first, got %d", items[0].ID)
	}
}

func TestNotificationsLiveRowsAreSorted(t *testing.T) {
	store := persistencetest.Rows(
		persistence.Row{"id": int64(10), "technician_id": int64(1), "created_at": "2025-01-10T08:00:00", "is_read": false},
		persistence.Row{"id": int64(11), "technician_id": int64(1), "created_at": "2025-01-12T08:00:00", "is_read": true},
	)
	repo := NewNotificationRepository(NewResilient(store, zap.NewNop(), nil))
	items := repo.ListForTechnician(context.Background(), 1)
	if items[0].ID != 11 || !items[0].IsRead {
		t.Fatalf("expected id 11 first, got %+v", items[0])
	}
}

func TestNotificationsSameSecondKeepCreationOrder(t *testing.T) {
	base := time.Date(2025, 1, 12, 8, 0, 0, 0, time.UTC)
	store := persistencetest.Rows(
		persistence.Row{"id": int64(5), "technician_id": int64(1), "created_at": persistence.NormalizeValue(base.Add(900 * time.Millisecond))},
		persistence.Row{"id": int64(6), "technician_id": int64(1), "created_at": persistence.NormalizeValue(base.Add(100 * time.Millisecond))},
	)
	repo := NewNotificationRepository(NewResilient(store, zap.NewNop(), nil))
	items := repo.ListForTechnician(context.Background(), 1)
	if len(items) != 2 || items[0].ID != 5 || items[1].ID != 6 {
		t.Fatalf("expected [5 6], got %+v", items)
	}
	if !items[0].CreatedAt.Equal(base.Add(900 * time.Millisecond)) {
		t.Errorf("CreatedAt = %v, want sub-second precision kept", items[0].CreatedAt)
	}
}

func TestInventoryFallback(t *testing.T) {
	parts := NewInventoryRepository(downDB()).ListParts(context.Background())
	if len(parts) != 4 || parts[0].UnitCost != 250 {
		t.Fatalf("unexpected parts %+v", parts)
	}
}

func TestPartsRequestsFallBackWhenRedisDown(t *testing.T) {
	client := unreachableRedis()
	defer client.Close()
	repo := NewPartsRequestRepository(client, downDB())
	if repo.Save(context.Background(), domain.PartsRequest{RequestID: "REQ1", TechnicianID: 1}) {
		t.Fatal("expected save to fail")
	}
	got := repo.ListForTechnician(context.Background(), 1)
	if len(got) != len(fallback.PartsRequests(1)) {
		t.Fatalf("expected canned history, got %d", len(got))
	}
}

func TestPartsRecordRoundTripKeepsTimes(t *testing.T) {
	delivered := time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC)
	in := domain.PartsRequest{
		RequestID:    "REQ1",
		TechnicianID: 1,
		Status:       domain.PartsRequestDelivered,
		Lines:        []domain.PartsRequestLine{{PartID: 2, Quantity: 3, Urgency: "high"}},
		PartsCount:   1,
		SubmittedAt:  time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		DeliveredAt:  &delivered,
	}
	out := fromPartsRecord(toPartsRecord(in))
	if !out.SubmittedAt.Equal(in.SubmittedAt) || out.DeliveredAt == nil || !out.DeliveredAt.Equal(delivered) {
		t.Fatalf("times not preserved: %+v", out)
	}
	if out.Lines[0].Quantity != 3 {
		t.Fatalf("lines not preserved: %+v", out.Lines)
	}
}

func TestOTPLookupAbsentWhenRedisDown(t *testing.T) {
	client := unreachableRedis()
	defer client.Close()
	repo := NewOTPRepository(client, downDB())
	if repo.Save(context.Background(), "9876543210", "111111", time.Minute) {
		t.Fatal("expected save to fail")
	}
	if _, ok := repo.Lookup(context.Background(), "9876543210"); ok {
		t.Fatal("expected no code")
	}
}
