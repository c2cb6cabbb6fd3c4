package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/auth"
	"github.com/spec-kit/field-service/internal/config"
	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/events"
	"github.com/spec-kit/field-service/internal/persistence"
	"github.com/spec-kit/field-service/internal/persistence/persistencetest"
	"github.com/spec-kit/field-service/internal/repository"
	apperrors "github.com/spec-kit/field-service/pkg/util/errorutil"
)

var fixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fixture struct {
	store      *persistencetest.Store
	db         *repository.Resilient
	redis      *persistence.Redis
	dispatcher events.Dispatcher
}

func newFixture(t *testing.T, store *persistencetest.Store) *fixture {
	t.Helper()
	client := &persistence.Redis{Client: redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})}
	t.Cleanup(client.Close)
	return &fixture{
		store:      store,
		db:         repository.NewResilient(store, zap.NewNop(), nil),
		redis:      client,
		dispatcher: events.NewInMemoryDispatcher(),
	}
}

func (f *fixture) tickets() *TicketService {
	return NewTicketService(TicketDependencies{
		TicketRepo: repository.NewTicketRepository(f.db),
		Dispatcher: f.dispatcher,
		Clock:      fixedClock,
	})
}

func (f *fixture) notifications() *NotificationService {
	return NewNotificationService(config.NotificationConfig{}, NotificationDependencies{
		NotificationRepo: repository.NewNotificationRepository(f.db),
		Dispatcher:       f.dispatcher,
		Clock:            fixedClock,
	})
}

func (f *fixture) auth(t *testing.T) *AuthService {
	t.Helper()
	creds, err := auth.NewCredentials("demo.tech", "password123", 4)
	if err != nil {
		t.Fatal(err)
	}
	return NewAuthService(config.AuthConfig{DemoTechnicianID: 1, DemoOTP: "123456", OTPTTLMinutes: 5}, AuthDependencies{
		TechnicianRepo: repository.NewTechnicianRepository(f.db),
		OTPRepo:        repository.NewOTPRepository(f.redis, f.db),
		Tokens:         auth.NewTokenManager("secret", 0),
		Credentials:    creds,
	})
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestListAssignedFiltersBeforePaginating(t *testing.T) {
	svc := newFixture(t, persistencetest.Down()).tickets()

	page, err := svc.ListAssigned(context.Background(), 1, TicketListFilter{Priority: "high", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 1 || page.Tickets[0].ID != 1 {
		t.Fatalf("priority filter failed: %+v", page)
	}

	page, err = svc.ListAssigned(context.Background(), 1, TicketListFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 2 || len(page.Tickets) != 1 || page.Tickets[0].ID != 2 {
		t.Fatalf("pagination wrong: %+v", page)
	}

	page, _ = svc.ListAssigned(context.Background(), 1, TicketListFilter{})
	if page.Limit != defaultTicketLimit || page.Offset != 0 {
		t.Fatalf("defaults not applied: %+v", page)
	}

	_, err = svc.ListAssigned(context.Background(), 1, TicketListFilter{Limit: -1})
	expectCode(t, err, "VALIDATION_FAILED")
}

func TestListCompletedOnlyCompleted(t *testing.T) {
	svc := newFixture(t, persistencetest.Down()).tickets()
	page, err := svc.ListCompleted(context.Background(), 2, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 1 || page.Tickets[0].Status != domain.TicketStatusCompleted {
		t.Fatalf("unexpected page %+v", page)
	}
	if page, _ := svc.ListCompleted(context.Background(), 1, 0, 0); page.TotalCount != 0 {
		t.Fatalf("technician 1 has no completed tickets, got %d", page.TotalCount)
	}
}

func TestUpdateStatusNormalizesAndNotifies(t *testing.T) {
	store := &persistencetest.Store{OnQuery: func(string, []any) persistence.Result {
		return persistence.Failure(persistencetest.ErrUnreachable)
	}}
	f := newFixture(t, store)
	f.notifications().RegisterHandlers()

	change, err := f.tickets().UpdateStatus(context.Background(), 1, domain.StatusUpdate{TicketID: 1, Status: "completed", Notes: "done"})
	if err != nil {
		t.Fatal(err)
	}
	if change.Status != domain.TicketStatusCompleted || !change.Persisted {
		t.Fatalf("unexpected change %+v", change)
	}

	execs := f.store.Execs()
	if len(execs) != 2 {
		t.Fatalf("expected status write and notification insert, got %d statements", len(execs))
	}
	if execs[0].Args[0] != "COMPLETED" || execs[0].Args[1] == nil {
		t.Fatalf("completed_at not set: %v", execs[0].Args)
	}
	if !strings.Contains(execs[1].Statement, "INSERT INTO notifications") {
		t.Fatalf("expected notification insert, got %q", execs[1].Statement)
	}
	if msg, _ := execs[1].Args[2].(string); !strings.Contains(msg, "TKT000001") || !strings.Contains(msg, "COMPLETED") {
		t.Fatalf("unexpected notification message %q", msg)
	}
}

func TestUpdateStatusAcceptsAnyValue(t *testing.T) {
	svc := newFixture(t, persistencetest.Down()).tickets()
	change, err := svc.UpdateStatus(context.Background(), 1, domain.StatusUpdate{TicketID: 2, Status: " on_hold "})
	if err != nil {
		t.Fatal(err)
	}
	if change.Status != "ON_HOLD" || change.Persisted {
		t.Fatalf("unexpected change %+v", change)
	}
	if change.Update.PartsUsed == nil {
		t.Fatal("parts_used should default to empty")
	}
}

func TestUpdateStatusErrors(t *testing.T) {
	svc := newFixture(t, persistencetest.Down()).tickets()
	_, err := svc.UpdateStatus(context.Background(), 1, domain.StatusUpdate{TicketID: 1})
	expectCode(t, err, "VALIDATION_FAILED")
	_, err = svc.UpdateStatus(context.Background(), 1, domain.StatusUpdate{TicketID: 404, Status: "COMPLETED"})
	expectCode(t, err, "NOT_FOUND")
}

func TestTicketSideOperations(t *testing.T) {
	svc := newFixture(t, persistencetest.Down()).tickets()
	lat, lon := 19.076, 72.8777
	loc, err := svc.CaptureLocation(context.Background(), 1, &lat, &lon)
	if err != nil || loc.Address != "Approximate address for 19.076, 72.8777" {
		t.Fatalf("unexpected location %+v %v", loc, err)
	}
	bad := 200.0
	_, err = svc.CaptureLocation(context.Background(), 1, &lat, &bad)
	expectCode(t, err, "VALIDATION_FAILED")
	_, err = svc.CaptureLocation(context.Background(), 1, nil, &lon)
	expectCode(t, err, "VALIDATION_FAILED")

	if photos := svc.UploadPhotos(context.Background(), 7, 0); len(photos.URLs) != 3 || photos.URLs[0] != "https://example.com/photos/7_1.jpg" {
		t.Fatalf("unexpected photos %+v", photos)
	}

	sig, err := svc.CaptureSignature(context.Background(), 2)
	if err != nil || sig.CustomerName != "Jane Smith" {
		t.Fatalf("unexpected signature %+v %v", sig, err)
	}

	added, err := svc.AddParts(context.Background(), 1, 1, []domain.PartUsage{
		{PartID: 1, Name: "Motor Belt", Quantity: 1, Cost: 250},
		{PartID: 2, Name: "Oil Filter", Quantity: 2, Cost: 150},
		{PartID: 3, Name: "Washer", Cost: 10},
	})
	if err != nil || added.TotalCost != 560 {
		t.Fatalf("unexpected parts total %+v %v", added, err)
	}
}

func TestNotificationList(t *testing.T) {
	svc := newFixture(t, persistencetest.Down()).notifications()
	page, err := svc.List(context.Background(), 1, 2, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Notifications) != 2 || page.TotalCount != 3 || page.UnreadCount != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Notifications[0].ID != 1 || page.Notifications[1].ID != 2 {
		t.Fatalf("expected newest first, got %d,%d", page.Notifications[0].ID, page.Notifications[1].ID)
	}
	page, _ = svc.List(context.Background(), 1, 0, true)
	if page.TotalCount != 2 {
		t.Fatalf("unread filter failed: %+v", page)
	}
	if svc.UnreadCount(context.Background(), 1) != 2 {
		t.Fatal("unexpected unread count")
	}
	if receipt := svc.MarkAllRead(context.Background(), 1); receipt.Persisted {
		t.Fatal("mark-all-read should report the failed write")
	}
}

func TestDashboardFromFallback(t *testing.T) {
	f := newFixture(t, persistencetest.Down())
	svc := NewDashboardService(DashboardDependencies{
		TechnicianRepo:   repository.NewTechnicianRepository(f.db),
		TicketRepo:       repository.NewTicketRepository(f.db),
		NotificationRepo: repository.NewNotificationRepository(f.db),
		Clock:            fixedClock,
	})
	summary := svc.Summary(context.Background(), 1)
	if summary.Technician.ID != 1 || summary.Stats.Total != 2 || summary.Stats.Pending != 1 || summary.Stats.InProgress != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	overview := svc.Overview(context.Background(), 1)
	if overview.Assigned.High != 1 || overview.Assigned.Medium != 1 || overview.Assigned.Overdue != 1 {
		t.Fatalf("unexpected breakdown %+v", overview.Assigned)
	}
	if len(overview.TodaySchedule) != 2 || overview.UnreadNotifications != 2 || len(overview.RecentActivity) != 2 {
		t.Fatalf("unexpected overview %+v", overview)
	}
}

func TestSchedule(t *testing.T) {
	f := newFixture(t, persistencetest.Down())
	svc := NewScheduleService(repository.NewTicketRepository(f.db), fixedClock)
	day, err := svc.Day(context.Background(), 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if day.Date != "2025-01-15" || len(day.Appointments) != 1 || day.Appointments[0].StartTime != "09:00" {
		t.Fatalf("unexpected day %+v", day)
	}
	_, err = svc.Day(context.Background(), 1, "15/01/2025")
	expectCode(t, err, "VALIDATION_FAILED")

	week, err := svc.Week(context.Background(), 1, "2025-01-13")
	if err != nil {
		t.Fatal(err)
	}
	if len(week) != 7 || week[2].Date != "2025-01-15" || week[2].DayName != "Wednesday" || len(week[2].Tickets) != 2 {
		t.Fatalf("unexpected week %+v", week)
	}
}

func TestReports(t *testing.T) {
	f := newFixture(t, persistencetest.Down())
	svc := NewReportService(repository.NewTicketRepository(f.db), fixedClock)
	perf, err := svc.Performance(context.Background(), 2, "")
	if err != nil {
		t.Fatal(err)
	}
	if perf.Period != "month" || perf.TicketsCompleted != 1 || perf.GeneratorMaintenance != 1 || perf.MotorRepair != 0 {
		t.Fatalf("unexpected report %+v", perf)
	}
	_, err = svc.Performance(context.Background(), 2, "decade")
	expectCode(t, err, "VALIDATION_FAILED")

	for _, period := range []string{"day", "week", "year"} {
		labelled, err := svc.Performance(context.Background(), 2, period)
		if err != nil {
			t.Fatal(err)
		}
		if labelled.Period != period || labelled.TicketsCompleted != perf.TicketsCompleted {
			t.Errorf("Performance(%s) = %d completed, want %d for every period", period, labelled.TicketsCompleted, perf.TicketsCompleted)
		}
	}

	daily, err := svc.Daily(context.Background(), 2, "2025-01-14")
	if err != nil || daily.TicketsCompleted != 1 {
		t.Fatalf("unexpected daily %+v %v", daily, err)
	}
}

func TestInventory(t *testing.T) {
	f := newFixture(t, persistencetest.Down())
	svc := NewInventoryService(InventoryDependencies{
		InventoryRepo:    repository.NewInventoryRepository(f.db),
		PartsRequestRepo: repository.NewPartsRequestRepository(f.redis, f.db),
		Dispatcher:       f.dispatcher,
		Clock:            fixedClock,
	})
	catalog := svc.Parts(context.Background(), "", "van inventory")
	if len(catalog.Parts) != 3 || len(catalog.Categories) != 4 || len(catalog.Locations) != 2 {
		t.Fatalf("unexpected catalog %+v", catalog)
	}

	request, stored, err := svc.RequestParts(context.Background(), 1, []domain.PartsRequestLine{{PartID: 1, Quantity: 5}}, "Stock running low")
	if err != nil {
		t.Fatal(err)
	}
	if stored || request.RequestID != "REQ20250115120000" || request.EstimatedDelivery != "2025-01-17" || request.Status != domain.PartsRequestPending {
		t.Fatalf("unexpected request %+v stored=%v", request, stored)
	}
	_, _, err = svc.RequestParts(context.Background(), 1, nil, "")
	expectCode(t, err, "VALIDATION_FAILED")

	if got := svc.Requests(context.Background(), 1, "delivered"); len(got) != 1 {
		t.Fatalf("expected one delivered request, got %d", len(got))
	}
}

func TestAuthFlows(t *testing.T) {
	f := newFixture(t, persistencetest.Down())
	svc := f.auth(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "demo.tech", "nope")
	expectCode(t, err, "UNAUTHORIZED")

	res, err := svc.Login(ctx, "demo.tech", "password123")
	if err != nil || res.AccessToken == "" || res.Technician.ID != 1 {
		t.Fatalf("unexpected login %+v %v", res, err)
	}

	_, err = svc.Signup(ctx, SignupInput{FullName: "New Tech"})
	expectCode(t, err, "VALIDATION_FAILED")
	signup, err := svc.Signup(ctx, SignupInput{FullName: "New Tech", EmployeeID: "EMP999"})
	if err != nil || signup.Technician.ID != 2 || signup.Persisted || signup.Technician.EmployeeID != "EMP999" {
		t.Fatalf("unexpected signup %+v %v", signup, err)
	}

	_, err = svc.SendOTP(ctx, " ")
	expectCode(t, err, "VALIDATION_FAILED")
	dispatch, err := svc.SendOTP(ctx, "9876543210")
	if err != nil || dispatch.Code != "123456" || dispatch.Stored {
		t.Fatalf("unexpected dispatch %+v %v", dispatch, err)
	}

	_, err = svc.VerifyOTP(ctx, "9876543210", "000000")
	expectCode(t, err, "VALIDATION_FAILED")
	verified, err := svc.VerifyOTP(ctx, "9876543210", "123456")
	if err != nil || verified.Technician.ID != 3 || verified.Technician.Phone != "9876543210" {
		t.Fatalf("unexpected verify %+v %v", verified, err)
	}
	known, err := svc.VerifyOTP(ctx, "9876543221", "123456")
	if err != nil || known.Technician.ID != 2 {
		t.Fatalf("expected phone lookup to find technician 2, got %+v %v", known, err)
	}
}

func TestProfile(t *testing.T) {
	f := newFixture(t, persistencetest.Down())
	svc := NewProfileService(repository.NewTechnicianRepository(f.db), repository.NewTicketRepository(f.db), fixedClock)
	profile := svc.Get(context.Background(), 2)
	if profile.Technician.ID != 2 || profile.CompletedTicketsTotal != 1 || !profile.LastLogin.Equal(fixedNow) {
		t.Fatalf("unexpected profile %+v", profile)
	}

	_, err := svc.Update(context.Background(), 2, domain.ProfileUpdate{})
	expectCode(t, err, "VALIDATION_FAILED")
	bad := "not-an-email"
	_, err = svc.Update(context.Background(), 2, domain.ProfileUpdate{Email: &bad})
	expectCode(t, err, "VALIDATION_FAILED")

	name := "Jane T."
	res, err := svc.Update(context.Background(), 2, domain.ProfileUpdate{FullName: &name})
	if err != nil || res.Persisted || len(res.UpdatedFields) != 1 || res.UpdatedFields[0] != "full_name" {
		t.Fatalf("unexpected update %+v %v", res, err)
	}
}
