// Package fallback holds the static snapshot served when storage cannot be
// reached. The snapshot is read-only: every accessor returns copies, and
// nothing here is ever written back to storage.
package fallback

import (
	"time"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/persistence"
)

// Version identifies the snapshot shipped with this build.
const Version = "2025-01-15"

// DefaultTechnicianID is the technician served when a lookup matches nothing.
const DefaultTechnicianID int64 = 1

// Technicians credited to sign-ups and OTP logins that storage could not
// resolve.
const (
	SignupTechnicianID int64 = 2
	OTPTechnicianID    int64 = 3
)

var technicians = []persistence.Row{
	{"id": int64(1), "employee_id": "EMP001", "full_name": "John Technician", "email": "john.tech@ostrich.com", "phone": "9876543220", "role": domain.RoleTechnician, "specializations": []any{"Motors", "Pumps"}, "experience_years": int64(5)},
	{"id": int64(2), "employee_id": "EMP002", "full_name": "Jane Tech", "email": "jane.tech@ostrich.com", "phone": "9876543221", "role": domain.RoleTechnician, "specializations": []any{"Generators", "Electrical"}, "experience_years": int64(3)},
	{"id": int64(3), "employee_id": "EMP003", "full_name": "Bob Service", "email": "bob.tech@ostrich.com", "phone": "9876543222", "role": domain.RoleTechnician, "specializations": []any{"Motors", "Generators"}, "experience_years": int64(7)},
}

var tickets = []persistence.Row{
	{"id": int64(1), "ticket_number": "TKT000001", "customer_name": "John Customer", "customer_phone": "9876543210", "customer_address": "123 Main St, Mumbai", "product_name": "3HP Motor", "product_model": "OST-3HP-SP", "issue_description": "Motor not starting properly", "status": "SCHEDULED", "priority": "HIGH", "assigned_technician_id": int64(1), "scheduled_date": "2025-01-15T09:00:00", "created_at": "2025-01-14T10:00:00", "completed_at": nil},
	{"id": int64(2), "ticket_number": "TKT000002", "customer_name": "Jane Smith", "customer_phone": "9876543211", "customer_address": "456 Service Ave, Delhi", "product_name": "5HP Pump", "product_model": "OST-5HP-MP", "issue_description": "Pump maintenance required", "status": "IN_PROGRESS", "priority": "MEDIUM", "assigned_technician_id": int64(1), "scheduled_date": "2025-01-15T14:00:00", "created_at": "2025-01-13T15:30:00", "completed_at": nil},
	{"id": int64(3), "ticket_number": "TKT000003", "customer_name": "Bob Wilson", "customer_phone": "9876543212", "customer_address": "789 Repair Rd, Bangalore", "product_name": "7HP Generator", "product_model": "OST-7HP-GN", "issue_description": "Generator overheating issue", "status": "COMPLETED", "priority": "HIGH", "assigned_technician_id": int64(2), "scheduled_date": "2025-01-14T11:00:00", "created_at": "2025-01-12T09:15:00", "completed_at": "2025-01-14T16:30:00"},
}

// Deliberately not in creation order; readers must sort.
var notifications = []persistence.Row{
	{"id": int64(2), "technician_id": int64(1), "title": "Urgent Ticket", "message": "High priority ticket TKT000005 needs immediate attention", "type": "urgent", "is_read": false, "ticket_id": int64(5), "created_at": "2025-01-15T09:30:00"},
	{"id": int64(3), "technician_id": int64(1), "title": "Schedule Update", "message": "Your schedule for tomorrow has been updated", "type": "schedule", "is_read": true, "ticket_id": nil, "created_at": "2025-01-14T17:00:00"},
	{"id": int64(1), "technician_id": int64(1), "title": "New Ticket Assigned", "message": "Ticket TKT000004 has been assigned to you", "type": "assignment", "is_read": false, "ticket_id": int64(4), "created_at": "2025-01-15T10:00:00"},
}

var inventory = []persistence.Row{
	{"id": int64(1), "part_number": "BRG001", "name": "Motor Bearing", "category": "Bearings", "quantity_available": int64(15), "unit_cost": 250.0, "location": "Van Inventory"},
	{"id": int64(2), "part_number": "WND001", "name": "Motor Winding", "category": "Electrical", "quantity_available": int64(5), "unit_cost": 1500.0, "location": "Warehouse"},
	{"id": int64(3), "part_number": "FLT001", "name": "Oil Filter", "category": "Filters", "quantity_available": int64(25), "unit_cost": 75.0, "location": "Van Inventory"},
	{"id": int64(4), "part_number": "BLT001", "name": "Drive Belt", "category": "Belts", "quantity_available": int64(10), "unit_cost": 125.0, "location": "Van Inventory"},
}

// Technicians returns a copy of the technician snapshot.
func Technicians() []persistence.Row { return persistence.CloneRows(technicians) }

// Tickets returns a copy of the ticket snapshot.
func Tickets() []persistence.Row { return persistence.CloneRows(tickets) }

// Notifications returns a copy of the notification snapshot.
func Notifications() []persistence.Row { return persistence.CloneRows(notifications) }

// Inventory returns a copy of the parts snapshot.
func Inventory() []persistence.Row { return persistence.CloneRows(inventory) }

// Select returns copies of the rows for which keep reports true.
func Select(rows []persistence.Row, keep func(persistence.Row) bool) []persistence.Row {
	out := make([]persistence.Row, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row.Clone())
		}
	}
	return out
}

// PartsRequests returns the canned replenishment history.
func PartsRequests(technicianID int64) []domain.PartsRequest {
	delivered := time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC)
	return []domain.PartsRequest{
		{RequestID: "REQ20250115001", TechnicianID: technicianID, Status: domain.PartsRequestApproved, PartsCount: 3, SubmittedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), EstimatedDelivery: "2025-01-17"},
		{RequestID: "REQ20250114001", TechnicianID: technicianID, Status: domain.PartsRequestDelivered, PartsCount: 2, SubmittedAt: time.Date(2025, 1, 14, 14, 30, 0, 0, time.UTC), DeliveredAt: &delivered},
		{RequestID: "REQ20250113001", TechnicianID: technicianID, Status: domain.PartsRequestPending, PartsCount: 1, SubmittedAt: time.Date(2025, 1, 13, 16, 15, 0, 0, time.UTC), EstimatedDelivery: "2025-01-18"},
	}
}
