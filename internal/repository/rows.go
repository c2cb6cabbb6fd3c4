package repository

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/persistence"
)

func rowInt64(row persistence.Row, key string) int64 {
	switch v := row[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	}
	return 0
}

func rowOptionalInt64(row persistence.Row, key string) *int64 {
	if row[key] == nil {
		return nil
	}
	n := rowInt64(row, key)
	return &n
}

func rowString(row persistence.Row, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

func rowFloat(row persistence.Row, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	}
	return 0
}

func rowBool(row persistence.Row, key string) bool {
	switch v := row[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// rowStrings accepts a decoded JSON array or its raw text.
func rowStrings(row persistence.Row, key string) []string {
	var raw []any
	switch v := row[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		raw = v
	case string:
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			return []string{}
		}
	case []byte:
		if err := json.Unmarshal(v, &raw); err != nil {
			return []string{}
		}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func rowTime(row persistence.Row, key string) time.Time {
	switch v := row[key].(type) {
	case string:
		t, err := persistence.ParseTimestamp(v)
		if err == nil {
			return t
		}
	case time.Time:
		return v.UTC()
	}
	return time.Time{}
}

func rowOptionalTime(row persistence.Row, key string) *time.Time {
	t := rowTime(row, key)
	if t.IsZero() {
		return nil
	}
	return &t
}

func technicianFromRow(row persistence.Row) domain.Technician {
	role := rowString(row, "role")
	if role == "" {
		role = domain.RoleTechnician
	}
	return domain.Technician{
		ID:              rowInt64(row, "id"),
		EmployeeID:      rowString(row, "employee_id"),
		FullName:        rowString(row, "full_name"),
		Email:           rowString(row, "email"),
		Phone:           rowString(row, "phone"),
		Role:            role,
		Specializations: rowStrings(row, "specializations"),
		ExperienceYears: int(rowInt64(row, "experience_years")),
	}
}

func ticketFromRow(row persistence.Row) domain.Ticket {
	return domain.Ticket{
		ID:                   rowInt64(row, "id"),
		TicketNumber:         rowString(row, "ticket_number"),
		CustomerName:         rowString(row, "customer_name"),
		CustomerPhone:        rowString(row, "customer_phone"),
		CustomerAddress:      rowString(row, "customer_address"),
		ProductName:          rowString(row, "product_name"),
		ProductModel:         rowString(row, "product_model"),
		IssueDescription:     rowString(row, "issue_description"),
		Status:               domain.TicketStatus(rowString(row, "status")),
		Priority:             domain.TicketPriority(rowString(row, "priority")),
		AssignedTechnicianID: rowInt64(row, "assigned_technician_id"),
		ScheduledDate:        rowTime(row, "scheduled_date"),
		CreatedAt:            rowTime(row, "created_at"),
		CompletedAt:          rowOptionalTime(row, "completed_at"),
	}
}

func notificationFromRow(row persistence.Row) domain.Notification {
	return domain.Notification{
		ID:           rowInt64(row, "id"),
		TechnicianID: rowInt64(row, "technician_id"),
		Title:        rowString(row, "title"),
		Message:      rowString(row, "message"),
		Type:         domain.NotificationType(rowString(row, "type")),
		IsRead:       rowBool(row, "is_read"),
		TicketID:     rowOptionalInt64(row, "ticket_id"),
		CreatedAt:    rowTime(row, "created_at"),
	}
}

func partFromRow(row persistence.Row) domain.Part {
	return domain.Part{
		ID:                rowInt64(row, "id"),
		PartNumber:        rowString(row, "part_number"),
		Name:              rowString(row, "name"),
		Category:          rowString(row, "category"),
		QuantityAvailable: int(rowInt64(row, "quantity_available")),
		UnitCost:          rowFloat(row, "unit_cost"),
		Location:          rowString(row, "location"),
	}
}
