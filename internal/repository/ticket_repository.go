package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/fallback"
	"github.com/spec-kit/field-service/internal/persistence"
)

const ticketColumns = `id, ticket_number, customer_name, customer_phone, customer_address, product_name,
               product_model, issue_description, status, priority, assigned_technician_id,
               scheduled_date, created_at, completed_at`

// TicketFilter narrows a technician's ticket list. A nil Status means any.
type TicketFilter struct {
	TechnicianID int64
	Status       *domain.TicketStatus
}

func (f TicketFilter) matches(row persistence.Row) bool {
	if rowInt64(row, "assigned_technician_id") != f.TechnicianID {
		return false
	}
	return f.Status == nil || domain.TicketStatus(rowString(row, "status")) == *f.Status
}

// TicketRepository encapsulates ticket reads and status writes.
type TicketRepository interface {
	// List returns the technician's tickets ordered by id. When storage is
	// unreachable the seed tickets are filtered by the same predicate.
	List(ctx context.Context, filter TicketFilter) []domain.Ticket
	// GetByID looks the ticket up in storage and then in the seed data.
	GetByID(ctx context.Context, id int64) (domain.Ticket, bool)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus, completedAt *time.Time) bool
}

type ticketRepository struct {
	db *Resilient
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db *Resilient) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) []domain.Ticket {
	clauses := []string{"assigned_technician_id=$1"}
	args := []any{filter.TechnicianID}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	query := `SELECT ` + ticketColumns + ` FROM service_tickets WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY id`

	seed := fallback.Select(fallback.Tickets(), filter.matches)
	rows := r.db.ReadMany(ctx, "tickets.list", seed, query, args...)
	tickets := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, ticketFromRow(row))
	}
	return tickets
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (domain.Ticket, bool) {
	query := `SELECT ` + ticketColumns + ` FROM service_tickets WHERE id=$1`
	row := r.db.ReadOne(ctx, "tickets.get", nil, query, id)
	if row == nil {
		seed := fallback.Select(fallback.Tickets(), func(row persistence.Row) bool { return rowInt64(row, "id") == id })
		if len(seed) == 0 {
			return domain.Ticket{}, false
		}
		row = seed[0]
	}
	return ticketFromRow(row), true
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus, completedAt *time.Time) bool {
	const statement = `UPDATE service_tickets SET status=$1, completed_at=COALESCE($2, completed_at) WHERE id=$3`
	var completed any
	if completedAt != nil {
		completed = completedAt.UTC()
	}
	_, ok := r.db.Write(ctx, "tickets.update_status", statement, string(status), completed, id)
	return ok
}
