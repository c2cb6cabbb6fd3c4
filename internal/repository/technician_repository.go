package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/fallback"
	"github.com/spec-kit/field-service/internal/persistence"
)

const technicianColumns = `id, employee_id, full_name, email, phone, role, specializations, experience_years`

// TechnicianRepository reads and edits technician profiles.
type TechnicianRepository interface {
	// GetByID always yields a technician: the stored one, the seed with the
	// same id, or the default seed technician.
	GetByID(ctx context.Context, id int64) domain.Technician
	GetByPhone(ctx context.Context, phone string) (domain.Technician, bool)
	GetByEmployeeID(ctx context.Context, employeeID string) (domain.Technician, bool)
	Create(ctx context.Context, technician domain.Technician) bool
	UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) bool
}

type technicianRepository struct {
	db *Resilient
}

// NewTechnicianRepository returns a storage-backed implementation.
func NewTechnicianRepository(db *Resilient) TechnicianRepository {
	return &technicianRepository{db: db}
}

func (r *technicianRepository) GetByID(ctx context.Context, id int64) domain.Technician {
	seed := seedTechnician(func(row persistence.Row) bool { return rowInt64(row, "id") == id })
	if seed == nil {
		seed = seedTechnician(func(row persistence.Row) bool { return rowInt64(row, "id") == fallback.DefaultTechnicianID })
	}
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE id = $1`
	row := r.db.ReadOne(ctx, "technicians.get", seed, query, id)
	if row == nil {
		row = seed
	}
	return technicianFromRow(row)
}

func (r *technicianRepository) GetByPhone(ctx context.Context, phone string) (domain.Technician, bool) {
	seed := seedTechnician(func(row persistence.Row) bool { return rowString(row, "phone") == phone })
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE phone = $1 ORDER BY id LIMIT 1`
	return r.single(ctx, "technicians.get_by_phone", seed, query, phone)
}

func (r *technicianRepository) GetByEmployeeID(ctx context.Context, employeeID string) (domain.Technician, bool) {
	seed := seedTechnician(func(row persistence.Row) bool { return rowString(row, "employee_id") == employeeID })
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE employee_id = $1`
	return r.single(ctx, "technicians.get_by_employee_id", seed, query, employeeID)
}

func (r *technicianRepository) single(ctx context.Context, op string, seed persistence.Row, query string, arg any) (domain.Technician, bool) {
	row := r.db.ReadOne(ctx, op, seed, query, arg)
	if row == nil {
		return domain.Technician{}, false
	}
	return technicianFromRow(row), true
}

func (r *technicianRepository) Create(ctx context.Context, technician domain.Technician) bool {
	const statement = `
        INSERT INTO technicians (employee_id, full_name, email, phone, role, specializations, experience_years)
        VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
        ON CONFLICT (employee_id) DO NOTHING`
	role := technician.Role
	if role == "" {
		role = domain.RoleTechnician
	}
	_, ok := r.db.Write(ctx, "technicians.create", statement,
		technician.EmployeeID,
		technician.FullName,
		technician.Email,
		technician.Phone,
		role,
		specializationsJSON(technician.Specializations),
		technician.ExperienceYears,
	)
	return ok
}

func (r *technicianRepository) UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) bool {
	if update.Empty() {
		return true
	}
	sets := []string{}
	args := []any{}
	if update.FullName != nil {
		args = append(args, *update.FullName)
		sets = append(sets, fmt.Sprintf("full_name=$%d", len(args)))
	}
	if update.Phone != nil {
		args = append(args, *update.Phone)
		sets = append(sets, fmt.Sprintf("phone=$%d", len(args)))
	}
	if update.Email != nil {
		args = append(args, *update.Email)
		sets = append(sets, fmt.Sprintf("email=$%d", len(args)))
	}
	if update.Specializations != nil {
		args = append(args, specializationsJSON(update.Specializations))
		sets = append(sets, fmt.Sprintf("specializations=$%d::jsonb", len(args)))
	}
	args = append(args, id)
	statement := fmt.Sprintf("UPDATE technicians SET %s WHERE id=$%d", strings.Join(sets, ", "), len(args))
	_, ok := r.db.Write(ctx, "technicians.update_profile", statement, args...)
	return ok
}

func seedTechnician(match func(persistence.Row) bool) persistence.Row {
	rows := fallback.Select(fallback.Technicians(), match)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

func specializationsJSON(values []string) string {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
