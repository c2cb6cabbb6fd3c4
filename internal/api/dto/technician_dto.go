package dto

import "github.com/spec-kit/field-service/internal/domain"

// TechnicianResponse is the public view of a technician.
type TechnicianResponse struct {
	ID              int64    `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	FullName        string   `json:"full_name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Role            string   `json:"role"`
	Specializations []string `json:"specializations"`
	ExperienceYears int      `json:"experience_years"`
}

// NewTechnicianResponse maps a technician.
func NewTechnicianResponse(t domain.Technician) TechnicianResponse {
	specs := t.Specializations
	if specs == nil {
		specs = []string{}
	}
	return TechnicianResponse{
		ID:              t.ID,
		EmployeeID:      t.EmployeeID,
		FullName:        t.FullName,
		Email:           t.Email,
		Phone:           t.Phone,
		Role:            t.Role,
		Specializations: specs,
		ExperienceYears: t.ExperienceYears,
	}
}

// ProfileUpdateRequest payload. Absent fields are left unchanged.
type ProfileUpdateRequest struct {
	FullName        *string  `json:"full_name"`
	Phone           *string  `json:"phone"`
	Email           *string  `json:"email"`
	Specializations []string `json:"specializations"`
}

// ToDomain converts the payload.
func (r ProfileUpdateRequest) ToDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FullName:        r.FullName,
		Phone:           r.Phone,
		Email:           r.Email,
		Specializations: r.Specializations,
	}
}

// ProfileResponse flattens the technician with profile extras.
type ProfileResponse struct {
	TechnicianResponse
	Department            string  `json:"department"`
	JoinDate              string  `json:"join_date"`
	PerformanceRating     float64 `json:"performance_rating"`
	CompletedTicketsTotal int     `json:"completed_tickets_total"`
	CertificationLevel    string  `json:"certification_level"`
	LastLogin             string  `json:"last_login"`
}
