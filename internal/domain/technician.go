package domain

// RoleTechnician is the only role a field-service login carries.
const RoleTechnician = "technician"

// Technician is a field engineer. Records are created by the seed process
// and are read-only here apart from profile edits.
type Technician struct {
	ID              int64
	EmployeeID      string
	FullName        string
	Email           string
	Phone           string
	Role            string
	Specializations []string
	ExperienceYears int
}

// ProfileUpdate carries the subset of profile fields a technician may edit.
// Nil pointers and a nil slice mean "leave unchanged".
type ProfileUpdate struct {
	FullName        *string
	Phone           *string
	Email           *string
	Specializations []string
}

// Fields lists the JSON names of the fields present in the update.
func (u ProfileUpdate) Fields() []string {
	fields := make([]string, 0, 4)
	if u.FullName != nil {
		fields = append(fields, "full_name")
	}
	if u.Phone != nil {
		fields = append(fields, "phone")
	}
	if u.Email != nil {
		fields = append(fields, "email")
	}
	if u.Specializations != nil {
		fields = append(fields, "specializations")
	}
	return fields
}

// Empty reports whether nothing would change.
func (u ProfileUpdate) Empty() bool {
	return len(u.Fields()) == 0
}
