package model

// Role is a per-tenant staff permission label. The set is closed: tenants
// cannot assign labels outside it.
type Role string

const (
	RoleDoctor Role = "Doctor"
	RoleStaff  Role = "Staff"
	RoleNurse  Role = "Nurse"
	RoleAdmin  Role = "Admin"

	// RoleNone is the absence of an assignment.
	RoleNone Role = ""
)

// Valid reports whether the label belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RoleStaff, RoleNurse, RoleAdmin:
		return true
	}
	return false
}

// Clinical reports whether the role qualifies for patient/visit mutations.
// Staff is deliberately excluded: least privilege for clinical records.
func (r Role) Clinical() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
