package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleTeacher    UserRole = "TEACHER"
	RoleStudent    UserRole = "STUDENT"
)

// CanManageTimetable reports whether the role may trigger generation.
func (r UserRole) CanManageTimetable() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}
