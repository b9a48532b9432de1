package domain

import "time"

// Role enumerates what a user may do in the hiring workflow.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleCEO            Role = "CEO"
	RoleHRManager      Role = "HR_MANAGER"
	RoleRecruiter      Role = "RECRUITER"
	RoleDepartmentHead Role = "DEPARTMENT_HEAD"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCEO, RoleHRManager, RoleRecruiter, RoleDepartmentHead:
		return true
	default:
		return false
	}
}

// User is an internal account: HR staff, managers and interviewers.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   string
	Phone        string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user holds one of roles.
func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
