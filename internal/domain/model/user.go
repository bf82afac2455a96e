// Package model defines the domain model types used across the application.
package model

// Role values as issued by the education backend. The set is closed; any
// other string is carried through but matches none of the predicates.
const (
	RoleAdmin            = "ROLE_ADMIN"
	RoleHQTeacher        = "ROLE_HQ_TEACHER"
	RoleFranchiseTeacher = "ROLE_FRANCHISE_TEACHER"
	RoleStudent          = "ROLE_STUDENT"
)

// User is the authenticated portal user. It is replaced wholesale on login;
// only CheckAuth performs field-level refresh with fallback to prior values.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	Role        string `json:"role"`
}

// IsStudent reports whether the user holds the student role.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsTeacher reports whether the user holds any teaching role, including admin.
func (u User) IsTeacher() bool {
	return u.Role == RoleAdmin || u.Role == RoleHQTeacher || u.Role == RoleFranchiseTeacher
}
