package entity

import "fmt"

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// Rank defines the total ordering used for authorization checks.
// Any new intermediate role slots in between USER and ADMIN.
func (r UserRole) Rank() int {
	switch r {
	case RoleUser:
		return 0
	case RoleAdmin:
		return 1
	default:
		return -1
	}
}

func (r UserRole) Valid() bool {
	return r.Rank() >= 0
}

func ParseRole(s string) (UserRole, error) {
	role := UserRole(s)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

type User struct {
	BaseNoDelete
	Username     string   `db:"username"`
	PasswordHash string   `db:"password_hash"`
	Role         UserRole `db:"role"`
}
