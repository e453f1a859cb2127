package domain

import (
	"strings"
	"time"
)

// Role enumerates the actor roles of the service.
type Role string

const (
	RoleCitizen   Role = "CITIZEN"
	RoleVolunteer Role = "VOLUNTEER"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole normalizes a role string. The second value is false for unknown roles.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleCitizen:
		return RoleCitizen, true
	case RoleVolunteer:
		return RoleVolunteer, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return Role(raw), false
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account. Users are never hard-deleted.
type User struct {
	ID           string
	Role         Role
	Email        string
	Name         string
	Phone        string
	Location     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
