package domain

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Role   Role
}

// Is reports whether the principal holds the given role.
func (p *Principal) Is(role Role) bool {
	return p != nil && p.Role == role
}
