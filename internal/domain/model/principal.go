package model

// Principal is the authenticated caller as carried by access-token claims.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccess is the owner-or-admin rule: a caller may act on a resource when
// they own it or hold the admin role. New resource types reuse this predicate
// instead of repeating the check per endpoint.
func (p Principal) CanAccess(ownerID string) bool {
	return p.IsAdmin() || p.UserID == ownerID
}
