package shared

import "github.com/google/uuid"

// =====================================================
// ROLES
// =====================================================
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
	// RoleSystem is used by trusted internal callers (worker jobs),
	// never issued in a token.
	RoleSystem = "system"
)

// Actor is the caller identity supplied by the auth middleware
// (or constructed internally for system jobs).
type Actor struct {
	ID   uuid.UUID
	Role string
}

// SystemActor returns the trusted internal caller identity
func SystemActor() Actor {
	return Actor{ID: uuid.Nil, Role: RoleSystem}
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem
}
