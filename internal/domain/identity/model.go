package identity

import (
	"time"
)

// Role is the ecosystem-side role tag carried by a principal. It gates
// platform credential operations only; vault item access is resolved per item
// and ignores this role entirely.
type Role string

const (
	RoleRead    Role = "read"
	RoleWrite   Role = "write"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

var roleRank = map[Role]int{
	RoleRead:    0,
	RoleWrite:   1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// AtLeast reports whether the role grants the privileges of min. Unknown
// roles grant nothing.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	return rank >= roleRank[min]
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Principal is an authenticated user as seen by the core. Provisioning and
// deletion live outside this subsystem.
type Principal struct {
	ID        int       `json:"id"`
	Login     string    `json:"login"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// GoogleAccount is a linked external identity record. Vault items with the
// google_oauth login type must reference one.
type GoogleAccount struct {
	ID        int       `json:"id"`
	OwnerID   int       `json:"owner_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
